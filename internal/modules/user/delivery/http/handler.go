package handler

import (
	"net/http"

	"anoa.com/learnify/internal/modules/user/dto"
	"anoa.com/learnify/internal/modules/user/service"
	"anoa.com/learnify/pkg/response"
	"anoa.com/learnify/pkg/validator"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service service.AuthService
}

func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		if validator.IsEmptyBody(err) {
			response.Fail(c, http.StatusBadRequest, "Please provide email and password")
			return
		}
		response.Fail(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	res, err := h.service.Login(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":     res.Token,
		"tokenType": res.TokenType,
		"expiresAt": res.ExpiresAt,
		"user":      res.User,
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	user, err := h.service.Me(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Data(c, user)
}
