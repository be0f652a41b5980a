package handler

import (
	"net/http"

	"anoa.com/learnify/internal/modules/upload/dto"
	"anoa.com/learnify/internal/modules/upload/service"
	"anoa.com/learnify/pkg/response"
	"anoa.com/learnify/pkg/validator"
	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	service service.UploadService
}

func NewUploadHandler(service service.UploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

func (h *UploadHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "File is required")
		return
	}

	res, err := h.service.UploadImage(c.Request.Context(), file)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"message": "Image uploaded successfully", "data": res})
}

func (h *UploadHandler) DeleteImage(c *gin.Context) {
	var req dto.DeleteImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	if err := h.service.DeleteImage(c.Request.Context(), req.URL); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Image deleted successfully", "data": gin.H{}})
}
