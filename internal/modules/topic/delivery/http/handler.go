package handler

import (
	"net/http"

	"anoa.com/learnify/internal/modules/topic/dto"
	topic "anoa.com/learnify/internal/modules/topic/service"
	commonDto "anoa.com/learnify/pkg/dto"
	"anoa.com/learnify/pkg/response"
	"anoa.com/learnify/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TopicHandler struct {
	service topic.Service
}

func NewTopicHandler(service topic.Service) *TopicHandler {
	return &TopicHandler{service: service}
}

func (h *TopicHandler) ListPublished(c *gin.Context) {
	topics, err := h.service.ListPublished(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"count": len(topics), "data": topics})
}

func (h *TopicHandler) GetPublishedBySlug(c *gin.Context) {
	t, err := h.service.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Data(c, t)
}

func (h *TopicHandler) ListAll(c *gin.Context) {
	topics, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"count": len(topics), "data": topics})
}

func (h *TopicHandler) GetByID(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	t, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Data(c, t)
}

func (h *TopicHandler) Create(c *gin.Context) {
	var req dto.CreateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil && !validator.IsEmptyBody(err) {
		response.Fail(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	t, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"message": "Topic created successfully", "data": t})
}

func (h *TopicHandler) Update(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	var req dto.UpdateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil && !validator.IsEmptyBody(err) {
		response.Fail(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	t, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Topic updated successfully", "data": t})
}

func (h *TopicHandler) Delete(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Topic deleted successfully", "data": gin.H{}})
}

func bindID(c *gin.Context) (uuid.UUID, bool) {
	var req commonDto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid topic id")
		return uuid.Nil, false
	}
	return uuid.MustParse(req.ID), true
}
