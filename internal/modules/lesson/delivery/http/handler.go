package handler

import (
	"net/http"

	"anoa.com/learnify/internal/modules/lesson/dto"
	lesson "anoa.com/learnify/internal/modules/lesson/service"
	commonDto "anoa.com/learnify/pkg/dto"
	"anoa.com/learnify/pkg/response"
	"anoa.com/learnify/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LessonHandler struct {
	service lesson.Service
}

func NewLessonHandler(service lesson.Service) *LessonHandler {
	return &LessonHandler{service: service}
}

func (h *LessonHandler) ListPublished(c *gin.Context) {
	lessons, err := h.service.ListPublished(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"count": len(lessons), "data": lessons})
}

func (h *LessonHandler) GetPublishedBySlug(c *gin.Context) {
	l, err := h.service.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Data(c, l)
}

func (h *LessonHandler) ListByTopicSlug(c *gin.Context) {
	res, err := h.service.ListByTopicSlug(c.Request.Context(), c.Param("topicSlug"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"count": len(res.Lessons),
		"topic": res.Topic,
		"data":  res.Lessons,
	})
}

func (h *LessonHandler) ListAll(c *gin.Context) {
	lessons, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"count": len(lessons), "data": lessons})
}

func (h *LessonHandler) GetByID(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	l, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Data(c, l)
}

func (h *LessonHandler) Create(c *gin.Context) {
	var req dto.CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil && !validator.IsEmptyBody(err) {
		response.Fail(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	l, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"message": "Lesson created successfully", "data": l})
}

func (h *LessonHandler) Update(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	var req dto.UpdateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil && !validator.IsEmptyBody(err) {
		response.Fail(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	l, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Lesson updated successfully", "data": l})
}

func (h *LessonHandler) Delete(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Lesson deleted successfully", "data": gin.H{}})
}

func bindID(c *gin.Context) (uuid.UUID, bool) {
	var req commonDto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid lesson id")
		return uuid.Nil, false
	}
	return uuid.MustParse(req.ID), true
}
