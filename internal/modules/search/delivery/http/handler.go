package handler

import (
	"net/http"

	"anoa.com/learnify/internal/modules/search/dto"
	search "anoa.com/learnify/internal/modules/search/service"
	"anoa.com/learnify/pkg/response"
	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	service search.Service
}

func NewSearchHandler(service search.Service) *SearchHandler {
	return &SearchHandler{service: service}
}

func (h *SearchHandler) Search(c *gin.Context) {
	var query dto.SearchQuery
	_ = c.ShouldBindQuery(&query)

	term, results, err := h.service.Search(c.Request.Context(), query.Q)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"query":        term,
		"totalResults": results.Total(),
		"data":         results,
	})
}

func (h *SearchHandler) AdvancedSearch(c *gin.Context) {
	var query dto.AdvancedSearchQuery
	_ = c.ShouldBindQuery(&query)

	term, results, err := h.service.AdvancedSearch(c.Request.Context(), query)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"query": term,
		"filters": dto.Filters{
			Type:      query.Type,
			Level:     query.Level,
			TopicSlug: query.TopicSlug,
		},
		"totalResults": results.Total(),
		"data":         results,
	})
}

func (h *SearchHandler) Suggestions(c *gin.Context) {
	suggestions, err := h.service.Suggestions(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Data(c, suggestions)
}
