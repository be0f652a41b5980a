package response

import (
	"net/http"

	"anoa.com/learnify/internal/logger"
	"anoa.com/learnify/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	log          = logger.Nop()
	exposeErrors = true
)

// Setup configures the logger used for 5xx responses and whether raw error
// details are attached to them. Details must stay hidden in production.
func Setup(l logger.Logger, exposeDetails bool) {
	if l != nil {
		log = l
	}
	exposeErrors = exposeDetails
}

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return userID, nil
}

// Success writes {"success": true, ...payload}.
func Success(c *gin.Context, code int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(code, body)
}

// Data is shorthand for a 200 with a data payload.
func Data(c *gin.Context, data any) {
	Success(c, http.StatusOK, gin.H{"data": data})
}

// Fail writes {"success": false, "message": message}.
func Fail(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "message": message})
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	if code < http.StatusInternalServerError {
		Fail(c, code, err.Error())
		return
	}

	log.With(map[string]interface{}{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	}).Error(err, "request failed")

	body := gin.H{"success": false, "message": "Server error"}
	if code == http.StatusServiceUnavailable {
		body["message"] = err.Error()
	}
	if exposeErrors {
		body["error"] = err.Error()
	}
	c.JSON(code, body)
}
