// Package controller holds the request parsing and error mapping shared by
// the resource controllers.
package controller

import (
	"context"
	"errors"
	"io"
	"net/http"

	"bdcserver/logger"
	"bdcserver/model"
	"bdcserver/services"
	"bdcserver/store"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// APIPrefix is the route group every resource controller registers under.
const APIPrefix = "/api/v1"

// ParseID reads the :id path parameter as an ObjectID. On failure it writes
// a 400 and returns false.
func ParseID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// BindDocument reads a JSON object body. An empty body is an empty document.
func BindDocument(c *gin.Context) (map[string]interface{}, bool) {
	body := map[string]interface{}{}
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return nil, false
	}
	if body == nil {
		body = map[string]interface{}{}
	}
	return body, true
}

// QueryDocument returns the URL query parameters as a document, keeping the
// first value of repeated keys.
func QueryDocument(c *gin.Context) map[string]interface{} {
	doc := map[string]interface{}{}
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			doc[key] = values[0]
		}
	}
	return doc
}

// Error writes the response for err.
func Error(c *gin.Context, err error) {
	_ = c.Error(err)

	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden access"})
	case errors.Is(err, services.ErrIncompleteProgress):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "What are you doing???"})
	case errors.Is(err, store.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.Is(err, context.DeadlineExceeded):
		logger.From(c).Warn("store call timed out", zap.Error(err))
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request timeout"})
	default:
		logger.From(c).Error("store call failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
