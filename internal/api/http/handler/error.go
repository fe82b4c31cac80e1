// Package handler implements the HTTP endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/routineapp/routine-server/internal/model"
)

// handleError writes the JSON error response for err. Service errors
// carry their own status; anything unrecognized is a 500 with a generic
// message so internals never leak to clients.
func handleError(c *gin.Context, err error) {
	_ = c.Error(err)

	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apiErr.Status, gin.H{"message": apiErr.Message})
		return
	}

	if errors.Is(err, model.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "not found"})
		return
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
}
