package http

import (
	"errors"
	"net/http"

	"github.com/liuxiankun1234/fmock/internal/usecase"

	"github.com/gin-gonic/gin"
)

// respondError maps usecase errors onto HTTP statuses. A throttled create
// is 422 with the remaining wait, matching the write-cooldown contract.
func respondError(c *gin.Context, err error) {
	var throttled *usecase.ThrottledError
	switch {
	case errors.As(err, &throttled):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":               "You are posting too fast",
			"retry_after_seconds": int(throttled.RetryAfter.Seconds()),
		})
	case errors.Is(err, usecase.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
	case errors.Is(err, usecase.ErrCommentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong, please try again"})
	}
}
