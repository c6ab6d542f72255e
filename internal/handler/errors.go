package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/farhanulkhair/be-adaptivin-sub000/internal/domain/repository"
	apperrors "github.com/farhanulkhair/be-adaptivin-sub000/internal/pkg/errors"
)

// writeError maps service errors to HTTP responses.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "error_type": "not_found"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "error_type": "conflict"})
	case errors.Is(err, repository.ErrSessionClosed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "error_type": "session_closed"})
	case errors.Is(err, repository.ErrQuestionNotServed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "error_type": "question_not_served"})
	case errors.Is(err, repository.ErrNoQuestions):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "error_type": "no_questions"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "error_type": "validation"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "error_type": "unauthorized"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "error_type": "forbidden"})
	default:
		logger.Error("internal server error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
