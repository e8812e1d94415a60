package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MohamedAsif4008/Pahana-Edu-sub000/internal/billing"
)

// abortWithError maps billing error kinds onto HTTP statuses.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, billing.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, billing.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, billing.ErrInvalidState):
		status = http.StatusConflict
	case errors.Is(err, billing.ErrInsufficientStock):
		status = http.StatusConflict
	case errors.Is(err, billing.ErrCreditLimitExceeded):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, billing.ErrConcurrentConflict):
		status = http.StatusConflict
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
