package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"seniorcare/internal/core"
)

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "Request failed",
			"path", c.Request.URL.Path, "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrVersionConflict):
		return http.StatusConflict
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptySource),
		errors.Is(err, core.ErrMissingDate),
		errors.Is(err, core.ErrEmptyFirstName),
		errors.Is(err, core.ErrEmptyLastName),
		errors.Is(err, core.ErrMissingBirthdate),
		errors.Is(err, core.ErrFutureBirthdate):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrCategoryMissing):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
