package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/connect4-rules/internal/domain"
)

// statusFor maps a rejection kind to the response status.
func statusFor(err error) int {
	if errors.Is(err, domain.ErrNotFound) {
		return http.StatusNotFound
	}
	switch domain.KindOf(err) {
	case domain.ErrConfiguration, domain.ErrBoardViolation:
		return http.StatusBadRequest
	case domain.ErrIllegalTransition:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)

	var v *domain.Violation
	switch {
	case errors.As(err, &v) && status != http.StatusInternalServerError:
		c.JSON(status, gin.H{"error": v.Reason, "violation": v})
	case status == http.StatusNotFound:
		c.JSON(status, gin.H{"error": "Game not found"})
	default:
		c.JSON(status, gin.H{"error": "Internal server error"})
	}
}
