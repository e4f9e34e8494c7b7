package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/connect4-rules/internal/contract"
	"github.com/iamasit07/connect4-rules/internal/domain"
)

type validateResponse struct {
	OK        bool              `json:"ok"`
	Violation *domain.Violation `json:"violation,omitempty"`
}

// Validate checks a transaction supplied by the client without recording
// it. Signers are only checked with ?signers=true.
func Validate(c *gin.Context) {
	var tx contract.Transaction
	if err := c.ShouldBindJSON(&tx); err != nil {
		if v, ok := asViolation(err); ok {
			c.JSON(http.StatusOK, validateResponse{Violation: v})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	check := contract.VerifyLegality
	if c.Query("signers") == "true" {
		check = contract.Verify
	}
	if err := check(tx); err != nil {
		v, _ := asViolation(err)
		c.JSON(http.StatusOK, validateResponse{Violation: v})
		return
	}
	c.JSON(http.StatusOK, validateResponse{OK: true})
}

func asViolation(err error) (*domain.Violation, bool) {
	kind := domain.KindOf(err)
	if kind == "" {
		return nil, false
	}
	var v *domain.Violation
	if errors.As(err, &v) {
		return v, true
	}
	return &domain.Violation{Kind: kind, Reason: err.Error()}, true
}
