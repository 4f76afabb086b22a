package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"debt-ledger-backend/internal/ledger"
)

// writeError maps the ledger error taxonomy onto HTTP. Partial-write windows
// are reported distinctly so operators can tell them from plain failures.
func writeError(c *gin.Context, err error) {
	var inconsistent *ledger.InconsistentStateError
	switch {
	// Checked before the sentinels: a partial write wrapping a not-found must
	// not be reported as a clean 404.
	case errors.As(err, &inconsistent):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":              inconsistent.Error(),
			"inconsistent_state": true,
			"applied":            inconsistent.Applied,
		})
	case errors.Is(err, ledger.ErrCustomerNotFound),
		errors.Is(err, ledger.ErrDebtNotFound),
		errors.Is(err, ledger.ErrPaymentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrAlreadySettled),
		errors.Is(err, ledger.ErrNoUpdates):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case ledger.IsTransient(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "transient": true})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
