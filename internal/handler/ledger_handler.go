package handler

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/lennonalatorre/claimflow/internal/port"
)

// LedgerHandler serves per-counselor payout workbooks.
type LedgerHandler struct {
	ledger port.LedgerWriter
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledger port.LedgerWriter) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// Download handles GET /api/v1/ledger/:counselor
func (h *LedgerHandler) Download(c *gin.Context) {
	counselor := c.Param("counselor")
	if counselor == "" {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "counselor is required")
		return
	}

	path := h.ledger.WorkbookPath(counselor)
	if _, err := os.Stat(path); err != nil {
		RespondError(c, http.StatusNotFound, "NOT_FOUND", "no ledger exists for this counselor yet")
		return
	}

	c.FileAttachment(path, filepath.Base(path))
}
