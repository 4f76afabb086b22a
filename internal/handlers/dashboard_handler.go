package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"debt-ledger-backend/internal/ledger"
)

type DashboardHandler struct {
	service *ledger.Service
}

func NewDashboardHandler(s *ledger.Service) *DashboardHandler {
	return &DashboardHandler{service: s}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.service.DashboardStats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *DashboardHandler) Export(c *gin.Context) {
	bundle, err := h.service.ExportAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bundle)
}
