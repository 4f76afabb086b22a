package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"debt-ledger-backend/internal/ledger"
	"debt-ledger-backend/internal/models"
)

type DebtHandler struct {
	service *ledger.Service
}

func NewDebtHandler(s *ledger.Service) *DebtHandler {
	return &DebtHandler{service: s}
}

func (h *DebtHandler) Create(c *gin.Context) {
	var payload struct {
		CustomerID      string          `json:"customer_id"`
		Description     string          `json:"description"`
		ProductType     string          `json:"product_type"`
		InstallmentType string          `json:"installment_type"`
		TotalAmount     decimal.Decimal `json:"total_amount"`
		DueDate         string          `json:"due_date"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	customerID, err := uuid.Parse(payload.CustomerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer ID"})
		return
	}

	var dueDate *time.Time
	if payload.DueDate != "" {
		parsed, err := time.Parse(time.RFC3339, payload.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due date, expected RFC3339"})
			return
		}
		dueDate = &parsed
	}

	debt, err := h.service.CreateDebt(c.Request.Context(), ledger.CreateDebtInput{
		CustomerID:      customerID,
		Description:     payload.Description,
		ProductType:     payload.ProductType,
		InstallmentType: payload.InstallmentType,
		TotalAmount:     payload.TotalAmount,
		DueDate:         dueDate,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, debt)
}

func (h *DebtHandler) List(c *gin.Context) {
	var f ledger.DebtFilter
	if status := c.Query("status"); status != "" {
		f.Status = models.DebtStatus(status)
	}
	if raw := c.Query("customer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer ID"})
			return
		}
		f.CustomerID = &id
	}

	debts, err := h.service.ListDebts(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, debts)
}

func (h *DebtHandler) ListOverdue(c *gin.Context) {
	debts, err := h.service.ListOverdueDebts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, debts)
}

func (h *DebtHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid debt ID"})
		return
	}

	debt, err := h.service.GetDebt(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, debt)
}

func (h *DebtHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid debt ID"})
		return
	}

	if err := h.service.DeleteDebt(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "debt deleted"})
}
