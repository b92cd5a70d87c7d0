package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edcenter/console-api/internal/models"
	"github.com/edcenter/console-api/internal/store"
	"github.com/edcenter/console-api/pkg/response"
)

// FinanceHandler exposes the finance and debtor stores.
type FinanceHandler struct {
	finance *store.Finance
	debtors *store.Debtors
}

// NewFinanceHandler constructs FinanceHandler.
func NewFinanceHandler(finance *store.Finance, debtors *store.Debtors) *FinanceHandler {
	return &FinanceHandler{finance: finance, debtors: debtors}
}

// Balance godoc
// @Summary Center balance
// @Tags Finance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /finance/balance [get]
func (h *FinanceHandler) Balance(c *gin.Context) {
	h.finance.FetchBalance(c.Request.Context())
	response.JSON(c, http.StatusOK, h.finance.Snapshot(), nil)
}

// Overview godoc
// @Summary Finance overview
// @Tags Finance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /finance/overview [get]
func (h *FinanceHandler) Overview(c *gin.Context) {
	h.finance.FetchOverview(c.Request.Context())
	response.JSON(c, http.StatusOK, h.finance.Snapshot(), nil)
}

// Debtors godoc
// @Summary List debtors
// @Description Fetches debtors above the threshold; search filters the cached list locally
// @Tags Finance
// @Produce json
// @Param minDebt query number false "Minimum outstanding debt"
// @Param search query string false "Filter by name, phone, or group"
// @Success 200 {object} response.Envelope
// @Router /finance/debtors [get]
func (h *FinanceHandler) Debtors(c *gin.Context) {
	minDebt, _ := strconv.ParseFloat(c.DefaultQuery("minDebt", "0"), 64)
	h.debtors.Fetch(c.Request.Context(), minDebt)
	h.debtors.SetSearch(strings.TrimSpace(c.Query("search")))
	response.JSON(c, http.StatusOK, h.debtors.Snapshot(), nil)
}

// StudentSummary godoc
// @Summary Per-student finance summary
// @Tags Finance
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /finance/students/{id}/summary [get]
func (h *FinanceHandler) StudentSummary(c *gin.Context) {
	summary, err := h.finance.StudentSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// CreatePayment godoc
// @Summary Record a payment
// @Tags Finance
// @Accept json
// @Produce json
// @Param payload body models.CreatePaymentRequest true "Payment payload"
// @Success 201 {object} response.Envelope
// @Router /finance/payments [post]
func (h *FinanceHandler) CreatePayment(c *gin.Context) {
	var req models.CreatePaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	payment, err := h.finance.RecordPayment(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, payment)
}

// CreateExpense godoc
// @Summary Record an expense
// @Tags Finance
// @Accept json
// @Produce json
// @Param payload body models.CreateExpenseRequest true "Expense payload"
// @Success 201 {object} response.Envelope
// @Router /finance/expenses [post]
func (h *FinanceHandler) CreateExpense(c *gin.Context) {
	var req models.CreateExpenseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	expense, err := h.finance.RecordExpense(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, expense)
}

// Modal godoc
// @Summary Toggle a finance modal
// @Tags Finance
// @Accept json
// @Produce json
// @Param payload body modalRequest true "Modal payload"
// @Success 200 {object} response.Envelope
// @Router /finance/modals [put]
func (h *FinanceHandler) Modal(c *gin.Context) {
	var req modalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.finance.SetModal(req.Name, req.Open)
	response.JSON(c, http.StatusOK, h.finance.Snapshot(), nil)
}
