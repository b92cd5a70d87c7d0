package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/edcenter/console-api/internal/models"
)

// Balance fetches the server-computed cash position.
func (c *Client) Balance(ctx context.Context) (*models.Balance, error) {
	var balance models.Balance
	if err := c.do(ctx, http.MethodGet, "/finance/balance", "/finance/balance", nil, nil, &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

// Overview fetches the monthly finance breakdown.
func (c *Client) Overview(ctx context.Context) (*models.FinanceOverview, error) {
	var overview models.FinanceOverview
	if err := c.do(ctx, http.MethodGet, "/finance/overview", "/finance/overview", nil, nil, &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

// ListDebtors fetches debtor records above the minimum debt threshold.
func (c *Client) ListDebtors(ctx context.Context, minDebt float64) ([]models.Debtor, error) {
	query := url.Values{}
	if minDebt > 0 {
		query.Set("minDebt", strconv.FormatFloat(minDebt, 'f', -1, 64))
	}
	var debtors []models.Debtor
	if err := c.do(ctx, http.MethodGet, "/finance/debtors", "/finance/debtors", query, nil, &debtors); err != nil {
		return nil, err
	}
	return debtors, nil
}

// StudentSummary fetches the per-student finance view.
func (c *Client) StudentSummary(ctx context.Context, studentID string) (*models.StudentFinanceSummary, error) {
	var summary models.StudentFinanceSummary
	if err := c.do(ctx, http.MethodGet, "/finance/students/"+studentID+"/summary", "/finance/students/:id/summary", nil, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// CreatePayment records a student payment.
func (c *Client) CreatePayment(ctx context.Context, req models.CreatePaymentRequest) (*models.Payment, error) {
	var payment models.Payment
	if err := c.do(ctx, http.MethodPost, "/finance/payments", "/finance/payments", nil, req, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// CreateExpense records an expense.
func (c *Client) CreateExpense(ctx context.Context, req models.CreateExpenseRequest) (*models.Expense, error) {
	var expense models.Expense
	if err := c.do(ctx, http.MethodPost, "/finance/expenses", "/finance/expenses", nil, req, &expense); err != nil {
		return nil, err
	}
	return &expense, nil
}
