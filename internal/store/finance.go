package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/edcenter/console-api/internal/models"
)

type financeBackend interface {
	Balance(ctx context.Context) (*models.Balance, error)
	Overview(ctx context.Context) (*models.FinanceOverview, error)
	StudentSummary(ctx context.Context, studentID string) (*models.StudentFinanceSummary, error)
	CreatePayment(ctx context.Context, req models.CreatePaymentRequest) (*models.Payment, error)
	CreateExpense(ctx context.Context, req models.CreateExpenseRequest) (*models.Expense, error)
}

// Finance caches the balance and overview views and the payments/expenses
// recorded during this session. All money math is server-side; this store
// only mirrors responses.
type Finance struct {
	state
	backend financeBackend
	logger  *zap.Logger

	balance  *models.Balance
	overview *models.FinanceOverview
	payments []models.Payment
	expenses []models.Expense

	// The balance and overview views are independent collections, so each
	// fetch is ordered by its own generation counter rather than the shared
	// one; dispatching one must not discard the other's in-flight response.
	balanceGen  uint64
	overviewGen uint64

	paymentModalOpen bool
	expenseModalOpen bool
}

// NewFinance constructs the finance store.
func NewFinance(backend financeBackend, logger *zap.Logger) *Finance {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Finance{backend: backend, logger: logger}
}

// FinanceSnapshot is an immutable view of the store.
type FinanceSnapshot struct {
	Status
	Balance          *models.Balance         `json:"balance,omitempty"`
	Overview         *models.FinanceOverview `json:"overview,omitempty"`
	Payments         []models.Payment        `json:"payments"`
	Expenses         []models.Expense        `json:"expenses"`
	PaymentModalOpen bool                    `json:"paymentModalOpen"`
	ExpenseModalOpen bool                    `json:"expenseModalOpen"`
}

// FetchBalance refreshes the cash position, fail-closed on error.
func (s *Finance) FetchBalance(ctx context.Context) {
	s.mu.Lock()
	s.balanceGen++
	gen := s.balanceGen
	s.loading = true
	s.bump()
	s.mu.Unlock()

	balance, err := s.backend.Balance(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.balanceGen {
		return
	}
	s.loading = false
	if err != nil {
		s.logger.Warn("balance fetch failed", zap.Error(err))
		s.errMsg = message(err)
		s.balance = nil
	} else {
		s.errMsg = ""
		s.balance = balance
	}
	s.bump()
}

// FetchOverview refreshes the monthly breakdown, fail-closed on error.
func (s *Finance) FetchOverview(ctx context.Context) {
	s.mu.Lock()
	s.overviewGen++
	gen := s.overviewGen
	s.loading = true
	s.bump()
	s.mu.Unlock()

	overview, err := s.backend.Overview(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.overviewGen {
		return
	}
	s.loading = false
	if err != nil {
		s.logger.Warn("overview fetch failed", zap.Error(err))
		s.errMsg = message(err)
		s.overview = nil
	} else {
		s.errMsg = ""
		s.overview = overview
	}
	s.bump()
}

// StudentSummary fetches one student's finance view without caching it; the
// summary belongs to the student detail screen, not to this store's state.
func (s *Finance) StudentSummary(ctx context.Context, studentID string) (*models.StudentFinanceSummary, error) {
	summary, err := s.backend.StudentSummary(ctx, studentID)
	if err != nil {
		s.mu.Lock()
		s.errMsg = message(err)
		s.bump()
		s.mu.Unlock()
		return nil, err
	}
	return summary, nil
}

// RecordPayment posts a payment, appends the record on success and closes the
// payment modal.
func (s *Finance) RecordPayment(ctx context.Context, req models.CreatePaymentRequest) (*models.Payment, error) {
	s.setSaving(true)
	created, err := s.backend.CreatePayment(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	if err != nil {
		s.errMsg = message(err)
		s.bump()
		return nil, err
	}
	s.invalidateViewFetches()
	s.payments = append(s.payments, *created)
	s.paymentModalOpen = false
	s.errMsg = ""
	s.bump()
	return created, nil
}

// RecordExpense posts an expense, appends the record on success and closes
// the expense modal.
func (s *Finance) RecordExpense(ctx context.Context, req models.CreateExpenseRequest) (*models.Expense, error) {
	s.setSaving(true)
	created, err := s.backend.CreateExpense(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	if err != nil {
		s.errMsg = message(err)
		s.bump()
		return nil, err
	}
	s.invalidateViewFetches()
	s.expenses = append(s.expenses, *created)
	s.expenseModalOpen = false
	s.errMsg = ""
	s.bump()
	return created, nil
}

// SetModal opens or closes one of the store's modals ("payment", "expense").
func (s *Finance) SetModal(name string, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch name {
	case "payment":
		s.paymentModalOpen = open
	case "expense":
		s.expenseModalOpen = open
	default:
		return
	}
	s.bump()
}

// Snapshot returns a copy safe to hand to the presentation layer.
func (s *Finance) Snapshot() FinanceSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := FinanceSnapshot{
		Status:           s.status(),
		Payments:         append([]models.Payment(nil), s.payments...),
		Expenses:         append([]models.Expense(nil), s.expenses...),
		PaymentModalOpen: s.paymentModalOpen,
		ExpenseModalOpen: s.expenseModalOpen,
	}
	if s.balance != nil {
		balance := *s.balance
		snap.Balance = &balance
	}
	if s.overview != nil {
		overview := *s.overview
		snap.Overview = &overview
	}
	return snap
}

// invalidateViewFetches drops in-flight balance and overview continuations as
// well as the shared generation: a recorded payment or expense changes both
// views server-side. Callers must hold mu.
func (s *Finance) invalidateViewFetches() {
	s.invalidateFetches()
	s.balanceGen++
	s.overviewGen++
}

func (s *Finance) setSaving(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = v
	s.bump()
}
