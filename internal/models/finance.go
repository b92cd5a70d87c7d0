package models

// PaymentMethod enumerates how money changed hands.
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "CASH"
	MethodCard     PaymentMethod = "CARD"
	MethodTransfer PaymentMethod = "TRANSFER"
	MethodOther    PaymentMethod = "OTHER"
)

// Valid returns true when the method is a supported value.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodCard, MethodTransfer, MethodOther:
		return true
	default:
		return false
	}
}

// PaymentStatus enumerates payment processing states.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
)

// Payment mirrors a payment record owned by the upstream API.
type Payment struct {
	ID        string        `json:"id"`
	StudentID string        `json:"studentId"`
	GroupID   string        `json:"groupId,omitempty"`
	Amount    float64       `json:"amount"`
	Method    PaymentMethod `json:"method"`
	Status    PaymentStatus `json:"status"`
	PaidAt    string        `json:"paidAt,omitempty"`
}

// Expense mirrors a standalone expense record.
type Expense struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Category string        `json:"category"`
	Amount   float64       `json:"amount"`
	Method   PaymentMethod `json:"method"`
	PaidAt   string        `json:"paidAt,omitempty"`
}

// CreatePaymentRequest holds payload for recording a payment.
type CreatePaymentRequest struct {
	StudentID string        `json:"studentId" validate:"required"`
	GroupID   string        `json:"groupId,omitempty"`
	Amount    float64       `json:"amount" validate:"required,gt=0"`
	Method    PaymentMethod `json:"method" validate:"required"`
	PaidAt    string        `json:"paidAt,omitempty"`
}

// CreateExpenseRequest holds payload for recording an expense.
type CreateExpenseRequest struct {
	Title    string        `json:"title" validate:"required"`
	Category string        `json:"category" validate:"required"`
	Amount   float64       `json:"amount" validate:"required,gt=0"`
	Method   PaymentMethod `json:"method" validate:"required"`
	PaidAt   string        `json:"paidAt,omitempty"`
}

// Balance is the server-computed cash position.
type Balance struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`
}

// FinanceOverview is the server-computed monthly breakdown.
type FinanceOverview struct {
	Month         string  `json:"month,omitempty"`
	Income        float64 `json:"income"`
	Expenses      float64 `json:"expenses"`
	Net           float64 `json:"net"`
	PaymentCount  int     `json:"paymentCount"`
	ExpenseCount  int     `json:"expenseCount"`
	DebtorCount   int     `json:"debtorCount"`
	TotalDebt     float64 `json:"totalDebt"`
	ActiveStudent int     `json:"activeStudents"`
}

// StudentFinanceSummary is the per-student balance view.
type StudentFinanceSummary struct {
	StudentID string    `json:"studentId"`
	Paid      float64   `json:"paid"`
	Due       float64   `json:"due"`
	Debt      float64   `json:"debt"`
	Payments  []Payment `json:"payments,omitempty"`
}
