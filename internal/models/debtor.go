package models

// DebtorGroup is the per-group share of a student's debt.
type DebtorGroup struct {
	GroupID string  `json:"groupId"`
	Name    string  `json:"name"`
	Debt    float64 `json:"debt"`
}

// Debtor aggregates a student's outstanding debt. TotalDebt is computed
// server-side as the sum of the per-group debts.
type Debtor struct {
	StudentID string        `json:"studentId"`
	FullName  string        `json:"fullName"`
	Phone     string        `json:"phone"`
	TotalDebt float64       `json:"totalDebt"`
	Groups    []DebtorGroup `json:"groups,omitempty"`
}

// DebtorStats summarises a debtor list. All fields are a pure fold over the
// list they were computed from.
type DebtorStats struct {
	TotalDebtors int     `json:"totalDebtors"`
	TotalAmount  float64 `json:"totalAmount"`
	AverageDebt  float64 `json:"averageDebt"`
	HighestDebt  float64 `json:"highestDebt"`
	GroupCount   int     `json:"groupCount"`
}
