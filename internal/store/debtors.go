package store

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/edcenter/console-api/internal/models"
)

type debtorBackend interface {
	ListDebtors(ctx context.Context, minDebt float64) ([]models.Debtor, error)
}

// Debtors caches the debtor list for the current minimum-debt filter. Search
// filtering and the statistics summary are computed locally; neither touches
// the network.
type Debtors struct {
	state
	backend debtorBackend
	logger  *zap.Logger

	items   []models.Debtor
	minDebt float64
	search  string
}

// NewDebtors constructs the debtor store.
func NewDebtors(backend debtorBackend, logger *zap.Logger) *Debtors {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Debtors{backend: backend, logger: logger}
}

// DebtorsSnapshot is an immutable view: the filtered list plus its stats.
type DebtorsSnapshot struct {
	Status
	Items   []models.Debtor    `json:"items"`
	Stats   models.DebtorStats `json:"stats"`
	MinDebt float64            `json:"minDebt"`
	Search  string             `json:"search"`
}

// Fetch loads debtors above the minimum-debt threshold, fail-closed on error.
// Changing the search text afterwards re-filters locally without re-fetching.
func (s *Debtors) Fetch(ctx context.Context, minDebt float64) {
	gen := s.beginFetch()
	s.mu.Lock()
	s.minDebt = minDebt
	s.mu.Unlock()

	items, err := s.backend.ListDebtors(ctx, minDebt)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(gen) {
		return
	}
	s.loading = false
	if err != nil {
		s.logger.Warn("debtor fetch failed", zap.Error(err))
		s.errMsg = message(err)
		s.items = nil
	} else {
		s.errMsg = ""
		s.items = items
	}
	s.bump()
}

// SetSearch updates the local filter text. Pure re-filter, no network.
func (s *Debtors) SetSearch(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = text
	s.bump()
}

// Snapshot returns the filtered debtors and their stats. The stats are
// recomputed from the filtered list on every call, so they always agree with
// what is shown.
func (s *Debtors) Snapshot() DebtorsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	filtered := FilterDebtors(s.items, s.search)
	return DebtorsSnapshot{
		Status:  s.status(),
		Items:   filtered,
		Stats:   ComputeDebtorStats(filtered),
		MinDebt: s.minDebt,
		Search:  s.search,
	}
}

// FilterDebtors keeps debtors whose name, phone, or any group name contains
// the search text, case-insensitive. An empty search keeps everything.
func FilterDebtors(debtors []models.Debtor, search string) []models.Debtor {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]models.Debtor, 0, len(debtors))
	for _, debtor := range debtors {
		if needle == "" || debtorMatches(debtor, needle) {
			copied := debtor
			copied.Groups = append([]models.DebtorGroup(nil), debtor.Groups...)
			out = append(out, copied)
		}
	}
	return out
}

func debtorMatches(debtor models.Debtor, needle string) bool {
	if strings.Contains(strings.ToLower(debtor.FullName), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(debtor.Phone), needle) {
		return true
	}
	for _, group := range debtor.Groups {
		if strings.Contains(strings.ToLower(group.Name), needle) {
			return true
		}
	}
	return false
}

// ComputeDebtorStats is a pure fold over a debtor list. The same input always
// produces the same output.
func ComputeDebtorStats(debtors []models.Debtor) models.DebtorStats {
	stats := models.DebtorStats{TotalDebtors: len(debtors)}
	groups := make(map[string]struct{})
	for _, debtor := range debtors {
		stats.TotalAmount += debtor.TotalDebt
		if debtor.TotalDebt > stats.HighestDebt {
			stats.HighestDebt = debtor.TotalDebt
		}
		for _, group := range debtor.Groups {
			groups[group.GroupID] = struct{}{}
		}
	}
	if stats.TotalDebtors > 0 {
		stats.AverageDebt = stats.TotalAmount / float64(stats.TotalDebtors)
	}
	stats.GroupCount = len(groups)
	return stats
}
