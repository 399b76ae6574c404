package memory

import (
	"context"
	"sync"

	"seniorcare/internal/core"
	"seniorcare/internal/reports"
)

// Sink collects published reports in memory.
type Sink struct {
	mu      sync.Mutex
	reports []core.MonthlyFundReport
}

var _ reports.Sink = (*Sink)(nil)

func New() *Sink {
	return &Sink{}
}

func (s *Sink) PublishFundReport(_ context.Context, report core.MonthlyFundReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, report)
	return nil
}

// Published returns a copy of everything published so far.
func (s *Sink) Published() []core.MonthlyFundReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.MonthlyFundReport, len(s.reports))
	copy(out, s.reports)
	return out
}
