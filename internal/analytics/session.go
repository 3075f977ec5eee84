package analytics

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/MrJamesThe3rd/spendlens/internal/expense"
)

type State string

const (
	StateIdle      State = "idle"
	StateAnalyzing State = "analyzing"
	StateReady     State = "ready"
)

var (
	ErrAnalysisInProgress = errors.New("analysis already in progress")
	ErrResultDiscarded    = errors.New("analysis result discarded")
)

// Ticket identifies one analysis run and carries the snapshot it computes from.
type Ticket struct {
	generation uint64
	Snapshot   []*expense.Expense
}

// Status is a point-in-time view of a Session.
type Status struct {
	State       State
	Report      *Report
	StartedAt   time.Time
	CompletedAt time.Time
}

// Session models the Idle -> Analyzing -> Ready lifecycle of savings analysis.
// Re-analysis goes Ready -> Analyzing and fully replaces the previous report.
// Cancel moves Analyzing back to Idle; the cancelled run's result is dropped
// when it arrives.
type Session struct {
	mu sync.Mutex

	generator Generator
	now       func() time.Time

	generation  uint64
	state       State
	report      *Report
	startedAt   time.Time
	completedAt time.Time
}

func NewSession(g Generator) *Session {
	return &Session{
		generator: g,
		now:       time.Now,
		state:     StateIdle,
	}
}

// Begin enters Analyzing with a private copy of snapshot. It returns false
// without side effects when a run is already in flight.
func (s *Session) Begin(snapshot []*expense.Expense) (Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateAnalyzing {
		return Ticket{}, false
	}

	s.generation++
	s.state = StateAnalyzing
	s.report = nil
	s.startedAt = s.now()
	s.completedAt = time.Time{}

	return Ticket{generation: s.generation, Snapshot: copySnapshot(snapshot)}, true
}

// Complete moves to Ready with report if t is the current run.
func (s *Session) Complete(t Ticket, report Report) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAnalyzing || t.generation != s.generation {
		return false
	}

	s.state = StateReady
	s.report = new(report.clone())
	s.completedAt = s.now()

	return true
}

// Cancel abandons the in-flight run. It is a no-op unless Analyzing.
func (s *Session) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cancelLocked(s.generation)
}

func (s *Session) cancel(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cancelLocked(t.generation)
}

func (s *Session) cancelLocked(generation uint64) bool {
	if s.state != StateAnalyzing || generation != s.generation {
		return false
	}

	// Bumping the generation invalidates the outstanding ticket.
	s.generation++
	s.state = StateIdle
	s.report = nil
	s.startedAt = time.Time{}

	return true
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		State:       s.state,
		StartedAt:   s.startedAt,
		CompletedAt: s.completedAt,
	}

	if s.report != nil {
		st.Report = new(s.report.clone())
	}

	return st
}

// Await computes the report for t, holds it for delay and then completes the
// run. Cancelling ctx during the delay cancels the run.
func (s *Session) Await(ctx context.Context, t Ticket, delay time.Duration) (Report, error) {
	report := s.generator.Analyze(t.Snapshot)

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			s.cancel(t)
			return Report{}, ctx.Err()
		case <-timer.C:
		}
	}

	if !s.Complete(t, report) {
		return Report{}, ErrResultDiscarded
	}

	return report, nil
}

// Run is Begin followed by Await.
func (s *Session) Run(ctx context.Context, snapshot []*expense.Expense, delay time.Duration) (Report, error) {
	t, ok := s.Begin(snapshot)
	if !ok {
		return Report{}, ErrAnalysisInProgress
	}

	return s.Await(ctx, t, delay)
}

// clone copies r so callers cannot reach the stored insights or tips.
func (r Report) clone() Report {
	cp := r
	cp.Insights = slices.Clone(r.Insights)

	for i := range cp.Insights {
		cp.Insights[i].Tips = slices.Clone(cp.Insights[i].Tips)
	}

	return cp
}

func copySnapshot(src []*expense.Expense) []*expense.Expense {
	dst := make([]*expense.Expense, len(src))
	for i, e := range src {
		cp := *e
		dst[i] = &cp
	}

	return dst
}
