package pipeline

import (
	"sort"
	"time"

	"nycsat/internal/analysis"
	"nycsat/internal/frame"
)

// RunStatus represents the overall run status
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// State is the complete state of one run: bookkeeping for every stage
// plus the tables and results flowing between them. A State belongs to
// the runner's goroutine and is not safe for concurrent mutation.
type State struct {
	ID        string     `json:"id"`
	Status    RunStatus  `json:"status"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	// Per-stage execution records
	Steps map[string]*StepState `json:"steps"`

	// Error if the run failed
	Error error `json:"error,omitempty"`

	// Results accumulated by the stages
	Combined     *frame.Table           `json:"-"`
	Districts    *frame.Table           `json:"-"`
	Correlations []analysis.Correlation `json:"-"`

	tables map[string]*frame.Table
}

// NewState creates a pending run state
func NewState(id string) *State {
	return &State{
		ID:        id,
		Status:    RunStatusPending,
		StartTime: time.Now(),
		Steps:     make(map[string]*StepState),
		tables:    make(map[string]*frame.Table),
	}
}

// Start marks the run as running
func (s *State) Start() {
	s.Status = RunStatusRunning
	s.StartTime = time.Now()
}

// Complete marks the run as completed
func (s *State) Complete() {
	now := time.Now()
	s.EndTime = &now
	s.Status = RunStatusCompleted
}

// Fail marks the run as failed
func (s *State) Fail(err error) {
	now := time.Now()
	s.EndTime = &now
	s.Status = RunStatusFailed
	s.Error = err
}

// Cancel marks the run as cancelled
func (s *State) Cancel() {
	now := time.Now()
	s.EndTime = &now
	s.Status = RunStatusCancelled
}

// Step returns the record of a specific stage
func (s *State) Step(id string) *StepState {
	return s.Steps[id]
}

// SetStep stores the record of a specific stage
func (s *State) SetStep(step *StepState) {
	s.Steps[step.ID] = step
}

// Table returns a named source table
func (s *State) Table(name string) (*frame.Table, bool) {
	t, ok := s.tables[name]
	return t, ok
}

// SetTable stores a named source table
func (s *State) SetTable(name string, t *frame.Table) {
	s.tables[name] = t
}

// RemoveTable discards a named source table
func (s *State) RemoveTable(name string) {
	delete(s.tables, name)
}

// TableNames returns the stored table names in sorted order
func (s *State) TableNames() []string {
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Duration returns how long the run took, or has been running
func (s *State) Duration() time.Duration {
	if s.EndTime != nil {
		return s.EndTime.Sub(s.StartTime)
	}
	return time.Since(s.StartTime)
}
