package operations

import (
	"context"
	"sync"
	"time"
)

// Step is one stage of an operation. Every step of an operation shares a
// state value of type S, which it reads and extends in place.
type Step[S any] interface {
	ID() string
	Name() string

	// Validate reports whether the columns the step depends on are present
	Validate(state S) error

	Execute(ctx context.Context, state S) error
}

// StepStatus is the lifecycle position of a step
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// StepState is the runtime record of one step. Items holds the number of
// rows the shared state carried when the step finished.
type StepState struct {
	mu sync.RWMutex

	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Status    StepStatus `json:"status"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Items     int64      `json:"items"`
	Message   string     `json:"message,omitempty"`
	Error     error      `json:"-"`
}

// NewStepState returns a pending step record
func NewStepState(id, name string) *StepState {
	return &StepState{ID: id, Name: name, Status: StepStatusPending}
}

// Start marks the step active
func (s *StepState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.StartTime = &now
	s.Status = StepStatusActive
}

// Complete marks the step completed
func (s *StepState) Complete() {
	s.end(StepStatusCompleted, nil, "")
}

// Fail marks the step failed with err
func (s *StepState) Fail(err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	s.end(StepStatusFailed, err, msg)
}

// Skip marks a step that never ran
func (s *StepState) Skip(reason string) {
	s.end(StepStatusSkipped, nil, reason)
}

func (s *StepState) end(status StepStatus, err error, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = status
	s.Error = err
	s.Message = msg
}

// SetItems records the row count seen after the step ran
func (s *StepState) SetItems(n int64) {
	s.mu.Lock()
	s.Items = n
	s.mu.Unlock()
}

// GetStatus returns the current status
func (s *StepState) GetStatus() StepStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Status
}

// Duration is zero for a step that never started and keeps growing for
// an active one
func (s *StepState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch {
	case s.StartTime == nil:
		return 0
	case s.EndTime == nil:
		return time.Since(*s.StartTime)
	default:
		return s.EndTime.Sub(*s.StartTime)
	}
}

// BaseStage supplies ID and Name for embedding step types
type BaseStage struct {
	id   string
	name string
}

func NewBaseStage(id, name string) BaseStage {
	return BaseStage{id: id, name: name}
}

func (b *BaseStage) ID() string {
	if b == nil {
		return ""
	}
	return b.id
}

func (b *BaseStage) Name() string {
	if b == nil {
		return ""
	}
	return b.name
}
