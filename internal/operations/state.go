package operations

import (
	"sync"
	"time"
)

// OperationStatus represents the overall operation status
type OperationStatus string

const (
	OperationStatusPending   OperationStatus = "pending"
	OperationStatusRunning   OperationStatus = "running"
	OperationStatusCompleted OperationStatus = "completed"
	OperationStatusFailed    OperationStatus = "failed"
	OperationStatusCancelled OperationStatus = "cancelled"
)

// OperationState records the progress of one operation run
type OperationState struct {
	mu sync.RWMutex

	ID        string          `json:"id"`
	Status    OperationStatus `json:"status"`
	StartTime time.Time       `json:"start_time"`
	EndTime   *time.Time      `json:"end_time,omitempty"`
	Error     error           `json:"-"`

	steps map[string]*StepState
	order []string
}

// NewOperationState creates a new operation state
func NewOperationState(id string) *OperationState {
	return &OperationState{
		ID:        id,
		Status:    OperationStatusPending,
		StartTime: time.Now(),
		steps:     make(map[string]*StepState),
	}
}

// Start marks the operation as running
func (p *OperationState) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Status = OperationStatusRunning
	p.StartTime = time.Now()
}

// Complete marks the operation as completed
func (p *OperationState) Complete() {
	p.finish(OperationStatusCompleted, nil)
}

// Fail marks the operation as failed
func (p *OperationState) Fail(err error) {
	if GetErrorType(err) == ErrorTypeCancellation {
		p.finish(OperationStatusCancelled, err)
		return
	}
	p.finish(OperationStatusFailed, err)
}

func (p *OperationState) finish(status OperationStatus, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = status
	p.Error = err
}

// AddStep registers the state of a step about to run
func (p *OperationState) AddStep(s *StepState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.steps[s.ID]; !ok {
		p.order = append(p.order, s.ID)
	}
	p.steps[s.ID] = s
}

// GetStep returns the state of the step with the given ID, or nil
func (p *OperationState) GetStep(id string) *StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.steps[id]
}

// Steps returns the step states in execution order
func (p *OperationState) Steps() []*StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]*StepState, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.steps[id])
	}
	return out
}

// Duration returns the elapsed run time
func (p *OperationState) Duration() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.EndTime != nil {
		return p.EndTime.Sub(p.StartTime)
	}
	return time.Since(p.StartTime)
}
