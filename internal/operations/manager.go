package operations

import (
	"context"
	"log/slog"
	"time"
)

// Manager runs the steps of a registry in order over one shared state.
// A failing step aborts the run; later steps are marked skipped.
type Manager[S any] struct {
	registry *Registry[S]
	tracer   *OperationTracer
	logger   *slog.Logger
	counter  func(S) int64
}

// ManagerOption configures a Manager
type ManagerOption[S any] func(*Manager[S])

// WithTracer sets the tracer used for step spans and metrics
func WithTracer[S any](t *OperationTracer) ManagerOption[S] {
	return func(m *Manager[S]) {
		if t != nil {
			m.tracer = t
		}
	}
}

// WithItemCounter reports how many items the state holds after each step
func WithItemCounter[S any](fn func(S) int64) ManagerOption[S] {
	return func(m *Manager[S]) {
		m.counter = fn
	}
}

// NewManager creates a manager over registry
func NewManager[S any](registry *Registry[S], logger *slog.Logger, opts ...ManagerOption[S]) *Manager[S] {
	m := &Manager[S]{
		registry: registry,
		tracer:   NoopTracer(),
		logger:   logger.With(slog.String("component", "operation_manager")),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Execute runs every registered step against state. The returned
// OperationState is populated even when an error is returned.
func (m *Manager[S]) Execute(ctx context.Context, operationID string, state S) (*OperationState, error) {
	steps := m.registry.List()

	opState := NewOperationState(operationID)
	for _, step := range steps {
		opState.AddStep(NewStepState(step.ID(), step.Name()))
	}

	ctx, span := m.tracer.TraceOperation(ctx, operationID, len(steps))
	defer span.End()

	opState.Start()
	m.logger.InfoContext(ctx, "operation started",
		slog.String("operation_id", operationID),
		slog.Int("step_count", len(steps)))

	for i, step := range steps {
		if err := m.executeStep(ctx, opState, step, state); err != nil {
			for _, rest := range steps[i+1:] {
				opState.GetStep(rest.ID()).Skip("previous step " + step.ID() + " failed")
			}
			opState.Fail(err)
			m.tracer.RecordOperationCompletion(span, opState)
			m.logger.ErrorContext(ctx, "operation failed",
				slog.String("operation_id", operationID),
				slog.String("step", step.ID()),
				slog.String("error", err.Error()),
				slog.Duration("duration", opState.Duration()))
			return opState, err
		}
	}

	opState.Complete()
	m.tracer.RecordOperationCompletion(span, opState)
	m.logger.InfoContext(ctx, "operation completed",
		slog.String("operation_id", operationID),
		slog.Duration("duration", opState.Duration()))
	return opState, nil
}

func (m *Manager[S]) executeStep(ctx context.Context, opState *OperationState, step Step[S], state S) error {
	stepState := opState.GetStep(step.ID())

	if err := ctx.Err(); err != nil {
		cancelErr := NewCancellationError(step.ID(), err)
		stepState.Skip("operation cancelled")
		return cancelErr
	}

	if err := step.Validate(state); err != nil {
		valErr := &OperationError{Type: ErrorTypeValidation, Step: step.ID(), Message: "validation failed", Cause: err}
		stepState.Fail(valErr)
		return valErr
	}

	stepCtx, span := m.tracer.TraceStepExecution(ctx, opState.ID, step.ID())
	defer span.End()

	stepState.Start()
	m.logger.DebugContext(stepCtx, "step started",
		slog.String("operation_id", opState.ID),
		slog.String("step", step.ID()))

	start := time.Now()
	err := step.Execute(stepCtx, state)
	duration := time.Since(start)

	var items int64
	if m.counter != nil {
		items = m.counter(state)
		stepState.SetItems(items)
	}

	if err != nil {
		err = WrapError(err, step.ID())
		stepState.Fail(err)
		m.tracer.RecordStepCompletion(stepCtx, span, step.ID(), duration, items, err)
		return err
	}

	stepState.Complete()
	m.tracer.RecordStepCompletion(stepCtx, span, step.ID(), duration, items, nil)
	m.logger.InfoContext(stepCtx, "step completed",
		slog.String("operation_id", opState.ID),
		slog.String("step", step.ID()),
		slog.String("name", step.Name()),
		slog.Int64("items", items),
		slog.Duration("duration", duration))
	return nil
}
