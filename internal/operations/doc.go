// Package operations provides a small step execution framework for batch
// operations over a shared in-memory state.
//
// Core Components:
//
// Step: one unit of work, generic over the state type it reads and extends.
//
// Registry: keeps steps in registration order, which is the execution order.
//
// Manager: runs the registered steps sequentially, validating each step
// before executing it. The first failure aborts the run and the remaining
// steps are marked skipped, so no partial result is ever handed on.
//
// OperationState / StepState: runtime status, timing and metadata of a run
// and of each of its steps.
//
// OperationTracer: wraps the run and every step in OpenTelemetry spans and
// records step counters and durations.
//
// Example usage:
//
//	registry := operations.NewRegistry[*Table]()
//	registry.Register(joinStep)
//	registry.Register(calendarStep)
//
//	manager := operations.NewManager(registry, logger,
//		operations.WithTracer[*Table](tracer))
//	state, err := manager.Execute(ctx, runID, table)
package operations
