package operations

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStepState_Lifecycle(t *testing.T) {
	s := NewStepState("calendar", "Calendar Decomposer")
	assert.Equal(t, StepStatusPending, s.GetStatus())
	assert.Equal(t, time.Duration(0), s.Duration())

	s.Start()
	assert.Equal(t, StepStatusActive, s.GetStatus())
	assert.NotNil(t, s.StartTime)

	s.SetItems(3)
	s.Complete()
	assert.Equal(t, StepStatusCompleted, s.GetStatus())
	assert.NotNil(t, s.EndTime)
	assert.GreaterOrEqual(t, s.Duration(), time.Duration(0))
	assert.Equal(t, int64(3), s.Items)
}

func TestStepState_FailAndSkip(t *testing.T) {
	s := NewStepState("window", "Window")
	s.Start()
	s.Fail(errors.New("boom"))
	assert.Equal(t, StepStatusFailed, s.GetStatus())
	assert.Equal(t, "boom", s.Message)

	k := NewStepState("flags", "Flags")
	k.Skip("previous step failed")
	assert.Equal(t, StepStatusSkipped, k.GetStatus())
	assert.Equal(t, "previous step failed", k.Message)
}

func TestBaseStage(t *testing.T) {
	b := NewBaseStage("join", "Joiner")
	assert.Equal(t, "join", b.ID())
	assert.Equal(t, "Joiner", b.Name())

	var nilStage *BaseStage
	assert.Empty(t, nilStage.ID())
	assert.Empty(t, nilStage.Name())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry[*counterState]()

	assert.Error(t, r.Register(nil))
	assert.NoError(t, r.Register(newCountStep("a")))
	assert.NoError(t, r.Register(newCountStep("b")))
	assert.Error(t, r.Register(newCountStep("a")), "duplicate ids are rejected")
	assert.Error(t, r.Register(newCountStep("")))

	assert.Equal(t, 2, r.Count())
	steps := r.List()
	assert.Equal(t, "a", steps[0].ID())
	assert.Equal(t, "b", steps[1].ID())
}
