package pipeline

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepState_Lifecycle(t *testing.T) {
	step := NewStepState("load", "Source Loading")
	assert.Equal(t, StepStatusPending, step.Status)
	assert.Nil(t, step.StartTime)
	assert.Equal(t, time.Duration(0), step.Duration())

	step.Start()
	assert.Equal(t, StepStatusActive, step.Status)
	require.NotNil(t, step.StartTime)

	step.Complete()
	assert.Equal(t, StepStatusCompleted, step.Status)
	require.NotNil(t, step.EndTime)
	assert.GreaterOrEqual(t, step.Duration(), time.Duration(0))
}

func TestStepState_Fail(t *testing.T) {
	step := NewStepState("merge", "Table Merging")
	step.Start()

	err := fmt.Errorf("duplicate join key")
	step.Fail(err)
	assert.Equal(t, StepStatusFailed, step.Status)
	assert.Equal(t, err, step.Error)
	require.NotNil(t, step.EndTime)
}

func TestStepState_Skip(t *testing.T) {
	step := NewStepState("impute", "Missing Value Imputation")
	step.Skip("imputation disabled")
	assert.Equal(t, StepStatusSkipped, step.Status)
	assert.Equal(t, "imputation disabled", step.Message)
}

func TestBaseStep(t *testing.T) {
	base := NewBaseStep("coerce", "Score Coercion")
	assert.Equal(t, "coerce", base.ID())
	assert.Equal(t, "Score Coercion", base.Name())
	assert.NoError(t, base.Validate(NewState("run")))
}

func TestState_Tables(t *testing.T) {
	state := NewState("run-1")
	assert.Equal(t, RunStatusPending, state.Status)

	_, ok := state.Table("sat_results")
	assert.False(t, ok)

	state.SetTable("survey", buildTable(t, "survey", floatCol("rr_s", 89)))
	state.SetTable("ap_2010", buildTable(t, "ap_2010", floatCol("Total Exams Taken", 49)))
	assert.Equal(t, []string{"ap_2010", "survey"}, state.TableNames())

	tbl, ok := state.Table("survey")
	require.True(t, ok)
	assert.Equal(t, 1, tbl.NumRows())

	state.RemoveTable("survey")
	_, ok = state.Table("survey")
	assert.False(t, ok)
	assert.Equal(t, []string{"ap_2010"}, state.TableNames())
}

func TestState_Lifecycle(t *testing.T) {
	state := NewState("run-2")

	state.Start()
	assert.Equal(t, RunStatusRunning, state.Status)

	state.Complete()
	assert.Equal(t, RunStatusCompleted, state.Status)
	require.NotNil(t, state.EndTime)
	assert.GreaterOrEqual(t, state.Duration(), time.Duration(0))

	failed := NewState("run-3")
	failed.Start()
	failed.Fail(fmt.Errorf("stage load failed"))
	assert.Equal(t, RunStatusFailed, failed.Status)
	assert.Error(t, failed.Error)

	cancelled := NewState("run-4")
	cancelled.Start()
	cancelled.Cancel()
	assert.Equal(t, RunStatusCancelled, cancelled.Status)
}
