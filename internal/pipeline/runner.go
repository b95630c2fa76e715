package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"nycsat/internal/infrastructure"
)

// Runner executes the registered stages in order, one at a time. A stage
// failure skips everything after it; cancellation stops the run at the
// next stage boundary.
type Runner struct {
	registry *Registry
	logger   *slog.Logger
}

// NewRunner creates a runner over a registry
func NewRunner(registry *Registry, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		registry: registry,
		logger:   logger.With(slog.String("component", "runner")),
	}
}

// Run executes every stage in registration order. The returned state is
// always populated, also when the run failed partway through.
func (r *Runner) Run(ctx context.Context) (*State, error) {
	steps := r.registry.List()
	if len(steps) == 0 {
		return nil, fmt.Errorf("no stages registered")
	}

	state := NewState(infrastructure.GenerateTraceID())
	ctx = infrastructure.WithTraceID(ctx, state.ID)

	for _, step := range steps {
		state.SetStep(NewStepState(step.ID(), step.Name()))
	}

	state.Start()
	r.logger.InfoContext(ctx, "run_start",
		slog.String("run_id", state.ID),
		slog.Int("stage_count", len(steps)))

	for i, step := range steps {
		select {
		case <-ctx.Done():
			r.logger.WarnContext(ctx, "run_cancelled",
				slog.String("run_id", state.ID),
				slog.String("stage", step.ID()))
			r.skipRemaining(state, steps[i:], "run cancelled")
			state.Cancel()
			return state, NewCancellationError(step.ID())
		default:
		}

		stepState := state.Step(step.ID())

		if err := step.Validate(state); err != nil {
			var stageErr *StageError
			if !errors.As(err, &stageErr) {
				stageErr = NewValidationError(step.ID(), err.Error())
			}
			stepState.Fail(stageErr)
			r.skipRemaining(state, steps[i+1:], fmt.Sprintf("stage %s failed", step.ID()))
			state.Fail(stageErr)
			r.logger.ErrorContext(ctx, "stage_validation_failed",
				slog.String("run_id", state.ID),
				slog.String("stage", step.ID()),
				slog.String("error", err.Error()))
			return state, stageErr
		}

		stepState.Start()
		r.logger.InfoContext(ctx, "stage_start",
			slog.String("run_id", state.ID),
			slog.String("stage", step.ID()),
			slog.Int("stage_number", i+1),
			slog.Int("total_stages", len(steps)))

		if err := step.Execute(ctx, state); err != nil {
			stageErr := NewExecutionError(step.ID(), err)
			stepState.Fail(stageErr)
			r.skipRemaining(state, steps[i+1:], fmt.Sprintf("stage %s failed", step.ID()))
			state.Fail(stageErr)
			r.logger.ErrorContext(ctx, "stage_failed",
				slog.String("run_id", state.ID),
				slog.String("stage", step.ID()),
				slog.String("error", err.Error()))
			return state, stageErr
		}

		// A stage may mark itself skipped instead of completing
		if stepState.Status == StepStatusActive {
			stepState.Complete()
		}
		r.logger.InfoContext(ctx, "stage_completed",
			slog.String("run_id", state.ID),
			slog.String("stage", step.ID()),
			slog.String("status", string(stepState.Status)),
			slog.Duration("duration", stepState.Duration()))
	}

	state.Complete()
	r.logger.InfoContext(ctx, "run_completed",
		slog.String("run_id", state.ID),
		slog.Duration("duration", state.Duration()))
	return state, nil
}

// skipRemaining marks every not-yet-finished stage as skipped
func (r *Runner) skipRemaining(state *State, steps []Step, reason string) {
	for _, step := range steps {
		stepState := state.Step(step.ID())
		if stepState != nil && stepState.Status == StepStatusPending {
			stepState.Skip(reason)
		}
	}
}
