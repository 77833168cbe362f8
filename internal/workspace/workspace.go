// Package workspace runs the document automation pipeline: a fixed
// sequence of workspace operations derived from one analysis result.
package workspace

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/channelchangers/intelextract/internal/types"
)

// DefaultStepDelay paces pipeline steps so downstream rate limits are
// never hit in a burst.
const DefaultStepDelay = 1200 * time.Millisecond

// DefaultTriggerDelay paces ad-hoc single tasks, which carry less load
// than a full pipeline run.
const DefaultTriggerDelay = 800 * time.Millisecond

// PipelineError reports a failed pipeline; no tasks from a failed run are
// recorded.
type PipelineError struct {
	Step    string
	Message string
	Cause   error
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("automation pipeline failed at %q: %s: %v", e.Step, e.Message, e.Cause)
	}
	return fmt.Sprintf("automation pipeline failed at %q: %s", e.Step, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// Runner executes automation pipelines.
type Runner struct {
	// Delay is the pause between pipeline steps; TriggerDelay paces
	// ad-hoc tasks. Tests set both to zero.
	Delay        time.Duration
	TriggerDelay time.Duration

	log   *zap.Logger
	newID func() string
}

// NewRunner creates a Runner with the default pacing.
func NewRunner(log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		Delay:        DefaultStepDelay,
		TriggerDelay: DefaultTriggerDelay,
		log:          log,
		newID:        func() string { return uuid.NewString() },
	}
}

// step is one planned pipeline operation.
type step struct {
	taskType types.TaskType
	label    string
}

// planPipeline derives the step list for a result. The strategy deck is
// appended only for high-relevance or strategy-category results.
func planPipeline(result *types.AnalysisResult) []step {
	client := result.TopClient()
	if client == "" {
		client = "Internal"
	}

	steps := []step{
		{types.TaskDocs, fmt.Sprintf("Transcript preserved: %s", result.Title)},
		{types.TaskDocs, fmt.Sprintf("Category brief indexed: %s", result.Category)},
		{types.TaskSheets, "Knowledge index row appended"},
		{types.TaskDocs, fmt.Sprintf("Client notebook updated: %s", client)},
	}
	if result.IsHighRelevance || result.Category == "Strategy" {
		steps = append(steps, step{types.TaskSlides, "Strategy deck drafted"})
	}
	return steps
}

// ProgressFunc receives each step's label as it starts. A nil sink is
// allowed.
type ProgressFunc func(label string)

// RunPipeline executes the full automation sequence for a result. Each
// step reports to the progress sink, then pacing latency applies before
// execution; the returned history contains one completed task per step.
// The run is all-or-nothing: a failed or cancelled step discards the
// whole run.
func (r *Runner) RunPipeline(ctx context.Context, result *types.AnalysisResult, onProgress ProgressFunc) ([]types.AutomationTask, error) {
	if result == nil {
		return nil, &PipelineError{Step: "plan", Message: "no result to automate"}
	}

	steps := planPipeline(result)
	tasks := make([]types.AutomationTask, 0, len(steps))

	for _, s := range steps {
		if onProgress != nil {
			onProgress(s.label)
		}
		if r.Delay > 0 {
			select {
			case <-ctx.Done():
				return nil, &PipelineError{Step: s.label, Message: "pipeline cancelled", Cause: ctx.Err()}
			case <-time.After(r.Delay):
			}
		}

		task, err := r.execute(ctx, s)
		if err != nil {
			return nil, &PipelineError{Step: s.label, Message: "step failed", Cause: err}
		}
		tasks = append(tasks, task)

		r.log.Info("automation step completed",
			zap.String("type", string(s.taskType)),
			zap.String("label", s.label))
	}

	return tasks, nil
}

// Trigger runs a single ad-hoc workspace operation outside the pipeline,
// with its own shorter pacing latency.
func (r *Runner) Trigger(ctx context.Context, taskType types.TaskType, result *types.AnalysisResult) (types.AutomationTask, error) {
	if result == nil {
		return types.AutomationTask{}, &PipelineError{Step: string(taskType), Message: "no result to automate"}
	}
	if r.TriggerDelay > 0 {
		select {
		case <-ctx.Done():
			return types.AutomationTask{}, &PipelineError{Step: string(taskType), Message: "task cancelled", Cause: ctx.Err()}
		case <-time.After(r.TriggerDelay):
		}
	}
	return r.execute(ctx, step{taskType, fmt.Sprintf("Manual %s task: %s", taskType, result.Title)})
}

// execute performs one workspace operation. The document backends are
// simulated; the task record is what downstream consumers depend on.
func (r *Runner) execute(ctx context.Context, s step) (types.AutomationTask, error) {
	if err := ctx.Err(); err != nil {
		return types.AutomationTask{}, err
	}
	return types.AutomationTask{
		ID:     r.newID(),
		Type:   s.taskType,
		Status: types.TaskCompleted,
		Label:  s.label,
	}, nil
}
