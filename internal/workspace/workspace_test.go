package workspace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/channelchangers/intelextract/internal/types"
)

func fastRunner() *Runner {
	r := NewRunner(nil)
	r.Delay = 0
	r.TriggerDelay = 0
	return r
}

func TestNewRunner_Pacing(t *testing.T) {
	r := NewRunner(nil)

	assert.Equal(t, DefaultStepDelay, r.Delay)
	assert.Less(t, DefaultTriggerDelay, DefaultStepDelay, "single tasks pace lighter than pipeline steps")
	assert.Equal(t, DefaultTriggerDelay, r.TriggerDelay)
}

func TestRunPipeline_StandardResult(t *testing.T) {
	result := &types.AnalysisResult{
		ID:       "r1",
		Title:    "Competitor Launch",
		Category: "Market Research",
		ClientRelevanceScores: []types.ClientRelevanceScore{
			{ClientName: "Darwinium", Score: 40},
			{ClientName: "EY", Score: 75},
		},
	}

	tasks, err := fastRunner().RunPipeline(context.Background(), result, nil)
	require.NoError(t, err)
	require.Len(t, tasks, 4, "no strategy deck for low relevance non-strategy results")

	gotTypes := make([]types.TaskType, len(tasks))
	for i, task := range tasks {
		gotTypes[i] = task.Type
		assert.Equal(t, types.TaskCompleted, task.Status)
		assert.NotEmpty(t, task.ID)
	}
	assert.Equal(t, []types.TaskType{types.TaskDocs, types.TaskDocs, types.TaskSheets, types.TaskDocs}, gotTypes)

	assert.Contains(t, tasks[3].Label, "EY", "client notebook uses the top-scoring client")
}

func TestRunPipeline_HighRelevanceAddsDeck(t *testing.T) {
	result := &types.AnalysisResult{
		ID:              "r1",
		Title:           "Big Shift",
		Category:        "Market Research",
		IsHighRelevance: true,
	}

	tasks, err := fastRunner().RunPipeline(context.Background(), result, nil)
	require.NoError(t, err)
	require.Len(t, tasks, 5)
	assert.Equal(t, types.TaskSlides, tasks[4].Type)
}

func TestRunPipeline_StrategyCategoryAddsDeck(t *testing.T) {
	result := &types.AnalysisResult{ID: "r1", Title: "Notes", Category: "Strategy"}

	tasks, err := fastRunner().RunPipeline(context.Background(), result, nil)
	require.NoError(t, err)
	assert.Len(t, tasks, 5)
}

func TestRunPipeline_InternalFallback(t *testing.T) {
	result := &types.AnalysisResult{ID: "r1", Title: "Notes", Category: "Operations"}

	tasks, err := fastRunner().RunPipeline(context.Background(), result, nil)
	require.NoError(t, err)
	assert.Contains(t, tasks[3].Label, "Internal")
}

func TestRunPipeline_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fastRunner().RunPipeline(ctx, &types.AnalysisResult{ID: "r1", Category: "Strategy"}, nil)

	var pipelineErr *PipelineError
	require.ErrorAs(t, err, &pipelineErr)
}

func TestRunPipeline_ProgressSink(t *testing.T) {
	var labels []string
	tasks, err := fastRunner().RunPipeline(context.Background(),
		&types.AnalysisResult{ID: "r1", Title: "Notes", Category: "Strategy"},
		func(label string) { labels = append(labels, label) })
	require.NoError(t, err)

	require.Len(t, labels, len(tasks))
	for i, task := range tasks {
		assert.Equal(t, task.Label, labels[i])
	}
}

func TestTrigger(t *testing.T) {
	task, err := fastRunner().Trigger(context.Background(), types.TaskCalendar, &types.AnalysisResult{Title: "Notes"})
	require.NoError(t, err)

	assert.Equal(t, types.TaskCalendar, task.Type)
	assert.Equal(t, types.TaskCompleted, task.Status)
	assert.Contains(t, task.Label, "Notes")
}
