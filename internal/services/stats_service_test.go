package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dungscout96/prompt-experiment/internal/models"
	"github.com/dungscout96/prompt-experiment/internal/store"
)

func seedRecord(t *testing.T, st *store.Store, model string, issues *int, score *float64, inference float64) {
	t.Helper()
	record := &models.ExperimentRecord{
		Model:            model,
		PromptTemplate:   "tpl {{hed_vocab}} {{description}}",
		Description:      "desc",
		ModelResponse:    "reply",
		Annotation:       "(Event)",
		ValidationIssues: issues,
		InferenceTime:    inference,
		Timestamp:        time.Now(),
	}
	if score != nil {
		record.QualityGrade = &models.QualityGrade{Score: score, Response: "graded", Model: "gemini-1.5-flash"}
	}
	_, _, err := st.Create(record)
	require.NoError(t, err)
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestGetStats_Empty(t *testing.T) {
	service := NewStatsService(store.New(t.TempDir()))

	stats, err := service.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalExperiments)
	assert.Empty(t, stats.ModelStats)
}

func TestGetStats_Aggregation(t *testing.T) {
	st := store.New(t.TempDir())

	seedRecord(t, st, "llama3", intPtr(0), floatPtr(8), 1.0)
	seedRecord(t, st, "llama3", intPtr(2), floatPtr(6), 3.0)
	seedRecord(t, st, "llama3", intPtr(-1), nil, 2.0) // validation failed
	seedRecord(t, st, "gemini-1.5-flash", intPtr(0), nil, 0.5)

	service := NewStatsService(st)
	stats, err := service.GetStats()
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalExperiments)
	assert.Equal(t, 3, stats.ValidatedRuns, "sentinel runs do not count as validated")
	assert.Equal(t, 2, stats.GradedRuns)

	require.Len(t, stats.ModelStats, 2)
	// Sorted by run count descending.
	llama := stats.ModelStats[0]
	assert.Equal(t, "llama3", llama.Model)
	assert.Equal(t, 3, llama.Runs)
	assert.Equal(t, 1, llama.ValidRuns)
	require.NotNil(t, llama.AvgIssues)
	assert.InDelta(t, 1.0, *llama.AvgIssues, 0.001) // (0+2)/2, sentinel excluded
	require.NotNil(t, llama.AvgQualityScore)
	assert.InDelta(t, 7.0, *llama.AvgQualityScore, 0.001)
	assert.InDelta(t, 2.0, llama.AvgInferenceTime, 0.001)

	gemini := stats.ModelStats[1]
	assert.Equal(t, "gemini-1.5-flash", gemini.Model)
	assert.Equal(t, 1, gemini.ValidRuns)
	assert.Nil(t, gemini.AvgQualityScore)
}

func TestGetStats_UnvalidatedRunsHaveNoIssueAverage(t *testing.T) {
	st := store.New(t.TempDir())
	seedRecord(t, st, "llama3", nil, nil, 1.0)

	service := NewStatsService(st)
	stats, err := service.GetStats()
	require.NoError(t, err)

	require.Len(t, stats.ModelStats, 1)
	assert.Nil(t, stats.ModelStats[0].AvgIssues)
	assert.Equal(t, 0, stats.ValidatedRuns)
}
