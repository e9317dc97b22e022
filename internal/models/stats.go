package models

import (
	"time"
)

// Statistics models

// ModelStats aggregates stored experiment records for one model.
type ModelStats struct {
	Model            string   `json:"model"`
	Runs             int      `json:"runs"`
	ValidRuns        int      `json:"valid_runs"`
	AvgIssues        *float64 `json:"avg_issues,omitempty"`
	AvgQualityScore  *float64 `json:"avg_quality_score,omitempty"`
	AvgInferenceTime float64  `json:"avg_inference_time"`
}

// StatsResponse is the aggregate view over the whole experiment store.
type StatsResponse struct {
	TotalExperiments int          `json:"total_experiments"`
	ValidatedRuns    int          `json:"validated_runs"`
	GradedRuns       int          `json:"graded_runs"`
	ModelStats       []ModelStats `json:"model_stats"`
	LastUpdated      time.Time    `json:"last_updated"`
}
