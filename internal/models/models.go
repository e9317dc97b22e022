package models

import (
	"time"
)

// Core domain models

// QualityGrade holds the outcome of the grading pass for one annotation.
// Score is nil when the grader's reply contained no recognizable 0-10
// rating; that is a valid terminal state, not an error.
type QualityGrade struct {
	Score    *float64 `json:"score"`
	Response string   `json:"response"`
	Model    string   `json:"model"`
}

// ExperimentRecord is one persisted experiment run. ExperimentName is the
// only field that may change after creation.
type ExperimentRecord struct {
	ExperimentID     int           `json:"experiment_id"`
	ExperimentName   string        `json:"experiment_name,omitempty"`
	Model            string        `json:"model"`
	PromptTemplate   string        `json:"prompt_template"`
	Description      string        `json:"description"`
	ModelResponse    string        `json:"model_response"`
	Annotation       string        `json:"annotation"`
	ValidationIssues *int          `json:"validation_issues,omitempty"`
	QualityGrade     *QualityGrade `json:"quality_grade,omitempty"`
	InferenceTime    float64       `json:"inference_time"`
	Timestamp        time.Time     `json:"timestamp"`
	Prompt           string        `json:"prompt,omitempty"`
}

// ExperimentSummary is the listing view of a record.
type ExperimentSummary struct {
	ExperimentID     int       `json:"experiment_id"`
	Filename         string    `json:"filename"`
	ExperimentName   string    `json:"experiment_name,omitempty"`
	Model            string    `json:"model"`
	Timestamp        time.Time `json:"timestamp"`
	Description      string    `json:"description"`
	ValidationIssues *int      `json:"validation_issues,omitempty"`
	QualityScore     *float64  `json:"quality_score,omitempty"`
}

// RunResult is everything one pipeline run produced before it is saved.
type RunResult struct {
	ModelResponse    string        `json:"response"`
	Prompt           string        `json:"prompt"`
	Annotation       string        `json:"annotation"`
	ValidationIssues *int          `json:"validation_issues,omitempty"`
	QualityGrade     *QualityGrade `json:"quality_grade,omitempty"`
	InferenceTime    float64       `json:"inference_time"`
}

// Schedule re-runs a fixed set of descriptions against one model on a cron
// expression, saving each run as a labelled experiment record.
type Schedule struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Model        string     `json:"model"`
	GraderModel  string     `json:"grader_model,omitempty"`
	Descriptions []string   `json:"descriptions"`
	CronExpr     string     `json:"cron_expr"`
	Enabled      bool       `json:"enabled"`
	LastRun      *time.Time `json:"last_run,omitempty"`
	NextRun      *time.Time `json:"next_run,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ModelInfo represents information about an available model from a backend
type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
