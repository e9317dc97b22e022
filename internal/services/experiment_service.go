package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dungscout96/prompt-experiment/internal/logger"
	"github.com/dungscout96/prompt-experiment/internal/models"
	"github.com/dungscout96/prompt-experiment/internal/prompt"
	"github.com/dungscout96/prompt-experiment/internal/store"
)

// Completer dispatches a rendered prompt to a backend. Implemented by
// llm.Gateway.
type Completer interface {
	Complete(ctx context.Context, model, promptText string) (string, time.Duration, error)
}

// Validator reduces an annotation to an issue count. Implemented by
// validation.Client.
type Validator interface {
	CountIssues(ctx context.Context, annotation, schemaName, schemaVersion string) int
}

// Grader scores an annotation against its description. Implemented by
// grading.Grader.
type Grader interface {
	Grade(ctx context.Context, description, annotation, graderModel string) *models.QualityGrade
}

// Extractor pulls the annotation block out of a raw reply.
type Extractor func(text string) string

// ExperimentService runs the full annotation pipeline: render, complete,
// extract, validate, grade. Steps run strictly in sequence; each depends on
// the previous one's output.
type ExperimentService struct {
	gateway   Completer
	validator Validator
	grader    Grader
	extract   Extractor
	store     *store.Store

	vocabPath       string
	defaultTemplate string
	schemaName      string
	schemaVersion   string
	graderModel     string
}

// ExperimentServiceConfig wires an ExperimentService.
type ExperimentServiceConfig struct {
	Gateway       Completer
	Validator     Validator
	Grader        Grader
	Extract       Extractor
	Store *store.Store

	VocabPath string
	// DefaultTemplate overrides the built-in template for requests that
	// carry none. Empty means use the built-in.
	DefaultTemplate string
	SchemaName      string
	SchemaVersion   string
	GraderModel     string
}

// NewExperimentService creates the pipeline service
func NewExperimentService(cfg ExperimentServiceConfig) *ExperimentService {
	return &ExperimentService{
		gateway:         cfg.Gateway,
		validator:       cfg.Validator,
		grader:          cfg.Grader,
		extract:         cfg.Extract,
		store:           cfg.Store,
		vocabPath:       cfg.VocabPath,
		defaultTemplate: cfg.DefaultTemplate,
		schemaName:      cfg.SchemaName,
		schemaVersion:   cfg.SchemaVersion,
		graderModel:     cfg.GraderModel,
	}
}

// RunRequest is one pipeline invocation.
type RunRequest struct {
	Model          string
	PromptTemplate string
	Description    string
	GraderModel    string
}

// Run executes the pipeline for one description. Precondition failures
// (missing description, malformed template, missing credential surfaced by
// the gateway) abort before partial state; everything after a successful
// completion degrades per step, so a run with an invalid or ungradable
// annotation still returns a result.
func (s *ExperimentService) Run(ctx context.Context, req RunRequest) (*models.RunResult, error) {
	if req.Description == "" {
		return nil, fmt.Errorf("description is required")
	}

	template := s.resolveTemplate(req)
	if err := prompt.Validate(template); err != nil {
		return nil, fmt.Errorf("invalid prompt template: %w", err)
	}

	vocab, err := os.ReadFile(s.vocabPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load HED vocabulary: %w", err)
	}

	rendered := prompt.Render(template, string(vocab), req.Description)

	text, elapsed, err := s.gateway.Complete(ctx, req.Model, rendered)
	if err != nil {
		return nil, err
	}

	result := &models.RunResult{
		ModelResponse: text,
		Prompt:        rendered,
		InferenceTime: elapsed.Seconds(),
	}

	result.Annotation = s.extract(text)
	if result.Annotation == "" {
		// No annotation block: skip validation and grading entirely, but
		// record why nothing was graded.
		logger.Info("No annotation block in %s response", req.Model)
		result.QualityGrade = s.grader.Grade(ctx, req.Description, "", s.resolveGraderModel(req))
		return result, nil
	}

	issues := s.validator.CountIssues(ctx, result.Annotation, s.schemaName, s.schemaVersion)
	result.ValidationIssues = &issues

	result.QualityGrade = s.grader.Grade(ctx, req.Description, result.Annotation, s.resolveGraderModel(req))

	return result, nil
}

// Save persists a completed run as an experiment record and returns the
// storage key and assigned identifier.
func (s *ExperimentService) Save(req RunRequest, result *models.RunResult, name string) (string, int, error) {
	record := &models.ExperimentRecord{
		ExperimentName:   name,
		Model:            req.Model,
		PromptTemplate:   s.resolveTemplate(req),
		Description:      req.Description,
		ModelResponse:    result.ModelResponse,
		Annotation:       result.Annotation,
		ValidationIssues: result.ValidationIssues,
		QualityGrade:     result.QualityGrade,
		InferenceTime:    result.InferenceTime,
		Timestamp:        time.Now(),
		Prompt:           result.Prompt,
	}

	return s.store.Create(record)
}

func (s *ExperimentService) resolveTemplate(req RunRequest) string {
	if req.PromptTemplate != "" {
		return req.PromptTemplate
	}
	if s.defaultTemplate != "" {
		return s.defaultTemplate
	}
	return prompt.DefaultTemplate
}

func (s *ExperimentService) resolveGraderModel(req RunRequest) string {
	if req.GraderModel != "" {
		return req.GraderModel
	}
	return s.graderModel
}
