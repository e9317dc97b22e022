package api

import (
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dungscout96/prompt-experiment/internal/llm"
	"github.com/dungscout96/prompt-experiment/internal/models"
	"github.com/dungscout96/prompt-experiment/internal/services"
	"github.com/dungscout96/prompt-experiment/internal/store"
)

// Experiment request/response structures

type RunExperimentRequest struct {
	Model          string `json:"model" binding:"required"`
	PromptTemplate string `json:"prompt_template,omitempty"`
	Description    string `json:"description" binding:"required"`
	GraderModel    string `json:"grader_model,omitempty"`
}

type SaveExperimentRequest struct {
	ExperimentName   string               `json:"experiment_name,omitempty"`
	Model            string               `json:"model" binding:"required"`
	PromptTemplate   string               `json:"prompt_template" binding:"required"`
	Description      string               `json:"description" binding:"required"`
	ModelResponse    string               `json:"model_response" binding:"required"`
	Annotation       string               `json:"annotation,omitempty"`
	ValidationIssues *int                 `json:"validation_issues,omitempty"`
	QualityGrade     *models.QualityGrade `json:"quality_grade,omitempty"`
	InferenceTime    float64              `json:"inference_time,omitempty"`
	Prompt           string               `json:"prompt,omitempty"`
}

type RenameExperimentRequest struct {
	Name string `json:"name" binding:"required"`
}

// runExperiment handles POST /api/v1/experiments/run
func (s *Server) runExperiment(c *gin.Context) {
	var req RunExperimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	result, err := s.experiments.Run(c.Request.Context(), services.RunRequest{
		Model:          req.Model,
		PromptTemplate: req.PromptTemplate,
		Description:    req.Description,
		GraderModel:    req.GraderModel,
	})
	if err != nil {
		// Missing credential is a precondition failure the caller can fix,
		// not an execution failure worth retrying.
		if errors.Is(err, llm.ErrMissingAPIKey) {
			s.errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		s.errorResponse(c, http.StatusInternalServerError, "Failed to run experiment: "+err.Error())
		return
	}

	s.successResponse(c, result)
}

// saveExperiment handles POST /api/v1/experiments
func (s *Server) saveExperiment(c *gin.Context) {
	var req SaveExperimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	record := &models.ExperimentRecord{
		ExperimentName:   req.ExperimentName,
		Model:            req.Model,
		PromptTemplate:   req.PromptTemplate,
		Description:      req.Description,
		ModelResponse:    req.ModelResponse,
		Annotation:       req.Annotation,
		ValidationIssues: req.ValidationIssues,
		QualityGrade:     req.QualityGrade,
		InferenceTime:    req.InferenceTime,
		Timestamp:        time.Now(),
		Prompt:           req.Prompt,
	}

	key, id, err := s.store.Create(record)
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to save experiment: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"filename":      key,
			"experiment_id": id,
		},
		Message: "Experiment saved successfully",
	})
}

// listExperiments handles GET /api/v1/experiments
func (s *Server) listExperiments(c *gin.Context) {
	summaries, err := s.store.List()
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to list experiments: "+err.Error())
		return
	}

	s.successResponse(c, summaries)
}

// getExperiment handles GET /api/v1/experiments/:key
func (s *Server) getExperiment(c *gin.Context) {
	key := c.Param("key")

	record, err := s.store.Get(key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.errorResponse(c, http.StatusNotFound, "Experiment not found: "+key)
			return
		}
		s.errorResponse(c, http.StatusInternalServerError, "Failed to load experiment: "+err.Error())
		return
	}

	s.successResponse(c, record)
}

// downloadExperiment handles GET /api/v1/experiments/:key/download
func (s *Server) downloadExperiment(c *gin.Context) {
	key := c.Param("key")

	path, err := s.store.Path(key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.errorResponse(c, http.StatusNotFound, "Experiment not found: "+key)
			return
		}
		s.errorResponse(c, http.StatusInternalServerError, "Failed to resolve experiment: "+err.Error())
		return
	}

	c.FileAttachment(path, filepath.Base(path))
}

// renameExperiment handles PUT /api/v1/experiments/:key/name
func (s *Server) renameExperiment(c *gin.Context) {
	key := c.Param("key")

	var req RenameExperimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if err := s.store.Rename(key, req.Name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.errorResponse(c, http.StatusNotFound, "Experiment not found: "+key)
			return
		}
		s.errorResponse(c, http.StatusInternalServerError, "Failed to rename experiment: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Experiment renamed successfully",
	})
}
