package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/dungscout96/prompt-experiment/internal/models"
)

// Schedule request/response structures

type CreateScheduleRequest struct {
	Name         string   `json:"name" binding:"required"`
	Model        string   `json:"model" binding:"required"`
	GraderModel  string   `json:"grader_model,omitempty"`
	Descriptions []string `json:"descriptions" binding:"required"`
	CronExpr     string   `json:"cron_expr" binding:"required"`
	Enabled      bool     `json:"enabled"`
}

type UpdateScheduleRequest struct {
	Name         string   `json:"name,omitempty"`
	Model        string   `json:"model,omitempty"`
	GraderModel  string   `json:"grader_model,omitempty"`
	Descriptions []string `json:"descriptions,omitempty"`
	CronExpr     string   `json:"cron_expr,omitempty"`
	Enabled      *bool    `json:"enabled,omitempty"`
}

// Schedule endpoints

// listSchedules handles GET /api/v1/schedules
func (s *Server) listSchedules(c *gin.Context) {
	enabledStr := c.Query("enabled")
	var enabled *bool

	if enabledStr == "true" {
		enabled = &[]bool{true}[0]
	} else if enabledStr == "false" {
		enabled = &[]bool{false}[0]
	}

	schedules, err := s.db.ListSchedules(c.Request.Context(), enabled)
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to list schedules: "+err.Error())
		return
	}

	s.successResponse(c, schedules)
}

// getSchedule handles GET /api/v1/schedules/:id
func (s *Server) getSchedule(c *gin.Context) {
	id := c.Param("id")

	schedule, err := s.db.GetSchedule(c.Request.Context(), id)
	if err != nil {
		s.errorResponse(c, http.StatusNotFound, "Schedule not found: "+err.Error())
		return
	}

	s.successResponse(c, schedule)
}

// createSchedule handles POST /api/v1/schedules
func (s *Server) createSchedule(c *gin.Context) {
	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if len(req.Descriptions) == 0 {
		s.errorResponse(c, http.StatusBadRequest, "At least one description is required")
		return
	}

	if _, err := cron.ParseStandard(req.CronExpr); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid cron expression: "+err.Error())
		return
	}

	schedule := &models.Schedule{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Model:        req.Model,
		GraderModel:  req.GraderModel,
		Descriptions: req.Descriptions,
		CronExpr:     req.CronExpr,
		Enabled:      req.Enabled,
	}

	if err := s.db.CreateSchedule(c.Request.Context(), schedule); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to create schedule: "+err.Error())
		return
	}

	s.reloadScheduler(c)

	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Data:    schedule,
		Message: "Schedule created successfully",
	})
}

// updateSchedule handles PUT /api/v1/schedules/:id
func (s *Server) updateSchedule(c *gin.Context) {
	id := c.Param("id")

	var req UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	schedule, err := s.db.GetSchedule(c.Request.Context(), id)
	if err != nil {
		s.errorResponse(c, http.StatusNotFound, "Schedule not found: "+err.Error())
		return
	}

	if req.Name != "" {
		schedule.Name = req.Name
	}
	if req.Model != "" {
		schedule.Model = req.Model
	}
	if req.GraderModel != "" {
		schedule.GraderModel = req.GraderModel
	}
	if req.Descriptions != nil {
		schedule.Descriptions = req.Descriptions
	}
	if req.CronExpr != "" {
		if _, err := cron.ParseStandard(req.CronExpr); err != nil {
			s.errorResponse(c, http.StatusBadRequest, "Invalid cron expression: "+err.Error())
			return
		}
		schedule.CronExpr = req.CronExpr
	}
	if req.Enabled != nil {
		schedule.Enabled = *req.Enabled
	}

	if err := s.db.UpdateSchedule(c.Request.Context(), schedule); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to update schedule: "+err.Error())
		return
	}

	s.reloadScheduler(c)
	s.successResponse(c, schedule)
}

// deleteSchedule handles DELETE /api/v1/schedules/:id
func (s *Server) deleteSchedule(c *gin.Context) {
	id := c.Param("id")

	if err := s.db.DeleteSchedule(c.Request.Context(), id); err != nil {
		s.errorResponse(c, http.StatusNotFound, "Schedule not found: "+err.Error())
		return
	}

	s.reloadScheduler(c)

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Schedule deleted successfully",
	})
}

// runSchedule handles POST /api/v1/schedules/:id/run
func (s *Server) runSchedule(c *gin.Context) {
	id := c.Param("id")

	if err := s.sched.ExecuteNow(c.Request.Context(), id); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to run schedule: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Schedule executed",
	})
}

func (s *Server) reloadScheduler(c *gin.Context) {
	if s.sched == nil {
		return
	}
	if err := s.sched.Reload(c.Request.Context()); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to reload scheduler: "+err.Error())
	}
}
