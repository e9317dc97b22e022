package api

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/dungscout96/prompt-experiment/internal/config"
)

type UpdateEnvRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value" binding:"required"`
}

// getEnv handles GET /api/v1/env. Values are always masked on the way out.
func (s *Server) getEnv(c *gin.Context) {
	s.successResponse(c, s.env.Masked())
}

// updateEnv handles PUT /api/v1/env: persist the credential to the .env
// file, then reload the in-memory store so the next completion uses it.
func (s *Server) updateEnv(c *gin.Context) {
	var req UpdateEnvRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if !slices.Contains(config.ManagedKeys, req.Key) {
		s.errorResponse(c, http.StatusBadRequest, "Unknown environment variable: "+req.Key)
		return
	}

	if err := s.env.Set(req.Key, req.Value); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to update environment: "+err.Error())
		return
	}

	if err := s.env.Reload(); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to reload environment: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    s.env.Masked(),
		Message: "Environment updated successfully",
	})
}
