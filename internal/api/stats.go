package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getStats handles GET /api/v1/stats
func (s *Server) getStats(c *gin.Context) {
	stats, err := s.stats.GetStats()
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to compute stats: "+err.Error())
		return
	}

	s.successResponse(c, stats)
}
