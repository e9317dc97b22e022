package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dungscout96/prompt-experiment/internal/config"
	"github.com/dungscout96/prompt-experiment/internal/db"
	"github.com/dungscout96/prompt-experiment/internal/llm"
	"github.com/dungscout96/prompt-experiment/internal/scheduler"
	"github.com/dungscout96/prompt-experiment/internal/services"
	"github.com/dungscout96/prompt-experiment/internal/store"
)

// APIResponse is the common response envelope
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Server is the REST API server
type Server struct {
	engine      *gin.Engine
	experiments *services.ExperimentService
	stats       *services.StatsService
	store       *store.Store
	db          *db.DB
	sched       *scheduler.Scheduler
	registry    *llm.Registry
	env         *config.Env
	cfg         *config.Config
	corsOrigin  string
}

// ServerConfig wires a Server.
type ServerConfig struct {
	Experiments *services.ExperimentService
	Stats       *services.StatsService
	Store       *store.Store
	DB          *db.DB
	Scheduler   *scheduler.Scheduler
	Registry    *llm.Registry
	Env         *config.Env
	Config      *config.Config
	CORSOrigin  string
}

// NewServer creates the API server and registers all routes
func NewServer(cfg ServerConfig) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:      gin.New(),
		experiments: cfg.Experiments,
		stats:       cfg.Stats,
		store:       cfg.Store,
		db:          cfg.DB,
		sched:       cfg.Scheduler,
		registry:    cfg.Registry,
		env:         cfg.Env,
		cfg:         cfg.Config,
		corsOrigin:  cfg.CORSOrigin,
	}

	s.engine.Use(gin.Logger(), gin.Recovery(), s.corsMiddleware())
	s.registerRoutes()

	return s
}

// Run starts the HTTP server on the given address
func (s *Server) Run(address string) error {
	return s.engine.Run(address)
}

func (s *Server) registerRoutes() {
	v1 := s.engine.Group("/api/v1")
	{
		v1.GET("/health", s.healthCheck)
		v1.GET("/models", s.listModels)

		v1.POST("/experiments/run", s.runExperiment)
		v1.POST("/experiments", s.saveExperiment)
		v1.GET("/experiments", s.listExperiments)
		v1.GET("/experiments/:key", s.getExperiment)
		v1.GET("/experiments/:key/download", s.downloadExperiment)
		v1.PUT("/experiments/:key/name", s.renameExperiment)

		v1.GET("/env", s.getEnv)
		v1.PUT("/env", s.updateEnv)

		v1.GET("/stats", s.getStats)

		v1.GET("/schedules", s.listSchedules)
		v1.GET("/schedules/:id", s.getSchedule)
		v1.POST("/schedules", s.createSchedule)
		v1.PUT("/schedules/:id", s.updateSchedule)
		v1.DELETE("/schedules/:id", s.deleteSchedule)
		v1.POST("/schedules/:id/run", s.runSchedule)
	}
}

func (s *Server) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := s.corsOrigin
		if origin == "" {
			origin = "*"
		}
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (s *Server) successResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

func (s *Server) errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   message,
	})
}

// healthCheck handles GET /api/v1/health
func (s *Server) healthCheck(c *gin.Context) {
	if s.db != nil {
		if err := s.db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, APIResponse{
				Success: false,
				Error:   "Schedule database connection failed",
			})
			return
		}
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":    "healthy",
			"timestamp": time.Now(),
			"version":   "1.0.0",
		},
	})
}
