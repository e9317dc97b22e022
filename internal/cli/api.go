package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dungscout96/prompt-experiment/internal/api"
	"github.com/dungscout96/prompt-experiment/internal/db"
	"github.com/dungscout96/prompt-experiment/internal/scheduler"
)

var (
	apiPort    string
	apiHost    string
	corsOrigin string
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the hedprompt REST API server",
	Long: `Start the hedprompt REST API server:
- Run and save annotation experiments
- Browse, rename and download experiment records
- Manage batch schedules (run inside this process)
- List available models and manage credentials

The API runs on HTTP (no authentication required for now).`,
	RunE: runAPI,
}

func init() {
	apiCmd.Flags().StringVarP(&apiPort, "port", "p", "8989", "Port to run the API server on")
	apiCmd.Flags().StringVarP(&apiHost, "host", "H", "0.0.0.0", "Host to bind the API server to")
	apiCmd.Flags().StringVarP(&corsOrigin, "cors-origin", "c", "", "CORS origin to allow (overrides config file, use '*' for all origins)")
}

func runAPI(cmd *cobra.Command, args []string) error {
	selectedCORSOrigin := corsOrigin
	if selectedCORSOrigin == "" {
		if cfg.CORSOrigin != "" {
			selectedCORSOrigin = cfg.CORSOrigin
		} else {
			selectedCORSOrigin = "*"
		}
	}

	fmt.Printf("🚀 Starting Hedprompt API Server\n")
	fmt.Printf("================================\n")
	fmt.Printf("Host: %s\n", apiHost)
	fmt.Printf("Port: %s\n", apiPort)
	fmt.Printf("CORS Origin: %s\n", selectedCORSOrigin)
	fmt.Printf("URL: http://%s:%s/api/v1\n", apiHost, apiPort)
	fmt.Println()

	ctx := context.Background()

	database := db.New(cfg.ScheduleDB)
	if err := database.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to schedule database: %w", err)
	}
	defer database.Disconnect(ctx)

	fmt.Println("✅ Schedule database ready")

	sched := scheduler.New(database, experiments)
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	server := api.NewServer(api.ServerConfig{
		Experiments: experiments,
		Stats:       statsService,
		Store:       experimentStore,
		DB:          database,
		Scheduler:   sched,
		Registry:    llmRegistry,
		Env:         env,
		Config:      cfg,
		CORSOrigin:  selectedCORSOrigin,
	})

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Println("\n🛑 Shutting down API server...")
		sched.Stop()
		database.Disconnect(ctx)
		os.Exit(0)
	}()

	fmt.Println("🌐 API Server is running!")
	fmt.Println()
	fmt.Println("📚 Available Endpoints:")
	fmt.Println("  Experiments:")
	fmt.Println("    POST   /api/v1/experiments/run           - Run the annotation pipeline")
	fmt.Println("    POST   /api/v1/experiments               - Save an experiment record")
	fmt.Println("    GET    /api/v1/experiments               - List experiment summaries")
	fmt.Println("    GET    /api/v1/experiments/:key          - Get a specific experiment")
	fmt.Println("    GET    /api/v1/experiments/:key/download - Download the raw record")
	fmt.Println("    PUT    /api/v1/experiments/:key/name     - Rename an experiment")
	fmt.Println()
	fmt.Println("  Schedules:")
	fmt.Println("    GET    /api/v1/schedules                 - List all schedules")
	fmt.Println("    POST   /api/v1/schedules                 - Create new schedule")
	fmt.Println("    PUT    /api/v1/schedules/:id             - Update schedule")
	fmt.Println("    DELETE /api/v1/schedules/:id             - Delete schedule")
	fmt.Println("    POST   /api/v1/schedules/:id/run         - Run schedule now")
	fmt.Println()
	fmt.Println("  Other:")
	fmt.Println("    GET    /api/v1/models                    - List available models")
	fmt.Println("    GET    /api/v1/stats                     - Experiment statistics")
	fmt.Println("    GET    /api/v1/env                       - Masked credentials")
	fmt.Println("    PUT    /api/v1/env                       - Update a credential")
	fmt.Println("    GET    /api/v1/health                    - Health check")
	fmt.Println()
	fmt.Println("Press Ctrl+C to stop the server")

	address := fmt.Sprintf("%s:%s", apiHost, apiPort)
	return server.Run(address)
}
