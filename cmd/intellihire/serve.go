package main

import (
	"fmt"
	"log"

	"github.com/jonathan/intellihire/internal/app"
	"github.com/jonathan/intellihire/internal/config"
	"github.com/jonathan/intellihire/internal/server"
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start an HTTP server that exposes the interview and feedback API and the sign-in pages.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	log.Printf("Starting IntelliHire on %s", cfg.Addr())

	ctx := cmd.Context()
	clients, err := app.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open clients: %w", err)
	}
	defer func() {
		if err := clients.Close(); err != nil {
			log.Printf("Error closing clients: %v", err)
		}
	}()

	applied, err := clients.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	if applied > 0 {
		log.Printf("Applied %d migration(s)", applied)
	}

	srv, err := server.New(serverConfig(cfg), server.Deps{
		Store:      clients.Store,
		Grader:     clients.FeedbackGenerator(),
		Questioner: clients.QuestionGenerator(),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

func serverConfig(cfg *config.Config) server.Config {
	return server.Config{
		Port:                  cfg.Port,
		LatestInterviewsLimit: cfg.LatestInterviewsLimit,
		SessionCookieSecure:   cfg.SessionCookieSecure,
		AllowedOrigins:        cfg.AllowedOrigins,
	}
}
