// Package app builds the process-wide handles shared by the server and CLI commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jonathan/intellihire/internal/actions"
	"github.com/jonathan/intellihire/internal/config"
	"github.com/jonathan/intellihire/internal/db"
	"github.com/jonathan/intellihire/internal/db/sqlite"
	"github.com/jonathan/intellihire/internal/generation"
	"github.com/jonathan/intellihire/internal/llm"
	"github.com/jonathan/intellihire/internal/store"
)

// Clients holds the document store and the optional LLM client.
// The handles are safe for concurrent use and must not be replaced after Open.
type Clients struct {
	Store store.Store
	// LLM is nil when GEMINI_API_KEY is not set
	LLM llm.Client

	cfg      *config.Config
	postgres *db.DB
}

// Open connects the store selected by cfg and, when an API key is configured, the LLM client.
func Open(ctx context.Context, cfg *config.Config) (*Clients, error) {
	c := &Clients{cfg: cfg}

	if cfg.UsePostgres() {
		pg, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		c.postgres = pg
		c.Store = pg
		log.Printf("Using PostgreSQL store")
	} else {
		st, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		c.Store = st
		log.Printf("Using SQLite store at %s", st.Path())
	}

	if cfg.HasLLM() {
		modelConfig := llm.DefaultConfig().
			WithModel(llm.TierStandard, cfg.GeminiFeedbackModel).
			WithModel(llm.TierLite, cfg.GeminiQuestionsModel)
		client, err := llm.NewClient(ctx, modelConfig, cfg.GeminiAPIKey)
		if err != nil {
			_ = c.Store.Close()
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		c.LLM = client
	} else {
		log.Printf("Warning: GEMINI_API_KEY not set, feedback and question generation are disabled")
	}

	return c, nil
}

// Migrate applies pending schema migrations and returns how many ran.
// SQLite is migrated when opened, so it always reports zero here.
func (c *Clients) Migrate(ctx context.Context) (int, error) {
	if c.postgres == nil {
		return 0, nil
	}
	return c.postgres.Migrate(ctx)
}

// FeedbackGenerator returns the transcript grader, or nil without an LLM.
func (c *Clients) FeedbackGenerator() actions.FeedbackGenerator {
	if c.LLM == nil {
		return nil
	}
	return generation.NewFeedbackGenerator(c.LLM, c.cfg.GeminiFeedbackModel)
}

// QuestionGenerator returns the question generator, or nil without an LLM.
func (c *Clients) QuestionGenerator() actions.QuestionGenerator {
	if c.LLM == nil {
		return nil
	}
	return generation.NewQuestionGenerator(c.LLM, c.cfg.GeminiQuestionsModel)
}

// Close releases the LLM client and the store.
func (c *Clients) Close() error {
	var errs []error
	if c.LLM != nil {
		if err := c.LLM.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close LLM client: %w", err))
		}
	}
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close store: %w", err))
		}
	}
	return errors.Join(errs...)
}
