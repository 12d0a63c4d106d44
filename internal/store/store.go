// Package store defines the document-store ports used by actions and the HTTP server.
// Implementations live in internal/db (PostgreSQL) and internal/db/sqlite.
package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonathan/intellihire/internal/types"
)

// Interviews persists interview documents.
// Getters return (nil, nil) when nothing matches.
type Interviews interface {
	// CreateInterview inserts a new document and returns its generated ID
	CreateInterview(ctx context.Context, interview *types.Interview) (string, error)
	GetInterview(ctx context.Context, id string) (*types.Interview, error)
	// ListFinalizedInterviews returns finalized interviews not owned by excludeUserID, newest first
	ListFinalizedInterviews(ctx context.Context, excludeUserID string, limit int) ([]types.Interview, error)
	// ListInterviewsByUser returns all interviews owned by userID, newest first
	ListInterviewsByUser(ctx context.Context, userID string) ([]types.Interview, error)
}

// Feedback persists feedback documents.
type Feedback interface {
	// SaveFeedback writes the whole record under feedback.ID, replacing any existing one
	SaveFeedback(ctx context.Context, feedback *types.Feedback) error
	GetFeedbackByInterview(ctx context.Context, interviewID, userID string) (*types.Feedback, error)
}

// Users persists accounts for password sign-in.
type Users interface {
	CreateUser(ctx context.Context, name, email string) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// Store is the full document store owned by the application.
type Store interface {
	Interviews
	Feedback
	Users
	Ping(ctx context.Context) error
	Close() error
}
