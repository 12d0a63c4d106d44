package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/intellihire/internal/types"
)

const interviewColumns = `id, role, type, level, techstack, questions, user_id, finalized, cover_image, created_at`

// CreateInterview inserts a new interview under a generated ID and returns that ID
func (db *DB) CreateInterview(ctx context.Context, interview *types.Interview) (string, error) {
	techStack, err := json.Marshal(nonNil(interview.TechStack))
	if err != nil {
		return "", fmt.Errorf("failed to marshal techstack: %w", err)
	}
	questions, err := json.Marshal(nonNil(interview.Questions))
	if err != nil {
		return "", fmt.Errorf("failed to marshal questions: %w", err)
	}

	id := uuid.NewString()
	_, err = db.pool.Exec(ctx,
		`INSERT INTO interviews (`+interviewColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id, interview.Role, interview.Type, interview.Level, techStack, questions,
		interview.UserID, interview.Finalized, nullIfEmpty(interview.CoverImage), interview.CreatedAt.Time,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create interview: %w", err)
	}
	return id, nil
}

// GetInterview retrieves an interview by ID
func (db *DB) GetInterview(ctx context.Context, id string) (*types.Interview, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+interviewColumns+` FROM interviews WHERE id = $1`, id)

	interview, err := scanInterview(row)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	return interview, nil
}

// ListFinalizedInterviews retrieves finalized interviews owned by anyone but excludeUserID
func (db *DB) ListFinalizedInterviews(ctx context.Context, excludeUserID string, limit int) ([]types.Interview, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+interviewColumns+` FROM interviews
		 WHERE finalized = TRUE AND user_id <> $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		excludeUserID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list finalized interviews: %w", err)
	}
	return collectInterviews(rows)
}

// ListInterviewsByUser retrieves every interview owned by userID
func (db *DB) ListInterviewsByUser(ctx context.Context, userID string) ([]types.Interview, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+interviewColumns+` FROM interviews
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	return collectInterviews(rows)
}

func collectInterviews(rows pgx.Rows) ([]types.Interview, error) {
	defer rows.Close()

	interviews := []types.Interview{}
	for rows.Next() {
		interview, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interview: %w", err)
		}
		interviews = append(interviews, *interview)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate interviews: %w", err)
	}
	return interviews, nil
}

func scanInterview(row pgx.Row) (*types.Interview, error) {
	var (
		interview  types.Interview
		techStack  []byte
		questions  []byte
		coverImage *string
		createdAt  time.Time
	)
	err := row.Scan(&interview.ID, &interview.Role, &interview.Type, &interview.Level,
		&techStack, &questions, &interview.UserID, &interview.Finalized, &coverImage, &createdAt)
	if err != nil {
		return nil, err
	}

	if err := unmarshalList(techStack, &interview.TechStack); err != nil {
		return nil, fmt.Errorf("failed to decode techstack: %w", err)
	}
	if err := unmarshalList(questions, &interview.Questions); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}
	if coverImage != nil {
		interview.CoverImage = *coverImage
	}
	interview.CreatedAt = types.NewTimestamp(createdAt)
	return &interview, nil
}

// unmarshalList decodes a JSONB string array, treating NULL as empty
func unmarshalList(data []byte, dst *[]string) error {
	*dst = []string{}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return err
	}
	if *dst == nil {
		*dst = []string{}
	}
	return nil
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
