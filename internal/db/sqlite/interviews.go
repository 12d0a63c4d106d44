package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/intellihire/internal/types"
)

const interviewColumns = `id, role, type, level, techstack, questions, user_id, finalized, cover_image, created_at`

// CreateInterview inserts a new interview under a generated ID.
func (s *Store) CreateInterview(ctx context.Context, interview *types.Interview) (string, error) {
	techStack, err := encodeList(interview.TechStack)
	if err != nil {
		return "", fmt.Errorf("encoding techstack: %w", err)
	}
	questions, err := encodeList(interview.Questions)
	if err != nil {
		return "", fmt.Errorf("encoding questions: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO interviews (`+interviewColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, interview.Role, interview.Type, interview.Level, techStack, questions,
		interview.UserID, interview.Finalized, nullString(interview.CoverImage), interview.CreatedAt.String())
	if err != nil {
		return "", fmt.Errorf("creating interview: %w", err)
	}
	return id, nil
}

// GetInterview retrieves an interview by ID.
func (s *Store) GetInterview(ctx context.Context, id string) (*types.Interview, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+interviewColumns+` FROM interviews WHERE id = ?`, id)
	interview, err := scanInterview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting interview: %w", err)
	}
	return interview, nil
}

// ListFinalizedInterviews returns finalized interviews not owned by excludeUserID, newest first.
func (s *Store) ListFinalizedInterviews(ctx context.Context, excludeUserID string, limit int) ([]types.Interview, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+interviewColumns+` FROM interviews
		WHERE finalized = 1 AND user_id <> ?
		ORDER BY created_at DESC
		LIMIT ?
	`, excludeUserID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing finalized interviews: %w", err)
	}
	return collectInterviews(rows)
}

// ListInterviewsByUser returns the interviews owned by userID, newest first.
func (s *Store) ListInterviewsByUser(ctx context.Context, userID string) ([]types.Interview, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+interviewColumns+` FROM interviews
		WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing interviews: %w", err)
	}
	return collectInterviews(rows)
}

func collectInterviews(rows *sql.Rows) ([]types.Interview, error) {
	defer rows.Close()

	interviews := []types.Interview{}
	for rows.Next() {
		interview, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning interview: %w", err)
		}
		interviews = append(interviews, *interview)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating interviews: %w", err)
	}
	return interviews, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInterview(row scanner) (*types.Interview, error) {
	var (
		interview  types.Interview
		techStack  string
		questions  string
		coverImage sql.NullString
		createdAt  string
	)
	err := row.Scan(&interview.ID, &interview.Role, &interview.Type, &interview.Level,
		&techStack, &questions, &interview.UserID, &interview.Finalized, &coverImage, &createdAt)
	if err != nil {
		return nil, err
	}

	if interview.TechStack, err = decodeList(techStack); err != nil {
		return nil, fmt.Errorf("decoding techstack: %w", err)
	}
	if interview.Questions, err = decodeList(questions); err != nil {
		return nil, fmt.Errorf("decoding questions: %w", err)
	}
	interview.CoverImage = coverImage.String
	if interview.CreatedAt, err = types.ParseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &interview, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
