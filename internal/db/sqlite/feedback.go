package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonathan/intellihire/internal/types"
)

// SaveFeedback writes the whole record under feedback.ID, replacing any existing row.
func (s *Store) SaveFeedback(ctx context.Context, feedback *types.Feedback) error {
	if feedback.ID == "" {
		return fmt.Errorf("feedback ID is required")
	}

	categoryScores, err := json.Marshal(feedback.CategoryScores)
	if err != nil {
		return fmt.Errorf("encoding category scores: %w", err)
	}
	strengths, err := encodeList(feedback.Strengths)
	if err != nil {
		return fmt.Errorf("encoding strengths: %w", err)
	}
	areas, err := encodeList(feedback.AreasForImprovement)
	if err != nil {
		return fmt.Errorf("encoding areas for improvement: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO feedback (id, interview_id, user_id, total_score, category_scores,
		                      strengths, areas_for_improvement, final_assessment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			interview_id = excluded.interview_id,
			user_id = excluded.user_id,
			total_score = excluded.total_score,
			category_scores = excluded.category_scores,
			strengths = excluded.strengths,
			areas_for_improvement = excluded.areas_for_improvement,
			final_assessment = excluded.final_assessment,
			created_at = excluded.created_at
	`, feedback.ID, feedback.InterviewID, feedback.UserID, feedback.TotalScore, string(categoryScores),
		strengths, areas, feedback.FinalAssessment, feedback.CreatedAt.String())
	if err != nil {
		return fmt.Errorf("saving feedback %s: %w", feedback.ID, err)
	}
	return nil
}

// GetFeedbackByInterview returns the newest feedback matching both interviewID and userID.
func (s *Store) GetFeedbackByInterview(ctx context.Context, interviewID, userID string) (*types.Feedback, error) {
	var (
		feedback       types.Feedback
		categoryScores string
		strengths      string
		areas          string
		createdAt      string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, interview_id, user_id, total_score, category_scores,
		       strengths, areas_for_improvement, final_assessment, created_at
		FROM feedback
		WHERE interview_id = ? AND user_id = ?
		ORDER BY created_at DESC
		LIMIT 1
	`, interviewID, userID).Scan(&feedback.ID, &feedback.InterviewID, &feedback.UserID, &feedback.TotalScore,
		&categoryScores, &strengths, &areas, &feedback.FinalAssessment, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting feedback: %w", err)
	}

	if categoryScores != "" {
		if err := json.Unmarshal([]byte(categoryScores), &feedback.CategoryScores); err != nil {
			return nil, fmt.Errorf("decoding category scores: %w", err)
		}
	}
	if feedback.Strengths, err = decodeList(strengths); err != nil {
		return nil, fmt.Errorf("decoding strengths: %w", err)
	}
	if feedback.AreasForImprovement, err = decodeList(areas); err != nil {
		return nil, fmt.Errorf("decoding areas for improvement: %w", err)
	}
	if feedback.CreatedAt, err = types.ParseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &feedback, nil
}
