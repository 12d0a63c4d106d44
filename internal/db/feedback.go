package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonathan/intellihire/internal/types"
)

// SaveFeedback upserts a feedback record; an existing row with the same ID is overwritten
func (db *DB) SaveFeedback(ctx context.Context, feedback *types.Feedback) error {
	if feedback.ID == "" {
		return fmt.Errorf("feedback ID is required")
	}

	categoryScores, err := json.Marshal(feedback.CategoryScores)
	if err != nil {
		return fmt.Errorf("failed to marshal category scores: %w", err)
	}
	strengths, err := json.Marshal(nonNil(feedback.Strengths))
	if err != nil {
		return fmt.Errorf("failed to marshal strengths: %w", err)
	}
	areas, err := json.Marshal(nonNil(feedback.AreasForImprovement))
	if err != nil {
		return fmt.Errorf("failed to marshal areas for improvement: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO feedback (id, interview_id, user_id, total_score, category_scores,
		                       strengths, areas_for_improvement, final_assessment, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
			interview_id = EXCLUDED.interview_id,
			user_id = EXCLUDED.user_id,
			total_score = EXCLUDED.total_score,
			category_scores = EXCLUDED.category_scores,
			strengths = EXCLUDED.strengths,
			areas_for_improvement = EXCLUDED.areas_for_improvement,
			final_assessment = EXCLUDED.final_assessment,
			created_at = EXCLUDED.created_at`,
		feedback.ID, feedback.InterviewID, feedback.UserID, feedback.TotalScore, categoryScores,
		strengths, areas, feedback.FinalAssessment, feedback.CreatedAt.Time,
	)
	if err != nil {
		return fmt.Errorf("failed to save feedback %s: %w", feedback.ID, err)
	}
	return nil
}

// GetFeedbackByInterview retrieves the newest feedback matching both interview and user
func (db *DB) GetFeedbackByInterview(ctx context.Context, interviewID, userID string) (*types.Feedback, error) {
	var (
		feedback       types.Feedback
		categoryScores []byte
		strengths      []byte
		areas          []byte
		createdAt      time.Time
	)
	err := db.pool.QueryRow(ctx,
		`SELECT id, interview_id, user_id, total_score, category_scores,
		        strengths, areas_for_improvement, final_assessment, created_at
		 FROM feedback
		 WHERE interview_id = $1 AND user_id = $2
		 ORDER BY created_at DESC
		 LIMIT 1`,
		interviewID, userID,
	).Scan(&feedback.ID, &feedback.InterviewID, &feedback.UserID, &feedback.TotalScore, &categoryScores,
		&strengths, &areas, &feedback.FinalAssessment, &createdAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}

	if len(categoryScores) > 0 {
		if err := json.Unmarshal(categoryScores, &feedback.CategoryScores); err != nil {
			return nil, fmt.Errorf("failed to decode category scores: %w", err)
		}
	}
	if err := unmarshalList(strengths, &feedback.Strengths); err != nil {
		return nil, fmt.Errorf("failed to decode strengths: %w", err)
	}
	if err := unmarshalList(areas, &feedback.AreasForImprovement); err != nil {
		return nil, fmt.Errorf("failed to decode areas for improvement: %w", err)
	}
	feedback.CreatedAt = types.NewTimestamp(createdAt)
	return &feedback, nil
}
