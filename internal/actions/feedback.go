package actions

import (
	"context"
	"log"

	"github.com/jonathan/intellihire/internal/types"
)

// CreateFeedback grades the transcript and stores the result.
// With a FeedbackID the record under that ID is overwritten, otherwise a new one is created.
func (s *Service) CreateFeedback(ctx context.Context, params types.CreateFeedbackParams) types.Result {
	id, err := s.createFeedback(ctx, params)
	if err != nil {
		log.Printf("Error saving feedback: %v", err)
		return types.Failure(err)
	}
	return types.Result{Success: true, FeedbackID: id}
}

func (s *Service) createFeedback(ctx context.Context, params types.CreateFeedbackParams) (string, error) {
	if s.grader == nil {
		return "", ErrGenerationUnavailable
	}

	generated, err := s.grader.Generate(ctx, params.Transcript)
	if err != nil {
		return "", err
	}

	id := params.FeedbackID
	if id == "" {
		id = s.newID()
	}

	feedback := &types.Feedback{
		ID:                  id,
		InterviewID:         params.InterviewID,
		UserID:              params.UserID,
		TotalScore:          generated.TotalScore,
		CategoryScores:      generated.CategoryScores,
		Strengths:           generated.Strengths.Normalize(),
		AreasForImprovement: generated.AreasForImprovement.Normalize(),
		FinalAssessment:     generated.FinalAssessment,
		CreatedAt:           types.NewTimestamp(s.now()),
	}
	if err := s.feedback.SaveFeedback(ctx, feedback); err != nil {
		return "", err
	}
	return id, nil
}

// GetFeedbackByInterviewID returns the newest feedback for the interview and user, or nil.
func (s *Service) GetFeedbackByInterviewID(ctx context.Context, query types.FeedbackQuery) (*types.Feedback, error) {
	return s.feedback.GetFeedbackByInterview(ctx, query.InterviewID, query.UserID)
}
