package actions

import (
	"context"
	"log"

	"github.com/jonathan/intellihire/internal/types"
)

// CreateInterview stores input as a new interview owned by the signed-in user.
func (s *Service) CreateInterview(ctx context.Context, input types.InterviewInput) types.Result {
	id, err := s.createInterview(ctx, input)
	if err != nil {
		log.Printf("Error creating interview: %v", err)
		return types.Failure(err)
	}
	return types.Result{Success: true, ID: id}
}

func (s *Service) createInterview(ctx context.Context, input types.InterviewInput) (string, error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return "", err
	}

	interview := &types.Interview{
		Role:       input.Role,
		Type:       input.Type,
		Level:      input.Level,
		TechStack:  input.TechStack,
		Questions:  input.Questions,
		UserID:     user.ID.String(),
		Finalized:  input.Finalized,
		CoverImage: input.CoverImage,
		CreatedAt:  types.NewTimestamp(s.now()),
	}
	return s.interviews.CreateInterview(ctx, interview)
}

// GenerateInterview asks the model for questions and stores them as a finalized interview.
func (s *Service) GenerateInterview(ctx context.Context, req types.GenerateInterviewRequest) types.Result {
	if _, err := s.currentUser(ctx); err != nil {
		log.Printf("Error generating interview: %v", err)
		return types.Failure(err)
	}
	if s.questioner == nil {
		log.Printf("Error generating interview: %v", ErrGenerationUnavailable)
		return types.Failure(ErrGenerationUnavailable)
	}

	questions, err := s.questioner.Generate(ctx, req)
	if err != nil {
		log.Printf("Error generating interview: %v", err)
		return types.Failure(err)
	}

	id, err := s.createInterview(ctx, types.InterviewInput{
		Role:       req.Role,
		Type:       req.Type,
		Level:      req.Level,
		TechStack:  req.TechStack,
		Questions:  questions,
		Finalized:  true,
		CoverImage: s.pickCover(),
	})
	if err != nil {
		log.Printf("Error creating interview: %v", err)
		return types.Failure(err)
	}
	return types.Result{Success: true, ID: id}
}

// GetInterviewByID returns the interview, or nil if there is none.
func (s *Service) GetInterviewByID(ctx context.Context, id string) (*types.Interview, error) {
	return s.interviews.GetInterview(ctx, id)
}

// GetLatestInterviews returns finalized interviews of other users, newest first.
func (s *Service) GetLatestInterviews(ctx context.Context, params types.LatestInterviewsParams) ([]types.Interview, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = s.latestLimit
	}
	return s.interviews.ListFinalizedInterviews(ctx, params.UserID, limit)
}

// GetInterviewsByUserID returns the user's interviews, newest first.
// An empty userID yields an empty list without touching the store.
func (s *Service) GetInterviewsByUserID(ctx context.Context, userID string) ([]types.Interview, error) {
	if userID == "" {
		log.Printf("Warning: GetInterviewsByUserID called with empty userId")
		return []types.Interview{}, nil
	}

	interviews, err := s.interviews.ListInterviewsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	log.Printf("Found %d interviews for userId: %s", len(interviews), userID)
	return interviews, nil
}
