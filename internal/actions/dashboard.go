package actions

import (
	"context"
	"fmt"

	"github.com/jonathan/intellihire/internal/types"
	"golang.org/x/sync/errgroup"
)

// Dashboard loads the signed-in user's interviews and the latest ones from others concurrently.
func (s *Service) Dashboard(ctx context.Context) (*types.Dashboard, error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	userID := user.ID.String()

	var dashboard types.Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		interviews, err := s.GetInterviewsByUserID(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load user interviews: %w", err)
		}
		dashboard.UserInterviews = interviews
		return nil
	})
	g.Go(func() error {
		interviews, err := s.GetLatestInterviews(gctx, types.LatestInterviewsParams{UserID: userID})
		if err != nil {
			return fmt.Errorf("failed to load latest interviews: %w", err)
		}
		dashboard.LatestInterviews = interviews
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dashboard, nil
}
