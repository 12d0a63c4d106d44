// Package actions implements the request-scoped operations behind the IntelliHire API.
// Write actions never return errors: failures are logged and reported in a types.Result.
package actions

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/intellihire/internal/store"
	"github.com/jonathan/intellihire/internal/types"
)

// ErrNotAuthenticated is reported when an action needs a signed-in user and there is none.
var ErrNotAuthenticated = errors.New("User not authenticated") //nolint:staticcheck // message is part of the API

// ErrGenerationUnavailable is reported when no LLM client was configured.
var ErrGenerationUnavailable = errors.New("generation is not configured")

// UserResolver returns the signed-in user for a request, or nil when there is none.
type UserResolver interface {
	CurrentUser(ctx context.Context) (*types.User, error)
}

// FeedbackGenerator grades a transcript.
type FeedbackGenerator interface {
	Generate(ctx context.Context, transcript []types.TranscriptEntry) (*types.GeneratedFeedback, error)
}

// QuestionGenerator produces interview questions.
type QuestionGenerator interface {
	Generate(ctx context.Context, req types.GenerateInterviewRequest) ([]string, error)
}

// Deps holds the collaborators of a Service. Generators may be nil when no LLM is configured.
type Deps struct {
	Interviews store.Interviews
	Feedback   store.Feedback
	Users      UserResolver
	Grader     FeedbackGenerator
	Questioner QuestionGenerator
}

// Service runs the actions against its collaborators.
type Service struct {
	interviews  store.Interviews
	feedback    store.Feedback
	users       UserResolver
	grader      FeedbackGenerator
	questioner  QuestionGenerator
	latestLimit int
	now         func() time.Time
	newID       func() string
	pickCover   func() string
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the time source used for createdAt
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides how new feedback IDs are generated
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// WithLatestLimit sets the default limit of GetLatestInterviews
func WithLatestLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.latestLimit = limit
		}
	}
}

// WithCoverPicker overrides how generated interviews get a cover image
func WithCoverPicker(pick func() string) Option {
	return func(s *Service) { s.pickCover = pick }
}

// New creates a Service
func New(deps Deps, opts ...Option) *Service {
	s := &Service{
		interviews:  deps.Interviews,
		feedback:    deps.Feedback,
		users:       deps.Users,
		grader:      deps.Grader,
		questioner:  deps.Questioner,
		latestLimit: types.DefaultLatestLimit,
		now:         time.Now,
		newID:       uuid.NewString,
		pickCover:   RandomCoverImage,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CoverImages are the covers a generated interview may get
var CoverImages = []string{
	"/covers/adobe.png",
	"/covers/amazon.png",
	"/covers/facebook.png",
	"/covers/hostinger.png",
	"/covers/pinterest.png",
	"/covers/quora.png",
	"/covers/reddit.png",
	"/covers/skype.png",
	"/covers/spotify.png",
	"/covers/telegram.png",
	"/covers/tiktok.png",
	"/covers/yahoo.png",
}

// RandomCoverImage picks one of CoverImages
func RandomCoverImage() string {
	return CoverImages[rand.IntN(len(CoverImages))]
}

// currentUser returns the signed-in user or ErrNotAuthenticated
func (s *Service) currentUser(ctx context.Context) (*types.User, error) {
	if s.users == nil {
		return nil, ErrNotAuthenticated
	}
	user, err := s.users.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotAuthenticated
	}
	return user, nil
}
