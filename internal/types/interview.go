package types

// Interview is a mock-interview document.
// Finalized is set once the interview is ready to be taken by other users.
type Interview struct {
	ID         string    `json:"id"`
	Role       string    `json:"role"`
	Type       string    `json:"type"`
	Level      string    `json:"level"`
	TechStack  []string  `json:"techstack"`
	Questions  []string  `json:"questions"`
	UserID     string    `json:"userId"`
	Finalized  bool      `json:"finalized"`
	CreatedAt  Timestamp `json:"createdAt"`
	CoverImage string    `json:"coverImage,omitempty"`
}

// InterviewInput holds the caller-supplied part of an interview.
// Owner and creation time are always assigned by the server.
type InterviewInput struct {
	Role       string   `json:"role" validate:"max=200"`
	Type       string   `json:"type" validate:"max=100"`
	Level      string   `json:"level" validate:"max=100"`
	TechStack  []string `json:"techstack" validate:"max=50,dive,max=100"`
	Questions  []string `json:"questions" validate:"max=100"`
	Finalized  bool     `json:"finalized"`
	CoverImage string   `json:"coverImage,omitempty"`
}

// GenerateInterviewRequest asks for a generated question set.
type GenerateInterviewRequest struct {
	Role      string   `json:"role" validate:"required,max=200"`
	Level     string   `json:"level" validate:"required,max=100"`
	Type      string   `json:"type" validate:"required,max=100"`
	TechStack []string `json:"techstack" validate:"max=50,dive,max=100"`
	Amount    int      `json:"amount" validate:"required,min=1,max=20"`
}

// LatestInterviewsParams selects finalized interviews owned by other users.
type LatestInterviewsParams struct {
	UserID string `json:"userId"`
	Limit  int    `json:"limit,omitempty"`
}

// DefaultLatestLimit is used when LatestInterviewsParams.Limit is zero.
const DefaultLatestLimit = 20

// Dashboard pairs the caller's own interviews with the latest ones from others.
type Dashboard struct {
	UserInterviews   []Interview `json:"userInterviews"`
	LatestInterviews []Interview `json:"latestInterviews"`
}
