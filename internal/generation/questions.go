package generation

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/jonathan/intellihire/internal/llm"
	"github.com/jonathan/intellihire/internal/prompts"
	"github.com/jonathan/intellihire/internal/schemas"
	"github.com/jonathan/intellihire/internal/types"
)

// QuestionGenerator asks an LLM for a set of interview questions.
type QuestionGenerator struct {
	client llm.Client
	model  string
}

// NewQuestionGenerator creates a generator; an empty model uses the client's lite tier.
func NewQuestionGenerator(client llm.Client, model string) *QuestionGenerator {
	return &QuestionGenerator{client: client, model: model}
}

// Generate returns at most req.Amount questions for the requested role.
func (g *QuestionGenerator) Generate(ctx context.Context, req types.GenerateInterviewRequest) ([]string, error) {
	raw, err := g.client.GenerateStructured(ctx, llm.StructuredRequest{
		Prompt: BuildQuestionsPrompt(req),
		Schema: &genai.Schema{
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
		Model: g.model,
		Tier:  llm.TierLite,
		// Some variety between generated sets
		Temperature: 0.7,
	})
	if err != nil {
		return nil, &APICallError{Message: "failed to generate questions", Cause: err}
	}
	return ParseQuestions(raw, req.Amount)
}

// BuildQuestionsPrompt renders the question-generation prompt
func BuildQuestionsPrompt(req types.GenerateInterviewRequest) string {
	template := prompts.MustGet("interview.json", "generate-questions")
	return prompts.Format(template, map[string]string{
		"Role":      req.Role,
		"Level":     req.Level,
		"Type":      req.Type,
		"TechStack": strings.Join(req.TechStack, ", "),
		"Amount":    strconv.Itoa(req.Amount),
	})
}

// ParseQuestions validates raw model JSON and returns the trimmed, non-empty questions.
// A positive limit caps the number returned.
func ParseQuestions(raw string, limit int) ([]string, error) {
	raw = llm.CleanJSONBlock(raw)
	if err := schemas.Validate(schemas.Questions, raw); err != nil {
		return nil, &OutputValidationError{Message: "questions do not match schema", Cause: err}
	}

	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, &OutputValidationError{Message: "failed to decode questions", Cause: err}
	}

	questions := make([]string, 0, len(items))
	for _, q := range items {
		if q = strings.TrimSpace(q); q != "" {
			questions = append(questions, q)
		}
	}
	if len(questions) == 0 {
		return nil, &OutputValidationError{Message: "no questions returned"}
	}
	if limit > 0 && len(questions) > limit {
		questions = questions[:limit]
	}
	return questions, nil
}
