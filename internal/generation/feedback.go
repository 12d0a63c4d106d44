// Package generation turns interview input into model prompts and decodes the structured replies.
package generation

import (
	"context"
	"encoding/json"

	"github.com/google/generative-ai-go/genai"
	"github.com/jonathan/intellihire/internal/llm"
	"github.com/jonathan/intellihire/internal/prompts"
	"github.com/jonathan/intellihire/internal/schemas"
	"github.com/jonathan/intellihire/internal/types"
)

// FeedbackGenerator grades interview transcripts with an LLM.
type FeedbackGenerator struct {
	client llm.Client
	model  string
}

// NewFeedbackGenerator creates a generator; an empty model uses the client's standard tier.
func NewFeedbackGenerator(client llm.Client, model string) *FeedbackGenerator {
	return &FeedbackGenerator{client: client, model: model}
}

// Generate evaluates the transcript and returns the validated model output.
func (g *FeedbackGenerator) Generate(ctx context.Context, transcript []types.TranscriptEntry) (*types.GeneratedFeedback, error) {
	raw, err := g.client.GenerateStructured(ctx, llm.StructuredRequest{
		System: prompts.MustGet("feedback.json", "system"),
		Prompt: BuildFeedbackPrompt(transcript),
		Schema: feedbackResponseSchema(),
		Model:  g.model,
		Tier:   llm.TierStandard,
	})
	if err != nil {
		return nil, &APICallError{Message: "failed to generate feedback", Cause: err}
	}
	return ParseFeedback(raw)
}

// BuildFeedbackPrompt renders the evaluation prompt around the formatted transcript
func BuildFeedbackPrompt(transcript []types.TranscriptEntry) string {
	template := prompts.MustGet("feedback.json", "evaluate-transcript")
	return prompts.Format(template, map[string]string{
		"Transcript": types.FormatTranscript(transcript),
	})
}

// ParseFeedback validates raw model JSON against the feedback schema and decodes it.
func ParseFeedback(raw string) (*types.GeneratedFeedback, error) {
	raw = llm.CleanJSONBlock(raw)
	if err := schemas.Validate(schemas.Feedback, raw); err != nil {
		return nil, &OutputValidationError{Message: "feedback does not match schema", Cause: err}
	}

	var feedback types.GeneratedFeedback
	if err := json.Unmarshal([]byte(raw), &feedback); err != nil {
		return nil, &OutputValidationError{Message: "failed to decode feedback", Cause: err}
	}
	if err := feedback.CategoryScores.Validate(); err != nil {
		return nil, &OutputValidationError{Message: "bad category scores", Cause: err}
	}
	return &feedback, nil
}

func feedbackResponseSchema() *genai.Schema {
	categoryNames := make([]string, 0, len(types.Categories()))
	for _, c := range types.Categories() {
		categoryNames = append(categoryNames, string(c))
	}

	stringList := &genai.Schema{
		Type:  genai.TypeArray,
		Items: &genai.Schema{Type: genai.TypeString},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"totalScore": {Type: genai.TypeNumber},
			"categoryScores": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":    {Type: genai.TypeString, Enum: categoryNames},
						"score":   {Type: genai.TypeNumber},
						"comment": {Type: genai.TypeString},
					},
					Required: []string{"name", "score", "comment"},
				},
			},
			"strengths":           stringList,
			"areasForImprovement": stringList,
			"finalAssessment":     {Type: genai.TypeString},
		},
		Required: []string{"totalScore", "categoryScores", "strengths", "areasForImprovement", "finalAssessment"},
	}
}
