package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Category names a scored feedback dimension
type Category string

// Category constants are the only dimensions a feedback record may score.
const (
	CategoryCommunication  Category = "Communication Skills"
	CategoryTechnical      Category = "Technical Knowledge"
	CategoryProblemSolving Category = "Problem Solving"
	CategoryCulturalFit    Category = "Cultural & Role Fit"
	CategoryConfidence     Category = "Confidence & Clarity"
)

// Categories returns the scored dimensions in presentation order
func Categories() []Category {
	return []Category{
		CategoryCommunication,
		CategoryTechnical,
		CategoryProblemSolving,
		CategoryCulturalFit,
		CategoryConfidence,
	}
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// CategoryScore is the score and comment for one category
type CategoryScore struct {
	Name    Category `json:"name"`
	Score   float64  `json:"score"`
	Comment string   `json:"comment"`
}

// CategoryScores maps categories to scores, keeping the order the model returned them in.
type CategoryScores []CategoryScore

// CategoryError reports an unknown or repeated category name
type CategoryError struct {
	Name   Category
	Reason string
}

func (e *CategoryError) Error() string {
	return fmt.Sprintf("invalid category %q: %s", e.Name, e.Reason)
}

// Validate checks that every name is a known category and appears at most once
func (cs CategoryScores) Validate() error {
	seen := make(map[Category]bool, len(cs))
	for _, s := range cs {
		if !s.Name.Valid() {
			return &CategoryError{Name: s.Name, Reason: "unknown category"}
		}
		if seen[s.Name] {
			return &CategoryError{Name: s.Name, Reason: "duplicate category"}
		}
		seen[s.Name] = true
	}
	return nil
}

// Score returns the score recorded for a category
func (cs CategoryScores) Score(name Category) (float64, bool) {
	for _, s := range cs {
		if s.Name == name {
			return s.Score, true
		}
	}
	return 0, false
}

// Feedback is the stored evaluation of one interview for one user.
type Feedback struct {
	ID                  string         `json:"id"`
	InterviewID         string         `json:"interviewId"`
	UserID              string         `json:"userId"`
	TotalScore          float64        `json:"totalScore"`
	CategoryScores      CategoryScores `json:"categoryScores"`
	Strengths           []string       `json:"strengths"`
	AreasForImprovement []string       `json:"areasForImprovement"`
	FinalAssessment     string         `json:"finalAssessment"`
	CreatedAt           Timestamp      `json:"createdAt"`
}

// FeedbackQuery identifies the feedback a user received for an interview
type FeedbackQuery struct {
	InterviewID string `json:"interviewId" validate:"required"`
	UserID      string `json:"userId" validate:"required"`
}

// CreateFeedbackParams is the input of a feedback generation.
// A non-empty FeedbackID overwrites the record stored under that ID.
type CreateFeedbackParams struct {
	InterviewID string            `json:"interviewId" validate:"required"`
	UserID      string            `json:"userId"`
	Transcript  []TranscriptEntry `json:"transcript" validate:"dive"`
	FeedbackID  string            `json:"feedbackId,omitempty"`
}

// ListForm tells how a TextList arrived on the wire
type ListForm int

const (
	// SequenceForm is a JSON array of strings
	SequenceForm ListForm = iota
	// StringForm is a single newline-delimited string
	StringForm
)

// TextList is a list field that the model may return either as an array or as one delimited string.
type TextList struct {
	Form  ListForm
	Text  string
	Items []string
}

// TextListOf builds a SequenceForm list
func TextListOf(items ...string) TextList {
	return TextList{Form: SequenceForm, Items: items}
}

// TextListFromString builds a StringForm list
func TextListFromString(s string) TextList {
	return TextList{Form: StringForm, Text: s}
}

// Normalize returns the list as a sequence.
// StringForm is split on newlines with empty segments dropped; SequenceForm is returned unchanged.
func (l TextList) Normalize() []string {
	if l.Form == SequenceForm {
		if l.Items == nil {
			return []string{}
		}
		return l.Items
	}
	items := []string{}
	for _, line := range strings.Split(l.Text, "\n") {
		if line != "" {
			items = append(items, line)
		}
	}
	return items
}

// UnmarshalJSON accepts either a string or an array of strings
func (l *TextList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = TextListFromString(s)
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("expected string or array of strings: %w", err)
	}
	*l = TextListOf(items...)
	return nil
}

// MarshalJSON writes the list in its original form
func (l TextList) MarshalJSON() ([]byte, error) {
	if l.Form == StringForm {
		return json.Marshal(l.Text)
	}
	return json.Marshal(l.Normalize())
}

// GeneratedFeedback is the structured evaluation returned by the model.
type GeneratedFeedback struct {
	TotalScore          float64        `json:"totalScore"`
	CategoryScores      CategoryScores `json:"categoryScores"`
	Strengths           TextList       `json:"strengths"`
	AreasForImprovement TextList       `json:"areasForImprovement"`
	FinalAssessment     string         `json:"finalAssessment"`
}
