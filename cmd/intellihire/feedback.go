package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/intellihire/internal/actions"
	"github.com/jonathan/intellihire/internal/app"
	"github.com/jonathan/intellihire/internal/config"
	"github.com/jonathan/intellihire/internal/types"
	"github.com/spf13/cobra"
)

var (
	feedbackInterviewID string
	feedbackUserID      string
	feedbackTranscript  string
	feedbackID          string
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Grade a transcript and store the feedback",
	Long: `Run feedback generation for one interview outside the server.
The transcript file is a JSON array of {"role", "content"} entries.
The result envelope is printed as JSON.`,
	RunE: runFeedback,
}

func init() {
	feedbackCmd.Flags().StringVar(&feedbackInterviewID, "interview", "", "Interview ID (required)")
	feedbackCmd.Flags().StringVar(&feedbackUserID, "user", "", "User ID (required)")
	feedbackCmd.Flags().StringVar(&feedbackTranscript, "transcript", "", "Path to transcript JSON (required)")
	feedbackCmd.Flags().StringVar(&feedbackID, "feedback-id", "", "Existing feedback ID to overwrite")

	_ = feedbackCmd.MarkFlagRequired("interview")
	_ = feedbackCmd.MarkFlagRequired("user")
	_ = feedbackCmd.MarkFlagRequired("transcript")

	rootCmd.AddCommand(feedbackCmd)
}

func runFeedback(cmd *cobra.Command, _ []string) error {
	transcript, err := readTranscript(feedbackTranscript)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.HasLLM() {
		return fmt.Errorf("GEMINI_API_KEY is required for feedback generation")
	}

	clients, err := app.Open(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to open clients: %w", err)
	}
	defer clients.Close()

	svc := actions.New(actions.Deps{
		Interviews: clients.Store,
		Feedback:   clients.Store,
		Grader:     clients.FeedbackGenerator(),
	})
	result := svc.CreateFeedback(cmd.Context(), types.CreateFeedbackParams{
		InterviewID: feedbackInterviewID,
		UserID:      feedbackUserID,
		Transcript:  transcript,
		FeedbackID:  feedbackID,
	})

	return printResult(cmd, result)
}

// readTranscript loads a transcript file, rejecting entries without a role.
func readTranscript(path string) ([]types.TranscriptEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}

	var transcript []types.TranscriptEntry
	if err := json.Unmarshal(data, &transcript); err != nil {
		return nil, fmt.Errorf("failed to parse transcript %s: %w", path, err)
	}
	for i, entry := range transcript {
		if entry.Role == "" {
			return nil, fmt.Errorf("transcript entry %d has no role", i)
		}
	}
	return transcript, nil
}

func printResult(cmd *cobra.Command, result types.Result) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("feedback generation failed")
	}
	return nil
}
