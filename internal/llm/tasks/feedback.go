package tasks

import (
	"context"
	"fmt"

	"hireloop/internal/llm"
	"hireloop/pkg/schema"
)

// ExecuteFeedback generates the structured hiring report from the full
// transcript and aggregate metrics, with validation and retry.
func ExecuteFeedback(
	client *llm.Client,
	ctx context.Context,
	input *FeedbackInput,
) (*FeedbackOutput, error) {
	prompt := llm.BuildFeedbackPrompt(llm.FeedbackContext{
		Job:             input.Job,
		Transcript:      input.Transcript,
		AvgConfidence:   input.AvgConfidence,
		AvgClarity:      input.AvgClarity,
		AvgTechnical:    input.AvgTechnical,
		AvgDepth:        input.AvgDepth,
		Trend:           input.Trend,
		StruggleCount:   input.StruggleCount,
		FatigueDetected: input.FatigueDetected,
		QuestionsAsked:  input.QuestionsAsked,
	})

	result, err := llm.GenerateStructured[schema.FeedbackReport](
		client,
		ctx,
		"", // Use default model from config
		prompt,
		schema.ValidateFeedbackReport,
	)
	if err != nil {
		return nil, fmt.Errorf("feedback task failed: %w", err)
	}

	return &FeedbackOutput{Report: *result}, nil
}
