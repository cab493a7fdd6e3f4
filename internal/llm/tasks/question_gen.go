package tasks

import (
	"context"
	"fmt"
	"strings"

	"hireloop/internal/llm"
	"hireloop/pkg/schema"
)

// ExecuteQuestionGen generates the next interview question for a stage.
func ExecuteQuestionGen(
	gen TextGenerator,
	ctx context.Context,
	input *QuestionInput,
) (*QuestionOutput, error) {
	prompt := llm.BuildQuestionPrompt(
		input.Stage,
		input.Job,
		input.DifficultyLevel,
		input.RecentQuestions,
		input.LastResponse,
		input.BestResponse,
		input.Reference,
	)

	text, err := gen.GenerateText(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}

	question := strings.TrimSpace(text)
	if err := validateQuestion(question); err != nil {
		return nil, err
	}

	return &QuestionOutput{Question: question}, nil
}

// ExecuteClosing generates the wrapup closing remark.
func ExecuteClosing(
	gen TextGenerator,
	ctx context.Context,
	input *ClosingInput,
) (*ClosingOutput, error) {
	prompt := llm.BuildClosingPrompt(input.Job, input.CandidateQuestion)

	text, err := gen.GenerateText(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("closing generation failed: %w", err)
	}

	closing := strings.TrimSpace(text)
	if closing == "" {
		return nil, fmt.Errorf("closing generation returned empty output")
	}

	return &ClosingOutput{Closing: closing}, nil
}

func validateQuestion(question string) error {
	if len(question) < schema.QuestionTextMin {
		return fmt.Errorf("generated question too short: %d chars", len(question))
	}
	if len(question) > schema.QuestionTextMax {
		return fmt.Errorf("generated question too long: %d chars", len(question))
	}
	return nil
}
