package tasks

import (
	"context"

	"hireloop/internal/llm"
)

// Collaborator bundles the task executors behind the interface the engine
// consumes. The text generator handles question, closing and technical
// scoring calls and may be a different provider than the structured
// client; the structured client is always OpenRouter.
type Collaborator struct {
	client  *llm.Client
	textGen TextGenerator
}

// NewCollaborator creates a collaborator. When textGen is nil the
// OpenRouter client serves the text tasks as well.
func NewCollaborator(client *llm.Client, textGen TextGenerator) *Collaborator {
	if textGen == nil {
		textGen = client
	}
	return &Collaborator{client: client, textGen: textGen}
}

func (c *Collaborator) GenerateQuestion(ctx context.Context, input *QuestionInput) (*QuestionOutput, error) {
	return ExecuteQuestionGen(c.textGen, ctx, input)
}

func (c *Collaborator) GenerateClosing(ctx context.Context, input *ClosingInput) (*ClosingOutput, error) {
	return ExecuteClosing(c.textGen, ctx, input)
}

func (c *Collaborator) EvaluateResponse(ctx context.Context, input *EvaluationInput) (*EvaluationOutput, error) {
	return ExecuteEvaluation(c.textGen, ctx, input)
}

func (c *Collaborator) GenerateFeedback(ctx context.Context, input *FeedbackInput) (*FeedbackOutput, error) {
	return ExecuteFeedback(c.client, ctx, input)
}
