package tasks

import (
	"context"

	"hireloop/pkg/schema"
)

// TextGenerator is the free-text completion capability question and closing
// generation run on. Both the OpenRouter client and the Gemini generator
// satisfy it.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// QuestionInput carries everything question generation needs about the
// session. The engine fills only the fields relevant to the stage.
type QuestionInput struct {
	Stage            schema.Stage
	Job              *schema.JobContext
	DifficultyLevel  int
	QuestionsInStage int
	MaxPerStage      int

	RecentQuestions []string
	LastResponse    string
	BestResponse    string

	AvgTechnical float64
	AvgDepth     float64
	Trend        schema.Trend

	Reference []schema.ReferenceQuestion
}

// QuestionOutput is the generated next question.
type QuestionOutput struct {
	Question string
}

// ClosingInput carries context for the wrapup closing remark.
type ClosingInput struct {
	Job               *schema.JobContext
	CandidateQuestion string
}

// ClosingOutput is the generated closing remark.
type ClosingOutput struct {
	Closing string
}

// EvaluationInput is one candidate answer to score.
type EvaluationInput struct {
	Response string
	Question string
	Stage    schema.Stage
	Job      *schema.JobContext
}

// EvaluationOutput is the four-signal score for one answer, with the
// heuristic breakdown retained for diagnostics.
type EvaluationOutput struct {
	Confidence float64 `json:"confidence"`
	Clarity    float64 `json:"clarity"`
	Technical  float64 `json:"technical"`
	Depth      float64 `json:"depth"`

	HesitationRatio float64 `json:"hesitation_ratio,omitempty"`
	AssertionScore  float64 `json:"assertion_score,omitempty"`
	StructureScore  float64 `json:"structure_score,omitempty"`
}

// Evaluation converts the output into the schema signal record.
func (o *EvaluationOutput) Evaluation() schema.Evaluation {
	return schema.Evaluation{
		Confidence: o.Confidence,
		Clarity:    o.Clarity,
		Technical:  o.Technical,
		Depth:      o.Depth,
	}
}

// FeedbackInput is the compiled transcript plus aggregate metrics the
// feedback report is generated from.
type FeedbackInput struct {
	Job        *schema.JobContext
	Transcript []string

	AvgConfidence float64
	AvgClarity    float64
	AvgTechnical  float64
	AvgDepth      float64

	Trend           schema.Trend
	StruggleCount   int
	FatigueDetected bool
	QuestionsAsked  int
}

// FeedbackOutput wraps the structured report.
type FeedbackOutput struct {
	Report schema.FeedbackReport
}
