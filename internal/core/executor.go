package core

import (
	"context"

	"hireloop/internal/llm/tasks"
	"hireloop/pkg/schema"
)

// Collaborator abstracts the language-model capabilities the phase handlers
// call. All failures are recoverable: the handlers substitute neutral
// scores or scripted lines and keep the session moving.
type Collaborator interface {
	GenerateQuestion(ctx context.Context, input *tasks.QuestionInput) (*tasks.QuestionOutput, error)
	GenerateClosing(ctx context.Context, input *tasks.ClosingInput) (*tasks.ClosingOutput, error)
	EvaluateResponse(ctx context.Context, input *tasks.EvaluationInput) (*tasks.EvaluationOutput, error)
	GenerateFeedback(ctx context.Context, input *tasks.FeedbackInput) (*tasks.FeedbackOutput, error)
}

// JobContextSource resolves a job id to its posting context.
type JobContextSource interface {
	GetJobContext(ctx context.Context, jobID string) (*schema.JobContext, error)
}

// QuestionBank retrieves reference questions for a stage. May return an
// empty slice; the engine tolerates that.
type QuestionBank interface {
	QuestionsForStage(ctx context.Context, stage schema.Stage, skills []string, difficulty, limit int) ([]schema.ReferenceQuestion, error)
}

// ResponseRecord is one evaluated candidate answer handed to the archiver.
type ResponseRecord struct {
	SessionID       string
	Question        string
	Response        string
	Stage           schema.Stage
	ConfidenceScore float64
	TechnicalScore  float64
	HighQuality     bool
}

// ResponseArchiver receives evaluated answers for best-effort background
// storage. Archive must not block the calling session and its failures
// never affect the state machine.
type ResponseArchiver interface {
	Archive(record ResponseRecord)
}

// MockCollaborator implements Collaborator for testing with canned
// responses, injectable errors and call counters.
type MockCollaborator struct {
	QuestionOutput   *tasks.QuestionOutput
	ClosingOutput    *tasks.ClosingOutput
	EvaluationOutput *tasks.EvaluationOutput
	FeedbackOutput   *tasks.FeedbackOutput

	QuestionError   error
	ClosingError    error
	EvaluationError error
	FeedbackError   error

	QuestionCalls   int
	ClosingCalls    int
	EvaluationCalls int
	FeedbackCalls   int

	// EvaluationQueue, when non-empty, is consumed one entry per call
	// before falling back to EvaluationOutput.
	EvaluationQueue []*tasks.EvaluationOutput
}

// NewMockCollaborator creates a mock with mid-quality defaults.
func NewMockCollaborator() *MockCollaborator {
	return &MockCollaborator{
		QuestionOutput: &tasks.QuestionOutput{
			Question: "Can you walk me through a recent project you are proud of?",
		},
		ClosingOutput: &tasks.ClosingOutput{
			Closing: "Thank you for your time today. The team will be in touch with next steps.",
		},
		EvaluationOutput: &tasks.EvaluationOutput{
			Confidence: 0.7, Clarity: 0.7, Technical: 0.7, Depth: 0.6,
		},
		FeedbackOutput: &tasks.FeedbackOutput{
			Report: schema.FeedbackReport{
				OverallSummary:       "Consistent performance across all stages of the conversation.",
				CommunicationSignals: []string{"Structured, direct answers"},
				ConfidenceSignals:    []string{"Steady confidence throughout"},
				TechnicalSignals:     []string{"Accurate use of terminology"},
				AdaptabilitySignals:  []string{"Built on earlier answers"},
				Strengths:            []string{"Clear communication"},
				Opportunities:        []string{"Broader edge-case discussion"},
				RoleAlignment:        "Well aligned with the posted role.",
				Recommendation:       schema.RecommendationHire,
			},
		},
	}
}

func (m *MockCollaborator) GenerateQuestion(ctx context.Context, input *tasks.QuestionInput) (*tasks.QuestionOutput, error) {
	m.QuestionCalls++
	if m.QuestionError != nil {
		return nil, m.QuestionError
	}
	return m.QuestionOutput, nil
}

func (m *MockCollaborator) GenerateClosing(ctx context.Context, input *tasks.ClosingInput) (*tasks.ClosingOutput, error) {
	m.ClosingCalls++
	if m.ClosingError != nil {
		return nil, m.ClosingError
	}
	return m.ClosingOutput, nil
}

func (m *MockCollaborator) EvaluateResponse(ctx context.Context, input *tasks.EvaluationInput) (*tasks.EvaluationOutput, error) {
	m.EvaluationCalls++
	if m.EvaluationError != nil {
		return nil, m.EvaluationError
	}
	if len(m.EvaluationQueue) > 0 {
		out := m.EvaluationQueue[0]
		m.EvaluationQueue = m.EvaluationQueue[1:]
		return out, nil
	}
	return m.EvaluationOutput, nil
}

func (m *MockCollaborator) GenerateFeedback(ctx context.Context, input *tasks.FeedbackInput) (*tasks.FeedbackOutput, error) {
	m.FeedbackCalls++
	if m.FeedbackError != nil {
		return nil, m.FeedbackError
	}
	return m.FeedbackOutput, nil
}

// StaticJobSource is a JobContextSource serving a fixed context, used in
// tests and in the offline CLI mode.
type StaticJobSource struct {
	Context *schema.JobContext
	Err     error
}

func (s *StaticJobSource) GetJobContext(ctx context.Context, jobID string) (*schema.JobContext, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Context, nil
}

// EmptyQuestionBank is a QuestionBank that always returns no questions.
type EmptyQuestionBank struct{}

func (EmptyQuestionBank) QuestionsForStage(ctx context.Context, stage schema.Stage, skills []string, difficulty, limit int) ([]schema.ReferenceQuestion, error) {
	return nil, nil
}
