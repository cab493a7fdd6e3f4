package core

import (
	"time"

	"hireloop/pkg/schema"
)

// SessionState is the complete record of one interview. It flows through
// every phase handler and is what the checkpoint store persists; the YAML
// tags define the checkpoint format.
type SessionState struct {
	// Identifiers, immutable after creation.
	SessionID   string    `yaml:"session_id"`
	JobID       string    `yaml:"job_id"`
	CandidateID string    `yaml:"candidate_id"`
	StartedAt   time.Time `yaml:"started_at"`

	// Stage control.
	CurrentStage    schema.Stage `yaml:"current_stage"`
	DifficultyLevel int          `yaml:"difficulty_level"`

	// Question tracking.
	QuestionsAsked   int `yaml:"questions_asked"`
	QuestionsInStage int `yaml:"questions_in_stage"`

	// Context, set once during loading.
	JobContext         *schema.JobContext         `yaml:"job_context,omitempty"`
	RetrievedQuestions []schema.ReferenceQuestion `yaml:"retrieved_questions,omitempty"`

	// Conversation.
	Turns           []schema.Turn `yaml:"turns"`
	CurrentQuestion string        `yaml:"current_question"`
	PendingResponse bool          `yaml:"pending_response"`
	LastResponse    string        `yaml:"last_response,omitempty"`

	// Evaluation histories, parallel and never truncated.
	ConfidenceScores []float64 `yaml:"confidence_scores"`
	ClarityScores    []float64 `yaml:"clarity_scores"`
	TechnicalScores  []float64 `yaml:"technical_scores"`
	DepthScores      []float64 `yaml:"depth_scores"`

	// Cached aggregates, pure functions of the histories.
	AvgConfidence   float64      `yaml:"avg_confidence"`
	AvgClarity      float64      `yaml:"avg_clarity"`
	AvgTechnical    float64      `yaml:"avg_technical"`
	ConfidenceTrend schema.Trend `yaml:"confidence_trend"`

	// Control signals.
	ShouldAdvance   bool `yaml:"should_advance"`
	ShouldSimplify  bool `yaml:"should_simplify"`
	FatigueDetected bool `yaml:"fatigue_detected"`
	StruggleCount   int  `yaml:"struggle_count"`

	// Output, nil until the feedback stage has run.
	FinalFeedback  *schema.FeedbackReport `yaml:"final_feedback,omitempty"`
	Recommendation schema.Recommendation  `yaml:"recommendation,omitempty"`

	// Diagnostics only; never drives control flow.
	LastError  string `yaml:"last_error,omitempty"`
	RetryCount int    `yaml:"retry_count"`
}

// NewSessionState creates the initial state for a fresh interview.
func NewSessionState(jobID, candidateID string) *SessionState {
	return &SessionState{
		SessionID:   schema.NewSessionID(),
		JobID:       jobID,
		CandidateID: candidateID,
		StartedAt:   time.Now().UTC(),

		CurrentStage:    schema.StageLoading,
		DifficultyLevel: 3,

		Turns:            make([]schema.Turn, 0),
		ConfidenceScores: make([]float64, 0),
		ClarityScores:    make([]float64, 0),
		TechnicalScores:  make([]float64, 0),
		DepthScores:      make([]float64, 0),

		// Neutral priors until the first evaluated turn.
		AvgConfidence:   NeutralScore,
		AvgClarity:      NeutralScore,
		AvgTechnical:    NeutralScore,
		ConfidenceTrend: schema.TrendStable,
	}
}

// AddTurn appends a turn to the conversation log.
func (s *SessionState) AddTurn(role schema.Role, content string) {
	s.Turns = append(s.Turns, schema.Turn{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
}

// AttachEvaluation attaches an evaluation to the most recent candidate turn.
// A no-op when the log has no candidate turn to attach to.
func (s *SessionState) AttachEvaluation(eval schema.Evaluation) {
	for i := len(s.Turns) - 1; i >= 0; i-- {
		if s.Turns[i].Role == schema.RoleCandidate {
			e := eval
			s.Turns[i].Evaluation = &e
			return
		}
	}
}

// IsComplete reports whether the session has reached the terminal stage.
func (s *SessionState) IsComplete() bool {
	return s.CurrentStage.Terminal()
}

// Clone creates a deep copy of the session state.
func (s *SessionState) Clone() *SessionState {
	clone := *s

	clone.Turns = make([]schema.Turn, len(s.Turns))
	copy(clone.Turns, s.Turns)
	for i, t := range s.Turns {
		if t.Evaluation != nil {
			e := *t.Evaluation
			clone.Turns[i].Evaluation = &e
		}
	}

	clone.ConfidenceScores = append([]float64(nil), s.ConfidenceScores...)
	clone.ClarityScores = append([]float64(nil), s.ClarityScores...)
	clone.TechnicalScores = append([]float64(nil), s.TechnicalScores...)
	clone.DepthScores = append([]float64(nil), s.DepthScores...)

	clone.RetrievedQuestions = append([]schema.ReferenceQuestion(nil), s.RetrievedQuestions...)

	if s.JobContext != nil {
		jc := *s.JobContext
		jc.SkillsRequired = append([]string(nil), s.JobContext.SkillsRequired...)
		clone.JobContext = &jc
	}

	if s.FinalFeedback != nil {
		fb := *s.FinalFeedback
		clone.FinalFeedback = &fb
	}

	return &clone
}

// RecentQuestions returns the content of the last n interviewer turns,
// oldest first. Used as context for question generation.
func (s *SessionState) RecentQuestions(n int) []string {
	questions := make([]string, 0, n)
	for _, t := range s.Turns {
		if t.Role == schema.RoleInterviewer {
			questions = append(questions, t.Content)
		}
	}
	if len(questions) > n {
		questions = questions[len(questions)-n:]
	}
	return questions
}

// Transcript renders the conversation log for the feedback prompt.
func (s *SessionState) Transcript() []string {
	lines := make([]string, 0, len(s.Turns))
	for _, t := range s.Turns {
		speaker := "Interviewer"
		if t.Role == schema.RoleCandidate {
			speaker = "Candidate"
		}
		lines = append(lines, speaker+": "+t.Content)
	}
	return lines
}
