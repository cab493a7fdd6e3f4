package core

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"hireloop/internal/sessionstore"
	"hireloop/pkg/schema"
)

// Engine is the interview orchestration engine: it owns the phase-handler
// loop and the checkpoint/resume protocol. Within one session all steps
// are strictly sequential; across sessions the engine is fully parallel,
// with a per-session lock guarding read-modify-write on the store.
type Engine struct {
	cfg      *Config
	collab   Collaborator
	jobs     JobContextSource
	bank     QuestionBank
	archiver ResponseArchiver
	store    sessionstore.Store[*SessionState]
	logger   *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// EngineOption configures optional engine collaborators.
type EngineOption func(*Engine)

// WithArchiver attaches a best-effort response archiver.
func WithArchiver(a ResponseArchiver) EngineOption {
	return func(e *Engine) { e.archiver = a }
}

// WithQuestionBank attaches a reference-question source.
func WithQuestionBank(b QuestionBank) EngineOption {
	return func(e *Engine) { e.bank = b }
}

// NewEngine creates an engine. A nil config uses the defaults; the question
// bank defaults to empty and the archiver to none.
func NewEngine(cfg *Config, collab Collaborator, jobs JobContextSource, store sessionstore.Store[*SessionState], logger *zap.Logger, opts ...EngineOption) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		cfg:    cfg,
		collab: collab,
		jobs:   jobs,
		bank:   EmptyQuestionBank{},
		store:  store,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// sessionLock returns the mutex serializing access to one session id.
func (e *Engine) sessionLock(sessionID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[sessionID] = l
	}
	return l
}

// StartResult is returned by StartSession.
type StartResult struct {
	SessionID string
	Stage     schema.Stage
	Question  string
}

// EvaluationSummary reports the latest and average confidence after a turn.
type EvaluationSummary struct {
	LastConfidence float64
	AvgConfidence  float64
	Trend          schema.Trend
}

// TurnResult is returned by SubmitAnswer.
type TurnResult struct {
	Stage        schema.Stage
	NextQuestion string
	// Closing carries the interviewer's final remark on the completing
	// turn, when the session ends through the wrapup stage.
	Closing    string
	IsComplete bool
	Evaluation *EvaluationSummary
	Final      *FinalResult
}

// StateSummary is the read-only view returned by GetState.
type StateSummary struct {
	SessionID       string
	Stage           schema.Stage
	CurrentQuestion string
	QuestionsAsked  int
	AvgConfidence   float64
	AvgClarity      float64
	AvgTechnical    float64
	Trend           schema.Trend
	IsComplete      bool
}

// FinalResult is the terminal output of a session.
type FinalResult struct {
	Recommendation schema.Recommendation
	Feedback       *schema.FeedbackReport
	Scores         map[string]float64
}

// step runs phase handlers until a handler suspends on external input or
// the session completes. Suspension is a plain return; there is no
// background work left running afterwards.
func (e *Engine) step(ctx context.Context, s *SessionState) {
	for {
		switch s.CurrentStage {
		case schema.StageLoading:
			e.runLoadContext(ctx, s)
			return
		case schema.StageWarmup:
			if e.runWarmup(ctx, s) {
				return
			}
		case schema.StageTechnical:
			if e.runTechnical(ctx, s) {
				return
			}
		case schema.StageDeepDive:
			if e.runDeepDive(ctx, s) {
				return
			}
		case schema.StageWrapup:
			if e.runWrapup(ctx, s) {
				return
			}
		case schema.StageFeedback:
			e.runFeedback(ctx, s)
		default:
			// complete
			return
		}
	}
}

// StartSession creates a fresh session, runs it to the first suspend point
// and persists the checkpoint.
func (e *Engine) StartSession(ctx context.Context, jobID, candidateID string) (*StartResult, error) {
	s := NewSessionState(jobID, candidateID)

	lock := e.sessionLock(s.SessionID)
	lock.Lock()
	defer lock.Unlock()

	e.step(ctx, s)

	if err := e.store.Put(ctx, s.SessionID, s); err != nil {
		return nil, &StoreError{Operation: "put", SessionID: s.SessionID, Err: err}
	}

	e.logger.Info("session started",
		zap.String("session_id", s.SessionID),
		zap.String("job_id", jobID),
		zap.String("candidate_id", candidateID))

	return &StartResult{
		SessionID: s.SessionID,
		Stage:     s.CurrentStage,
		Question:  s.CurrentQuestion,
	}, nil
}

// SubmitAnswer resumes a suspended session with the candidate's answer,
// runs handlers until the next suspend point or completion, and persists.
func (e *Engine) SubmitAnswer(ctx context.Context, sessionID, answer string) (*TurnResult, error) {
	lock := e.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	s, err := e.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.IsComplete() {
		return nil, &SessionCompleteError{SessionID: sessionID}
	}

	s.AddTurn(schema.RoleCandidate, answer)
	s.LastResponse = answer
	s.PendingResponse = false

	e.step(ctx, s)

	if err := e.store.Put(ctx, sessionID, s); err != nil {
		return nil, &StoreError{Operation: "put", SessionID: sessionID, Err: err}
	}

	result := &TurnResult{
		Stage:      s.CurrentStage,
		IsComplete: s.IsComplete(),
	}
	if s.PendingResponse {
		result.NextQuestion = s.CurrentQuestion
	}
	if n := len(s.ConfidenceScores); n > 0 {
		result.Evaluation = &EvaluationSummary{
			LastConfidence: s.ConfidenceScores[n-1],
			AvgConfidence:  s.AvgConfidence,
			Trend:          s.ConfidenceTrend,
		}
	}
	if s.IsComplete() {
		result.Closing = s.CurrentQuestion
		result.Final = e.finalResult(s)
	}
	return result, nil
}

// GetState returns a read-only summary. Repeated calls between submissions
// observe identical state.
func (e *Engine) GetState(ctx context.Context, sessionID string) (*StateSummary, error) {
	s, err := e.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &StateSummary{
		SessionID:       s.SessionID,
		Stage:           s.CurrentStage,
		CurrentQuestion: s.CurrentQuestion,
		QuestionsAsked:  s.QuestionsAsked,
		AvgConfidence:   s.AvgConfidence,
		AvgClarity:      s.AvgClarity,
		AvgTechnical:    s.AvgTechnical,
		Trend:           s.ConfidenceTrend,
		IsComplete:      s.IsComplete(),
	}, nil
}

// ForceComplete ends a session now: it jumps straight to the feedback
// stage, runs it synchronously and persists the terminal state. This is
// the only externally triggered transition. An already-complete session
// returns its stored result.
func (e *Engine) ForceComplete(ctx context.Context, sessionID string) (*FinalResult, error) {
	lock := e.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	s, err := e.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !s.IsComplete() {
		s.PendingResponse = false
		s.advanceTo(schema.StageFeedback)
		e.runFeedback(ctx, s)

		if err := e.store.Put(ctx, sessionID, s); err != nil {
			return nil, &StoreError{Operation: "put", SessionID: sessionID, Err: err}
		}
		e.logger.Info("session force-completed", zap.String("session_id", sessionID))
	}

	return e.finalResult(s), nil
}

// DeleteSession removes the session checkpoint. Deletion is caller-owned
// housekeeping; the engine never deletes sessions on its own.
func (e *Engine) DeleteSession(ctx context.Context, sessionID string) error {
	lock := e.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	if err := e.store.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, sessionstore.ErrNotFound) {
			return &SessionNotFoundError{SessionID: sessionID, Err: err}
		}
		return &StoreError{Operation: "delete", SessionID: sessionID, Err: err}
	}

	e.mu.Lock()
	delete(e.locks, sessionID)
	e.mu.Unlock()
	return nil
}

func (e *Engine) load(ctx context.Context, sessionID string) (*SessionState, error) {
	s, err := e.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessionstore.ErrNotFound) {
			return nil, &SessionNotFoundError{SessionID: sessionID, Err: err}
		}
		return nil, &StoreError{Operation: "get", SessionID: sessionID, Err: err}
	}
	// Callers mutate the state freely; a store is allowed to hand back
	// an instance it retains.
	return s.Clone(), nil
}

func (e *Engine) finalResult(s *SessionState) *FinalResult {
	return &FinalResult{
		Recommendation: s.Recommendation,
		Feedback:       s.FinalFeedback,
		Scores: map[string]float64{
			"confidence":         s.AvgConfidence,
			"clarity":            s.AvgClarity,
			"technical":          s.AvgTechnical,
			"questions_answered": float64(s.QuestionsAsked),
		},
	}
}
