package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hireloop/internal/llm/tasks"
	"hireloop/internal/sessionstore"
	"hireloop/pkg/schema"
)

func newTestEngine(t *testing.T, collab Collaborator) (*Engine, sessionstore.Store[*SessionState]) {
	t.Helper()
	store := sessionstore.NewMemoryStore[*SessionState]()
	jobs := &StaticJobSource{Context: &schema.JobContext{
		JobID:              "job-1",
		Title:              "Backend Engineer",
		CompanyName:        "Acme",
		SkillsRequired:     []string{"go", "postgres"},
		ExperienceRequired: 3,
	}}
	return NewEngine(DefaultConfig(), collab, jobs, store, nil), store
}

// runToCompletion submits canned answers until the session completes,
// failing the test if it does not terminate within the bound.
func runToCompletion(t *testing.T, e *Engine, sessionID string) (*TurnResult, int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < 40; i++ {
		result, err := e.SubmitAnswer(ctx, sessionID, "I would shard by tenant and cache hot keys.")
		require.NoError(t, err)
		if result.IsComplete {
			return result, i + 1
		}
		require.NotEmpty(t, result.NextQuestion, "suspended without a question on turn %d", i+1)
	}
	t.Fatal("session did not terminate within 40 turns")
	return nil, 0
}

func TestStartSessionOpensWithQuestion(t *testing.T) {
	e, store := newTestEngine(t, NewMockCollaborator())

	start, err := e.StartSession(context.Background(), "job-1", "cand-1")
	require.NoError(t, err)

	assert.NotEmpty(t, start.SessionID)
	assert.Equal(t, schema.StageWarmup, start.Stage)
	assert.Contains(t, start.Question, "Backend Engineer")
	assert.Contains(t, start.Question, "Acme")

	persisted, err := store.Get(context.Background(), start.SessionID)
	require.NoError(t, err)
	assert.True(t, persisted.PendingResponse)
	assert.Len(t, persisted.Turns, 1)
}

func TestFullSessionTerminates(t *testing.T) {
	e, store := newTestEngine(t, NewMockCollaborator())

	start, err := e.StartSession(context.Background(), "job-1", "cand-1")
	require.NoError(t, err)

	final, turns := runToCompletion(t, e, start.SessionID)
	require.NotNil(t, final.Final)
	assert.Equal(t, schema.RecommendationHire, final.Final.Recommendation)
	assert.NotNil(t, final.Final.Feedback)
	assert.Contains(t, final.Closing, "Thank you for your time")

	s, err := store.Get(context.Background(), start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, schema.StageComplete, s.CurrentStage)
	assert.LessOrEqual(t, s.QuestionsAsked, 15)
	assert.LessOrEqual(t, turns, 15)
	assert.Empty(t, s.LastError)
}

func TestStrongCandidateReachesDeepDive(t *testing.T) {
	collab := NewMockCollaborator()
	collab.EvaluationOutput = &tasks.EvaluationOutput{
		Confidence: 0.9, Clarity: 0.9, Technical: 0.9, Depth: 0.9,
	}
	e, store := newTestEngine(t, collab)

	start, err := e.StartSession(context.Background(), "job-1", "cand-1")
	require.NoError(t, err)

	sawDeepDive := false
	ctx := context.Background()
	for i := 0; i < 40; i++ {
		result, err := e.SubmitAnswer(ctx, start.SessionID, "A detailed and confident answer.")
		require.NoError(t, err)
		if result.Stage == schema.StageDeepDive {
			sawDeepDive = true
		}
		if result.IsComplete {
			break
		}
	}
	assert.True(t, sawDeepDive)

	s, err := store.Get(ctx, start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, schema.StageComplete, s.CurrentStage)
	assert.Equal(t, schema.DifficultyMax, s.DifficultyLevel)
}

func TestStrugglingCandidateSkipsDeepDive(t *testing.T) {
	collab := NewMockCollaborator()
	collab.EvaluationOutput = &tasks.EvaluationOutput{
		Confidence: 0.2, Clarity: 0.3, Technical: 0.2, Depth: 0.2,
	}
	e, store := newTestEngine(t, collab)

	start, err := e.StartSession(context.Background(), "job-1", "cand-1")
	require.NoError(t, err)

	_, turns := runToCompletion(t, e, start.SessionID)
	assert.LessOrEqual(t, turns, 8)

	s, err := store.Get(context.Background(), start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, schema.StageComplete, s.CurrentStage)
	// Difficulty was walked down while the candidate struggled.
	assert.Equal(t, schema.DifficultyMin, s.DifficultyLevel)
	for _, turn := range s.Turns {
		assert.NotContains(t, turn.Content, "ten times its current load",
			"a struggling candidate should never see a deep-dive question")
	}
}

func TestEvaluatorFailureSubstitutesNeutralScores(t *testing.T) {
	collab := NewMockCollaborator()
	collab.EvaluationError = errors.New("evaluator unavailable")
	e, store := newTestEngine(t, collab)

	start, err := e.StartSession(context.Background(), "job-1", "cand-1")
	require.NoError(t, err)

	result, err := e.SubmitAnswer(context.Background(), start.SessionID, "An answer.")
	require.NoError(t, err)
	require.NotNil(t, result.Evaluation)
	assert.Equal(t, NeutralScore, result.Evaluation.LastConfidence)

	s, err := store.Get(context.Background(), start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, []float64{NeutralScore}, s.ConfidenceScores)
	assert.Contains(t, s.LastError, "evaluate_response")
	assert.Equal(t, 1, s.RetryCount)
}

func TestQuestionFailureUsesScriptedFallback(t *testing.T) {
	collab := NewMockCollaborator()
	collab.QuestionError = errors.New("generator unavailable")
	e, _ := newTestEngine(t, collab)

	start, err := e.StartSession(context.Background(), "job-1", "cand-1")
	require.NoError(t, err)

	result, err := e.SubmitAnswer(context.Background(), start.SessionID, "An answer.")
	require.NoError(t, err)
	assert.Equal(t, fallbackWarmupQuestion, result.NextQuestion)
}

func TestFeedbackFailureUsesRuleDerivedReport(t *testing.T) {
	collab := NewMockCollaborator()
	collab.FeedbackError = errors.New("model unavailable")
	e, store := newTestEngine(t, collab)

	start, err := e.StartSession(context.Background(), "job-1", "cand-1")
	require.NoError(t, err)

	final, _ := runToCompletion(t, e, start.SessionID)
	require.NotNil(t, final.Final)
	require.NotNil(t, final.Final.Feedback)
	// 0.4*0.7 + 0.3*0.7 + 0.3*0.7 = 0.7 with the mock's default scores.
	assert.Equal(t, schema.RecommendationHire, final.Final.Recommendation)
	assert.NoError(t, schema.ValidateFeedbackReport(final.Final.Feedback))

	s, err := store.Get(context.Background(), start.SessionID)
	require.NoError(t, err)
	assert.Contains(t, s.LastError, "generate_feedback")
}

func TestAnswerEvaluatedOnceAcrossTransition(t *testing.T) {
	collab := NewMockCollaborator()
	collab.EvaluationOutput = &tasks.EvaluationOutput{
		Confidence: 0.9, Clarity: 0.9, Technical: 0.9, Depth: 0.9,
	}
	e, store := newTestEngine(t, collab)

	start, err := e.StartSession(context.Background(), "job-1", "cand-1")
	require.NoError(t, err)

	ctx := context.Background()
	answers := 0
	for i := 0; i < 40; i++ {
		result, err := e.SubmitAnswer(ctx, start.SessionID, "answer")
		require.NoError(t, err)
		answers++
		if result.IsComplete {
			break
		}
	}

	s, err := store.Get(ctx, start.SessionID)
	require.NoError(t, err)
	// The wrapup answer is logged but not scored.
	assert.Equal(t, answers-1, len(s.ConfidenceScores))
	assert.Equal(t, answers-1, collab.EvaluationCalls)
}

func TestGetStateIsIdempotent(t *testing.T) {
	e, _ := newTestEngine(t, NewMockCollaborator())

	start, err := e.StartSession(context.Background(), "job-1", "cand-1")
	require.NoError(t, err)

	first, err := e.GetState(context.Background(), start.SessionID)
	require.NoError(t, err)
	second, err := e.GetState(context.Background(), start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, schema.StageWarmup, first.Stage)
	assert.False(t, first.IsComplete)
}

func TestSubmitAnswerUnknownSession(t *testing.T) {
	e, _ := newTestEngine(t, NewMockCollaborator())

	_, err := e.SubmitAnswer(context.Background(), "no-such-session", "hello")
	var notFound *SessionNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "no-such-session", notFound.SessionID)
	assert.ErrorIs(t, err, sessionstore.ErrNotFound)
}

func TestSubmitAnswerAfterComplete(t *testing.T) {
	e, _ := newTestEngine(t, NewMockCollaborator())

	start, err := e.StartSession(context.Background(), "job-1", "cand-1")
	require.NoError(t, err)
	runToCompletion(t, e, start.SessionID)

	_, err = e.SubmitAnswer(context.Background(), start.SessionID, "one more thing")
	var complete *SessionCompleteError
	assert.ErrorAs(t, err, &complete)
}

func TestForceComplete(t *testing.T) {
	collab := NewMockCollaborator()
	collab.FeedbackError = errors.New("model unavailable")
	e, store := newTestEngine(t, collab)

	start, err := e.StartSession(context.Background(), "job-1", "cand-1")
	require.NoError(t, err)

	final, err := e.ForceComplete(context.Background(), start.SessionID)
	require.NoError(t, err)
	// No answers were evaluated, so the rule-derived report sees the
	// neutral priors and lands in the middle band.
	assert.Equal(t, schema.RecommendationMaybe, final.Recommendation)

	s, err := store.Get(context.Background(), start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, schema.StageComplete, s.CurrentStage)

	// Forcing again returns the stored result without rerunning feedback.
	calls := collab.FeedbackCalls
	again, err := e.ForceComplete(context.Background(), start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, final.Recommendation, again.Recommendation)
	assert.Equal(t, calls, collab.FeedbackCalls)
}

func TestDeleteSession(t *testing.T) {
	e, _ := newTestEngine(t, NewMockCollaborator())

	start, err := e.StartSession(context.Background(), "job-1", "cand-1")
	require.NoError(t, err)

	require.NoError(t, e.DeleteSession(context.Background(), start.SessionID))

	_, err = e.GetState(context.Background(), start.SessionID)
	var notFound *SessionNotFoundError
	assert.ErrorAs(t, err, &notFound)

	err = e.DeleteSession(context.Background(), start.SessionID)
	assert.ErrorAs(t, err, &notFound)
}

// fatigueState builds a technical-stage session at eight questions with a
// declining confidence trend, parameterized by the technical signal.
func fatigueState(t *testing.T, technical float64) *SessionState {
	t.Helper()
	s := NewSessionState("job-1", "cand-1")
	s.CurrentStage = schema.StageTechnical
	s.JobContext = &schema.JobContext{Title: "Backend Engineer"}
	s.QuestionsAsked = 8
	s.QuestionsInStage = 3
	for _, c := range []float64{0.8, 0.6, 0.45} {
		s.RecordEvaluation(schema.Evaluation{Confidence: c, Clarity: 0.6, Technical: technical, Depth: 0.5})
	}
	require.Equal(t, schema.TrendDeclining, s.ConfidenceTrend)

	s.AddTurn(schema.RoleCandidate, "a tired answer")
	s.LastResponse = "a tired answer"
	return s
}

func TestFatigueLatchesInTechnical(t *testing.T) {
	// Declining trend alone is not fatigue; it must coincide with a weak
	// technical average.
	collab := NewMockCollaborator()
	collab.EvaluationOutput = &tasks.EvaluationOutput{
		Confidence: 0.3, Clarity: 0.5, Technical: 0.45, Depth: 0.5,
	}
	e, _ := newTestEngine(t, collab)

	s := fatigueState(t, 0.45)
	suspended := e.runTechnical(context.Background(), s)
	assert.False(t, suspended)
	assert.True(t, s.FatigueDetected)
	assert.Equal(t, schema.StageWrapup, s.CurrentStage)
}

func TestNoFatigueWhenTechnicalHolds(t *testing.T) {
	// A strong candidate with a momentary confidence dip stays in the
	// technical stage.
	collab := NewMockCollaborator()
	collab.EvaluationOutput = &tasks.EvaluationOutput{
		Confidence: 0.3, Clarity: 0.5, Technical: 0.65, Depth: 0.5,
	}
	e, _ := newTestEngine(t, collab)

	s := fatigueState(t, 0.65)
	suspended := e.runTechnical(context.Background(), s)
	assert.True(t, suspended)
	assert.False(t, s.FatigueDetected)
	assert.Equal(t, schema.StageTechnical, s.CurrentStage)
	assert.NotEmpty(t, s.CurrentQuestion)
}

func TestArchiverReceivesEvaluatedAnswers(t *testing.T) {
	var records []ResponseRecord
	archiver := archiverFunc(func(r ResponseRecord) { records = append(records, r) })

	store := sessionstore.NewMemoryStore[*SessionState]()
	jobs := &StaticJobSource{Context: &schema.JobContext{JobID: "job-1", Title: "Engineer", CompanyName: "Acme"}}
	e := NewEngine(DefaultConfig(), NewMockCollaborator(), jobs, store, nil, WithArchiver(archiver))

	start, err := e.StartSession(context.Background(), "job-1", "cand-1")
	require.NoError(t, err)

	_, err = e.SubmitAnswer(context.Background(), start.SessionID, "my answer")
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, start.SessionID, records[0].SessionID)
	assert.Equal(t, "my answer", records[0].Response)
	assert.Equal(t, schema.StageWarmup, records[0].Stage)
}

type archiverFunc func(ResponseRecord)

func (f archiverFunc) Archive(r ResponseRecord) { f(r) }

// pointerStore hands back the exact instances it was given, the way a
// non-serializing store implementation might.
type pointerStore struct {
	states map[string]*SessionState
}

func (p *pointerStore) Get(ctx context.Context, id string) (*SessionState, error) {
	s, ok := p.states[id]
	if !ok {
		return nil, sessionstore.ErrNotFound
	}
	return s, nil
}

func (p *pointerStore) Put(ctx context.Context, id string, s *SessionState) error {
	p.states[id] = s
	return nil
}

func (p *pointerStore) Delete(ctx context.Context, id string) error {
	delete(p.states, id)
	return nil
}

func (p *pointerStore) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(p.states))
	for id := range p.states {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestEngineDoesNotMutateStoredState(t *testing.T) {
	store := &pointerStore{states: make(map[string]*SessionState)}
	jobs := &StaticJobSource{Context: &schema.JobContext{JobID: "job-1", Title: "Engineer", CompanyName: "Acme"}}
	e := NewEngine(DefaultConfig(), NewMockCollaborator(), jobs, store, nil)

	start, err := e.StartSession(context.Background(), "job-1", "cand-1")
	require.NoError(t, err)

	checkpoint := store.states[start.SessionID]
	turns := len(checkpoint.Turns)

	_, err = e.SubmitAnswer(context.Background(), start.SessionID, "my answer")
	require.NoError(t, err)

	assert.Len(t, checkpoint.Turns, turns, "earlier checkpoint mutated by a later submission")
	assert.Equal(t, schema.StageWarmup, checkpoint.CurrentStage)
}
