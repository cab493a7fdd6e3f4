package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"hireloop/internal/llm/tasks"
	"hireloop/pkg/schema"
)

// Scripted lines used when the generation collaborator is unavailable.
// They keep the state machine moving; the error slot records the
// substitution for operators.
const (
	fallbackWarmupQuestion    = "Tell me about a piece of work from the last year that you are particularly proud of. What was your role in it?"
	fallbackTechnicalQuestion = "Describe a technically challenging problem you solved recently. How did you approach it, and what trade-offs did you consider?"
	fallbackDeepDiveQuestion  = "Suppose the system you just described had to handle ten times its current load. What would break first, and how would you redesign it?"
	wrapupInvite              = "We've covered a lot of ground today. Before we wrap up, do you have any questions about the role, the team, or the company?"
	fallbackClosing           = "Thank you for taking the time to speak with us today. The recruiting team will review the conversation and be in touch with next steps. Best of luck!"
)

// advanceTo switches stage, resetting the per-stage question counter.
func (s *SessionState) advanceTo(next schema.Stage) {
	s.CurrentStage = next
	s.QuestionsInStage = 0
}

// recordFault notes a recovered collaborator failure in the diagnostics
// slot. It never affects control flow.
func (s *SessionState) recordFault(op string, err error) {
	s.LastError = fmt.Sprintf("%s: %v", op, err)
	s.RetryCount++
}

// runLoadContext loads the job context and opens the conversation. Always
// suspends on the opening question.
func (e *Engine) runLoadContext(ctx context.Context, s *SessionState) {
	job, err := e.jobs.GetJobContext(ctx, s.JobID)
	if err != nil || job == nil {
		if err != nil {
			e.logger.Warn("job context lookup failed, using default",
				zap.String("session_id", s.SessionID),
				zap.String("job_id", s.JobID),
				zap.Error(err))
			s.recordFault("get_job_context", err)
		}
		job = &schema.JobContext{
			JobID:              s.JobID,
			Title:              "Software Engineer",
			CompanyName:        "the company",
			SkillsRequired:     []string{"problem solving"},
			ExperienceRequired: 2,
		}
	}
	s.JobContext = job

	questions, err := e.bank.QuestionsForStage(ctx, schema.StageWarmup, job.SkillsRequired, s.DifficultyLevel, 5)
	if err != nil {
		e.logger.Warn("question bank unavailable",
			zap.String("session_id", s.SessionID),
			zap.Error(err))
		s.recordFault("questions_for_stage", err)
	}
	s.RetrievedQuestions = questions

	opening := fmt.Sprintf(
		"Hello! Welcome to your interview for the %s position at %s. "+
			"We'll start with a few questions to get to know you better, then move "+
			"into some technical discussion. Take your time with your answers.\n\n"+
			"Let's begin: can you tell me a bit about yourself and what interests you about this role?",
		job.Title, job.CompanyName)

	s.AddTurn(schema.RoleInterviewer, opening)
	s.CurrentQuestion = opening
	s.PendingResponse = true
	s.advanceTo(schema.StageWarmup)
}

// evaluateAnswer scores the pending candidate answer, substituting neutral
// scores when the evaluator is unavailable, and feeds the aggregator. It
// returns the evaluation and whether there was an answer to evaluate. An
// answer is scored exactly once: after a stage transition the new handler
// sees the same turn already evaluated and skips it.
func (e *Engine) evaluateAnswer(ctx context.Context, s *SessionState) (schema.Evaluation, bool) {
	if s.LastResponse == "" || s.lastCandidateTurnEvaluated() {
		return schema.Evaluation{}, false
	}

	out, err := e.collab.EvaluateResponse(ctx, &tasks.EvaluationInput{
		Response: s.LastResponse,
		Question: s.CurrentQuestion,
		Stage:    s.CurrentStage,
		Job:      s.JobContext,
	})
	var eval schema.Evaluation
	if err != nil {
		e.logger.Warn("evaluation failed, substituting neutral scores",
			zap.String("session_id", s.SessionID),
			zap.String("stage", string(s.CurrentStage)),
			zap.Error(err))
		s.recordFault("evaluate_response", err)
		eval = schema.Evaluation{
			Confidence: NeutralScore,
			Clarity:    NeutralScore,
			Technical:  NeutralScore,
			Depth:      NeutralScore,
		}
	} else {
		eval = out.Evaluation()
	}

	s.AttachEvaluation(eval)
	s.RecordEvaluation(eval)

	if e.archiver != nil {
		e.archiver.Archive(ResponseRecord{
			SessionID:       s.SessionID,
			Question:        s.CurrentQuestion,
			Response:        s.LastResponse,
			Stage:           s.CurrentStage,
			ConfidenceScore: eval.Confidence,
			TechnicalScore:  eval.Technical,
			HighQuality:     s.AvgTechnical >= e.cfg.Thresholds.TechnicalDeepDive,
		})
	}

	return eval, true
}

// askQuestion requests the next question from the generation collaborator,
// falling back to a scripted line, and suspends the session on it.
func (e *Engine) askQuestion(ctx context.Context, s *SessionState, input *tasks.QuestionInput, fallback string) {
	question := fallback
	out, err := e.collab.GenerateQuestion(ctx, input)
	if err != nil || out == nil || out.Question == "" {
		if err != nil {
			e.logger.Warn("question generation failed, using scripted fallback",
				zap.String("session_id", s.SessionID),
				zap.String("stage", string(s.CurrentStage)),
				zap.Error(err))
			s.recordFault("generate_question", err)
		}
	} else {
		question = out.Question
	}

	s.AddTurn(schema.RoleInterviewer, question)
	s.CurrentQuestion = question
	s.QuestionsAsked++
	s.QuestionsInStage++
	s.PendingResponse = true
	s.LastResponse = ""
}

// runWarmup handles the rapport-building stage. Warmup reads the
// soft-skill signals only; a hesitant answer lowers difficulty one step
// instead of going through the adaptor.
func (e *Engine) runWarmup(ctx context.Context, s *SessionState) bool {
	if s.PendingResponse {
		return true
	}

	if eval, ok := e.evaluateAnswer(ctx, s); ok {
		if eval.Confidence < e.cfg.Thresholds.ConfidenceSimplify {
			s.StruggleCount++
			s.ShouldSimplify = true
		} else {
			s.StruggleCount = 0
			s.ShouldSimplify = false
		}
		s.ShouldAdvance = s.AvgConfidence >= e.cfg.Thresholds.ConfidenceAdvance &&
			s.AvgClarity >= e.cfg.Thresholds.ClarityAdvance &&
			s.QuestionsInStage >= 2
	}

	if next := NextStage(e.cfg, s); next != schema.StageWarmup {
		s.advanceTo(next)
		return false
	}

	difficulty := s.DifficultyLevel
	if s.ShouldSimplify && difficulty > schema.DifficultyMin {
		difficulty--
	}
	s.DifficultyLevel = difficulty

	e.askQuestion(ctx, s, &tasks.QuestionInput{
		Stage:            schema.StageWarmup,
		Job:              s.JobContext,
		DifficultyLevel:  difficulty,
		QuestionsInStage: s.QuestionsInStage,
		MaxPerStage:      e.cfg.Limits.MaxQuestionsPerStage,
		RecentQuestions:  s.RecentQuestions(3),
		LastResponse:     s.LastResponse,
		Reference:        s.RetrievedQuestions,
	}, fallbackWarmupQuestion)
	return true
}

// runTechnical handles the core assessment stage.
func (e *Engine) runTechnical(ctx context.Context, s *SessionState) bool {
	if s.PendingResponse {
		return true
	}

	if eval, ok := e.evaluateAnswer(ctx, s); ok {
		if eval.Technical < e.cfg.Thresholds.TechnicalStruggleFloor {
			s.StruggleCount++
		} else {
			s.StruggleCount = 0
		}
		if !s.FatigueDetected &&
			s.ConfidenceTrend == schema.TrendDeclining &&
			s.AvgTechnical < e.cfg.Thresholds.FatigueTechnicalFloor &&
			s.QuestionsAsked >= e.cfg.Thresholds.FatigueMinQuestionsTechnical {
			s.FatigueDetected = true
		}
		s.DifficultyLevel = AdjustDifficulty(e.cfg, s.DifficultyLevel, eval)
	}

	if next := NextStage(e.cfg, s); next != schema.StageTechnical {
		s.advanceTo(next)
		return false
	}

	e.askQuestion(ctx, s, &tasks.QuestionInput{
		Stage:            schema.StageTechnical,
		Job:              s.JobContext,
		DifficultyLevel:  s.DifficultyLevel,
		QuestionsInStage: s.QuestionsInStage,
		MaxPerStage:      e.cfg.Limits.MaxQuestionsPerStage,
		RecentQuestions:  s.RecentQuestions(3),
		LastResponse:     s.LastResponse,
		AvgTechnical:     s.AvgTechnical,
		Trend:            s.ConfidenceTrend,
	}, fallbackTechnicalQuestion)
	return true
}

// runDeepDive handles advanced probing for strong candidates. Struggle here
// reads the depth and technical signals together, and follow-ups anchor on
// the candidate's strongest answer so far.
func (e *Engine) runDeepDive(ctx context.Context, s *SessionState) bool {
	if s.PendingResponse {
		return true
	}

	if eval, ok := e.evaluateAnswer(ctx, s); ok {
		if eval.Depth < e.cfg.Thresholds.DeepDiveStruggleFloor &&
			eval.Technical < e.cfg.Thresholds.DeepDiveStruggleFloor {
			s.StruggleCount++
		} else {
			s.StruggleCount = 0
		}
		if !s.FatigueDetected &&
			s.ConfidenceTrend == schema.TrendDeclining &&
			s.QuestionsAsked >= e.cfg.Thresholds.FatigueMinQuestionsDeepDive {
			s.FatigueDetected = true
		}
		s.DifficultyLevel = AdjustDifficulty(e.cfg, s.DifficultyLevel, eval)
	}

	if next := NextStage(e.cfg, s); next != schema.StageDeepDive {
		s.advanceTo(next)
		return false
	}

	e.askQuestion(ctx, s, &tasks.QuestionInput{
		Stage:            schema.StageDeepDive,
		Job:              s.JobContext,
		DifficultyLevel:  s.DifficultyLevel,
		QuestionsInStage: s.QuestionsInStage,
		MaxPerStage:      e.cfg.Limits.MaxQuestionsPerStage,
		RecentQuestions:  s.RecentQuestions(3),
		LastResponse:     s.LastResponse,
		BestResponse:     s.bestCandidateResponse(),
		AvgTechnical:     s.AvgTechnical,
		AvgDepth:         RollingAverage(s.DepthScores),
		Trend:            s.ConfidenceTrend,
	}, fallbackDeepDiveQuestion)
	return true
}

// lastCandidateTurnEvaluated reports whether the most recent candidate
// turn already carries an evaluation.
func (s *SessionState) lastCandidateTurnEvaluated() bool {
	for i := len(s.Turns) - 1; i >= 0; i-- {
		if s.Turns[i].Role == schema.RoleCandidate {
			return s.Turns[i].Evaluation != nil
		}
	}
	return false
}

// bestCandidateResponse returns the candidate answer with the highest
// technical score, or empty when nothing has been scored yet.
func (s *SessionState) bestCandidateResponse() string {
	best := ""
	bestScore := -1.0
	for _, t := range s.Turns {
		if t.Role == schema.RoleCandidate && t.Evaluation != nil && t.Evaluation.Technical > bestScore {
			best = t.Content
			bestScore = t.Evaluation.Technical
		}
	}
	return best
}

// runWrapup closes the interview over two scripted-or-generated turns: an
// invitation for candidate questions, then a closing remark that does not
// await a response. Wrapup answers are logged but not scored.
func (e *Engine) runWrapup(ctx context.Context, s *SessionState) bool {
	if s.PendingResponse {
		return true
	}

	if next := NextStage(e.cfg, s); next != schema.StageWrapup {
		s.advanceTo(next)
		return false
	}

	if s.QuestionsInStage == 0 {
		s.AddTurn(schema.RoleInterviewer, wrapupInvite)
		s.CurrentQuestion = wrapupInvite
		s.QuestionsAsked++
		s.QuestionsInStage = 1
		s.PendingResponse = true
		s.LastResponse = ""
		return true
	}

	closing := fallbackClosing
	out, err := e.collab.GenerateClosing(ctx, &tasks.ClosingInput{
		Job:               s.JobContext,
		CandidateQuestion: s.LastResponse,
	})
	if err != nil || out == nil || out.Closing == "" {
		if err != nil {
			e.logger.Warn("closing generation failed, using scripted fallback",
				zap.String("session_id", s.SessionID),
				zap.Error(err))
			s.recordFault("generate_closing", err)
		}
	} else {
		closing = out.Closing
	}

	s.AddTurn(schema.RoleInterviewer, closing)
	s.CurrentQuestion = closing
	s.QuestionsInStage = 2
	s.PendingResponse = false
	s.LastResponse = ""
	return false
}

// runFeedback compiles the transcript and aggregates, requests the
// structured report, and falls back to the rule-derived report on any
// failure. It always leaves the session complete with a non-nil
// recommendation.
func (e *Engine) runFeedback(ctx context.Context, s *SessionState) {
	input := &tasks.FeedbackInput{
		Job:             s.JobContext,
		Transcript:      s.Transcript(),
		AvgConfidence:   RollingAverage(s.ConfidenceScores),
		AvgClarity:      RollingAverage(s.ClarityScores),
		AvgTechnical:    RollingAverage(s.TechnicalScores),
		AvgDepth:        RollingAverage(s.DepthScores),
		Trend:           s.ConfidenceTrend,
		StruggleCount:   s.StruggleCount,
		FatigueDetected: s.FatigueDetected,
		QuestionsAsked:  s.QuestionsAsked,
	}

	report := (*schema.FeedbackReport)(nil)
	out, err := e.collab.GenerateFeedback(ctx, input)
	if err == nil && out != nil {
		if vErr := schema.ValidateFeedbackReport(&out.Report); vErr != nil {
			err = vErr
		} else {
			r := out.Report
			report = &r
		}
	}
	if report == nil {
		if err != nil {
			e.logger.Warn("feedback generation failed, using rule-derived report",
				zap.String("session_id", s.SessionID),
				zap.Error(err))
			s.recordFault("generate_feedback", err)
		}
		report = fallbackFeedback(input)
	}

	s.FinalFeedback = report
	s.Recommendation = report.Recommendation
	s.PendingResponse = false
	s.advanceTo(schema.StageComplete)
}

// fallbackFeedback derives a report purely from the aggregate metrics. The
// recommendation weights technical 0.4, clarity 0.3 and confidence 0.3.
// This path must never fail.
func fallbackFeedback(input *tasks.FeedbackInput) *schema.FeedbackReport {
	weighted := 0.4*input.AvgTechnical + 0.3*input.AvgClarity + 0.3*input.AvgConfidence

	var rec schema.Recommendation
	switch {
	case weighted >= 0.75:
		rec = schema.RecommendationStrongHire
	case weighted >= 0.6:
		rec = schema.RecommendationHire
	case weighted >= 0.4:
		rec = schema.RecommendationMaybe
	default:
		rec = schema.RecommendationNoHire
	}

	return &schema.FeedbackReport{
		OverallSummary: fmt.Sprintf(
			"Automated summary over %d answered questions: technical %.2f, clarity %.2f, confidence %.2f (trend %s). Detailed narrative analysis was unavailable for this session.",
			input.QuestionsAsked, input.AvgTechnical, input.AvgClarity, input.AvgConfidence, input.Trend),
		CommunicationSignals: []string{fmt.Sprintf("Average clarity %.2f across evaluated answers.", input.AvgClarity)},
		ConfidenceSignals:    []string{fmt.Sprintf("Confidence averaged %.2f with a %s trend.", input.AvgConfidence, input.Trend)},
		TechnicalSignals:     []string{fmt.Sprintf("Technical accuracy averaged %.2f.", input.AvgTechnical)},
		AdaptabilitySignals:  []string{fmt.Sprintf("%d struggle markers recorded.", input.StruggleCount)},
		Strengths:            []string{"Completed the full interview session."},
		Opportunities:        []string{"Review the transcript manually for detail the automated summary lacks."},
		RoleAlignment:        "Derived from aggregate metrics only; see transcript for specifics.",
		Recommendation:       rec,
	}
}
