package core

import "hireloop/pkg/schema"

// NextStage decides, from the current state, which stage the session should
// be in for the next turn. Rules are evaluated in priority order and the
// first match wins; when nothing matches the session stays put, which is
// also the behavior for partially populated state. The controller never
// fails.
func NextStage(cfg *Config, s *SessionState) schema.Stage {
	switch s.CurrentStage {
	case schema.StageLoading:
		return schema.StageWarmup

	case schema.StageWarmup:
		if s.ShouldAdvance {
			return schema.StageTechnical
		}
		if s.AvgConfidence >= cfg.Thresholds.ConfidenceAdvance &&
			s.AvgClarity >= cfg.Thresholds.ClarityAdvance &&
			s.QuestionsInStage >= 2 {
			return schema.StageTechnical
		}
		if s.QuestionsInStage >= cfg.Limits.MaxQuestionsPerStage {
			return schema.StageTechnical
		}
		return schema.StageWarmup

	case schema.StageTechnical:
		if s.FatigueDetected || s.StruggleCount >= cfg.Thresholds.TechnicalStruggleLimit {
			return schema.StageWrapup
		}
		if s.QuestionsInStage >= cfg.Limits.MaxQuestionsPerStage {
			if s.AvgTechnical >= cfg.Thresholds.TechnicalDeepDive {
				return schema.StageDeepDive
			}
			return schema.StageWrapup
		}
		if s.AvgTechnical >= cfg.Thresholds.TechnicalDeepDive &&
			(s.ConfidenceTrend == schema.TrendImproving || s.ConfidenceTrend == schema.TrendStable) &&
			s.QuestionsInStage >= 3 {
			return schema.StageDeepDive
		}
		return schema.StageTechnical

	case schema.StageDeepDive:
		if s.FatigueDetected ||
			s.StruggleCount >= cfg.Thresholds.DeepDiveStruggleLimit ||
			s.QuestionsInStage >= cfg.Limits.MaxQuestionsPerStage ||
			s.QuestionsAsked >= cfg.Limits.MaxTotalQuestions {
			return schema.StageWrapup
		}
		return schema.StageDeepDive

	case schema.StageWrapup:
		if s.QuestionsInStage >= 2 {
			return schema.StageFeedback
		}
		return schema.StageWrapup

	case schema.StageFeedback:
		return schema.StageComplete

	default:
		// complete, or an unknown stage from a damaged checkpoint: stay.
		return s.CurrentStage
	}
}
