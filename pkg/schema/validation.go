package schema

import "fmt"

// ValidateEvaluation validates a per-turn evaluation.
func ValidateEvaluation(e *Evaluation) error {
	check := func(name string, v float64) error {
		if v < ScoreMin || v > ScoreMax {
			return fmt.Errorf("%s must be in [%.1f,%.1f], got %v", name, ScoreMin, ScoreMax, v)
		}
		return nil
	}
	if err := check("confidence", e.Confidence); err != nil {
		return err
	}
	if err := check("clarity", e.Clarity); err != nil {
		return err
	}
	if err := check("technical", e.Technical); err != nil {
		return err
	}
	return check("depth", e.Depth)
}

// ValidateRecommendation validates the categorical hiring outcome.
func ValidateRecommendation(r Recommendation) error {
	switch r {
	case RecommendationStrongHire, RecommendationHire, RecommendationMaybe, RecommendationNoHire:
		return nil
	default:
		return fmt.Errorf("invalid recommendation: %s", r)
	}
}

// ValidateFeedbackReport validates a structured feedback report.
func ValidateFeedbackReport(f *FeedbackReport) error {
	if len(f.OverallSummary) < SummaryMin || len(f.OverallSummary) > SummaryMax {
		return fmt.Errorf("overall_summary must be %d-%d characters", SummaryMin, SummaryMax)
	}
	lists := map[string][]string{
		"communication_signals": f.CommunicationSignals,
		"confidence_signals":    f.ConfidenceSignals,
		"technical_signals":     f.TechnicalSignals,
		"adaptability_signals":  f.AdaptabilitySignals,
		"strengths":             f.Strengths,
		"opportunities":         f.Opportunities,
	}
	for name, list := range lists {
		if len(list) == 0 {
			return fmt.Errorf("%s must not be empty", name)
		}
		if len(list) > SignalListMax {
			return fmt.Errorf("%s must have at most %d entries", name, SignalListMax)
		}
	}
	if f.RoleAlignment == "" {
		return fmt.Errorf("role_alignment is required")
	}
	return ValidateRecommendation(f.Recommendation)
}

// ValidateStage validates a stage value read from the outside (a checkpoint
// or a question-bank payload).
func ValidateStage(s Stage) error {
	switch s {
	case StageLoading, StageWarmup, StageTechnical, StageDeepDive, StageWrapup, StageFeedback, StageComplete:
		return nil
	default:
		return fmt.Errorf("invalid stage: %s", s)
	}
}

// ValidateDifficulty validates a difficulty level.
func ValidateDifficulty(d int) error {
	if d < DifficultyMin || d > DifficultyMax {
		return fmt.Errorf("difficulty must be %d-%d, got %d", DifficultyMin, DifficultyMax, d)
	}
	return nil
}
