package core

import "hireloop/pkg/schema"

// AdjustDifficulty moves the difficulty level by at most one step based on
// the latest evaluation, clamped to the schema bounds. Raised on a strong
// confident answer, lowered on a weak technical one, unchanged otherwise.
func AdjustDifficulty(cfg *Config, level int, eval schema.Evaluation) int {
	switch {
	case eval.Technical >= cfg.Thresholds.DifficultyRaiseTechnical &&
		eval.Confidence >= cfg.Thresholds.DifficultyRaiseConfidence:
		level++
	case eval.Technical < cfg.Thresholds.DifficultyLowerTechnical:
		level--
	}

	if level > schema.DifficultyMax {
		level = schema.DifficultyMax
	}
	if level < schema.DifficultyMin {
		level = schema.DifficultyMin
	}
	return level
}
