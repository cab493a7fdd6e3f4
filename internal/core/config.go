package core

import "fmt"

// Limits bounds the length of an interview. Every transition branch is
// guarded by one of these or by a struggle/fatigue circuit breaker, which
// is what guarantees termination.
type Limits struct {
	MaxQuestionsPerStage int `mapstructure:"max-questions-per-stage"`
	MaxTotalQuestions    int `mapstructure:"max-total-questions"`
}

// Thresholds holds the stage-specific evaluation cutoffs used by the
// transition controller, the difficulty adaptor and the struggle/fatigue
// policy. Warmup keys off the soft-skill signals; technical and deep dive
// key off the technical signal and the confidence trend.
type Thresholds struct {
	ConfidenceAdvance  float64 `mapstructure:"confidence-advance"`
	ClarityAdvance     float64 `mapstructure:"clarity-advance"`
	ConfidenceSimplify float64 `mapstructure:"confidence-simplify"`
	TechnicalDeepDive  float64 `mapstructure:"technical-deep-dive"`

	TechnicalStruggleFloor float64 `mapstructure:"technical-struggle-floor"`
	DeepDiveStruggleFloor  float64 `mapstructure:"deep-dive-struggle-floor"`
	TechnicalStruggleLimit int     `mapstructure:"technical-struggle-limit"`
	DeepDiveStruggleLimit  int     `mapstructure:"deep-dive-struggle-limit"`

	FatigueMinQuestionsTechnical int     `mapstructure:"fatigue-min-questions-technical"`
	FatigueMinQuestionsDeepDive  int     `mapstructure:"fatigue-min-questions-deep-dive"`
	FatigueTechnicalFloor        float64 `mapstructure:"fatigue-technical-floor"`

	DifficultyRaiseTechnical  float64 `mapstructure:"difficulty-raise-technical"`
	DifficultyRaiseConfidence float64 `mapstructure:"difficulty-raise-confidence"`
	DifficultyLowerTechnical  float64 `mapstructure:"difficulty-lower-technical"`
}

// Config is the engine configuration.
type Config struct {
	Limits     Limits     `mapstructure:"limits"`
	Thresholds Thresholds `mapstructure:"thresholds"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() *Config {
	return &Config{
		Limits: Limits{
			MaxQuestionsPerStage: 5,
			MaxTotalQuestions:    15,
		},
		Thresholds: Thresholds{
			ConfidenceAdvance:  0.6,
			ClarityAdvance:     0.6,
			ConfidenceSimplify: 0.4,
			TechnicalDeepDive:  0.7,

			TechnicalStruggleFloor: 0.4,
			DeepDiveStruggleFloor:  0.5,
			TechnicalStruggleLimit: 3,
			DeepDiveStruggleLimit:  2,

			FatigueMinQuestionsTechnical: 8,
			FatigueMinQuestionsDeepDive:  10,
			FatigueTechnicalFloor:        0.5,

			DifficultyRaiseTechnical:  0.8,
			DifficultyRaiseConfidence: 0.7,
			DifficultyLowerTechnical:  0.4,
		},
	}
}

// Validate checks the configuration for values that would break the
// termination guarantees.
func (c *Config) Validate() error {
	if c.Limits.MaxQuestionsPerStage < 1 {
		return fmt.Errorf("max-questions-per-stage must be at least 1")
	}
	if c.Limits.MaxTotalQuestions < c.Limits.MaxQuestionsPerStage {
		return fmt.Errorf("max-total-questions must be at least max-questions-per-stage")
	}
	if c.Thresholds.TechnicalStruggleLimit < 1 || c.Thresholds.DeepDiveStruggleLimit < 1 {
		return fmt.Errorf("struggle limits must be at least 1")
	}
	return nil
}
