package core

import "hireloop/pkg/schema"

const (
	// NeutralScore is the prior used before any turn has been evaluated,
	// and the substitute for a failed evaluation.
	NeutralScore = 0.5

	// ScoreWindow is the trailing window for rolling averages.
	ScoreWindow = 5

	// TrendWindow is the number of confidence entries the trend looks at.
	TrendWindow = 3

	trendSlopeBand = 0.1
)

// RollingAverage computes the mean of the last ScoreWindow entries, or of
// the full history when shorter. An empty history yields the neutral prior,
// never NaN.
func RollingAverage(scores []float64) float64 {
	if len(scores) == 0 {
		return NeutralScore
	}
	recent := scores
	if len(recent) > ScoreWindow {
		recent = recent[len(recent)-ScoreWindow:]
	}
	sum := 0.0
	for _, v := range recent {
		sum += v
	}
	return sum / float64(len(recent))
}

// ClassifyTrend classifies the direction of the last three entries using a
// three-point slope estimate: (scores[n-1] - scores[n-3]) / 2. Histories
// shorter than three entries are stable.
func ClassifyTrend(scores []float64) schema.Trend {
	if len(scores) < TrendWindow {
		return schema.TrendStable
	}
	recent := scores[len(scores)-TrendWindow:]
	slope := (recent[len(recent)-1] - recent[0]) / 2

	switch {
	case slope > trendSlopeBand:
		return schema.TrendImproving
	case slope < -trendSlopeBand:
		return schema.TrendDeclining
	default:
		return schema.TrendStable
	}
}

// RecordEvaluation appends one evaluated turn's signals to the histories
// and recomputes the cached aggregates. The four histories always grow
// together, keeping them parallel.
func (s *SessionState) RecordEvaluation(eval schema.Evaluation) {
	s.ConfidenceScores = append(s.ConfidenceScores, eval.Confidence)
	s.ClarityScores = append(s.ClarityScores, eval.Clarity)
	s.TechnicalScores = append(s.TechnicalScores, eval.Technical)
	s.DepthScores = append(s.DepthScores, eval.Depth)

	s.AvgConfidence = RollingAverage(s.ConfidenceScores)
	s.AvgClarity = RollingAverage(s.ClarityScores)
	s.AvgTechnical = RollingAverage(s.TechnicalScores)
	s.ConfidenceTrend = ClassifyTrend(s.ConfidenceScores)
}
