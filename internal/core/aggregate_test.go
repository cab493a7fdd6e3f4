package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hireloop/pkg/schema"
)

func TestRollingAverage(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   float64
	}{
		{"empty history uses neutral prior", nil, 0.5},
		{"single entry", []float64{0.8}, 0.8},
		{"shorter than window averages all", []float64{0.4, 0.6}, 0.5},
		{"exactly the window", []float64{0.1, 0.2, 0.3, 0.4, 0.5}, 0.3},
		{"longer than window drops oldest", []float64{0.9, 0.1, 0.2, 0.3, 0.4, 0.5}, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RollingAverage(tt.scores), 1e-9)
		})
	}
}

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   schema.Trend
	}{
		{"too short is stable", []float64{0.2, 0.9}, schema.TrendStable},
		{"flat is stable", []float64{0.5, 0.5, 0.5}, schema.TrendStable},
		{"rising past the band", []float64{0.3, 0.4, 0.55}, schema.TrendImproving},
		{"rising within the band", []float64{0.5, 0.55, 0.6}, schema.TrendStable},
		{"falling past the band", []float64{0.8, 0.6, 0.5}, schema.TrendDeclining},
		{"only last three count", []float64{0.1, 0.1, 0.8, 0.6, 0.5}, schema.TrendDeclining},
		{"middle entry ignored by slope", []float64{0.5, 0.1, 0.5}, schema.TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyTrend(tt.scores))
		})
	}
}

func TestRecordEvaluationKeepsHistoriesParallel(t *testing.T) {
	s := NewSessionState("job-1", "cand-1")

	s.RecordEvaluation(schema.Evaluation{Confidence: 0.8, Clarity: 0.7, Technical: 0.6, Depth: 0.5})
	s.RecordEvaluation(schema.Evaluation{Confidence: 0.6, Clarity: 0.5, Technical: 0.4, Depth: 0.3})

	assert.Len(t, s.ConfidenceScores, 2)
	assert.Len(t, s.ClarityScores, 2)
	assert.Len(t, s.TechnicalScores, 2)
	assert.Len(t, s.DepthScores, 2)

	assert.InDelta(t, 0.7, s.AvgConfidence, 1e-9)
	assert.InDelta(t, 0.6, s.AvgClarity, 1e-9)
	assert.InDelta(t, 0.5, s.AvgTechnical, 1e-9)
	assert.Equal(t, schema.TrendStable, s.ConfidenceTrend)
}

func TestRecordEvaluationTrend(t *testing.T) {
	s := NewSessionState("job-1", "cand-1")
	for _, c := range []float64{0.8, 0.6, 0.5} {
		s.RecordEvaluation(schema.Evaluation{Confidence: c, Clarity: 0.5, Technical: 0.5, Depth: 0.5})
	}
	assert.Equal(t, schema.TrendDeclining, s.ConfidenceTrend)
}
