package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hireloop/pkg/schema"
)

func stateAt(stage schema.Stage, mutate func(*SessionState)) *SessionState {
	s := NewSessionState("job-1", "cand-1")
	s.CurrentStage = stage
	if mutate != nil {
		mutate(s)
	}
	return s
}

func TestNextStageWarmup(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name   string
		mutate func(*SessionState)
		want   schema.Stage
	}{
		{
			"stays below thresholds",
			func(s *SessionState) {
				s.AvgConfidence = 0.5
				s.AvgClarity = 0.5
				s.QuestionsInStage = 2
			},
			schema.StageWarmup,
		},
		{
			"advances on confidence and clarity after two questions",
			func(s *SessionState) {
				s.AvgConfidence = 0.65
				s.AvgClarity = 0.65
				s.QuestionsInStage = 2
			},
			schema.StageTechnical,
		},
		{
			"thresholds alone are not enough before two questions",
			func(s *SessionState) {
				s.AvgConfidence = 0.9
				s.AvgClarity = 0.9
				s.QuestionsInStage = 1
			},
			schema.StageWarmup,
		},
		{
			"advance flag wins",
			func(s *SessionState) {
				s.ShouldAdvance = true
			},
			schema.StageTechnical,
		},
		{
			"per-stage cap forces advance",
			func(s *SessionState) {
				s.AvgConfidence = 0.1
				s.AvgClarity = 0.1
				s.QuestionsInStage = 5
			},
			schema.StageTechnical,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextStage(cfg, stateAt(schema.StageWarmup, tt.mutate)))
		})
	}
}

func TestNextStageTechnical(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name   string
		mutate func(*SessionState)
		want   schema.Stage
	}{
		{
			"stays on middling performance",
			func(s *SessionState) {
				s.AvgTechnical = 0.6
				s.QuestionsInStage = 3
			},
			schema.StageTechnical,
		},
		{
			"deep dive on strong steady performance",
			func(s *SessionState) {
				s.AvgTechnical = 0.75
				s.ConfidenceTrend = schema.TrendStable
				s.QuestionsInStage = 3
			},
			schema.StageDeepDive,
		},
		{
			"no deep dive on declining trend",
			func(s *SessionState) {
				s.AvgTechnical = 0.75
				s.ConfidenceTrend = schema.TrendDeclining
				s.QuestionsInStage = 3
			},
			schema.StageTechnical,
		},
		{
			"struggle breaker goes to wrapup",
			func(s *SessionState) {
				s.AvgTechnical = 0.9
				s.StruggleCount = 3
			},
			schema.StageWrapup,
		},
		{
			"fatigue goes to wrapup",
			func(s *SessionState) {
				s.AvgTechnical = 0.9
				s.FatigueDetected = true
			},
			schema.StageWrapup,
		},
		{
			"cap with strong average goes deep",
			func(s *SessionState) {
				s.AvgTechnical = 0.75
				s.ConfidenceTrend = schema.TrendDeclining
				s.QuestionsInStage = 5
			},
			schema.StageDeepDive,
		},
		{
			"cap with weak average wraps up",
			func(s *SessionState) {
				s.AvgTechnical = 0.5
				s.QuestionsInStage = 5
			},
			schema.StageWrapup,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextStage(cfg, stateAt(schema.StageTechnical, tt.mutate)))
		})
	}
}

func TestNextStageDeepDive(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name   string
		mutate func(*SessionState)
		want   schema.Stage
	}{
		{"stays while fresh", func(s *SessionState) { s.QuestionsInStage = 2 }, schema.StageDeepDive},
		{"per-stage cap", func(s *SessionState) { s.QuestionsInStage = 5 }, schema.StageWrapup},
		{"total cap", func(s *SessionState) { s.QuestionsAsked = 15 }, schema.StageWrapup},
		{"struggle limit", func(s *SessionState) { s.StruggleCount = 2 }, schema.StageWrapup},
		{"fatigue", func(s *SessionState) { s.FatigueDetected = true }, schema.StageWrapup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextStage(cfg, stateAt(schema.StageDeepDive, tt.mutate)))
		})
	}
}

func TestNextStageTailStages(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, schema.StageWarmup, NextStage(cfg, stateAt(schema.StageLoading, nil)))
	assert.Equal(t, schema.StageWrapup, NextStage(cfg, stateAt(schema.StageWrapup, func(s *SessionState) { s.QuestionsInStage = 1 })))
	assert.Equal(t, schema.StageFeedback, NextStage(cfg, stateAt(schema.StageWrapup, func(s *SessionState) { s.QuestionsInStage = 2 })))
	assert.Equal(t, schema.StageComplete, NextStage(cfg, stateAt(schema.StageFeedback, nil)))
	assert.Equal(t, schema.StageComplete, NextStage(cfg, stateAt(schema.StageComplete, nil)))
}
