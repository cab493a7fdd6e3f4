package tasks

import (
	"context"
	"strconv"
	"strings"

	"hireloop/internal/llm"
	"hireloop/pkg/schema"
)

// ExecuteEvaluation scores one candidate answer on the four signals.
// Confidence, clarity and depth come from the linguistic heuristics; the
// technical score is model-assisted outside warmup, with a word-count
// heuristic as fallback when the scorer is unavailable or returns garbage.
func ExecuteEvaluation(
	scorer TextGenerator,
	ctx context.Context,
	input *EvaluationInput,
) (*EvaluationOutput, error) {
	hesitation := HesitationRatio(input.Response)
	assertion := AssertionScore(input.Response)
	structure := StructureScore(input.Response)

	out := &EvaluationOutput{
		Confidence:      ConfidenceScore(hesitation, assertion, structure),
		Clarity:         ClarityScore(input.Response),
		Depth:           DepthScore(input.Response),
		HesitationRatio: hesitation,
		AssertionScore:  assertion,
		StructureScore:  structure,
	}

	if input.Stage == schema.StageWarmup {
		// Warmup reads the soft-skill signals; technical is not weighted.
		out.Technical = 0.5
		return out, nil
	}

	out.Technical = technicalScore(scorer, ctx, input)
	return out, nil
}

// technicalScore asks the model for a bare accuracy number.
func technicalScore(scorer TextGenerator, ctx context.Context, input *EvaluationInput) float64 {
	if scorer == nil {
		return technicalFallback(input.Response)
	}

	var skills []string
	if input.Job != nil {
		skills = input.Job.SkillsRequired
	}
	prompt := llm.BuildTechnicalScorePrompt(input.Question, input.Response, skills)

	text, err := scorer.GenerateText(ctx, prompt)
	if err != nil {
		return technicalFallback(input.Response)
	}

	score, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || score < 0 || score > 1 {
		return technicalFallback(input.Response)
	}
	return score
}

// technicalFallback estimates accuracy from answer length alone.
func technicalFallback(response string) float64 {
	switch words := len(strings.Fields(response)); {
	case words < 20:
		return 0.3
	case words < 50:
		return 0.5
	default:
		return 0.6
	}
}
