package tasks

import (
	"regexp"
	"strings"
)

// Linguistic signal extraction for the confidence score. Rule-based only:
// no audio, no emotion inference, just the words the candidate chose.

var hesitationPatterns = compileAll([]string{
	`\bi think\b`,
	`\bmaybe\b`,
	`\bperhaps\b`,
	`\bprobably\b`,
	`\bnot sure\b`,
	`\bi guess\b`,
	`\bsorry\b`,
	`\bum+\b`,
	`\buh+\b`,
	`\blike\b`,
	`\byou know\b`,
	`\bkind of\b`,
	`\bsort of\b`,
	`\bi believe\b`,
})

var assertionPatterns = compileAll([]string{
	`\bi know\b`,
	`\bi am certain\b`,
	`\bi am confident\b`,
	`\bdefinitely\b`,
	`\bclearly\b`,
	`\bobviously\b`,
	`\bspecifically\b`,
	`\bin my experience\b`,
	`\bi have implemented\b`,
	`\bi built\b`,
	`\bi led\b`,
	`\bi designed\b`,
})

var transitionPatterns = compileAll([]string{
	`\bfirst(ly)?\b`, `\bsecond(ly)?\b`, `\bthird(ly)?\b`,
	`\bthen\b`, `\bnext\b`, `\bfinally\b`,
	`\bfor example\b`, `\bspecifically\b`,
	`\bin conclusion\b`, `\bto summarize\b`,
	`\bhowever\b`, `\balso\b`, `\badditionally\b`,
})

var (
	numberedListRe = regexp.MustCompile(`\d+[\.\):]`)
	bulletRe       = regexp.MustCompile(`[-•*]\s`)
)

var depthIndicators = map[string]float64{
	"example":          0.1,
	"for instance":     0.1,
	"specifically":     0.1,
	"trade-off":        0.15,
	"trade off":        0.15,
	"complexity":       0.1,
	"edge case":        0.15,
	"exception":        0.1,
	"in production":    0.15,
	"in my experience": 0.1,
	"we implemented":   0.1,
	"we built":         0.1,
	"challenge":        0.1,
	"solution":         0.1,
	"approach":         0.1,
	"alternative":      0.1,
}

func compileAll(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(p)
	}
	return compiled
}

func countPatterns(text string, patterns []*regexp.Regexp) int {
	lower := strings.ToLower(text)
	total := 0
	for _, p := range patterns {
		total += len(p.FindAllString(lower, -1))
	}
	return total
}

// HesitationRatio measures hedging density: 0 is fully assertive, 1 very
// hesitant. The raw marker-per-word ratio is scaled up for sensitivity.
func HesitationRatio(response string) float64 {
	words := strings.Fields(response)
	if len(words) == 0 {
		return 0.5
	}
	hesitations := countPatterns(response, hesitationPatterns)
	ratio := float64(hesitations) / float64(len(words))
	return clamp01(ratio * 10)
}

// AssertionScore bands the count of confident-language markers.
func AssertionScore(response string) float64 {
	if len(strings.Fields(response)) == 0 {
		return 0.5
	}
	switch assertions := countPatterns(response, assertionPatterns); {
	case assertions == 0:
		return 0.3
	case assertions <= 2:
		return 0.5
	case assertions <= 4:
		return 0.7
	default:
		return 0.9
	}
}

// StructureScore rewards visible organization: numbered points, bullets,
// paragraph breaks and transition words.
func StructureScore(response string) float64 {
	hasNumbers := numberedListRe.MatchString(response)
	hasBullets := bulletRe.MatchString(response)
	hasParagraphs := strings.Count(response, "\n\n") > 0 || strings.Count(response, ". ") > 3

	score := 0.3
	if hasNumbers || hasBullets {
		score += 0.3
	}
	if hasParagraphs {
		score += 0.2
	}
	if countPatterns(response, transitionPatterns) >= 2 {
		score += 0.2
	}
	return clamp01(score)
}

// ConfidenceScore combines the linguistic signals into the confidence
// value. The fourth term is a neutral placeholder weight so the combined
// score stays centered when the other signals are mid-range.
func ConfidenceScore(hesitation, assertion, structure float64) float64 {
	return clamp01(0.25*(1-hesitation) + 0.35*assertion + 0.20*structure + 0.20*0.5)
}

// ClarityScore measures communication quality from sentence length and
// answer completeness. Very short answers are penalized as unclear; very
// long ones slightly, as likely rambling.
func ClarityScore(response string) float64 {
	words := strings.Fields(response)
	sentences := splitSentences(response)
	if len(words) == 0 || len(sentences) == 0 {
		return 0.5
	}

	avgSentenceLen := float64(len(words)) / float64(len(sentences))
	var lengthScore float64
	switch {
	case avgSentenceLen >= 15 && avgSentenceLen <= 25:
		lengthScore = 1.0
	case avgSentenceLen >= 10 && avgSentenceLen <= 30:
		lengthScore = 0.7
	default:
		lengthScore = 0.4
	}

	var completeness float64
	switch {
	case len(words) < 20:
		completeness = 0.4
	case len(words) < 50:
		completeness = 0.6
	case len(words) < 150:
		completeness = 0.9
	default:
		completeness = 0.8
	}

	clarity := lengthScore*0.4 + completeness*0.6
	if strings.HasSuffix(strings.TrimSpace(response), "...") {
		clarity -= 0.1
	}
	return clamp01(clarity)
}

// DepthScore sums indicator weights for trade-off talk, edge cases and
// concrete experience references over a base score.
func DepthScore(response string) float64 {
	lower := strings.ToLower(response)
	score := 0.3
	for indicator, weight := range depthIndicators {
		if strings.Contains(lower, indicator) {
			score += weight
		}
	}
	return clamp01(score)
}

func splitSentences(text string) []string {
	replaced := strings.NewReplacer("!", ".", "?", ".").Replace(text)
	parts := strings.Split(replaced, ".")
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
