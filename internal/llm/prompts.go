package llm

import (
	"fmt"
	"strings"

	"hireloop/pkg/schema"
)

const warmupQuestionSystem = `You are an expert technical interviewer conducting the warmup phase.

Your goal is to:
1. Make the candidate comfortable
2. Understand their background
3. Assess communication clarity
4. Build rapport before technical questions

Generate conversational, friendly questions that:
- Are relevant to the job role
- Allow the candidate to demonstrate their experience
- Are open-ended to encourage detailed responses
- Match the specified difficulty level

Output ONLY the question text, no preamble.`

const technicalQuestionSystem = `You are an expert technical interviewer.

Generate a focused technical question that:
1. Tests specific skills required for the role
2. Matches the current difficulty level (1=basic, 5=expert)
3. Can be answered verbally in 2-3 minutes
4. Allows demonstration of depth if the candidate has it
5. Has clear evaluation criteria

Question types by difficulty:
- Level 1-2: Definition, basic concepts, simple examples
- Level 3: Application, comparison, implementation approach
- Level 4-5: System design, trade-offs, edge cases, optimization

Output ONLY the question text.`

const deepDiveQuestionSystem = `You are a senior technical interviewer conducting deep technical assessment.

Generate an advanced question that:
1. Tests system design or architecture thinking
2. Probes understanding of complex trade-offs
3. Challenges the candidate appropriately
4. Builds on topics where they showed strength
5. Requires a structured, multi-part answer

Question types:
- System design scenarios
- Scaling challenges
- Failure mode analysis
- Performance optimization
- Architecture decisions

Output ONLY the question text.`

const closingSystem = `You are concluding a technical interview professionally.

Generate a warm, professional closing that:
1. Thanks the candidate genuinely
2. Addresses any question they asked
3. Provides clear next steps
4. Maintains enthusiasm about the role/company

Keep it natural and conversational.
Output ONLY the closing statement.`

// BuildQuestionPrompt creates the question-generation prompt for a stage.
func BuildQuestionPrompt(
	stage schema.Stage,
	job *schema.JobContext,
	difficulty int,
	recentQuestions []string,
	lastResponse string,
	bestResponse string,
	reference []schema.ReferenceQuestion,
) string {
	var sb strings.Builder

	switch stage {
	case schema.StageWarmup:
		sb.WriteString(warmupQuestionSystem)
	case schema.StageDeepDive:
		sb.WriteString(deepDiveQuestionSystem)
	default:
		sb.WriteString(technicalQuestionSystem)
	}
	sb.WriteString("\n\n")

	writeJobContext(&sb, job)
	sb.WriteString(fmt.Sprintf("Difficulty level: %d\n", difficulty))

	if len(recentQuestions) > 0 {
		sb.WriteString("\nQuestions already asked (do not repeat):\n")
		for _, q := range recentQuestions {
			sb.WriteString("- " + q + "\n")
		}
	}

	if lastResponse != "" {
		sb.WriteString(fmt.Sprintf("\nCandidate's last answer:\n%s\n", lastResponse))
	}

	if bestResponse != "" {
		sb.WriteString(fmt.Sprintf("\nTheir strongest answer so far, to build on:\n%s\n", bestResponse))
	}

	if len(reference) > 0 {
		sb.WriteString("\nReference questions for inspiration (adapt, do not copy):\n")
		for _, r := range reference {
			sb.WriteString("- " + r.Text + "\n")
		}
	}

	sb.WriteString("\nGenerate the next question.")
	return sb.String()
}

// BuildClosingPrompt creates the wrapup closing-remark prompt.
func BuildClosingPrompt(job *schema.JobContext, candidateQuestion string) string {
	var sb strings.Builder
	sb.WriteString(closingSystem)
	sb.WriteString("\n\n")
	writeJobContext(&sb, job)

	if candidateQuestion != "" {
		sb.WriteString(fmt.Sprintf("\nThe candidate asked:\n%s\n", candidateQuestion))
	} else {
		sb.WriteString("\nThe candidate had no questions.\n")
	}

	sb.WriteString("\nGenerate the closing statement.")
	return sb.String()
}

// BuildTechnicalScorePrompt creates the prompt for scoring technical
// accuracy of one answer. The model is asked for a bare number.
func BuildTechnicalScorePrompt(question, response string, skills []string) string {
	return fmt.Sprintf(`You are an expert technical evaluator.
Rate the technical accuracy of this interview response on a scale of 0.0 to 1.0.

Consider:
- Correctness of technical information
- Relevance to the question
- Appropriate depth for the role
- Use of proper terminology

Output ONLY a number between 0.0 and 1.0.

Question: %s

Candidate Response: %s

Required Skills for Role: %s

Technical accuracy score (0.0-1.0):`, question, response, strings.Join(skills, ", "))
}

// FeedbackContext carries the aggregates the feedback prompt is built from.
type FeedbackContext struct {
	Job        *schema.JobContext
	Transcript []string

	AvgConfidence float64
	AvgClarity    float64
	AvgTechnical  float64
	AvgDepth      float64

	Trend           schema.Trend
	StruggleCount   int
	FatigueDetected bool
	QuestionsAsked  int
}

// BuildFeedbackPrompt creates the prompt for the structured hiring report.
func BuildFeedbackPrompt(fc FeedbackContext) string {
	var sb strings.Builder

	sb.WriteString(`Generate a detailed interview summary for the hiring manager.

The summary should be:
- Professional and objective
- Based only on demonstrated skills
- Fair and unbiased
- Actionable for hiring decision

Do NOT include any speculation about:
- Candidate's personality
- Cultural fit
- Emotional state
- Anything not directly observed in responses

Focus only on:
- Technical competency
- Communication effectiveness
- Problem-solving approach
- Domain knowledge depth

`)

	writeJobContext(&sb, fc.Job)

	sb.WriteString(fmt.Sprintf(`
Aggregate metrics over %d answered questions:
- Average confidence: %.2f (trend: %s)
- Average clarity: %.2f
- Average technical accuracy: %.2f
- Average depth: %.2f
- Struggle markers: %d
- Fatigue detected: %t

`, fc.QuestionsAsked, fc.AvgConfidence, fc.Trend, fc.AvgClarity, fc.AvgTechnical, fc.AvgDepth, fc.StruggleCount, fc.FatigueDetected))

	sb.WriteString("TRANSCRIPT:\n")
	for _, line := range fc.Transcript {
		sb.WriteString(line + "\n")
	}

	sb.WriteString(`
Return ONLY valid JSON with this exact structure:
{
  "overall_summary": "string, 10-4000 chars",
  "communication_signals": ["string", ...],
  "confidence_signals": ["string", ...],
  "technical_signals": ["string", ...],
  "adaptability_signals": ["string", ...],
  "strengths": ["string", ...],
  "opportunities": ["string", ...],
  "role_alignment": "string",
  "recommendation": "strong_hire" | "hire" | "maybe" | "no_hire"
}`)

	return sb.String()
}

func writeJobContext(sb *strings.Builder, job *schema.JobContext) {
	if job == nil {
		return
	}
	sb.WriteString(fmt.Sprintf("Role: %s at %s\n", job.Title, job.CompanyName))
	if len(job.SkillsRequired) > 0 {
		sb.WriteString(fmt.Sprintf("Required skills: %s\n", strings.Join(job.SkillsRequired, ", ")))
	}
	if job.ExperienceRequired > 0 {
		sb.WriteString(fmt.Sprintf("Experience required: %d years\n", job.ExperienceRequired))
	}
	if job.Description != "" {
		sb.WriteString(fmt.Sprintf("Description: %s\n", job.Description))
	}
}
