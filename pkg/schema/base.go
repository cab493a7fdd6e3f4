package schema

// Stage identifies one phase of the interview state machine.
type Stage string

const (
	StageLoading   Stage = "loading"   // initial context loading
	StageWarmup    Stage = "warmup"    // rapport building
	StageTechnical Stage = "technical" // core technical questions
	StageDeepDive  Stage = "deep_dive" // advanced probing
	StageWrapup    Stage = "wrapup"    // closing questions
	StageFeedback  Stage = "feedback"  // generating feedback
	StageComplete  Stage = "complete"  // interview finished
)

// Terminal reports whether the stage has no outgoing transitions.
func (s Stage) Terminal() bool {
	return s == StageComplete
}

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleInterviewer Role = "interviewer"
	RoleCandidate   Role = "candidate"
)

// Trend classifies the recent direction of the confidence signal.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// Recommendation is the categorical hiring outcome of an interview.
type Recommendation string

const (
	RecommendationStrongHire Recommendation = "strong_hire"
	RecommendationHire       Recommendation = "hire"
	RecommendationMaybe      Recommendation = "maybe"
	RecommendationNoHire     Recommendation = "no_hire"
)

// ValidationLimits defines the constraints for various fields.
const (
	DifficultyMin = 1
	DifficultyMax = 5

	ScoreMin = 0.0
	ScoreMax = 1.0

	QuestionTextMin = 10
	QuestionTextMax = 2000

	SummaryMin = 10
	SummaryMax = 4000

	SignalListMax = 10
)
