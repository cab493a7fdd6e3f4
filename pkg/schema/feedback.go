package schema

// FeedbackReport is the structured, signal-based report produced at the end
// of an interview. Fields mirror the schema requested from the language
// model; the rule-derived fallback fills the same shape.
type FeedbackReport struct {
	OverallSummary       string         `yaml:"overall_summary" json:"overall_summary"`
	CommunicationSignals []string       `yaml:"communication_signals" json:"communication_signals"`
	ConfidenceSignals    []string       `yaml:"confidence_signals" json:"confidence_signals"`
	TechnicalSignals     []string       `yaml:"technical_signals" json:"technical_signals"`
	AdaptabilitySignals  []string       `yaml:"adaptability_signals" json:"adaptability_signals"`
	Strengths            []string       `yaml:"strengths" json:"strengths"`
	Opportunities        []string       `yaml:"opportunities" json:"opportunities"`
	RoleAlignment        string         `yaml:"role_alignment" json:"role_alignment"`
	Recommendation       Recommendation `yaml:"recommendation" json:"recommendation"`
}
