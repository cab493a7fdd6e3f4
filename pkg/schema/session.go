package schema

import "time"

// Evaluation holds the four scalar signals extracted from one candidate
// answer. All values are in [0,1].
type Evaluation struct {
	Confidence float64 `yaml:"confidence" json:"confidence"`
	Clarity    float64 `yaml:"clarity" json:"clarity"`
	Technical  float64 `yaml:"technical" json:"technical"`
	Depth      float64 `yaml:"depth" json:"depth"`
}

// Turn is a single entry in the conversation log. Interviewer turns carry
// the question text; candidate turns carry the answer and, once scored, its
// evaluation.
type Turn struct {
	Role       Role        `yaml:"role" json:"role"`
	Content    string      `yaml:"content" json:"content"`
	Timestamp  time.Time   `yaml:"timestamp" json:"timestamp"`
	Evaluation *Evaluation `yaml:"evaluation,omitempty" json:"evaluation,omitempty"`
}

// JobContext is the job-posting context an interview is conducted against.
// Loaded once during the loading stage and read-only afterward.
type JobContext struct {
	JobID              string   `yaml:"job_id" json:"job_id"`
	Title              string   `yaml:"title" json:"title"`
	Description        string   `yaml:"description" json:"description"`
	SkillsRequired     []string `yaml:"skills_required" json:"skills_required"`
	ExperienceRequired int      `yaml:"experience_required" json:"experience_required"`
	CompanyName        string   `yaml:"company_name" json:"company_name"`
}

// ReferenceQuestion is a pre-authored question retrieved from the question
// bank, used as grounding material for generated questions.
type ReferenceQuestion struct {
	QuestionID   string   `yaml:"question_id" json:"question_id"`
	Text         string   `yaml:"text" json:"text"`
	Category     Stage    `yaml:"category" json:"category"`
	Difficulty   int      `yaml:"difficulty" json:"difficulty"`
	SkillsTested []string `yaml:"skills_tested" json:"skills_tested"`
}
