package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"hireloop/pkg/schema"
)

// QuestionBank retrieves pre-authored reference questions from the
// question collection, filtered by stage, difficulty band and skills.
type QuestionBank struct {
	client *Client
}

// NewQuestionBank creates a bank backed by the given Qdrant client.
func NewQuestionBank(client *Client) *QuestionBank {
	return &QuestionBank{client: client}
}

// questionPayload is the stored shape of one reference question.
type questionPayload struct {
	QuestionID        string   `json:"question_id"`
	QuestionText      string   `json:"question_text"`
	Category          string   `json:"category"`
	Difficulty        int      `json:"difficulty"`
	SkillsTested      []string `json:"skills_tested"`
	ExpectedSignals   string   `json:"expected_signals,omitempty"`
	GoodAnswerExample string   `json:"good_answer_example,omitempty"`
}

// StoreQuestion writes one reference question to the bank.
func (b *QuestionBank) StoreQuestion(ctx context.Context, q schema.ReferenceQuestion, expectedSignals, goodAnswerExample string) (string, error) {
	if err := schema.ValidateStage(q.Category); err != nil {
		return "", err
	}
	if err := schema.ValidateDifficulty(q.Difficulty); err != nil {
		return "", err
	}

	id := q.QuestionID
	if id == "" {
		generated, err := schema.NewQuestionID()
		if err != nil {
			return "", fmt.Errorf("generate question id: %w", err)
		}
		id = generated
	}

	payload := map[string]any{
		"question_id":         id,
		"question_text":       q.Text,
		"category":            string(q.Category),
		"difficulty":          q.Difficulty,
		"skills_tested":       q.SkillsTested,
		"expected_signals":    expectedSignals,
		"good_answer_example": goodAnswerExample,
	}
	// Qdrant point ids must be UUIDs; the domain id lives in the payload.
	if err := b.client.UpsertPoint(ctx, QuestionCollection, uuid.NewString(), payload); err != nil {
		return "", fmt.Errorf("store question: %w", err)
	}
	return id, nil
}

// QuestionsForStage returns up to limit questions for the stage within one
// difficulty step of the target, preferring those testing the given skills.
func (b *QuestionBank) QuestionsForStage(ctx context.Context, stage schema.Stage, skills []string, difficulty, limit int) ([]schema.ReferenceQuestion, error) {
	must := []map[string]any{
		{
			"key":   "category",
			"match": map[string]any{"value": string(stage)},
		},
		{
			"key": "difficulty",
			"range": map[string]any{
				"gte": max(schema.DifficultyMin, difficulty-1),
				"lte": min(schema.DifficultyMax, difficulty+1),
			},
		},
	}

	filter := map[string]any{"must": must}
	if len(skills) > 0 {
		filter["should"] = []map[string]any{
			{
				"key":   "skills_tested",
				"match": map[string]any{"any": skills},
			},
		}
	}

	points, err := b.client.Scroll(ctx, QuestionCollection, filter, limit)
	if err != nil {
		return nil, fmt.Errorf("retrieve questions: %w", err)
	}

	questions := make([]schema.ReferenceQuestion, 0, len(points))
	for _, p := range points {
		var payload questionPayload
		if err := json.Unmarshal(p.Payload, &payload); err != nil {
			continue
		}
		questions = append(questions, schema.ReferenceQuestion{
			QuestionID:   payload.QuestionID,
			Text:         payload.QuestionText,
			Category:     schema.Stage(payload.Category),
			Difficulty:   payload.Difficulty,
			SkillsTested: payload.SkillsTested,
		})
	}
	return questions, nil
}
