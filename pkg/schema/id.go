package schema

import (
	"fmt"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// NewSessionID generates a new session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// NewQuestionID generates a new question ID in format QST-{nanoid(10)}.
func NewQuestionID() (string, error) {
	id, err := gonanoid.New(10)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("QST-%s", id), nil
}

// NewResponseID generates a new archived-response ID in format RSP-{nanoid(10)}.
func NewResponseID() (string, error) {
	id, err := gonanoid.New(10)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("RSP-%s", id), nil
}
