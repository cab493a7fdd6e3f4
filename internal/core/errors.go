package core

import "fmt"

// SessionNotFoundError indicates the session id is unknown to the store.
type SessionNotFoundError struct {
	SessionID string
	Err       error
}

func (e *SessionNotFoundError) Error() string {
	return fmt.Sprintf("session %s not found", e.SessionID)
}

func (e *SessionNotFoundError) Unwrap() error {
	return e.Err
}

// SessionCompleteError indicates an answer was submitted to a session that
// has already reached the terminal stage.
type SessionCompleteError struct {
	SessionID string
}

func (e *SessionCompleteError) Error() string {
	return fmt.Sprintf("session %s is already complete", e.SessionID)
}

// CollaboratorError wraps a failed call to an external capability. It is
// absorbed inside phase handlers and recorded in the session's error slot;
// it never propagates to the caller.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("collaborator %s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// StoreError wraps a session-store failure on persist or load.
type StoreError struct {
	Operation string
	SessionID string
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("session store %s for %s: %v", e.Operation, e.SessionID, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
