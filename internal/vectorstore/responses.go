package vectorstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hireloop/internal/core"
	"hireloop/pkg/schema"
)

// Archiver stores evaluated candidate answers in the response collection
// for later comparison with high-quality examples. Writes run on a
// background worker; a full queue drops the record rather than blocking
// the interview, and write failures are logged and forgotten.
type Archiver struct {
	client *Client
	logger *zap.Logger
	queue  chan core.ResponseRecord
	done   chan struct{}
}

// NewArchiver creates and starts an archiver with the given queue depth.
func NewArchiver(client *Client, logger *zap.Logger, queueSize int) *Archiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	a := &Archiver{
		client: client,
		logger: logger,
		queue:  make(chan core.ResponseRecord, queueSize),
		done:   make(chan struct{}),
	}
	go a.run()
	return a
}

// Archive enqueues a record without blocking.
func (a *Archiver) Archive(record core.ResponseRecord) {
	select {
	case a.queue <- record:
	default:
		a.logger.Warn("response archive queue full, dropping record",
			zap.String("session_id", record.SessionID))
	}
}

// Close drains the queue and stops the worker.
func (a *Archiver) Close() {
	close(a.queue)
	<-a.done
}

func (a *Archiver) run() {
	defer close(a.done)
	for record := range a.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := a.store(ctx, record); err != nil {
			a.logger.Warn("response archive write failed",
				zap.String("session_id", record.SessionID),
				zap.Error(err))
		}
		cancel()
	}
}

func (a *Archiver) store(ctx context.Context, record core.ResponseRecord) error {
	preview := record.Response
	if len(preview) > 500 {
		preview = preview[:500]
	}

	responseID, err := schema.NewResponseID()
	if err != nil {
		return fmt.Errorf("generate response id: %w", err)
	}

	// Qdrant point ids must be UUIDs; the domain id lives in the payload.
	pointID := uuid.NewString()
	payload := map[string]any{
		"response_id":      responseID,
		"interview_id":     record.SessionID,
		"question":         record.Question,
		"response_preview": preview,
		"stage":            string(record.Stage),
		"confidence_score": record.ConfidenceScore,
		"technical_score":  record.TechnicalScore,
		"is_high_quality":  record.HighQuality,
	}
	return a.client.UpsertPoint(ctx, ResponseCollection, pointID, payload)
}
