package ai

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Processing types recorded in the audit log.
const (
	ProcessNER           = "ner"
	ProcessSummarization = "summarization"
	ProcessCompliance    = "compliance"
)

// ProcessingLog is one audit record of an AI pipeline invocation, stored
// for traceability of machine-generated clinical content.
type ProcessingLog struct {
	ID               uuid.UUID      `db:"id" json:"id"`
	SessionID        *uuid.UUID     `db:"session_id" json:"session_id,omitempty"`
	ProcessType      string         `db:"process_type" json:"process_type"`
	InputText        *string        `db:"input_text" json:"input_text,omitempty"`
	Output           map[string]any `db:"output" json:"output,omitempty"`
	ProcessingTimeMs int64          `db:"processing_time_ms" json:"processing_time_ms"`
	Status           string         `db:"status" json:"status"`
	ErrorMessage     *string        `db:"error_message" json:"error_message,omitempty"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
}

// LogRepository persists processing audit records. Logging failures are
// reported but never fail the pipeline call itself.
type LogRepository interface {
	Create(ctx context.Context, l *ProcessingLog) error
	ListBySession(ctx context.Context, sessionID uuid.UUID, limit, offset int) ([]*ProcessingLog, int, error)
}
