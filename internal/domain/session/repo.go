package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, s *Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)
	Update(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Session, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Session, int, error)
	// ListByDateRange returns sessions whose date falls in [start, end],
	// optionally restricted to a patient, ordered by date.
	ListByDateRange(ctx context.Context, patientID *uuid.UUID, start, end time.Time) ([]*Session, error)
	// UpdateCompliance persists the latest compliance evaluation onto the
	// session row without touching the clinical content.
	UpdateCompliance(ctx context.Context, id uuid.UUID, score int, flags []string) error
}
