package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ComplianceChecker evaluates a session against the regulatory rule set.
// Implemented by the AI domain; injected here so completing a session can be
// gated on its compliance verdict without a package cycle.
type ComplianceChecker interface {
	// CheckSession returns the session's score, its flag codes, and whether
	// an open critical flag blocks completion.
	CheckSession(ctx context.Context, s *Session) (score int, flags []string, blocked bool, err error)
}

var validStatuses = map[string]bool{
	"draft": true, "completed": true, "cancelled": true,
}

type Service struct {
	repo    Repository
	checker ComplianceChecker
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SetComplianceChecker wires the compliance gate. Without one, sessions
// complete without evaluation.
func (s *Service) SetComplianceChecker(c ComplianceChecker) { s.checker = c }

func (s *Service) Create(ctx context.Context, sess *Session) error {
	if sess.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if sess.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if sess.Status == "" {
		sess.Status = "draft"
	}
	if !validStatuses[sess.Status] {
		return fmt.Errorf("invalid status: %s", sess.Status)
	}
	return s.repo.Create(ctx, sess)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, sess *Session) error {
	if sess.Status != "" && !validStatuses[sess.Status] {
		return fmt.Errorf("invalid status: %s", sess.Status)
	}
	// Completion must go through Complete so the compliance gate runs.
	if sess.Status == "completed" {
		current, err := s.repo.GetByID(ctx, sess.ID)
		if err != nil {
			return err
		}
		if current.Status != "completed" {
			return fmt.Errorf("use the complete operation to finish a session")
		}
	}
	return s.repo.Update(ctx, sess)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Session, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Session, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListByDateRange(ctx context.Context, patientID *uuid.UUID, start, end time.Time) ([]*Session, error) {
	return s.repo.ListByDateRange(ctx, patientID, start, end)
}

// Complete transitions a session to completed. When a compliance checker is
// wired, the session is re-evaluated first and completion is refused while a
// critical flag is open; the evaluation is persisted either way so the
// clinician sees what blocked them.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*Session, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Status == "completed" {
		return sess, nil
	}
	if sess.Status == "cancelled" {
		return nil, fmt.Errorf("cannot complete a cancelled session")
	}

	if s.checker != nil {
		score, flags, blocked, err := s.checker.CheckSession(ctx, sess)
		if err != nil {
			return nil, fmt.Errorf("compliance check: %w", err)
		}
		if err := s.repo.UpdateCompliance(ctx, id, score, flags); err != nil {
			return nil, err
		}
		sess.ComplianceScore = &score
		sess.ComplianceFlags = flags
		if blocked {
			return sess, fmt.Errorf("session blocked by critical compliance flags: %v", flags)
		}
	}

	sess.Status = "completed"
	if err := s.repo.Update(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}
