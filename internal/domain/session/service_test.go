package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

// ── Mock Repository ──

type mockRepo struct {
	data map[uuid.UUID]*Session
}

func newMockRepo() *mockRepo {
	return &mockRepo{data: make(map[uuid.UUID]*Session)}
}

func (m *mockRepo) Create(_ context.Context, s *Session) error {
	s.ID = uuid.New()
	m.data[s.ID] = s
	return nil
}
func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Session, error) {
	if s, ok := m.data[id]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("not found")
}
func (m *mockRepo) Update(_ context.Context, s *Session) error {
	if _, ok := m.data[s.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.data[s.ID] = s
	return nil
}
func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.data, id)
	return nil
}
func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Session, int, error) {
	var out []*Session
	for _, s := range m.data {
		out = append(out, s)
	}
	return out, len(out), nil
}
func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Session, int, error) {
	var out []*Session
	for _, s := range m.data {
		if s.PatientID == patientID {
			out = append(out, s)
		}
	}
	return out, len(out), nil
}
func (m *mockRepo) ListByDateRange(_ context.Context, patientID *uuid.UUID, start, end time.Time) ([]*Session, error) {
	var out []*Session
	for _, s := range m.data {
		if patientID != nil && s.PatientID != *patientID {
			continue
		}
		if s.Date.Before(start) || s.Date.After(end) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}
func (m *mockRepo) UpdateCompliance(_ context.Context, id uuid.UUID, score int, flags []string) error {
	s, ok := m.data[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	s.ComplianceScore = &score
	s.ComplianceFlags = flags
	return nil
}

// ── Mock Compliance Checker ──

type mockChecker struct {
	score   int
	flags   []string
	blocked bool
	err     error
}

func (m *mockChecker) CheckSession(_ context.Context, _ *Session) (int, []string, bool, error) {
	return m.score, m.flags, m.blocked, m.err
}

func TestCreateSession_Validation(t *testing.T) {
	svc := NewService(newMockRepo())

	err := svc.Create(context.Background(), &Session{Date: time.Now()})
	if err == nil {
		t.Error("expected error for missing patient_id")
	}

	err = svc.Create(context.Background(), &Session{PatientID: uuid.New()})
	if err == nil {
		t.Error("expected error for missing date")
	}

	s := &Session{PatientID: uuid.New(), Date: time.Now()}
	if err := svc.Create(context.Background(), s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Status != "draft" {
		t.Errorf("expected default status draft, got %s", s.Status)
	}
}

func TestCreateSession_RejectsInvalidStatus(t *testing.T) {
	svc := NewService(newMockRepo())
	err := svc.Create(context.Background(), &Session{
		PatientID: uuid.New(), Date: time.Now(), Status: "bogus",
	})
	if err == nil {
		t.Fatal("expected error for invalid status")
	}
}

func TestUpdate_CannotCompleteDirectly(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	s := &Session{PatientID: uuid.New(), Date: time.Now()}
	if err := svc.Create(context.Background(), s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	upd := *s
	upd.Status = "completed"
	if err := svc.Update(context.Background(), &upd); err == nil {
		t.Fatal("expected direct completion via update to be rejected")
	}
}

func TestComplete_WithoutChecker(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	s := &Session{PatientID: uuid.New(), Date: time.Now()}
	if err := svc.Create(context.Background(), s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Complete(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != "completed" {
		t.Errorf("expected status completed, got %s", got.Status)
	}
}

func TestComplete_BlockedByCriticalFlags(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	svc.SetComplianceChecker(&mockChecker{score: 50, flags: []string{"consent-signed"}, blocked: true})

	s := &Session{PatientID: uuid.New(), Date: time.Now()}
	if err := svc.Create(context.Background(), s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Complete(context.Background(), s.ID)
	if err == nil {
		t.Fatal("expected completion to be blocked")
	}
	if got == nil {
		t.Fatal("expected evaluated session to be returned alongside the error")
	}
	if got.Status == "completed" {
		t.Error("blocked session must not be marked completed")
	}
	if got.ComplianceScore == nil || *got.ComplianceScore != 50 {
		t.Errorf("expected persisted score 50, got %v", got.ComplianceScore)
	}

	// The evaluation must be persisted even when blocked.
	stored, _ := repo.GetByID(context.Background(), s.ID)
	if stored.ComplianceScore == nil || *stored.ComplianceScore != 50 {
		t.Error("expected compliance score persisted on blocked completion")
	}
}

func TestComplete_PassesWithCompliantSession(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	svc.SetComplianceChecker(&mockChecker{score: 100, blocked: false})

	s := &Session{PatientID: uuid.New(), Date: time.Now()}
	if err := svc.Create(context.Background(), s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Complete(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != "completed" {
		t.Errorf("expected status completed, got %s", got.Status)
	}
	if got.ComplianceScore == nil || *got.ComplianceScore != 100 {
		t.Errorf("expected score 100, got %v", got.ComplianceScore)
	}
}

func TestComplete_CancelledSession(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	s := &Session{PatientID: uuid.New(), Date: time.Now(), Status: "cancelled"}
	if err := svc.Create(context.Background(), s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Complete(context.Background(), s.ID); err == nil {
		t.Fatal("expected error completing a cancelled session")
	}
}
