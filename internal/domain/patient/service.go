package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var validGenders = map[string]bool{
	"feminino": true, "masculino": true, "outro": true, "nao-informado": true,
}

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if p.FullName == "" {
		return fmt.Errorf("full_name is required")
	}
	if p.Gender != nil && !validGenders[*p.Gender] {
		return fmt.Errorf("invalid gender: %s", *p.Gender)
	}
	ensureHistoryDefaults(p)
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	if p.FullName == "" {
		return fmt.Errorf("full_name is required")
	}
	if p.Gender != nil && !validGenders[*p.Gender] {
		return fmt.Errorf("invalid gender: %s", *p.Gender)
	}
	ensureHistoryDefaults(p)
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Search(ctx context.Context, name string, limit, offset int) ([]*Patient, int, error) {
	return s.repo.Search(ctx, name, limit, offset)
}

// Allergies returns the patient's recorded allergy substances, or an empty
// list when the patient is unknown. Compliance evaluation treats a missing
// patient record as "no known allergies" rather than an error.
func (s *Service) Allergies(ctx context.Context, id uuid.UUID) ([]string, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.Allergies, nil
}

// History arrays are never nil so rule predicates and JSON consumers can
// iterate without null checks.
func ensureHistoryDefaults(p *Patient) {
	if p.Allergies == nil {
		p.Allergies = []string{}
	}
	if p.Medications == nil {
		p.Medications = []string{}
	}
	if p.Conditions == nil {
		p.Conditions = []string{}
	}
	if p.PreviousProcedures == nil {
		p.PreviousProcedures = []string{}
	}
}
