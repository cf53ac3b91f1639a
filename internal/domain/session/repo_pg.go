package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const sessionCols = `id, patient_id, date, status, procedure_type, clinical_notes_raw,
	clinical_notes_structured, consent_signed, compliance_score, compliance_flags,
	created_at, updated_at`

func scanSession(row pgx.Row) (*Session, error) {
	var s Session
	err := row.Scan(&s.ID, &s.PatientID, &s.Date, &s.Status, &s.ProcedureType, &s.ClinicalNotesRaw,
		&s.ClinicalNotesStructured, &s.ConsentSigned, &s.ComplianceScore, &s.ComplianceFlags,
		&s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

func (r *repoPG) Create(ctx context.Context, s *Session) error {
	s.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO session (id, patient_id, date, status, procedure_type, clinical_notes_raw,
			clinical_notes_structured, consent_signed, compliance_score, compliance_flags)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		s.ID, s.PatientID, s.Date, s.Status, s.ProcedureType, s.ClinicalNotesRaw,
		s.ClinicalNotesStructured, s.ConsentSigned, s.ComplianceScore, s.ComplianceFlags)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Session, error) {
	return scanSession(r.pool.QueryRow(ctx, `SELECT `+sessionCols+` FROM session WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, s *Session) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE session SET patient_id=$2, date=$3, status=$4, procedure_type=$5, clinical_notes_raw=$6,
			clinical_notes_structured=$7, consent_signed=$8, compliance_score=$9, compliance_flags=$10,
			updated_at=NOW()
		WHERE id = $1`,
		s.ID, s.PatientID, s.Date, s.Status, s.ProcedureType, s.ClinicalNotesRaw,
		s.ClinicalNotesStructured, s.ConsentSigned, s.ComplianceScore, s.ComplianceFlags)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM session WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Session, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM session`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+sessionCols+` FROM session ORDER BY date DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	sessions, err := collect(rows)
	return sessions, total, err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Session, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM session WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+sessionCols+` FROM session WHERE patient_id = $1 ORDER BY date DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	sessions, err := collect(rows)
	return sessions, total, err
}

func (r *repoPG) ListByDateRange(ctx context.Context, patientID *uuid.UUID, start, end time.Time) ([]*Session, error) {
	var rows pgx.Rows
	var err error
	if patientID != nil {
		rows, err = r.pool.Query(ctx,
			`SELECT `+sessionCols+` FROM session WHERE patient_id = $1 AND date BETWEEN $2 AND $3 ORDER BY date`,
			*patientID, start, end)
	} else {
		rows, err = r.pool.Query(ctx,
			`SELECT `+sessionCols+` FROM session WHERE date BETWEEN $1 AND $2 ORDER BY date`,
			start, end)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collect(rows)
}

func (r *repoPG) UpdateCompliance(ctx context.Context, id uuid.UUID, score int, flags []string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE session SET compliance_score=$2, compliance_flags=$3, updated_at=NOW()
		WHERE id = $1`,
		id, score, flags)
	return err
}

func collect(rows pgx.Rows) ([]*Session, error) {
	var sessions []*Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
