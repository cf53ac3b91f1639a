package session

import (
	"time"

	"github.com/google/uuid"
)

// StructuredProcedure is one procedure entry inside the structured clinical
// notes, as confirmed by the clinician after AI extraction.
type StructuredProcedure struct {
	Type          string   `json:"type"`
	Regions       []string `json:"regions"`
	Product       *string  `json:"product,omitempty"`
	Lot           *string  `json:"lot,omitempty"`
	Quantity      *string  `json:"quantity,omitempty"`
	Technique     *string  `json:"technique,omitempty"`
	Complications *string  `json:"complications,omitempty"`
}

// StructuredNotes is the structured counterpart of the raw clinical notes,
// stored as JSONB on the session row.
type StructuredNotes struct {
	Procedures     []StructuredProcedure `json:"procedures"`
	Intercurrences []string              `json:"intercurrences"`
	ReturnDate     *string               `json:"return_date,omitempty"`
	Comments       *string               `json:"comments,omitempty"`
}

// Session maps to the session table. One session is one clinical encounter.
type Session struct {
	ID                      uuid.UUID        `db:"id" json:"id"`
	PatientID               uuid.UUID        `db:"patient_id" json:"patient_id"`
	Date                    time.Time        `db:"date" json:"date"`
	Status                  string           `db:"status" json:"status"`
	ProcedureType           *string          `db:"procedure_type" json:"procedure_type,omitempty"`
	ClinicalNotesRaw        *string          `db:"clinical_notes_raw" json:"clinical_notes_raw,omitempty"`
	ClinicalNotesStructured *StructuredNotes `db:"clinical_notes_structured" json:"clinical_notes_structured,omitempty"`
	ConsentSigned           bool             `db:"consent_signed" json:"consent_signed"`
	ComplianceScore         *int             `db:"compliance_score" json:"compliance_score,omitempty"`
	ComplianceFlags         []string         `db:"compliance_flags" json:"compliance_flags,omitempty"`
	CreatedAt               time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt               time.Time        `db:"updated_at" json:"updated_at"`
}
