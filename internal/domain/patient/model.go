package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patient table.
type Patient struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	FullName  string     `db:"full_name" json:"full_name"`
	CPF       *string    `db:"cpf" json:"cpf,omitempty"`
	BirthDate *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Gender    *string    `db:"gender" json:"gender,omitempty"`
	Phone     *string    `db:"phone" json:"phone,omitempty"`
	Email     *string    `db:"email" json:"email,omitempty"`
	Notes     *string    `db:"notes" json:"notes,omitempty"`

	// Medical history feeds the compliance allergy cross-check.
	Allergies          []string `db:"allergies" json:"allergies"`
	Medications        []string `db:"medications" json:"medications"`
	Conditions         []string `db:"conditions" json:"conditions"`
	PreviousProcedures []string `db:"previous_procedures" json:"previous_procedures"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
