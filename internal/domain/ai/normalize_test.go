package ai

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeRaw_MandatoryFields(t *testing.T) {
	tests := []struct {
		name      string
		sessionID string
		raw       map[string]any
		wantErr   bool
	}{
		{
			name:      "valid minimal",
			sessionID: "sess-1",
			raw:       map[string]any{"date": "2026-03-01"},
		},
		{
			name:    "missing id",
			raw:     map[string]any{"date": "2026-03-01"},
			wantErr: true,
		},
		{
			name:      "id from payload",
			sessionID: "",
			raw:       map[string]any{"id": "sess-2", "date": "2026-03-01"},
		},
		{
			name:      "missing date",
			sessionID: "sess-3",
			raw:       map[string]any{},
			wantErr:   true,
		},
		{
			name:      "unparsable date",
			sessionID: "sess-4",
			raw:       map[string]any{"date": "ontem"},
			wantErr:   true,
		},
		{
			name:      "rfc3339 date",
			sessionID: "sess-5",
			raw:       map[string]any{"date": "2026-03-01T14:30:00Z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ns, err := NormalizeRaw(tt.sessionID, tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Errorf("expected ValidationError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ns.Regions == nil {
				t.Error("regions must default to an empty slice")
			}
			if ns.ConsentSigned {
				t.Error("consent must default to false")
			}
		})
	}
}

func TestNormalizeRaw_FieldMapping(t *testing.T) {
	raw := map[string]any{
		"date":           "2026-03-01",
		"patient_id":     "patient-1",
		"procedure_type": "Toxina Botulínica",
		"product":        "Botox",
		"product_lot":    "ABC123",
		"quantity":       "50U",
		"technique":      "pontos padrão",
		"complications":  "nenhuma",
		"return_date":    "2026-03-15",
		"consent_signed": true,
		"regions":        []any{"frontal", "glabela"},
	}

	ns, err := NormalizeRaw("sess-1", raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ns.PatientID != "patient-1" || ns.Product != "Botox" || ns.ProductLot != "ABC123" {
		t.Errorf("unexpected mapping: %+v", ns)
	}
	if !ns.ConsentSigned {
		t.Error("expected consent signed")
	}
	if ns.Complications == nil || *ns.Complications != "nenhuma" {
		t.Errorf("expected complications set, got %v", ns.Complications)
	}
	if len(ns.Regions) != 2 {
		t.Errorf("expected 2 regions, got %v", ns.Regions)
	}
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !ns.Date.Equal(want) {
		t.Errorf("expected date %v, got %v", want, ns.Date)
	}
}

func TestNormalizeRaw_CamelCaseKeys(t *testing.T) {
	raw := map[string]any{
		"date":          "2026-03-01",
		"patientId":     "patient-9",
		"procedureType": "Preenchimento",
		"productLot":    "XY-991",
		"returnDate":    "2026-04-01",
		"consentSigned": true,
	}

	ns, err := NormalizeRaw("sess-9", raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ns.PatientID != "patient-9" || ns.ProcedureType != "Preenchimento" ||
		ns.ProductLot != "XY-991" || ns.ReturnDate != "2026-04-01" || !ns.ConsentSigned {
		t.Errorf("camelCase keys not mapped: %+v", ns)
	}
}

func TestFromSession_StructuredNotes(t *testing.T) {
	s := storedSession(evalNow.AddDate(0, 0, -1), true)

	ns := FromSession(s)

	if ns.ID != s.ID.String() || ns.PatientID != s.PatientID.String() {
		t.Errorf("identity not mapped: %+v", ns)
	}
	if ns.Product != "Botox" || ns.ProductLot != "ABC123" || ns.Quantity != "50U" {
		t.Errorf("procedure fields not mapped: %+v", ns)
	}
	if ns.Complications == nil || *ns.Complications != "nenhuma" {
		t.Errorf("expected complications from structured notes, got %v", ns.Complications)
	}
	if ns.ReturnDate != "2026-03-25" {
		t.Errorf("expected return date mapped, got %q", ns.ReturnDate)
	}
	if !containsString(ns.Regions, "frontal") {
		t.Errorf("expected region frontal, got %v", ns.Regions)
	}
}

func TestFromSession_BareSession(t *testing.T) {
	s := storedSession(evalNow.AddDate(0, 0, -1), false)
	s.ClinicalNotesStructured = nil
	s.ClinicalNotesRaw = nil
	s.ProcedureType = nil

	ns := FromSession(s)

	if ns.Regions == nil {
		t.Error("regions must default to an empty slice")
	}
	if ns.Complications != nil {
		t.Error("complications must stay unset for a bare session")
	}
	if ns.NotesRaw != "" || ns.Product != "" {
		t.Errorf("unexpected defaults: %+v", ns)
	}
}
