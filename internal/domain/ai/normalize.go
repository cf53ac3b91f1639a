package ai

import (
	"fmt"
	"strings"
	"time"

	"github.com/harmoniface/harmoniface/internal/domain/session"
)

// NormalizeRaw adapts a loosely-typed session payload into the canonical
// shape the rules expect. Optional fields default (absent arrays become
// empty, absent booleans false); only a missing or unparsable id or date is
// an error.
func NormalizeRaw(sessionID string, raw map[string]any) (*NormalizedSession, error) {
	if strings.TrimSpace(sessionID) == "" {
		sessionID = rawString(raw, "id")
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, newValidationError("id", "session id is required")
	}

	dateStr := rawString(raw, "date")
	if dateStr == "" {
		return nil, newValidationError("date", "session date is required")
	}
	date, err := parseDate(dateStr)
	if err != nil {
		return nil, newValidationError("date", fmt.Sprintf("unparsable session date %q", dateStr))
	}

	ns := &NormalizedSession{
		ID:            sessionID,
		PatientID:     rawString(raw, "patient_id", "patientId"),
		Date:          date,
		ProcedureType: rawString(raw, "procedure_type", "procedureType"),
		Regions:       rawStringSlice(raw, "regions"),
		Product:       rawString(raw, "product"),
		ProductLot:    rawString(raw, "product_lot", "productLot", "lot"),
		Quantity:      rawString(raw, "quantity"),
		Technique:     rawString(raw, "technique"),
		ReturnDate:    rawString(raw, "return_date", "returnDate"),
		NotesRaw:      rawString(raw, "clinical_notes_raw", "clinicalNotesRaw"),
		ConsentSigned: rawBool(raw, "consent_signed", "consentSigned"),
	}
	for _, key := range []string{"complications", "intercurrences"} {
		if v, ok := raw[key]; ok {
			if s, ok := v.(string); ok {
				ns.Complications = &s
				break
			}
		}
	}
	return ns, nil
}

// FromSession builds the canonical view from a stored session row. The
// structured notes, when present, contribute the product, lot, quantity,
// technique and complication fields of the first recorded procedure.
func FromSession(s *session.Session) *NormalizedSession {
	ns := &NormalizedSession{
		ID:            s.ID.String(),
		PatientID:     s.PatientID.String(),
		Date:          s.Date,
		Regions:       []string{},
		ConsentSigned: s.ConsentSigned,
	}
	if s.ProcedureType != nil {
		ns.ProcedureType = *s.ProcedureType
	}
	if s.ClinicalNotesRaw != nil {
		ns.NotesRaw = *s.ClinicalNotesRaw
	}
	if sn := s.ClinicalNotesStructured; sn != nil {
		if sn.ReturnDate != nil {
			ns.ReturnDate = *sn.ReturnDate
		}
		if len(sn.Intercurrences) > 0 {
			joined := strings.Join(sn.Intercurrences, "; ")
			ns.Complications = &joined
		}
		if len(sn.Procedures) > 0 {
			p := sn.Procedures[0]
			if ns.ProcedureType == "" {
				ns.ProcedureType = p.Type
			}
			ns.Regions = append(ns.Regions, p.Regions...)
			if p.Product != nil {
				ns.Product = *p.Product
			}
			if p.Lot != nil {
				ns.ProductLot = *p.Lot
			}
			if p.Quantity != nil {
				ns.Quantity = *p.Quantity
			}
			if p.Technique != nil {
				ns.Technique = *p.Technique
			}
			if p.Complications != nil && ns.Complications == nil {
				ns.Complications = p.Complications
			}
		}
	}
	return ns
}

func rawString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			if s, ok := v.(string); ok {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func rawBool(raw map[string]any, keys ...string) bool {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			if b, ok := v.(bool); ok {
				return b
			}
		}
	}
	return false
}

func rawStringSlice(raw map[string]any, key string) []string {
	out := []string{}
	v, ok := raw[key]
	if !ok {
		return out
	}
	switch vv := v.(type) {
	case []string:
		out = append(out, vv...)
	case []any:
		for _, item := range vv {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %s", s)
}
