package ai

import (
	"fmt"
	"strings"
	"time"
)

// Summarizer turns a clinical note into a structured summary with
// completeness and quality scores. It is a consumer of the extractor, never
// of the evaluator.
type Summarizer struct {
	extractor *Extractor
}

func NewSummarizer(extractor *Extractor) *Summarizer {
	return &Summarizer{extractor: extractor}
}

// expectedFields are the documentation fields a complete note covers, in
// the order they are reported when missing.
var expectedFields = []string{
	"procedures",
	"regions",
	"product",
	"lot",
	"quantity",
	"complications",
	"returnDate",
}

// vagueWords penalize notes that record impressions instead of findings.
var vagueWords = []string{"tudo certo", "tudo ok", "sem alterações", "normal"}

// Summarize extracts structure from the note, scores how completely the
// expected fields are covered, and applies a quality heuristic for length
// and vagueness. It does not persist anything.
func (s *Summarizer) Summarize(sessionID, clinicalNotes string) (*SummarizationResult, error) {
	if len(strings.TrimSpace(clinicalNotes)) < minClinicalTextLength {
		return nil, newValidationError("clinicalNotes", "clinical notes must be at least 10 characters")
	}
	start := time.Now()

	ner, err := s.extractor.Extract(clinicalNotes)
	if err != nil {
		return nil, err
	}

	structured := SessionStructuredData{
		ProceduresPerformed: ner.Procedures,
		Intercurrences:      ner.Intercurrences,
		ReturnSchedule:      ner.ReturnDate,
		MedicationsApplied:  []StructuredMedication{},
	}
	for _, p := range ner.Procedures {
		if p.Product == nil {
			continue
		}
		structured.MedicationsApplied = append(structured.MedicationsApplied, StructuredMedication{
			Name:     *p.Product,
			Lot:      p.ProductLot,
			Quantity: p.Quantity,
		})
	}

	present := fieldPresence(ner)
	missing := []string{}
	populated := 0
	for _, field := range expectedFields {
		if present[field] {
			populated++
		} else {
			missing = append(missing, field)
		}
	}
	completeness := populated * 100 / len(expectedFields)

	result := &SummarizationResult{
		SessionID:         sessionID,
		OriginalNotes:     clinicalNotes,
		Summary:           renderSummary(ner),
		StructuredData:    structured,
		CompletenessScore: completeness,
		QualityScore:      qualityScore(clinicalNotes, present),
		MissingFields:     missing,
		ProcessingTimeMs:  time.Since(start).Milliseconds(),
	}
	return result, nil
}

func fieldPresence(ner *NERResult) map[string]bool {
	present := map[string]bool{
		"procedures": len(ner.Procedures) > 0,
		"returnDate": ner.ReturnDate != nil,
	}
	explicitNone := hasExplicitNoComplications(ner.OriginalText)
	present["complications"] = len(ner.Intercurrences) > 0 || explicitNone
	for _, p := range ner.Procedures {
		if len(p.Regions) > 0 {
			present["regions"] = true
		}
		if p.Product != nil {
			present["product"] = true
		}
		if p.ProductLot != nil {
			present["lot"] = true
		}
		if p.Quantity != nil {
			present["quantity"] = true
		}
	}
	return present
}

// qualityScore penalizes short notes, vague language and the absence of an
// explicit complication statement.
func qualityScore(notes string, present map[string]bool) int {
	score := 100
	trimmed := strings.TrimSpace(notes)
	switch {
	case len(trimmed) < 50:
		score -= 30
	case len(trimmed) < 100:
		score -= 10
	}
	lower := strings.ToLower(trimmed)
	for _, w := range vagueWords {
		if strings.Contains(lower, w) {
			score -= 10
			break
		}
	}
	if !present["complications"] {
		score -= 20
	}
	if score < 0 {
		score = 0
	}
	return score
}

// renderSummary composes a short human-readable recap of the extracted
// structure.
func renderSummary(ner *NERResult) string {
	if len(ner.Procedures) == 0 {
		return "Nenhum procedimento identificado nas notas clínicas."
	}
	var parts []string
	for _, p := range ner.Procedures {
		sentence := fmt.Sprintf("Sessão de %s", p.Type)
		if len(p.Regions) > 0 {
			sentence += fmt.Sprintf(" em %s", strings.Join(p.Regions, ", "))
		}
		if p.Product != nil {
			sentence += fmt.Sprintf(" com %s", *p.Product)
			if p.ProductLot != nil {
				sentence += fmt.Sprintf(" (lote %s)", *p.ProductLot)
			}
		}
		if p.Quantity != nil {
			sentence += fmt.Sprintf(", quantidade %s", *p.Quantity)
		}
		parts = append(parts, sentence+".")
	}
	if len(ner.Intercurrences) > 0 {
		parts = append(parts, fmt.Sprintf("Intercorrências: %s.", strings.Join(ner.Intercurrences, ", ")))
	} else if hasExplicitNoComplications(ner.OriginalText) {
		parts = append(parts, "Sem intercorrências.")
	}
	if ner.ReturnDate != nil {
		parts = append(parts, fmt.Sprintf("Retorno em %s.", *ner.ReturnDate))
	}
	return strings.Join(parts, " ")
}
