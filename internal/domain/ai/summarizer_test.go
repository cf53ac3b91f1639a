package ai

import (
	"errors"
	"strings"
	"testing"
)

func TestSummarize_RejectsShortInput(t *testing.T) {
	s := NewSummarizer(NewExtractor())
	_, err := s.Summarize("sess-1", "curto")
	if err == nil {
		t.Fatal("expected error for short notes")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("expected ValidationError, got %T", err)
	}
}

func TestSummarize_CompleteNote(t *testing.T) {
	s := NewSummarizer(NewExtractor())
	notes := "Paciente recebeu 50U de Botox (lote ABC123) na região frontal e glabela. " +
		"Sem intercorrências durante ou após a aplicação. Retorno em 15 dias para reavaliação."

	result, err := s.Summarize("sess-1", notes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.CompletenessScore != 100 {
		t.Errorf("expected completeness 100, got %d (missing %v)", result.CompletenessScore, result.MissingFields)
	}
	if len(result.MissingFields) != 0 {
		t.Errorf("expected no missing fields, got %v", result.MissingFields)
	}
	if result.SessionID != "sess-1" {
		t.Errorf("unexpected session id %s", result.SessionID)
	}
	if result.OriginalNotes != notes {
		t.Error("original notes not preserved")
	}
	if len(result.StructuredData.ProceduresPerformed) != 1 {
		t.Fatalf("expected 1 procedure, got %d", len(result.StructuredData.ProceduresPerformed))
	}
	if len(result.StructuredData.MedicationsApplied) != 1 {
		t.Fatalf("expected 1 medication, got %d", len(result.StructuredData.MedicationsApplied))
	}
	med := result.StructuredData.MedicationsApplied[0]
	if med.Name != "Botox" || med.Lot == nil || *med.Lot != "ABC123" {
		t.Errorf("unexpected medication %+v", med)
	}
	if !strings.Contains(result.Summary, "Toxina Botulínica") {
		t.Errorf("summary does not mention the procedure: %s", result.Summary)
	}
}

func TestSummarize_SparseNote(t *testing.T) {
	s := NewSummarizer(NewExtractor())
	result, err := s.Summarize("sess-2", "Aplicação de botox na região frontal hoje.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.CompletenessScore >= 100 {
		t.Errorf("expected incomplete note, got %d", result.CompletenessScore)
	}
	for _, want := range []string{"lot", "quantity", "complications", "returnDate"} {
		if !containsString(result.MissingFields, want) {
			t.Errorf("expected %s in missing fields, got %v", want, result.MissingFields)
		}
	}
}

func TestSummarize_QualityPenalties(t *testing.T) {
	s := NewSummarizer(NewExtractor())

	short, err := s.Summarize("sess-3", "Botox aplicado, tudo certo.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	long, err := s.Summarize("sess-4",
		"Paciente recebeu 50U de Botox (lote ABC123) na região frontal em pontos padronizados. "+
			"Sem intercorrências durante ou após a aplicação. Retorno em 15 dias para reavaliação do resultado.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if short.QualityScore >= long.QualityScore {
		t.Errorf("expected short vague note to score lower: %d vs %d", short.QualityScore, long.QualityScore)
	}
	if long.QualityScore != 100 {
		t.Errorf("expected full quality for complete note, got %d", long.QualityScore)
	}
}
