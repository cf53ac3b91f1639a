package ai

import "strings"

// Procedure types used by ApplicableTo filters. Matching is done on the
// lowercased procedure type, substring style, so "Toxina Botulínica" and
// "toxina" both hit the toxin rules.
const (
	procToxin         = "toxina"
	procFiller        = "preenchimento"
	procBiostimulator = "bioestimulador"
)

// injectable procedure types, for rules scoped to injections
var injectableTypes = []string{procToxin, procFiller, procBiostimulator}

// defaultRules is the complete compliance catalogue. Order matters: flags
// and recommendations are emitted in catalogue order, and audit trails key
// on Code, so entries are append-only and codes are never repurposed.
var defaultRules = []Rule{
	{
		Code:        "consent-signed",
		Name:        "Consentimento informado",
		Description: "Termo de consentimento assinado antes da execução do procedimento",
		Severity:    SeverityCritical,
		Field:       "consent_signed",
		Suggestion:  "Colete a assinatura do termo de consentimento antes de concluir a sessão",
		Check: func(s *NormalizedSession, _ *EvalContext) bool {
			return s.ConsentSigned
		},
	},
	{
		Code:        "product-lot-traceability",
		Name:        "Rastreabilidade de lote",
		Description: "Lote do produto registrado quando um procedimento com produto é realizado",
		Severity:    SeverityCritical,
		Field:       "product_lot",
		Suggestion:  "Registre o número do lote do produto utilizado",
		Check: func(s *NormalizedSession, _ *EvalContext) bool {
			if s.Product == "" {
				return true
			}
			return s.ProductLot != ""
		},
	},
	{
		Code:        "clinical-notes-minimum",
		Name:        "Evolução clínica mínima",
		Description: "Notas clínicas presentes com extensão mínima",
		Severity:    SeverityWarning,
		Field:       "clinical_notes_raw",
		Suggestion:  "Descreva a evolução clínica da sessão com mais detalhes",
		Check: func(s *NormalizedSession, _ *EvalContext) bool {
			return len(strings.TrimSpace(s.NotesRaw)) >= minNotesLength
		},
	},
	{
		Code:         "return-date-set",
		Name:         "Retorno agendado",
		Description:  "Data de retorno definida para procedimentos que exigem acompanhamento",
		Severity:     SeverityWarning,
		Field:        "return_date",
		Suggestion:   "Agende a data de retorno para acompanhamento do resultado",
		ApplicableTo: injectableTypes,
		Check: func(s *NormalizedSession, _ *EvalContext) bool {
			return s.ReturnDate != ""
		},
	},
	{
		Code:        "allergy-conflict",
		Name:        "Cruzamento de alergias",
		Description: "Produto da sessão não coincide com alergia registrada do paciente",
		Severity:    SeverityCritical,
		Field:       "product",
		Suggestion:  "Verifique o histórico de alergias do paciente antes de aplicar o produto",
		Check: func(s *NormalizedSession, ctx *EvalContext) bool {
			if s.Product == "" || ctx == nil {
				return true
			}
			product := strings.ToLower(s.Product)
			for _, a := range ctx.Allergies {
				a = strings.ToLower(strings.TrimSpace(a))
				if a != "" && strings.Contains(product, a) {
					return false
				}
			}
			return true
		},
	},
	{
		Code:         "technique-recorded",
		Name:         "Técnica registrada",
		Description:  "Técnica de aplicação informada para procedimentos injetáveis",
		Severity:     SeverityInfo,
		Field:        "technique",
		Suggestion:   "Informe a técnica de aplicação utilizada",
		ApplicableTo: injectableTypes,
		Check: func(s *NormalizedSession, _ *EvalContext) bool {
			return s.Technique != ""
		},
	},
	{
		Code:        "complications-recorded",
		Name:        "Intercorrências registradas",
		Description: "Campo de intercorrências preenchido explicitamente, mesmo quando ausentes",
		Severity:    SeverityWarning,
		Field:       "complications",
		Suggestion:  "Registre explicitamente a presença ou ausência de intercorrências",
		Check: func(s *NormalizedSession, _ *EvalContext) bool {
			return s.Complications != nil
		},
	},
	{
		Code:        "session-date-valid",
		Name:        "Data da sessão válida",
		Description: "Data da sessão presente e não futura em relação ao momento da avaliação",
		Severity:    SeverityCritical,
		Field:       "date",
		Suggestion:  "Corrija a data da sessão",
		Check: func(s *NormalizedSession, ctx *EvalContext) bool {
			if s.Date.IsZero() {
				return false
			}
			if ctx != nil && !ctx.Now.IsZero() {
				return !s.Date.After(ctx.Now)
			}
			return true
		},
	},
}

// minNotesLength is the minimum trimmed length the clinical notes rule
// accepts.
const minNotesLength = 30

// ruleApplies reports whether a rule's ApplicableTo filter matches the
// session's procedure type. Universal rules always apply.
func ruleApplies(r Rule, s *NormalizedSession) bool {
	if len(r.ApplicableTo) == 0 {
		return true
	}
	// A session without a recorded procedure type is not exempt from
	// scoped rules; it may simply be under-documented.
	procType := strings.ToLower(s.ProcedureType)
	if procType == "" {
		return true
	}
	for _, t := range r.ApplicableTo {
		if strings.Contains(procType, t) {
			return true
		}
	}
	return false
}
