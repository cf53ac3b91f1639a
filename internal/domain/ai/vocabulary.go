package ai

import (
	"fmt"
	"regexp"
	"strings"
)

// vocabTerm is one curated vocabulary entry. Matching is case-insensitive
// on whole words; Go's \b is ASCII-only, so accented clinical terms get an
// explicit unicode boundary pattern instead.
type vocabTerm struct {
	term       string
	label      string
	canonical  string
	product    string
	confidence float64
	re         *regexp.Regexp
}

func compileTerm(t vocabTerm) vocabTerm {
	pattern := fmt.Sprintf(`(?i)(?:^|[^\p{L}\p{N}])(%s)(?:[^\p{L}\p{N}]|$)`, regexp.QuoteMeta(t.term))
	t.re = regexp.MustCompile(pattern)
	return t
}

func compileTerms(terms []vocabTerm) []vocabTerm {
	out := make([]vocabTerm, len(terms))
	for i, t := range terms {
		out[i] = compileTerm(t)
	}
	return out
}

// Procedure indicators. Product brand names double as procedure evidence
// and carry the product name for lot traceability and allergy checks.
var procedureTerms = compileTerms([]vocabTerm{
	{term: "toxina botulínica", label: LabelProcedure, canonical: "Toxina Botulínica", confidence: 0.95},
	{term: "botox", label: LabelProcedure, canonical: "Toxina Botulínica", product: "Botox", confidence: 0.9},
	{term: "dysport", label: LabelProcedure, canonical: "Toxina Botulínica", product: "Dysport", confidence: 0.9},
	{term: "xeomin", label: LabelProcedure, canonical: "Toxina Botulínica", product: "Xeomin", confidence: 0.9},
	{term: "preenchimento", label: LabelProcedure, canonical: "Preenchimento", confidence: 0.95},
	{term: "ácido hialurônico", label: LabelProcedure, canonical: "Preenchimento", product: "Ácido Hialurônico", confidence: 0.9},
	{term: "juvederm", label: LabelProcedure, canonical: "Preenchimento", product: "Juvederm", confidence: 0.9},
	{term: "restylane", label: LabelProcedure, canonical: "Preenchimento", product: "Restylane", confidence: 0.9},
	{term: "bioestimulador", label: LabelProcedure, canonical: "Bioestimulador", confidence: 0.95},
	{term: "sculptra", label: LabelProcedure, canonical: "Bioestimulador", product: "Sculptra", confidence: 0.9},
	{term: "radiesse", label: LabelProcedure, canonical: "Bioestimulador", product: "Radiesse", confidence: 0.9},
	{term: "fios de pdo", label: LabelProcedure, canonical: "Fios de PDO", confidence: 0.95},
	{term: "microagulhamento", label: LabelProcedure, canonical: "Microagulhamento", confidence: 0.95},
	{term: "peeling", label: LabelProcedure, canonical: "Peeling", confidence: 0.9},
	{term: "lidocaína", label: LabelProcedure, canonical: "Anestesia", product: "Lidocaína", confidence: 0.85},
})

// Anatomical regions of the face.
var regionTerms = compileTerms([]vocabTerm{
	{term: "frontal", label: LabelRegion, canonical: "frontal", confidence: 0.95},
	{term: "glabela", label: LabelRegion, canonical: "glabela", confidence: 0.95},
	{term: "periocular", label: LabelRegion, canonical: "periocular", confidence: 0.95},
	{term: "pés de galinha", label: LabelRegion, canonical: "periocular", confidence: 0.85},
	{term: "lábios", label: LabelRegion, canonical: "lábios", confidence: 0.95},
	{term: "sulco nasogeniano", label: LabelRegion, canonical: "sulco nasogeniano", confidence: 0.95},
	{term: "bigode chinês", label: LabelRegion, canonical: "sulco nasogeniano", confidence: 0.85},
	{term: "mento", label: LabelRegion, canonical: "mento", confidence: 0.95},
	{term: "mandíbula", label: LabelRegion, canonical: "mandíbula", confidence: 0.95},
	{term: "malar", label: LabelRegion, canonical: "malar", confidence: 0.95},
	{term: "têmpora", label: LabelRegion, canonical: "têmpora", confidence: 0.95},
	{term: "nariz", label: LabelRegion, canonical: "nariz", confidence: 0.9},
})

// Intercurrence keywords.
var intercurrenceTerms = compileTerms([]vocabTerm{
	{term: "hematoma", label: LabelIntercurrence, canonical: "hematoma", confidence: 0.95},
	{term: "equimose", label: LabelIntercurrence, canonical: "equimose", confidence: 0.95},
	{term: "edema", label: LabelIntercurrence, canonical: "edema", confidence: 0.95},
	{term: "eritema", label: LabelIntercurrence, canonical: "eritema", confidence: 0.95},
	{term: "sangramento", label: LabelIntercurrence, canonical: "sangramento", confidence: 0.95},
	{term: "assimetria", label: LabelIntercurrence, canonical: "assimetria", confidence: 0.9},
	{term: "nódulo", label: LabelIntercurrence, canonical: "nódulo", confidence: 0.9},
	{term: "reação alérgica", label: LabelIntercurrence, canonical: "reação alérgica", confidence: 0.95},
	{term: "vasoespasmo", label: LabelIntercurrence, canonical: "vasoespasmo", confidence: 0.95},
	{term: "necrose", label: LabelIntercurrence, canonical: "necrose", confidence: 0.95},
	{term: "parestesia", label: LabelIntercurrence, canonical: "parestesia", confidence: 0.95},
	{term: "ptose", label: LabelIntercurrence, canonical: "ptose", confidence: 0.95},
})

// Token patterns. Group 1 is always the entity span.
var (
	lotPattern      = regexp.MustCompile(`(?i)lote\s*:?\s*\(?\s*([A-Z0-9][A-Z0-9-]{2,})`)
	quantityPattern = regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}])(\d+(?:[.,]\d+)?\s*(?:ui|u|unidades|ml|mg))(?:[^\p{L}\p{N}]|$)`)
	returnPattern   = regexp.MustCompile(`(?i)retorno\s+(?:em|para)?\s*((?:\d+\s+dias?)|(?:\d{1,2}/\d{1,2}(?:/\d{2,4})?))`)

	// "sem intercorrências" and variants mark complications as explicitly
	// absent rather than unrecorded.
	noComplicationsPattern = regexp.MustCompile(`(?i)(sem|nenhuma|não houve|nao houve)\s+intercorr[êe]ncia`)
)

// hasExplicitNoComplications reports whether the note states the absence of
// complications in so many words.
func hasExplicitNoComplications(text string) bool {
	return noComplicationsPattern.MatchString(text)
}

// suggestionRule pairs a trigger region with a commonly co-treated region.
type suggestionRule struct {
	triggerRegion string
	procType      string
	suggestType   string
	suggestRegion string
	reason        string
}

var suggestionRules = []suggestionRule{
	{
		triggerRegion: "frontal",
		procType:      "Toxina Botulínica",
		suggestType:   "Toxina Botulínica",
		suggestRegion: "glabela",
		reason:        "Regiões frontal e glabela são frequentemente tratadas em conjunto",
	},
	{
		triggerRegion: "glabela",
		procType:      "Toxina Botulínica",
		suggestType:   "Toxina Botulínica",
		suggestRegion: "periocular",
		reason:        "Tratamento do terço superior costuma incluir a região periocular",
	},
	{
		triggerRegion: "lábios",
		procType:      "Preenchimento",
		suggestType:   "Preenchimento",
		suggestRegion: "sulco nasogeniano",
		reason:        "Preenchimento labial costuma ser combinado com o sulco nasogeniano",
	},
	{
		triggerRegion: "malar",
		procType:      "Preenchimento",
		suggestType:   "Preenchimento",
		suggestRegion: "mandíbula",
		reason:        "Harmonização do terço médio costuma incluir o contorno mandibular",
	},
}

func canonicalFor(terms []vocabTerm, matched string) string {
	lower := strings.ToLower(matched)
	for _, t := range terms {
		if strings.ToLower(t.term) == lower {
			return t.canonical
		}
	}
	return matched
}
