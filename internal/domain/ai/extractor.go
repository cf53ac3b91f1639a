package ai

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// minClinicalTextLength is the minimum trimmed input the extractor and
// summarizer accept.
const minClinicalTextLength = 10

// Extractor is the deterministic pattern engine that turns free-text
// clinical notes into labeled entities and procedure records. It holds only
// compiled read-only vocabulary, so one instance serves all callers.
type Extractor struct{}

func NewExtractor() *Extractor { return &Extractor{} }

// entityMatch keeps the vocabulary metadata alongside the emitted entity
// while grouping runs.
type entityMatch struct {
	entity    Entity
	canonical string
	product   string
}

// Extract scans the text against the clinical vocabularies and token
// patterns, then groups co-located entities into procedure records. Spans
// are byte offsets into the input, so text[StartChar:EndChar] always equals
// the entity text.
func (x *Extractor) Extract(text string) (*NERResult, error) {
	if len(strings.TrimSpace(text)) < minClinicalTextLength {
		return nil, newValidationError("clinicalText", "clinical text must be at least 10 characters")
	}
	start := time.Now()

	procs := scanVocab(text, procedureTerms)
	regions := scanVocab(text, regionTerms)
	inters := scanVocab(text, intercurrenceTerms)
	lots := scanPattern(text, lotPattern, LabelProductLot, 0.85)
	quantities := scanPattern(text, quantityPattern, LabelQuantity, 0.9)
	returns := scanPattern(text, returnPattern, LabelReturnDate, 0.85)

	all := make([]entityMatch, 0, len(procs)+len(regions)+len(inters)+len(lots)+len(quantities)+len(returns))
	all = append(all, procs...)
	all = append(all, regions...)
	all = append(all, inters...)
	all = append(all, lots...)
	all = append(all, quantities...)
	all = append(all, returns...)
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].entity.StartChar != all[j].entity.StartChar {
			return all[i].entity.StartChar < all[j].entity.StartChar
		}
		return all[i].entity.EndChar < all[j].entity.EndChar
	})

	result := &NERResult{
		OriginalText:        text,
		Entities:            make([]Entity, 0, len(all)),
		Procedures:          []ExtractedProcedure{},
		Intercurrences:      []string{},
		SuggestedProcedures: []SuggestedProcedure{},
		ProcessingTimeMs:    0,
	}
	var confSum float64
	for _, m := range all {
		result.Entities = append(result.Entities, m.entity)
		confSum += m.entity.Confidence
	}
	if len(all) > 0 {
		result.Confidence = confSum / float64(len(all))
	}

	for _, m := range inters {
		if !containsString(result.Intercurrences, m.canonical) {
			result.Intercurrences = append(result.Intercurrences, m.canonical)
		}
	}

	if len(returns) > 0 {
		rd := returns[0].entity.Text
		result.ReturnDate = &rd
	}

	result.Procedures = groupProcedures(procs, regions, lots, quantities, result.Intercurrences, hasExplicitNoComplications(text))
	result.SuggestedProcedures = suggestProcedures(result.Procedures)

	result.ProcessingTimeMs = time.Since(start).Milliseconds()
	return result, nil
}

func scanVocab(text string, terms []vocabTerm) []entityMatch {
	var out []entityMatch
	for _, t := range terms {
		for _, idx := range t.re.FindAllStringSubmatchIndex(text, -1) {
			a, b := idx[2], idx[3]
			out = append(out, entityMatch{
				entity: Entity{
					Text:       text[a:b],
					Label:      t.label,
					Confidence: t.confidence,
					StartChar:  a,
					EndChar:    b,
				},
				canonical: t.canonical,
				product:   t.product,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].entity.StartChar < out[j].entity.StartChar
	})
	return out
}

func scanPattern(text string, re *regexp.Regexp, label string, confidence float64) []entityMatch {
	var out []entityMatch
	for _, idx := range re.FindAllStringSubmatchIndex(text, -1) {
		a, b := idx[2], idx[3]
		if a < 0 || b < 0 {
			continue
		}
		out = append(out, entityMatch{
			entity: Entity{
				Text:       text[a:b],
				Label:      label,
				Confidence: confidence,
				StartChar:  a,
				EndChar:    b,
			},
			canonical: text[a:b],
		})
	}
	return out
}

// groupProcedures assigns every region, lot and quantity entity to the
// nearest procedure anchor by character distance. A note without any
// procedure indicator yields no procedure records.
func groupProcedures(procs, regions, lots, quantities []entityMatch, intercurrences []string, explicitNone bool) []ExtractedProcedure {
	if len(procs) == 0 {
		return []ExtractedProcedure{}
	}

	// Brand-name mentions of the same procedure type collapse into the
	// first anchor so "toxina botulínica (Botox)" yields one record.
	type group struct {
		proc    ExtractedProcedure
		anchor  int
		minConf float64
	}
	var groups []group
	seenType := map[string]int{}
	for _, p := range procs {
		if i, ok := seenType[p.canonical]; ok {
			if p.product != "" && groups[i].proc.Product == nil {
				product := p.product
				groups[i].proc.Product = &product
			}
			if p.entity.Confidence < groups[i].minConf {
				groups[i].minConf = p.entity.Confidence
			}
			continue
		}
		g := group{
			proc:    ExtractedProcedure{Type: p.canonical, Regions: []string{}},
			anchor:  p.entity.StartChar,
			minConf: p.entity.Confidence,
		}
		if p.product != "" {
			product := p.product
			g.proc.Product = &product
		}
		seenType[p.canonical] = len(groups)
		groups = append(groups, g)
	}

	nearest := func(pos int) int {
		best, bestDist := 0, -1
		for i, g := range groups {
			dist := pos - g.anchor
			if dist < 0 {
				dist = -dist
			}
			if bestDist < 0 || dist < bestDist {
				best, bestDist = i, dist
			}
		}
		return best
	}

	for _, r := range regions {
		i := nearest(r.entity.StartChar)
		if !containsString(groups[i].proc.Regions, r.canonical) {
			groups[i].proc.Regions = append(groups[i].proc.Regions, r.canonical)
		}
		if r.entity.Confidence < groups[i].minConf {
			groups[i].minConf = r.entity.Confidence
		}
	}
	for _, l := range lots {
		i := nearest(l.entity.StartChar)
		if groups[i].proc.ProductLot == nil {
			lot := l.entity.Text
			groups[i].proc.ProductLot = &lot
		}
		if l.entity.Confidence < groups[i].minConf {
			groups[i].minConf = l.entity.Confidence
		}
	}
	for _, q := range quantities {
		i := nearest(q.entity.StartChar)
		if groups[i].proc.Quantity == nil {
			qty := q.entity.Text
			groups[i].proc.Quantity = &qty
		}
		if q.entity.Confidence < groups[i].minConf {
			groups[i].minConf = q.entity.Confidence
		}
	}

	var complications *string
	if len(intercurrences) > 0 {
		joined := strings.Join(intercurrences, "; ")
		complications = &joined
	} else if explicitNone {
		none := "nenhuma"
		complications = &none
	}

	out := make([]ExtractedProcedure, 0, len(groups))
	for _, g := range groups {
		g.proc.Confidence = g.minConf
		g.proc.Complications = complications
		out = append(out, g.proc)
	}
	return out
}

// suggestProcedures derives advisory complementary-region suggestions from
// the recognized procedures. Regions already covered are not re-suggested.
func suggestProcedures(procedures []ExtractedProcedure) []SuggestedProcedure {
	out := []SuggestedProcedure{}
	for _, rule := range suggestionRules {
		for _, p := range procedures {
			if p.Type != rule.procType {
				continue
			}
			if !containsString(p.Regions, rule.triggerRegion) || containsString(p.Regions, rule.suggestRegion) {
				continue
			}
			region := rule.suggestRegion
			out = append(out, SuggestedProcedure{
				Type:       rule.suggestType,
				Region:     &region,
				Reason:     rule.reason,
				Confidence: 0.6,
			})
			break
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
