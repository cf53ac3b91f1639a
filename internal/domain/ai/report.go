package ai

import (
	"github.com/harmoniface/harmoniface/internal/domain/session"
)

// ContextResolver fetches the evaluation context for a session's patient.
// A nil resolver or a resolver error leaves the context empty; the batch is
// never aborted by a context lookup.
type ContextResolver func(patientID string) (*EvalContext, error)

// Aggregate evaluates every session and rolls up the distribution. A
// session that fails normalization is recorded as a per-session error entry
// and excluded from the mean; the batch never aborts. Output order matches
// input order.
func (e *Evaluator) Aggregate(sessions []*session.Session, resolve ContextResolver) ComplianceReport {
	report := ComplianceReport{
		Count:       len(sessions),
		PerSession:  make([]SessionReportEntry, 0, len(sessions)),
		GeneratedAt: e.now(),
	}

	var sum int
	var evaluated int

	for _, s := range sessions {
		entry := SessionReportEntry{SessionID: s.ID.String()}
		ns := FromSession(s)
		if ns.Date.IsZero() {
			msg := "session date is missing"
			entry.Error = &msg
			report.PerSession = append(report.PerSession, entry)
			continue
		}

		var ctx *EvalContext
		if resolve != nil {
			resolved, err := resolve(ns.PatientID)
			if err == nil {
				ctx = resolved
			}
		}

		result := e.Evaluate(ns, ctx)
		entry.Result = &result
		report.PerSession = append(report.PerSession, entry)

		sum += result.OverallScore
		evaluated++
		for _, f := range result.Flags {
			switch f.Severity {
			case SeverityCritical:
				report.Distribution.Critical++
			case SeverityWarning:
				report.Distribution.Warning++
			case SeverityInfo:
				report.Distribution.Info++
			}
		}
	}

	if evaluated > 0 {
		report.MeanScore = float64(sum) / float64(evaluated)
	}
	return report
}
