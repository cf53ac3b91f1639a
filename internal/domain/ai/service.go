package ai

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/harmoniface/harmoniface/internal/domain/session"
)

// defaultReportDays is the batch report window when no range is given.
const defaultReportDays = 90

// AllergySource resolves a patient's recorded allergy substances.
// Satisfied by the patient service.
type AllergySource interface {
	Allergies(ctx context.Context, id uuid.UUID) ([]string, error)
}

// SessionSource resolves stored sessions for batch reports. Satisfied by
// the session service.
type SessionSource interface {
	Get(ctx context.Context, id uuid.UUID) (*session.Session, error)
	ListByDateRange(ctx context.Context, patientID *uuid.UUID, start, end time.Time) ([]*session.Session, error)
}

// Service is the entry point of the clinical documentation pipeline. The
// extractor, summarizer and evaluator stay pure; the service owns the data
// lookups and audit logging around them.
type Service struct {
	extractor  *Extractor
	summarizer *Summarizer
	evaluator  *Evaluator
	sessions   SessionSource
	patients   AllergySource
	logs       LogRepository
	logger     zerolog.Logger
}

func NewService(evaluator *Evaluator, sessions SessionSource, patients AllergySource, logs LogRepository, logger zerolog.Logger) *Service {
	extractor := NewExtractor()
	return &Service{
		extractor:  extractor,
		summarizer: NewSummarizer(extractor),
		evaluator:  evaluator,
		sessions:   sessions,
		patients:   patients,
		logs:       logs,
		logger:     logger,
	}
}

// ExtractEntities runs the pattern engine over the clinical text and logs
// the invocation.
func (s *Service) ExtractEntities(ctx context.Context, sessionID *uuid.UUID, text string) (*NERResult, error) {
	result, err := s.extractor.Extract(text)
	s.audit(ctx, sessionID, ProcessNER, text, result, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Summarize produces the structured summary for a session's notes.
func (s *Service) Summarize(ctx context.Context, sessionID string, notes string) (*SummarizationResult, error) {
	result, err := s.summarizer.Summarize(sessionID, notes)
	var sid *uuid.UUID
	if parsed, parseErr := uuid.Parse(sessionID); parseErr == nil {
		sid = &parsed
	}
	s.audit(ctx, sid, ProcessSummarization, notes, result, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CheckRaw evaluates a session payload submitted directly by the caller,
// without requiring the session to be stored.
func (s *Service) CheckRaw(ctx context.Context, sessionID string, raw map[string]any) (*ComplianceCheckResult, error) {
	ns, err := NormalizeRaw(sessionID, raw)
	if err != nil {
		s.audit(ctx, nil, ProcessCompliance, "", nil, err)
		return nil, err
	}
	evalCtx := s.contextFor(ctx, ns.PatientID)
	result := s.evaluator.Evaluate(ns, evalCtx)

	var sid *uuid.UUID
	if parsed, parseErr := uuid.Parse(ns.ID); parseErr == nil {
		sid = &parsed
	}
	s.audit(ctx, sid, ProcessCompliance, "", &result, nil)
	return &result, nil
}

// CheckSession evaluates a stored session. It implements the completion
// gate of the session service: an open critical flag blocks completion.
func (s *Service) CheckSession(ctx context.Context, sess *session.Session) (int, []string, bool, error) {
	ns := FromSession(sess)
	evalCtx := s.contextFor(ctx, ns.PatientID)
	result := s.evaluator.Evaluate(ns, evalCtx)

	codes := make([]string, 0, len(result.Flags))
	blocked := false
	for _, f := range result.Flags {
		codes = append(codes, f.Code)
		if f.Severity == SeverityCritical {
			blocked = true
		}
	}

	sid := sess.ID
	s.audit(ctx, &sid, ProcessCompliance, "", &result, nil)
	return result.OverallScore, codes, blocked, nil
}

// Report runs the evaluator across a patient's sessions or a date range and
// rolls up the distribution. An omitted range defaults to the last 90 days.
func (s *Service) Report(ctx context.Context, patientID *uuid.UUID, start, end time.Time) (*ComplianceReport, error) {
	if s.sessions == nil {
		return nil, errors.New("session source not configured")
	}
	if end.IsZero() {
		end = time.Now()
	}
	if start.IsZero() {
		start = end.AddDate(0, 0, -defaultReportDays)
	}

	sessions, err := s.sessions.ListByDateRange(ctx, patientID, start, end)
	if err != nil {
		return nil, err
	}

	report := s.evaluator.Aggregate(sessions, func(pid string) (*EvalContext, error) {
		return s.contextFor(ctx, pid), nil
	})
	return &report, nil
}

// Logs lists the audit trail of a session's AI invocations.
func (s *Service) Logs(ctx context.Context, sessionID uuid.UUID, limit, offset int) ([]*ProcessingLog, int, error) {
	if s.logs == nil {
		return nil, 0, errors.New("processing log repository not configured")
	}
	return s.logs.ListBySession(ctx, sessionID, limit, offset)
}

// contextFor builds the evaluation context for a patient. A missing or
// unresolvable patient yields an empty context rather than an error.
func (s *Service) contextFor(ctx context.Context, patientID string) *EvalContext {
	evalCtx := &EvalContext{Allergies: []string{}}
	if s.patients == nil || patientID == "" {
		return evalCtx
	}
	id, err := uuid.Parse(patientID)
	if err != nil {
		return evalCtx
	}
	allergies, err := s.patients.Allergies(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).Str("patient_id", patientID).Msg("allergy lookup failed, evaluating without patient context")
		return evalCtx
	}
	evalCtx.Allergies = allergies
	return evalCtx
}

// audit records one pipeline invocation. Failures degrade to a warning;
// they never fail the call being logged.
func (s *Service) audit(ctx context.Context, sessionID *uuid.UUID, processType, input string, output any, callErr error) {
	if s.logs == nil {
		return
	}
	entry := &ProcessingLog{
		SessionID:   sessionID,
		ProcessType: processType,
		Status:      "success",
	}
	if input != "" {
		entry.InputText = &input
	}
	if callErr != nil {
		entry.Status = "error"
		msg := callErr.Error()
		entry.ErrorMessage = &msg
	}
	if output != nil {
		if raw, err := json.Marshal(output); err == nil {
			var asMap map[string]any
			if json.Unmarshal(raw, &asMap) == nil {
				entry.Output = asMap
			}
		}
	}
	switch v := output.(type) {
	case *NERResult:
		if v != nil {
			entry.ProcessingTimeMs = v.ProcessingTimeMs
		}
	case *SummarizationResult:
		if v != nil {
			entry.ProcessingTimeMs = v.ProcessingTimeMs
		}
	}
	if err := s.logs.Create(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("process_type", processType).Msg("failed to write ai processing log")
	}
}
