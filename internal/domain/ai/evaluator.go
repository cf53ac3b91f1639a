package ai

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// EvaluatorConfig carries the scoring policy. The penalties and threshold
// are product policy, not law, so they are threaded in rather than fixed as
// package constants.
type EvaluatorConfig struct {
	Threshold       int
	PenaltyCritical int
	PenaltyWarning  int
	PenaltyInfo     int
}

// DefaultEvaluatorConfig returns the standing policy: threshold 80,
// penalties 25/10/3 per critical/warning/info failure.
func DefaultEvaluatorConfig() EvaluatorConfig {
	return EvaluatorConfig{
		Threshold:       80,
		PenaltyCritical: 25,
		PenaltyWarning:  10,
		PenaltyInfo:     3,
	}
}

// Evaluator runs the rule catalogue against normalized sessions. It holds
// no mutable state, so one instance is safe for concurrent use.
type Evaluator struct {
	rules  []Rule
	cfg    EvaluatorConfig
	now    func() time.Time
	logger zerolog.Logger
}

func NewEvaluator(cfg EvaluatorConfig, logger zerolog.Logger) *Evaluator {
	return &Evaluator{rules: defaultRules, cfg: cfg, now: time.Now, logger: logger}
}

// WithClock replaces the evaluator's clock. Test hook.
func (e *Evaluator) WithClock(now func() time.Time) *Evaluator {
	e.now = now
	return e
}

// Rules exposes the catalogue, read-only by convention.
func (e *Evaluator) Rules() []Rule { return e.rules }

// Evaluate is a pure function of the session, the context, the catalogue
// and the configured policy. It starts at 100, subtracts the severity
// penalty per failing applicable rule, clamps to [0,100] and compares
// against the threshold. Recommendations are the deduplicated suggestions
// of the failing rules, in catalogue order.
func (e *Evaluator) Evaluate(s *NormalizedSession, ctx *EvalContext) ComplianceCheckResult {
	now := e.now()
	if ctx == nil {
		ctx = &EvalContext{}
	}
	if ctx.Now.IsZero() {
		evalCtx := *ctx
		evalCtx.Now = now
		ctx = &evalCtx
	}

	score := 100
	flags := []ComplianceFlag{}
	recommendations := []string{}
	seen := map[string]bool{}

	addRecommendation := func(text string) {
		if text != "" && !seen[text] {
			seen[text] = true
			recommendations = append(recommendations, text)
		}
	}

	for _, rule := range e.rules {
		if !ruleApplies(rule, s) {
			continue
		}
		passed, failedClosed := e.runCheck(rule, s, ctx)
		if passed {
			continue
		}
		severity := rule.Severity
		message := rule.Description
		suggestion := rule.Suggestion
		if failedClosed {
			// A panicking predicate counts as a critical failure
			// instead of aborting the whole evaluation.
			severity = SeverityCritical
			message = fmt.Sprintf("verificação interna indisponível para regra %s", rule.Code)
			suggestion = message
		}
		flag := ComplianceFlag{
			Severity: severity,
			Code:     rule.Code,
			Message:  message,
		}
		if rule.Field != "" {
			field := rule.Field
			flag.Field = &field
		}
		if suggestion != "" {
			sug := suggestion
			flag.Suggestion = &sug
		}
		flags = append(flags, flag)
		addRecommendation(suggestion)
		score -= e.penalty(severity)
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return ComplianceCheckResult{
		SessionID:       s.ID,
		OverallScore:    score,
		Compliant:       score >= e.cfg.Threshold,
		Flags:           flags,
		Recommendations: recommendations,
		LastCheckedAt:   now,
	}
}

func (e *Evaluator) penalty(severity Severity) int {
	switch severity {
	case SeverityCritical:
		return e.cfg.PenaltyCritical
	case SeverityWarning:
		return e.cfg.PenaltyWarning
	default:
		return e.cfg.PenaltyInfo
	}
}

// runCheck executes one rule predicate, converting a panic into a
// fail-closed result so one misbehaving rule cannot crash the evaluation.
func (e *Evaluator) runCheck(rule Rule, s *NormalizedSession, ctx *EvalContext) (passed, failedClosed bool) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().
				Str("rule", rule.Code).
				Interface("panic", r).
				Msg("compliance rule panicked, failing closed")
			passed = false
			failedClosed = true
		}
	}()
	return rule.Check(s, ctx), false
}
