package ai

import "time"

// Entity labels form a closed set. New labels may be appended but existing
// values are stable identifiers carried in stored extraction output.
const (
	LabelProcedure     = "PROCEDURE"
	LabelRegion        = "REGION"
	LabelProductLot    = "PRODUCT_LOT"
	LabelQuantity      = "QUANTITY"
	LabelIntercurrence = "INTERCURRENCE"
	LabelReturnDate    = "RETURN_DATE"
)

// Entity is one labeled span of the source text. StartChar/EndChar are byte
// offsets into the original text, so originalText[StartChar:EndChar] always
// equals Text.
type Entity struct {
	Text       string  `json:"text"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	StartChar  int     `json:"startChar"`
	EndChar    int     `json:"endChar"`
}

// ExtractedProcedure groups co-located entities into one procedure record.
// Confidence is the minimum of its constituent entity confidences.
type ExtractedProcedure struct {
	Type          string   `json:"type"`
	Regions       []string `json:"regions"`
	Product       *string  `json:"product,omitempty"`
	ProductLot    *string  `json:"productLot,omitempty"`
	Quantity      *string  `json:"quantity,omitempty"`
	Technique     *string  `json:"technique,omitempty"`
	Complications *string  `json:"complications,omitempty"`
	Confidence    float64  `json:"confidence"`
}

// SuggestedProcedure is an advisory complementary-procedure recommendation
// derived from the regions and products recognized in the note.
type SuggestedProcedure struct {
	Type       string  `json:"type"`
	Region     *string `json:"region,omitempty"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}

// NERResult is the full output of one extraction call.
type NERResult struct {
	OriginalText        string               `json:"originalText"`
	Entities            []Entity             `json:"entities"`
	Procedures          []ExtractedProcedure `json:"procedures"`
	Intercurrences      []string             `json:"intercurrences"`
	ReturnDate          *string              `json:"returnDate,omitempty"`
	SuggestedProcedures []SuggestedProcedure `json:"suggestedProcedures"`
	Confidence          float64              `json:"confidence"`
	ProcessingTimeMs    int64                `json:"processingTimeMs"`
}

// StructuredMedication is one product application inside the structured data.
type StructuredMedication struct {
	Name     string  `json:"name"`
	Lot      *string `json:"lot,omitempty"`
	Quantity *string `json:"quantity,omitempty"`
}

// SessionStructuredData is the structured view of a clinical note produced
// by the summarizer.
type SessionStructuredData struct {
	ProceduresPerformed []ExtractedProcedure   `json:"proceduresPerformed"`
	Intercurrences      []string               `json:"intercurrences"`
	ClinicalComments    *string                `json:"clinicalComments,omitempty"`
	ReturnSchedule      *string                `json:"returnSchedule,omitempty"`
	MedicationsApplied  []StructuredMedication `json:"medicationsApplied"`
}

// SummarizationResult is the output of one summarization call.
type SummarizationResult struct {
	SessionID         string                `json:"sessionId"`
	OriginalNotes     string                `json:"originalNotes"`
	Summary           string                `json:"summary"`
	StructuredData    SessionStructuredData `json:"structuredData"`
	CompletenessScore int                   `json:"completenessScore"`
	QualityScore      int                   `json:"qualityScore"`
	MissingFields     []string              `json:"missingFields"`
	ProcessingTimeMs  int64                 `json:"processingTimeMs"`
}

// Severity determines the score penalty of a failing rule and whether the
// flag blocks session completion upstream.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// NormalizedSession is the canonical shape rule predicates run against.
// Optional arrays are never nil and optional strings default to empty, so
// predicates need no null-checks. Complications stays a pointer because the
// rules distinguish "explicitly none" from "not recorded".
type NormalizedSession struct {
	ID            string
	PatientID     string
	Date          time.Time
	ProcedureType string
	Regions       []string
	Product       string
	ProductLot    string
	Quantity      string
	Technique     string
	Complications *string
	ReturnDate    string
	NotesRaw      string
	ConsentSigned bool
}

// EvalContext carries the patient context a rule may consult.
type EvalContext struct {
	Allergies []string
	Now       time.Time
}

// Rule is one entry of the compliance catalogue. Check returns true when
// the session passes. Code is the stable audit identity of the check and
// must never be reused for a different predicate. An empty ApplicableTo
// means the rule applies to every procedure type.
type Rule struct {
	Code         string
	Name         string
	Description  string
	Severity     Severity
	Suggestion   string
	Field        string
	ApplicableTo []string
	Check        func(s *NormalizedSession, ctx *EvalContext) bool
}

// ComplianceFlag records one failing rule instance.
type ComplianceFlag struct {
	Severity   Severity `json:"severity"`
	Code       string   `json:"code"`
	Message    string   `json:"message"`
	Field      *string  `json:"field,omitempty"`
	Suggestion *string  `json:"suggestion,omitempty"`
}

// ComplianceCheckResult is the transient verdict of one evaluation.
type ComplianceCheckResult struct {
	SessionID       string           `json:"sessionId"`
	OverallScore    int              `json:"overallScore"`
	Compliant       bool             `json:"compliant"`
	Flags           []ComplianceFlag `json:"flags"`
	Recommendations []string         `json:"recommendations"`
	LastCheckedAt   time.Time        `json:"lastCheckedAt"`
}

// SeverityCounts is the flag distribution of a batch report.
type SeverityCounts struct {
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Info     int `json:"info"`
}

// SessionReportEntry is one per-session slot of a batch report. Exactly one
// of Result or Error is set.
type SessionReportEntry struct {
	SessionID string                 `json:"sessionId"`
	Result    *ComplianceCheckResult `json:"result,omitempty"`
	Error     *string                `json:"error,omitempty"`
}

// ComplianceReport is the rolled-up output of a batch evaluation.
type ComplianceReport struct {
	Count        int                  `json:"count"`
	MeanScore    float64              `json:"meanScore"`
	Distribution SeverityCounts       `json:"distribution"`
	PerSession   []SessionReportEntry `json:"perSession"`
	GeneratedAt  time.Time            `json:"generatedAt"`
}
