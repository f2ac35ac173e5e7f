package analysis

import (
	"time"
)

// ID tipe untuk Analysis
type AnalysisID string

// Section enum
type Section string

const (
	SectionTranscription   Section = "transcription"
	SectionNoiseAnalysis   Section = "noise_analysis"
	SectionEvaluation      Section = "evaluation"
	SectionSummary         Section = "summary"
	SectionRecommendations Section = "recommendations"
)

// Sections lists the fixed pipeline sections in processing order.
var Sections = []Section{
	SectionTranscription,
	SectionNoiseAnalysis,
	SectionEvaluation,
	SectionSummary,
	SectionRecommendations,
}

// Status enum
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// SectionStatus enum
type SectionStatus string

const (
	SectionSuccess SectionStatus = "success"
	SectionFailure SectionStatus = "failure"
)

// SectionResult value object. PrimaryText is only meaningful when
// Status == SectionSuccess.
type SectionResult struct {
	Status      SectionStatus `json:"status"`
	PrimaryText string        `json:"primary_text,omitempty"`
	OutputPath  string        `json:"output_path,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// Aggregate Root: Analysis. Immutable once the pipeline has produced it;
// it moves as a value between the HTTP response, the dashboard snapshot
// store and the rendering step.
type Analysis struct {
	ID          AnalysisID                `json:"file_identifier"`
	TenantID    string                    `json:"tenant_id"`
	AudioURL    string                    `json:"audio_url"`
	Status      Status                    `json:"status"`
	TriggeredAt time.Time                 `json:"triggered_at"`
	DurationMS  int64                     `json:"duration_ms"`
	Results     map[Section]SectionResult `json:"results"`
	Errors      []string                  `json:"errors,omitempty"`
}

// Section returns the result for one section, reporting whether the section
// is present at all.
func (a *Analysis) Section(name Section) (SectionResult, bool) {
	if a == nil || a.Results == nil {
		return SectionResult{}, false
	}
	r, ok := a.Results[name]
	return r, ok
}

// SectionText returns the primary text of a section when and only when the
// section succeeded.
func (a *Analysis) SectionText(name Section) (string, bool) {
	r, ok := a.Section(name)
	if !ok || r.Status != SectionSuccess {
		return "", false
	}
	return r.PrimaryText, true
}
