package dashboard

// Stable region identifiers. The host page binds its elements to these keys
// instead of discovering containers by heading text.
const (
	RegionSummary    = "summary"
	RegionTranscript = "transcript"
	RegionInsights   = "insights"
)

// InsightsLabel is the bolded label prepended to the recommendation text in
// the insights region.
const InsightsLabel = "Recommendation:"

// View is the fully rendered dashboard payload. Each region is populated
// independently; a region that could not be populated keeps Populated=false
// and leaves a warning behind instead of failing the others.
type View struct {
	FileIdentifier string           `json:"file_identifier,omitempty"`
	Summary        SummaryRegion    `json:"summary"`
	Transcript     TranscriptRegion `json:"transcript"`
	Insights       InsightsRegion   `json:"insights"`
	Warnings       []string         `json:"warnings,omitempty"`
}

type SummaryRegion struct {
	Populated bool   `json:"populated"`
	Text      string `json:"text,omitempty"`
}

type TranscriptRegion struct {
	Populated bool              `json:"populated"`
	Entries   []TranscriptEntry `json:"entries,omitempty"`
}

// TranscriptEntry is one rendered transcript line. Timestamp is synthetic:
// the line index times a fixed interval, formatted M:SS.
type TranscriptEntry struct {
	Speaker      string `json:"speaker"`
	SpeakerClass string `json:"speaker_class"`
	Timestamp    string `json:"timestamp"`
	Text         string `json:"text"`
}

type InsightsRegion struct {
	Populated bool   `json:"populated"`
	Label     string `json:"label,omitempty"`
	Text      string `json:"text,omitempty"`
}

func (v *View) warn(msg string) {
	v.Warnings = append(v.Warnings, msg)
}
