package dashboard

import (
	"fmt"
	"strings"

	"github.com/callsight/callsight/internal/domain/analysis"
)

// Seconds assigned per transcript line when generating synthetic timestamps.
const timestampIntervalSeconds = 15

// Speaker alias groups. Matching is a case-insensitive prefix check against
// the text before the first colon; lines with no recognized label fall back
// to the agent group.
const (
	SpeakerClassAgent    = "agent"
	SpeakerClassCustomer = "customer"

	speakerLabelAgent    = "Agent"
	speakerLabelCustomer = "Customer"
)

var (
	agentAliases    = []string{"agent", "callcenter", "call center", "support", "representative"}
	customerAliases = []string{"customer", "patient", "client", "caller"}
)

// Render maps an Analysis onto the three dashboard regions. Every region is
// independent: a missing or failed section skips that region and records a
// warning, it never aborts the rest. Render never returns an error and never
// panics on malformed input.
func Render(a *analysis.Analysis) *View {
	v := &View{}
	if a == nil || a.Results == nil {
		v.warn("no analysis data to render")
		return v
	}
	v.FileIdentifier = string(a.ID)

	renderSummary(v, a)
	renderTranscript(v, a)
	renderInsights(v, a)
	return v
}

func renderSummary(v *View, a *analysis.Analysis) {
	text, ok := a.SectionText(analysis.SectionSummary)
	if !ok {
		v.warn("summary region skipped: section missing or not successful")
		return
	}
	if strings.TrimSpace(text) == "" {
		v.warn("summary region skipped: empty summary text")
		return
	}
	// verbatim, no reformatting
	v.Summary = SummaryRegion{Populated: true, Text: text}
}

func renderTranscript(v *View, a *analysis.Analysis) {
	text, ok := a.SectionText(analysis.SectionTranscription)
	if !ok {
		v.warn("transcript region skipped: section missing or not successful")
		return
	}

	var entries []TranscriptEntry
	idx := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		class, label, remainder := splitSpeakerLine(line)
		entries = append(entries, TranscriptEntry{
			Speaker:      label,
			SpeakerClass: class,
			Timestamp:    formatTimestamp(idx * timestampIntervalSeconds),
			Text:         remainder,
		})
		idx++
	}
	if len(entries) == 0 {
		v.warn("transcript region skipped: no non-empty lines")
		return
	}
	v.Transcript = TranscriptRegion{Populated: true, Entries: entries}
}

func renderInsights(v *View, a *analysis.Analysis) {
	text, ok := a.SectionText(analysis.SectionRecommendations)
	if !ok {
		v.warn("insights region skipped: section missing or not successful")
		return
	}
	v.Insights = InsightsRegion{Populated: true, Label: InsightsLabel, Text: text}
}

// splitSpeakerLine detects a speaker label by prefix match on the first
// colon-separated field. Multi-colon lines are split on the first colon only;
// colons inside spoken text are not disambiguated.
func splitSpeakerLine(line string) (class, label, text string) {
	if i := strings.Index(line, ":"); i > 0 {
		prefix := strings.ToLower(strings.TrimSpace(line[:i]))
		remainder := strings.TrimSpace(line[i+1:])
		if matchesAlias(prefix, agentAliases) {
			return SpeakerClassAgent, speakerLabelAgent, remainder
		}
		if matchesAlias(prefix, customerAliases) {
			return SpeakerClassCustomer, speakerLabelCustomer, remainder
		}
	}
	// unlabeled lines default to the agent group, text kept whole
	return SpeakerClassAgent, speakerLabelAgent, line
}

func matchesAlias(prefix string, aliases []string) bool {
	for _, alias := range aliases {
		if strings.HasPrefix(prefix, alias) {
			return true
		}
	}
	return false
}

func formatTimestamp(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
