package dashboard

import (
	"testing"

	"github.com/callsight/callsight/internal/domain/analysis"
)

func analysisWith(sections map[analysis.Section]analysis.SectionResult) *analysis.Analysis {
	return &analysis.Analysis{
		ID:       "file1_MPE",
		TenantID: "clinic-1",
		Status:   analysis.StatusCompleted,
		Results:  sections,
	}
}

func transcriptAnalysis(text string) *analysis.Analysis {
	return analysisWith(map[analysis.Section]analysis.SectionResult{
		analysis.SectionTranscription: {Status: analysis.SectionSuccess, PrimaryText: text},
	})
}

func TestRenderSpeakerLabels(t *testing.T) {
	a := transcriptAnalysis(
		"Callcenter: good morning\n" +
			"Patient: hello doctor\n" +
			"Support: one moment please\n" +
			"Client: thank you",
	)

	v := Render(a)
	if !v.Transcript.Populated {
		t.Fatal("transcript should be populated")
	}
	want := []struct {
		speaker string
		class   string
	}{
		{"Agent", SpeakerClassAgent},
		{"Customer", SpeakerClassCustomer},
		{"Agent", SpeakerClassAgent},
		{"Customer", SpeakerClassCustomer},
	}
	if len(v.Transcript.Entries) != len(want) {
		t.Fatalf("entries = %d", len(v.Transcript.Entries))
	}
	for i, w := range want {
		e := v.Transcript.Entries[i]
		if e.Speaker != w.speaker || e.SpeakerClass != w.class {
			t.Errorf("entry %d: speaker=%q class=%q, want %q/%q", i, e.Speaker, e.SpeakerClass, w.speaker, w.class)
		}
	}
}

func TestRenderSyntheticTimestamps(t *testing.T) {
	a := transcriptAnalysis("Agent: one\nCustomer: two\nAgent: three\nCustomer: four\nAgent: five")

	v := Render(a)
	want := []string{"0:00", "0:15", "0:30", "0:45", "1:00"}
	for i, ts := range want {
		if got := v.Transcript.Entries[i].Timestamp; got != ts {
			t.Errorf("entry %d timestamp = %q, want %q", i, got, ts)
		}
	}
}

func TestRenderSkipsEmptyLines(t *testing.T) {
	a := transcriptAnalysis("Agent: one\n\n   \nCustomer: two")

	v := Render(a)
	if len(v.Transcript.Entries) != 2 {
		t.Fatalf("entries = %d", len(v.Transcript.Entries))
	}
	// timestamps follow rendered index, not source line number
	if v.Transcript.Entries[1].Timestamp != "0:15" {
		t.Errorf("second timestamp = %q", v.Transcript.Entries[1].Timestamp)
	}
}

func TestRenderUnlabeledLineDefaultsToAgent(t *testing.T) {
	a := transcriptAnalysis("just some narration without a label")

	v := Render(a)
	e := v.Transcript.Entries[0]
	if e.SpeakerClass != SpeakerClassAgent {
		t.Errorf("class = %q", e.SpeakerClass)
	}
	if e.Text != "just some narration without a label" {
		t.Errorf("unlabeled line should keep its full text, got %q", e.Text)
	}
}

func TestRenderFirstColonOnlySplit(t *testing.T) {
	a := transcriptAnalysis("Customer: my appointment: is it at 10:30?")

	v := Render(a)
	e := v.Transcript.Entries[0]
	if e.Speaker != "Customer" {
		t.Errorf("speaker = %q", e.Speaker)
	}
	if e.Text != "my appointment: is it at 10:30?" {
		t.Errorf("text = %q", e.Text)
	}
}

func TestRenderSummaryVerbatim(t *testing.T) {
	text := "  summary with\n  odd   spacing kept as-is "
	a := analysisWith(map[analysis.Section]analysis.SectionResult{
		analysis.SectionSummary: {Status: analysis.SectionSuccess, PrimaryText: text},
	})

	v := Render(a)
	if !v.Summary.Populated {
		t.Fatal("summary should be populated")
	}
	if v.Summary.Text != text {
		t.Errorf("summary must be verbatim, got %q", v.Summary.Text)
	}
}

func TestRenderInsightsCarriesLabel(t *testing.T) {
	a := analysisWith(map[analysis.Section]analysis.SectionResult{
		analysis.SectionRecommendations: {Status: analysis.SectionSuccess, PrimaryText: "- listen more"},
	})

	v := Render(a)
	if !v.Insights.Populated {
		t.Fatal("insights should be populated")
	}
	if v.Insights.Label != InsightsLabel {
		t.Errorf("label = %q", v.Insights.Label)
	}
	if v.Insights.Text != "- listen more" {
		t.Errorf("text = %q", v.Insights.Text)
	}
}

func TestRenderRegionsAreIndependent(t *testing.T) {
	a := analysisWith(map[analysis.Section]analysis.SectionResult{
		analysis.SectionSummary:         {Status: analysis.SectionFailure, Error: "model error"},
		analysis.SectionTranscription:   {Status: analysis.SectionSuccess, PrimaryText: "Agent: hi"},
		analysis.SectionRecommendations: {Status: analysis.SectionSuccess, PrimaryText: "- a"},
	})

	v := Render(a)
	if v.Summary.Populated {
		t.Error("failed summary section must not populate the region")
	}
	if !v.Transcript.Populated || !v.Insights.Populated {
		t.Error("other regions must still render")
	}
	if len(v.Warnings) == 0 {
		t.Error("skipped region should record a warning")
	}
}

func TestRenderNilAnalysis(t *testing.T) {
	v := Render(nil)
	if v == nil {
		t.Fatal("Render must always return a view")
	}
	if v.Summary.Populated || v.Transcript.Populated || v.Insights.Populated {
		t.Error("nil analysis renders empty regions")
	}
	if len(v.Warnings) == 0 {
		t.Error("expected warning for missing data")
	}
}

func TestRenderEmptySummaryTextSkipsRegion(t *testing.T) {
	a := analysisWith(map[analysis.Section]analysis.SectionResult{
		analysis.SectionSummary: {Status: analysis.SectionSuccess, PrimaryText: "   \n "},
	})

	v := Render(a)
	if v.Summary.Populated {
		t.Error("whitespace-only summary must not populate the region")
	}
}
