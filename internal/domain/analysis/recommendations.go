package analysis

import (
	"strings"
)

// RecommendationCategories groups recommendation bullet points by priority
// and by improvement area. Parsing is heuristic: the model output is free
// text with priority markers and bullet lists.
type RecommendationCategories struct {
	HighPriority              []string `json:"high_priority,omitempty"`
	MediumPriority            []string `json:"medium_priority,omitempty"`
	LowPriority               []string `json:"low_priority,omitempty"`
	CommunicationImprovements []string `json:"communication_improvements,omitempty"`
	ProcessImprovements       []string `json:"process_improvements,omitempty"`
	TrainingRecommendations   []string `json:"training_recommendations,omitempty"`
	SystemImprovements        []string `json:"system_improvements,omitempty"`
}

var (
	highMarkers   = []string{"عالية الأولوية", "high priority", "urgent"}
	mediumMarkers = []string{"متوسطة الأولوية", "medium priority", "moderate"}
	lowMarkers    = []string{"منخفضة الأولوية", "low priority", "minor"}

	communicationMarkers = []string{"تحسين التواصل", "communication", "تواصل"}
	processMarkers       = []string{"تحسين العمليات", "process", "عمليات"}
	trainingMarkers      = []string{"تدريب", "training"}
	systemMarkers        = []string{"نظام", "system"}
)

// ParseRecommendations extracts structured categories from raw
// recommendation text. Lines must start with -, • or * to count as items;
// unmarked lines only switch the current category.
func ParseRecommendations(text string) RecommendationCategories {
	var cats RecommendationCategories
	current := (*[]string)(nil)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)

		switch {
		case containsAny(lower, highMarkers):
			if item, ok := bulletItem(line); ok {
				cats.HighPriority = append(cats.HighPriority, item)
			}
		case containsAny(lower, mediumMarkers):
			if item, ok := bulletItem(line); ok {
				cats.MediumPriority = append(cats.MediumPriority, item)
			}
		case containsAny(lower, lowMarkers):
			if item, ok := bulletItem(line); ok {
				cats.LowPriority = append(cats.LowPriority, item)
			}
		case containsAny(lower, communicationMarkers):
			current = &cats.CommunicationImprovements
		case containsAny(lower, processMarkers):
			current = &cats.ProcessImprovements
		case containsAny(lower, trainingMarkers):
			current = &cats.TrainingRecommendations
		case containsAny(lower, systemMarkers):
			current = &cats.SystemImprovements
		default:
			if item, ok := bulletItem(line); ok && current != nil {
				*current = append(*current, item)
			}
		}
	}
	return cats
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func bulletItem(line string) (string, bool) {
	for _, prefix := range []string{"-", "•", "*"} {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, prefix)), true
		}
	}
	return "", false
}
