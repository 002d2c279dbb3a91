package conversation

import "strings"

// DetectCreationIntent is a keyword heuristic for "the user wants to build
// a campaign". False positives and negatives are acceptable.
func DetectCreationIntent(text string) bool {
	t := strings.ToLower(text)
	if strings.Contains(t, "create") && strings.Contains(t, "campaign") {
		return true
	}
	return strings.Contains(t, "help me create") ||
		strings.Contains(t, "start a new campaign") ||
		strings.Contains(t, "guide me through")
}
