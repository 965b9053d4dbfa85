package service

import "strings"

// Suggestion is the suggester output for a ticket description.
type Suggestion struct {
	Category          string   `json:"category"`
	Priority          string   `json:"priority"`
	PossibleSolutions []string `json:"possibleSolutions"`
}

// SuggestionService guesses a category, priority and first-step solutions
// from keywords in a ticket description. Stateless and deterministic.
type SuggestionService struct{}

// NewSuggestionService constructs the service.
func NewSuggestionService() *SuggestionService {
	return &SuggestionService{}
}

type categoryRule struct {
	keywords  []string
	category  string
	solutions []string
}

var categoryRules = []categoryRule{
	{
		keywords: []string{"internet", "wifi", "network", "connection"},
		category: "Network",
		solutions: []string{
			"Check the network cable",
			"Restart the router",
			"Verify IP settings",
			"Test with another device",
		},
	},
	{
		keywords: []string{"software", "program", "application", "system"},
		category: "Software",
		solutions: []string{
			"Reinstall the software",
			"Check for updates",
			"Clear cache and temporary files",
			"Verify compatibility",
		},
	},
	{
		keywords: []string{"printer", "mouse", "keyboard", "monitor"},
		category: "Hardware",
		solutions: []string{
			"Check physical connections",
			"Update drivers",
			"Test on another machine",
			"Check the power supply",
		},
	},
	{
		keywords: []string{"email", "password", "login", "access"},
		category: "Access & Security",
		solutions: []string{
			"Reset the password",
			"Verify access permissions",
			"Clear browser cookies",
			"Check two-factor authentication",
		},
	},
}

var (
	highPriorityKeywords = []string{"urgent", "critical", "down", "not working"}
	lowPriorityKeywords  = []string{"slow", "sometimes", "question"}
)

// Suggest returns the first matching category rule and a keyword-derived
// priority. Unmatched descriptions default to Hardware/medium.
func (s *SuggestionService) Suggest(description string) Suggestion {
	lower := strings.ToLower(description)

	suggestion := Suggestion{
		Category:          "Hardware",
		Priority:          "medium",
		PossibleSolutions: []string{},
	}

	for _, rule := range categoryRules {
		if containsAny(lower, rule.keywords) {
			suggestion.Category = rule.category
			suggestion.PossibleSolutions = rule.solutions
			break
		}
	}

	if containsAny(lower, highPriorityKeywords) {
		suggestion.Priority = "high"
	} else if containsAny(lower, lowPriorityKeywords) {
		suggestion.Priority = "low"
	}

	return suggestion
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
