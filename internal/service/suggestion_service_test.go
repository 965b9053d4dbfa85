package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggest(t *testing.T) {
	svc := NewSuggestionService()

	tests := []struct {
		name         string
		description  string
		wantCategory string
		wantPriority string
	}{
		{"network keyword", "the wifi keeps dropping in meeting rooms", "Network", "medium"},
		{"software keyword", "the payroll application crashes on start", "Software", "medium"},
		{"hardware keyword", "my monitor flickers", "Hardware", "medium"},
		{"access keyword", "cannot login to the portal", "Access & Security", "medium"},
		{"no keyword defaults", "something strange happened yesterday", "Hardware", "medium"},
		{"urgent raises priority", "URGENT: the whole network is down", "Network", "high"},
		{"slow lowers priority", "the program is a bit slow sometimes", "Software", "low"},
		{"high beats low", "urgent but also slow", "Hardware", "high"},
		{"case insensitive", "PRINTER Not Working", "Hardware", "high"},
		{"first matching rule wins", "internet access is broken", "Network", "medium"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.Suggest(tt.description)
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Equal(t, tt.wantPriority, got.Priority)
		})
	}
}

func TestSuggestSolutionsFollowCategory(t *testing.T) {
	svc := NewSuggestionService()

	got := svc.Suggest("forgot my password again")
	assert.Equal(t, "Access & Security", got.Category)
	assert.Contains(t, got.PossibleSolutions, "Reset the password")
	assert.Len(t, got.PossibleSolutions, 4)

	got = svc.Suggest("no keywords here at all")
	assert.Empty(t, got.PossibleSolutions, "default category carries no canned solutions")
}

func TestSuggestDeterministic(t *testing.T) {
	svc := NewSuggestionService()
	first := svc.Suggest("wifi connection keeps dropping")
	second := svc.Suggest("wifi connection keeps dropping")
	assert.Equal(t, first, second)
}
