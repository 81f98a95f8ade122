package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTags(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"hyphen truncates", "Meeting #work about #project-x", []string{"work", "project"}},
		{"duplicates kept", "#a #b #a", []string{"a", "b", "a"}},
		{"none", "no tags here", []string{}},
		{"lone hash", "# heading and #", []string{}},
		{"underscore and digits", "#snake_case #2024", []string{"snake_case", "2024"}},
		{"adjacent", "#one#two", []string{"one", "two"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTags(tt.content))
		})
	}
}

func TestMergeTags(t *testing.T) {
	existing := []string{"work", "plan"}
	got := MergeTags(existing, " work ", "", "review", "review")

	assert.Equal(t, []string{"work", "plan", "review"}, got)
	assert.Equal(t, []string{"work", "plan"}, existing, "input must not be modified")
	assert.Equal(t, []string{}, MergeTags(nil))
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" work ")
	assert.NoError(t, err)
	assert.Equal(t, CategoryWork, c)

	_, err = ParseCategory("gardening")
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestTrimHistory(t *testing.T) {
	h := []HistoryEntry{{ID: "1"}, {ID: "2"}, {ID: "3"}}

	assert.Equal(t, []HistoryEntry{{ID: "2"}, {ID: "3"}}, trimHistory(h, 2))
	assert.Len(t, trimHistory(h, 0), 3)
	assert.Len(t, trimHistory(h, 5), 3)
}
