package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabelFilterMatches(t *testing.T) {
	filter := LabelFilter{
		Filter:   []string{"bug"},
		MustHave: []string{"test"},
		CantHave: []string{"wontfix"},
	}

	assert.True(t, filter.Matches([]string{"bug", "test"}))
	assert.False(t, filter.Matches([]string{"test"}), "missing filter label")
	assert.False(t, filter.Matches([]string{"bug"}), "missing must-have label")
	assert.False(t, filter.Matches([]string{"bug", "test", "wontfix"}), "banned label present")
}

func TestLabelFilterMustHaveAlternatives(t *testing.T) {
	filter := LabelFilter{
		Filter:   []string{"bug"},
		MustHave: []string{"frontend||backend"},
	}

	assert.True(t, filter.Matches([]string{"bug", "backend"}))
	assert.True(t, filter.Matches([]string{"bug", "frontend"}))
	assert.False(t, filter.Matches([]string{"bug", "docs"}))
}

func TestLabelFilterEmptyFilterListNeverMatches(t *testing.T) {
	filter := LabelFilter{MustHave: []string{"test"}}
	assert.False(t, filter.Matches([]string{"test"}))
}
