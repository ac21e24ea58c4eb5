package domain

import "strings"

// LabelFilter is the must-have / can't-have / filter label predicate that
// decides whether an item belongs on a board at all.
type LabelFilter struct {
	Filter   []string // At least one of these must be present
	MustHave []string // All of these must be present ("||" joins alternatives)
	CantHave []string // None of these may be present
}

// Matches evaluates the predicate against a label set.
func (f LabelFilter) Matches(labels []string) bool {
	found := false
	for _, want := range f.Filter {
		if containsLabel(labels, want) {
			found = true
			break
		}
	}
	if !found {
		return false
	}

	for _, want := range f.MustHave {
		if strings.Contains(want, OrSeparator) {
			satisfied := false
			for _, alt := range strings.Split(want, OrSeparator) {
				if containsLabel(labels, alt) {
					satisfied = true
					break
				}
			}
			if !satisfied {
				return false
			}
		} else if !containsLabel(labels, want) {
			return false
		}
	}

	for _, banned := range f.CantHave {
		if containsLabel(labels, banned) {
			return false
		}
	}

	return true
}

func containsLabel(labels []string, name string) bool {
	for _, l := range labels {
		if l == name {
			return true
		}
	}
	return false
}
