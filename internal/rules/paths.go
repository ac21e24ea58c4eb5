// Package rules implements the column-matching engine: a closed predicate
// language over item fields. Rule paths are a fixed, enumerable set compiled
// into typed accessors at configuration-load time; there is no general
// expression evaluation.
package rules

import (
	"sort"

	"github.com/avern/cardboard/internal/domain"
)

// Value is the result of resolving a rule path against an item. Exactly one
// of List or Bool is meaningful, indicated by IsList.
type Value struct {
	List   []string
	Bool   bool
	IsList bool
}

func listValue(list []string) Value { return Value{List: list, IsList: true} }
func boolValue(b bool) Value        { return Value{Bool: b} }

// truthy coerces a Value the way boolean rule values compare: a list is
// truthy when non-empty.
func (v Value) truthy() bool {
	if v.IsList {
		return len(v.List) > 0
	}
	return v.Bool
}

// resolver extracts a Value from an item. ok is false when the path cannot be
// resolved, e.g. a linked pull request path on an issue that has none; an
// unresolvable path fails the whole column.
type resolver func(*domain.Item) (Value, bool)

type pathSpec struct {
	kind    domain.Kind
	resolve resolver
}

func fromLinkedPR(extract func(*domain.Item) Value) resolver {
	return func(it *domain.Item) (Value, bool) {
		if it.LinkedPullRequest == nil {
			return Value{}, false
		}
		return extract(it.LinkedPullRequest), true
	}
}

// permittedPaths is the closed set of rule paths. Issue-scoped paths are
// skipped when evaluating a pull request and vice versa.
var permittedPaths = map[string]pathSpec{
	"issue.assignees": {domain.KindIssue, func(it *domain.Item) (Value, bool) {
		return listValue(it.Assignees), true
	}},
	"issue.labels": {domain.KindIssue, func(it *domain.Item) (Value, bool) {
		return listValue(it.Labels), true
	}},
	"issue.pull_request": {domain.KindIssue, func(it *domain.Item) (Value, bool) {
		return boolValue(it.LinkedPullRequest != nil), true
	}},
	"issue.pull_request.assignees": {domain.KindIssue, fromLinkedPR(func(pr *domain.Item) Value {
		return listValue(pr.Assignees)
	})},
	"issue.pull_request.labels": {domain.KindIssue, fromLinkedPR(func(pr *domain.Item) Value {
		return listValue(pr.Labels)
	})},
	"issue.pull_request.review_requested": {domain.KindIssue, fromLinkedPR(func(pr *domain.Item) Value {
		return boolValue(pr.Review.Requested)
	})},
	"issue.pull_request.review_completed": {domain.KindIssue, fromLinkedPR(func(pr *domain.Item) Value {
		return boolValue(pr.Review.Completed)
	})},
	"issue.pull_request.review_requested_changes": {domain.KindIssue, fromLinkedPR(func(pr *domain.Item) Value {
		return boolValue(pr.Review.ChangesRequested)
	})},
	"pull_request.assignees": {domain.KindPullRequest, func(it *domain.Item) (Value, bool) {
		return listValue(it.Assignees), true
	}},
	"pull_request.labels": {domain.KindPullRequest, func(it *domain.Item) (Value, bool) {
		return listValue(it.Labels), true
	}},
	"pull_request.review_requested": {domain.KindPullRequest, func(it *domain.Item) (Value, bool) {
		return boolValue(it.Review.Requested), true
	}},
	"pull_request.review_completed": {domain.KindPullRequest, func(it *domain.Item) (Value, bool) {
		return boolValue(it.Review.Completed), true
	}},
	"pull_request.review_requested_changes": {domain.KindPullRequest, func(it *domain.Item) (Value, bool) {
		return boolValue(it.Review.ChangesRequested), true
	}},
}

// PermittedPaths returns the sorted list of valid rule paths, for error
// messages and documentation.
func PermittedPaths() []string {
	paths := make([]string, 0, len(permittedPaths))
	for p := range permittedPaths {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// ValidPath reports whether path is in the permitted set.
func ValidPath(path string) bool {
	_, ok := permittedPaths[path]
	return ok
}
