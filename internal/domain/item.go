// Package domain defines the normalized item model for project board automation.
// An Item is an Issue or Pull Request reduced to the fields the rule engine and
// the ordering logic operate on, independent of the GitHub API structure.
package domain

import (
	"fmt"
	"strings"
)

// Kind discriminates the two item variants.
type Kind string

const (
	KindIssue       Kind = "Issue"
	KindPullRequest Kind = "PullRequest"
)

// Item states as reported by the source system.
const (
	StateOpen   = "OPEN"
	StateClosed = "CLOSED"
	StateMerged = "MERGED"
)

// Label list separators used in priority ladders and rule values.
// "Customer|||zendesk" is one priority rung satisfied by either label;
// "alice||bob" in a rule value matches if either name is present.
const (
	SameLevelSeparator = "|||"
	OrSeparator        = "||"
)

// DefaultPriorityLadder is used when a configuration omits priority_labels.
var DefaultPriorityLadder = []string{"Critical", "High", "Medium", "Low"}

// CardLocation records one board a card places its item on.
type CardLocation struct {
	ProjectNumber int    // Project number within the owner's namespace
	ColumnName    string // Column the card currently sits in, may be empty
}

// ReviewStatus holds the review flags derived for a pull request.
type ReviewStatus struct {
	Requested        bool // Any review requests or submitted reviews exist
	Completed        bool // Review decision is APPROVED
	ChangesRequested bool // Review decision is CHANGES_REQUESTED
}

// Item is the normalized representation of an Issue or Pull Request.
// The Kind field discriminates which of the variant-only fields are
// meaningful: Milestone and LinkedPullRequest for issues, Review for
// pull requests.
type Item struct {
	ID        string // Opaque node ID, immutable
	Kind      Kind
	Title     string
	Number    int // Used as the ordering tie-break, immutable
	State     string
	Labels    []string
	Assignees []string

	// PriorityRank is derived from Labels against a priority ladder by
	// SetPriority. Higher means more urgent; 0 means unranked.
	PriorityRank int

	// Cards maps card ID to the board the card lives on. An item may be on
	// zero, one, or many boards at once.
	Cards map[string]CardLocation

	// Issue only.
	Milestone string
	// LinkedPullRequest is the open, non-draft pull request that will close
	// this issue, if one exists.
	LinkedPullRequest *Item

	// Pull request only.
	Review ReviewStatus
}

func (i *Item) String() string {
	if i.Kind == KindPullRequest {
		return fmt.Sprintf("pull request #%d", i.Number)
	}
	return fmt.Sprintf("issue #%d", i.Number)
}

// HasLabel reports whether the item carries the named label.
func (i *Item) HasLabel(name string) bool {
	for _, l := range i.Labels {
		if l == name {
			return true
		}
	}
	return false
}

// AddLabel appends a label. The source system owns labels; this exists for
// simulation and tests.
func (i *Item) AddLabel(name string) {
	i.Labels = append(i.Labels, name)
}

// AddAssignee appends an assignee login.
func (i *Item) AddAssignee(login string) {
	i.Assignees = append(i.Assignees, login)
}

// Closed reports whether the item is in a terminal state. Closed items are
// excluded from move actions.
func (i *Item) Closed() bool {
	return i.State == StateClosed || i.State == StateMerged
}

// SetPriority derives PriorityRank from the item's labels against the given
// ladder, ordered highest rung first. A rung may hold several labels joined by
// SameLevelSeparator, any one of which suffices. The first matching rung wins
// and yields rank len(ladder)-rungIndex; no match yields 0. Calling it again
// with the same ladder yields the same rank.
func (i *Item) SetPriority(ladder []string) {
	if len(ladder) == 0 {
		ladder = DefaultPriorityLadder
	}

	i.PriorityRank = 0
	for idx, rung := range ladder {
		for _, name := range strings.Split(rung, SameLevelSeparator) {
			if i.HasLabel(name) {
				i.PriorityRank = len(ladder) - idx
				return
			}
		}
	}
}

// OutRanks reports whether this item sorts ahead of other: strictly higher
// priority rank, or equal rank and a lower number (older items win ties).
// The relation is irreflexive; for equal rank and higher number it is false.
func (i *Item) OutRanks(other *Item) bool {
	if i.PriorityRank != other.PriorityRank {
		return i.PriorityRank > other.PriorityRank
	}
	return i.Number < other.Number
}

// AssociatedProjects returns the project numbers of every board the item is
// currently attached to.
func (i *Item) AssociatedProjects() []int {
	numbers := make([]int, 0, len(i.Cards))
	for _, loc := range i.Cards {
		numbers = append(numbers, loc.ProjectNumber)
	}
	return numbers
}

// OnProject reports whether the item has a card on the given project.
func (i *Item) OnProject(projectNumber int) bool {
	for _, loc := range i.Cards {
		if loc.ProjectNumber == projectNumber {
			return true
		}
	}
	return false
}

// CardID returns the card ID binding the item to the given project, if any.
func (i *Item) CardID(projectNumber int) (string, bool) {
	for id, loc := range i.Cards {
		if loc.ProjectNumber == projectNumber {
			return id, true
		}
	}
	return "", false
}

// ColumnOnProject returns the column name the item's card sits in on the
// given project, or the empty string when unknown.
func (i *Item) ColumnOnProject(projectNumber int) string {
	for _, loc := range i.Cards {
		if loc.ProjectNumber == projectNumber {
			return loc.ColumnName
		}
	}
	return ""
}
