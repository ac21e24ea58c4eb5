package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestIssue(number int, labels ...string) *Item {
	return &Item{
		ID:     fmt.Sprintf("issue_%d", number),
		Kind:   KindIssue,
		Title:  "test issue",
		Number: number,
		State:  StateOpen,
		Labels: labels,
	}
}

func TestSetPriority(t *testing.T) {
	ladder := []string{"Critical", "High", "Medium", "Low"}

	item := createTestIssue(1, "High", "bug")
	item.SetPriority(ladder)
	assert.Equal(t, 3, item.PriorityRank)

	item = createTestIssue(2, "Critical")
	item.SetPriority(ladder)
	assert.Equal(t, 4, item.PriorityRank)

	item = createTestIssue(3, "bug")
	item.SetPriority(ladder)
	assert.Equal(t, 0, item.PriorityRank)
}

func TestSetPrioritySameLevelRung(t *testing.T) {
	ladder := []string{"Critical", "High", "Medium", "Low", "Customer|||zendesk"}

	item := createTestIssue(1, "zendesk")
	item.SetPriority(ladder)
	assert.Equal(t, 1, item.PriorityRank)

	item = createTestIssue(2, "Customer")
	item.SetPriority(ladder)
	assert.Equal(t, 1, item.PriorityRank)
}

func TestSetPriorityFirstRungWins(t *testing.T) {
	item := createTestIssue(1, "Low", "Critical")
	item.SetPriority([]string{"Critical", "High", "Medium", "Low"})
	assert.Equal(t, 4, item.PriorityRank)
}

func TestSetPriorityIdempotent(t *testing.T) {
	ladder := []string{"High", "Low"}
	item := createTestIssue(1, "High")

	item.SetPriority(ladder)
	first := item.PriorityRank
	item.SetPriority(ladder)

	assert.Equal(t, first, item.PriorityRank)
}

func TestSetPriorityDefaultLadder(t *testing.T) {
	item := createTestIssue(1, "Medium")
	item.SetPriority(nil)
	assert.Equal(t, 2, item.PriorityRank)
}

func TestOutRanksByPriority(t *testing.T) {
	high := createTestIssue(10, "High")
	low := createTestIssue(2, "Low")
	high.SetPriority(DefaultPriorityLadder)
	low.SetPriority(DefaultPriorityLadder)

	assert.True(t, high.OutRanks(low))
	assert.False(t, low.OutRanks(high))
}

func TestOutRanksOlderWinsTies(t *testing.T) {
	older := createTestIssue(3, "High")
	newer := createTestIssue(15, "High")
	older.SetPriority(DefaultPriorityLadder)
	newer.SetPriority(DefaultPriorityLadder)

	assert.True(t, older.OutRanks(newer))
	assert.False(t, newer.OutRanks(older))
}

func TestOutRanksIrreflexive(t *testing.T) {
	item := createTestIssue(1, "High")
	item.SetPriority(DefaultPriorityLadder)
	assert.False(t, item.OutRanks(item))
}

func TestClosed(t *testing.T) {
	issue := createTestIssue(1)
	assert.False(t, issue.Closed())

	issue.State = StateClosed
	assert.True(t, issue.Closed())

	pr := &Item{Kind: KindPullRequest, Number: 2, State: StateMerged}
	assert.True(t, pr.Closed())
}

func TestCardAssociations(t *testing.T) {
	item := createTestIssue(1)
	item.Cards = map[string]CardLocation{
		"card_1": {ProjectNumber: 1, ColumnName: "Queue"},
		"card_2": {ProjectNumber: 7, ColumnName: "Done"},
	}

	assert.ElementsMatch(t, []int{1, 7}, item.AssociatedProjects())
	assert.True(t, item.OnProject(1))
	assert.False(t, item.OnProject(3))

	cardID, ok := item.CardID(7)
	require.True(t, ok)
	assert.Equal(t, "card_2", cardID)

	_, ok = item.CardID(3)
	assert.False(t, ok)

	assert.Equal(t, "Queue", item.ColumnOnProject(1))
	assert.Equal(t, "", item.ColumnOnProject(3))
}

func TestString(t *testing.T) {
	assert.Equal(t, "issue #4", createTestIssue(4).String())
	assert.Equal(t, "pull request #9", (&Item{Kind: KindPullRequest, Number: 9}).String())
}

func TestAddLabelAndAssignee(t *testing.T) {
	item := createTestIssue(1)
	item.AddLabel("bug")
	item.AddAssignee("alice")

	assert.True(t, item.HasLabel("bug"))
	assert.Contains(t, item.Assignees, "alice")
}
