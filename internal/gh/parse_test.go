package gh

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avern/cardboard/internal/board"
	"github.com/avern/cardboard/internal/domain"
)

func TestClassifyError(t *testing.T) {
	archived := errors.New(`graphql: The card must not be archived`)
	assert.ErrorIs(t, classifyError(archived), board.ErrCardArchived)

	limited := errors.New(`graphql: API rate limit exceeded for installation ID 42.`)
	assert.ErrorIs(t, classifyError(limited), board.ErrRateLimited)

	other := errors.New("graphql: Could not resolve to a node")
	assert.Equal(t, other, classifyError(other))
	assert.NotErrorIs(t, classifyError(other), board.ErrCardArchived)

	assert.NoError(t, classifyError(nil))
}

const issueNodeJSON = `{
	"__typename": "Issue",
	"id": "I_abc",
	"title": "Widget breaks",
	"number": 12,
	"state": "OPEN",
	"labels": {"edges": [{"node": {"name": "bug"}}, {"node": {"name": "High"}}]},
	"assignees": {"edges": [{"node": {"login": "alice"}}]},
	"projectCards": {"nodes": [
		{"id": "PC_1", "column": {"name": "Queue"}, "project": {"number": 7}},
		{"id": "PC_2", "column": null, "project": {"number": 9}}
	]},
	"milestone": {"title": "v2"},
	"timelineItems": {"nodes": [
		{"willCloseTarget": false, "source": {"__typename": "PullRequest", "id": "PR_x", "number": 40, "state": "OPEN"}},
		{"willCloseTarget": true, "source": {"__typename": "PullRequest", "id": "PR_draft", "number": 41, "state": "OPEN", "isDraft": true}},
		{"willCloseTarget": true, "source": {
			"__typename": "PullRequest",
			"id": "PR_y",
			"title": "Fix widget",
			"number": 42,
			"state": "OPEN",
			"assignees": {"nodes": [{"login": "bob"}]},
			"labels": {"nodes": [{"name": "fix"}]},
			"reviewRequests": {"totalCount": 1},
			"reviews": {"totalCount": 0},
			"reviewDecision": ""
		}}
	]}
}`

func TestParseIssue(t *testing.T) {
	var node itemNode
	require.NoError(t, json.Unmarshal([]byte(issueNodeJSON), &node))

	item := parseItem(node)
	assert.Equal(t, domain.KindIssue, item.Kind)
	assert.Equal(t, "I_abc", item.ID)
	assert.Equal(t, 12, item.Number)
	assert.Equal(t, []string{"bug", "High"}, item.Labels)
	assert.Equal(t, []string{"alice"}, item.Assignees)
	assert.Equal(t, "v2", item.Milestone)

	assert.Equal(t, map[string]domain.CardLocation{
		"PC_1": {ProjectNumber: 7, ColumnName: "Queue"},
		"PC_2": {ProjectNumber: 9},
	}, item.Cards)

	// The draft and the non-closing references are skipped.
	require.NotNil(t, item.LinkedPullRequest)
	pr := item.LinkedPullRequest
	assert.Equal(t, "PR_y", pr.ID)
	assert.Equal(t, domain.KindPullRequest, pr.Kind)
	assert.Equal(t, []string{"bob"}, pr.Assignees)
	assert.Equal(t, []string{"fix"}, pr.Labels)
	assert.True(t, pr.Review.Requested)
	assert.False(t, pr.Review.Completed)
}

func TestParsePullRequest(t *testing.T) {
	var node itemNode
	require.NoError(t, json.Unmarshal([]byte(`{
		"__typename": "PullRequest",
		"id": "PR_abc",
		"title": "Fix widget",
		"number": 42,
		"state": "MERGED",
		"reviewRequests": {"totalCount": 0},
		"reviews": {"totalCount": 2},
		"reviewDecision": "APPROVED"
	}`), &node))

	item := parseItem(node)
	assert.Equal(t, domain.KindPullRequest, item.Kind)
	assert.True(t, item.Closed())
	assert.True(t, item.Review.Requested)
	assert.True(t, item.Review.Completed)
	assert.False(t, item.Review.ChangesRequested)
	assert.Nil(t, item.LinkedPullRequest)
}

func TestParseReview(t *testing.T) {
	assert.Equal(t, domain.ReviewStatus{}, parseReview(0, 0, ""))
	assert.Equal(t, domain.ReviewStatus{Requested: true}, parseReview(1, 0, ""))
	assert.Equal(t, domain.ReviewStatus{Requested: true}, parseReview(0, 1, ""))
	assert.Equal(t,
		domain.ReviewStatus{Requested: true, ChangesRequested: true},
		parseReview(0, 1, "CHANGES_REQUESTED"))
}

func TestParseLinkedPRNoneMatching(t *testing.T) {
	var timeline timelineItems
	require.NoError(t, json.Unmarshal([]byte(`{"nodes": [
		{"willCloseTarget": true, "source": {"__typename": "Issue", "id": "I_z", "state": "OPEN"}},
		{"willCloseTarget": true, "source": {"__typename": "PullRequest", "id": "PR_z", "state": "CLOSED"}},
		{"willCloseTarget": true, "source": null}
	]}`), &timeline))

	assert.Nil(t, parseLinkedPR(timeline))
}
