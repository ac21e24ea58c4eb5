package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConf = `
general:
  project_owner: acme
  repository_name: widgets
  project_number: 1
  closed_issues_column: Done
  merged_pull_requests_column: Done
  closed_pull_requests_column: Done
  priority_labels: [Critical, High, Medium, Low, Customer|||zendesk]
  filter_labels: [bug]
  must_have_labels: [test]
  cant_have_labels: [not test]
  column_names: [Queue, In progress, Review in progress, Waiting for Docs]
  column_rule_order: [Queue, Waiting for Docs, Review in progress, In progress]
actions: [remove, add, move]
columns:
  - name: Waiting for Docs
    rules:
      - path: issue.pull_request.review_requested
        value: true
      - path: issue.pull_request.assignees
        value: [alice||bob]
  - name: In progress
    rules:
      - path: pull_request.review_requested
        value: false
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.yml")
	require.NoError(t, os.WriteFile(path, []byte(testConf), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "acme", cfg.General.ProjectOwner)
	assert.Equal(t, "widgets", cfg.General.RepositoryName)
	assert.Equal(t, 1, cfg.General.ProjectNumber)
	assert.Equal(t, "Done", cfg.General.ClosedIssuesColumn)
	assert.Equal(t, []string{"Critical", "High", "Medium", "Low", "Customer|||zendesk"}, cfg.General.PriorityLabels)
	assert.Equal(t, []string{"bug"}, cfg.General.FilterLabels)
	assert.Equal(t, []string{"test"}, cfg.General.MustHaveLabels)
	assert.Equal(t, []string{"not test"}, cfg.General.CantHaveLabels)
	assert.Equal(t, []string{"Queue", "In progress", "Review in progress", "Waiting for Docs"}, cfg.General.ColumnNames)
	assert.Equal(t, []string{"Queue", "Waiting for Docs", "Review in progress", "In progress"}, cfg.General.ColumnRuleOrder)

	assert.True(t, cfg.Actions.Remove)
	assert.True(t, cfg.Actions.Add)
	assert.True(t, cfg.Actions.Move)
	assert.False(t, cfg.Actions.Sort)

	rules := cfg.CompiledRules()
	require.Len(t, rules["Waiting for Docs"], 2)
	require.Len(t, rules["In progress"], 1)
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("BOARD_OWNER", "acme")
	path := filepath.Join(t.TempDir(), "conf.yml")
	conf := `
general:
  project_owner: ${BOARD_OWNER}
  repository_name: widgets
  project_number: 2
  column_names: [Queue]
`
	require.NoError(t, os.WriteFile(path, []byte(conf), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "acme", cfg.General.ProjectOwner)
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
general:
  project_owner: acme
  repository_name: widgets
  project_number: 2
  column_names: [Queue, Done]
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"Critical", "High", "Medium", "Low"}, cfg.General.PriorityLabels)
	assert.Equal(t, cfg.General.ColumnNames, cfg.General.ColumnRuleOrder,
		"rule order defaults to column_names order")
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte(`
general:
  project_owner: acme
  repository_name: widgets
  project_number: 2
  column_names: [Queue]
  unknown_key: value
`))
	require.Error(t, err)
}

func TestParseRejectsUnknownAction(t *testing.T) {
	_, err := Parse([]byte(`
general:
  project_owner: acme
  repository_name: widgets
  project_number: 2
  column_names: [Queue]
actions: [add, destroy]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown action")
}

func TestParseRejectsRulesForUnlistedColumn(t *testing.T) {
	_, err := Parse([]byte(`
general:
  project_owner: acme
  repository_name: widgets
  project_number: 2
  column_names: [Queue]
columns:
  - name: Quue
    rules:
      - path: issue.labels
        value: [bug]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not listed in column_names")
}

func TestParseRejectsIllegalRulePath(t *testing.T) {
	_, err := Parse([]byte(`
general:
  project_owner: acme
  repository_name: widgets
  project_number: 2
  column_names: [Queue]
columns:
  - name: Queue
    rules:
      - path: issue.body
        value: [bug]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "illegal rule path")
}

func TestParseRequiresProjectCoordinates(t *testing.T) {
	_, err := Parse([]byte(`
general:
  repository_name: widgets
  project_number: 2
  column_names: [Queue]
`))
	require.Error(t, err)

	_, err = Parse([]byte(`
general:
  project_owner: acme
  repository_name: widgets
  column_names: [Queue]
`))
	require.Error(t, err)
}

func TestClosedColumns(t *testing.T) {
	cfg, err := Parse([]byte(`
general:
  project_owner: acme
  repository_name: widgets
  project_number: 2
  closed_issues_column: Done
  merged_pull_requests_column: Merged
  column_names: [Queue, Done, Merged]
`))
	require.NoError(t, err)

	closed := cfg.ClosedColumns()
	assert.True(t, closed["Done"])
	assert.True(t, closed["Merged"])
	assert.False(t, closed["Queue"])
}

func TestKnownColumn(t *testing.T) {
	cfg, err := Parse([]byte(`
general:
  project_owner: acme
  repository_name: widgets
  project_number: 2
  column_names: [Queue, Done]
`))
	require.NoError(t, err)

	assert.True(t, cfg.KnownColumn("Queue"))
	assert.False(t, cfg.KnownColumn("Backlog"))
}
