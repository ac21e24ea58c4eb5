package board

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avern/cardboard/internal/rules"
)

func TestLoadProject(t *testing.T) {
	cfg := testConfig(t)
	engine := rules.New(cfg.General.ColumnRuleOrder, cfg.CompiledRules(), nil)

	client := newFakeClient()
	client.layout = Layout{
		Name:   "Widgets board",
		Number: 7,
		Columns: []ColumnRef{
			{ID: "col-q", Name: "Queue"},
			{ID: "col-n", Name: "Notes"}, // not in column_names, skipped
			{ID: "col-d", Name: "Done"},
		},
	}
	client.pages["col-q"] = []CardPage{
		{
			Cards:       []*Card{{ID: "card-a", Item: labeledItem("a", 1, 0, "High")}},
			EndCursor:   "p1",
			HasNextPage: true,
		},
		{
			Cards: []*Card{{ID: "card-b", Item: labeledItem("b", 2, 0, "Low")}},
		},
	}
	client.pages["col-d"] = []CardPage{{}}

	project, err := LoadProject(context.Background(), client, cfg, engine, nil)
	require.NoError(t, err)

	assert.Equal(t, "Widgets board", project.Name)
	assert.Equal(t, 7, project.Number)
	require.Len(t, project.Columns, 2)
	assert.NotContains(t, project.Columns, "Notes")

	// Pages are joined and priorities derived from the configured ladder.
	queue := project.Columns["Queue"]
	assert.Equal(t, []string{"a", "b"}, columnItemIDs(queue))
	assert.Equal(t, 3, queue.Cards[0].Item.PriorityRank)
	assert.Equal(t, 1, queue.Cards[1].Item.PriorityRank)
}

func TestLoadProjectColumn(t *testing.T) {
	cfg := testConfig(t)
	engine := rules.New(cfg.General.ColumnRuleOrder, cfg.CompiledRules(), nil)

	client := newFakeClient()
	client.layout = Layout{
		Name: "Widgets board",
		Columns: []ColumnRef{
			{ID: "col-q", Name: "Queue"},
			{ID: "col-d", Name: "Done"},
		},
	}
	client.pages["col-q"] = []CardPage{{
		Cards: []*Card{{ID: "card-a", Item: labeledItem("a", 1, 0)}},
	}}

	project, err := LoadProjectColumn(context.Background(), client, cfg, engine, nil, "Queue")
	require.NoError(t, err)

	require.Len(t, project.Columns, 1)
	assert.Contains(t, project.Columns, "Queue")
}

func TestLoadProjectOrderFollowsLayout(t *testing.T) {
	cfg := testConfig(t)
	engine := rules.New(cfg.General.ColumnRuleOrder, cfg.CompiledRules(), nil)

	client := newFakeClient()
	client.layout = Layout{
		Columns: []ColumnRef{
			{ID: "col-d", Name: "Done"},
			{ID: "col-q", Name: "Queue"},
		},
	}
	client.pages["col-d"] = []CardPage{{
		Cards: []*Card{{ID: "card-a", Item: labeledItem("a", 1, 0)}},
	}}
	client.pages["col-q"] = []CardPage{{
		Cards: []*Card{{ID: "card-b", Item: labeledItem("b", 2, 0)}},
	}}

	project, err := LoadProject(context.Background(), client, cfg, engine, nil)
	require.NoError(t, err)

	name, _ := project.CurrentLocation("a")
	assert.Equal(t, "Done", name)
	name, _ = project.CurrentLocation("b")
	assert.Equal(t, "Queue", name)
}
