package board

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/avern/cardboard/internal/config"
	"github.com/avern/cardboard/internal/rules"
)

// LoadProject reads the board layout and the cards of every configured
// column, following pagination to the end, and assembles the Project.
// Columns present on the remote board but absent from column_names are
// ignored. Item priorities are set from the configured ladder as cards load.
func LoadProject(ctx context.Context, client Client, cfg *config.Config, engine *rules.Engine, log *slog.Logger) (*Project, error) {
	return loadProject(ctx, client, cfg, engine, log, "")
}

// LoadProjectColumn loads a project restricted to a single column. The
// single-event driver uses it to avoid reading the whole board for one item.
func LoadProjectColumn(ctx context.Context, client Client, cfg *config.Config, engine *rules.Engine, log *slog.Logger, columnName string) (*Project, error) {
	return loadProject(ctx, client, cfg, engine, log, columnName)
}

func loadProject(ctx context.Context, client Client, cfg *config.Config, engine *rules.Engine, log *slog.Logger, only string) (*Project, error) {
	layout, err := client.FetchBoardLayout(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch board layout: %w", err)
	}

	var columns []*Column
	for _, ref := range layout.Columns {
		if !cfg.KnownColumn(ref.Name) {
			continue
		}
		if only != "" && ref.Name != only {
			continue
		}
		cards, err := loadColumnCards(ctx, client, ref)
		if err != nil {
			return nil, fmt.Errorf("failed to load column %q: %w", ref.Name, err)
		}
		for _, card := range cards {
			card.Item.SetPriority(cfg.General.PriorityLabels)
		}
		columns = append(columns, NewColumn(ref.ID, ref.Name, cards, log))
	}

	return NewProject(layout.Name, cfg.General.ProjectNumber, columns, cfg, engine, log), nil
}

func loadColumnCards(ctx context.Context, client Client, ref ColumnRef) ([]*Card, error) {
	var cards []*Card
	cursor := ""
	for {
		page, err := client.FetchColumnPage(ctx, ref, cursor)
		if err != nil {
			return nil, err
		}
		cards = append(cards, page.Cards...)
		if !page.HasNextPage {
			return cards, nil
		}
		cursor = page.EndCursor
	}
}
