// Package manage holds the run drivers: the full-board sweep and the
// single-event update. Both compose a board synchronizer per configuration
// file and hold no state of their own between runs.
package manage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/avern/cardboard/internal/board"
	"github.com/avern/cardboard/internal/config"
	"github.com/avern/cardboard/internal/domain"
	"github.com/avern/cardboard/internal/rules"
)

// Sweeper runs one full-board synchronization for one configuration.
type Sweeper struct {
	cfg    *config.Config
	client board.Client
	engine *rules.Engine
	log    *slog.Logger
}

// NewSweeper builds a sweeper; the rule engine is compiled from the
// configuration's column rules.
func NewSweeper(cfg *config.Config, client board.Client, log *slog.Logger) *Sweeper {
	if log == nil {
		log = slog.Default()
	}
	return &Sweeper{
		cfg:    cfg,
		client: client,
		engine: rules.New(cfg.General.ColumnRuleOrder, cfg.CompiledRules(), log),
		log:    log,
	}
}

// Run loads the board, gathers the candidate items, and applies the enabled
// actions. Candidates are the union of items already visible on the board and
// items found by the configured search filters; both sets pass the label
// predicate and get their priority set before any action runs.
func (s *Sweeper) Run(ctx context.Context) error {
	project, err := board.LoadProject(ctx, s.client, s.cfg, s.engine, s.log)
	if err != nil {
		return err
	}

	items := make(map[string]*domain.Item)
	filter := s.cfg.LabelFilter()
	for _, column := range project.Columns {
		for _, card := range column.Cards {
			if filter.Matches(card.Item.Labels) {
				items[card.Item.ID] = card.Item
			}
		}
	}

	for _, query := range SearchQueries(s.cfg) {
		found, err := s.client.SearchItems(ctx, query)
		if err != nil {
			return fmt.Errorf("candidate search failed: %w", err)
		}
		for _, item := range found {
			if !filter.Matches(item.Labels) {
				continue
			}
			item.SetPriority(s.cfg.General.PriorityLabels)
			items[item.ID] = item
		}
	}

	s.log.Info("syncing board", "project", project.Name, "candidates", len(items))
	return project.Sync(ctx, s.client, items)
}
