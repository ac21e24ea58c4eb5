package board

import (
	"context"
	"errors"
	"log/slog"

	"github.com/avern/cardboard/internal/config"
	"github.com/avern/cardboard/internal/domain"
	"github.com/avern/cardboard/internal/rules"
)

// Project is the loaded board plus the synchronizer acting on it. The four
// actions are independent, gated by configuration, and idempotent to
// re-running: the remote board is the only source of truth between runs.
type Project struct {
	Name    string
	Number  int
	Columns map[string]*Column

	// order preserves the layout order of the loaded columns so runs are
	// deterministic.
	order []string

	cfg    *config.Config
	engine *rules.Engine
	log    *slog.Logger
}

// NewProject assembles a project from loaded columns, keeping their order.
func NewProject(name string, number int, columns []*Column, cfg *config.Config, engine *rules.Engine, log *slog.Logger) *Project {
	if log == nil {
		log = slog.Default()
	}
	p := &Project{
		Name:    name,
		Number:  number,
		Columns: make(map[string]*Column, len(columns)),
		cfg:     cfg,
		engine:  engine,
		log:     log,
	}
	for _, col := range columns {
		p.Columns[col.Name] = col
		p.order = append(p.order, col.Name)
	}
	return p
}

// AllItemIDs returns the IDs of every item visible in any loaded column.
func (p *Project) AllItemIDs() map[string]bool {
	all := make(map[string]bool)
	for _, col := range p.Columns {
		for id := range col.ItemIDs() {
			all[id] = true
		}
	}
	return all
}

// FindMissingItemIDs returns the IDs of candidate items that are neither
// attached to this project's metadata nor visible in a loaded column. Items
// attached but not yet visible in the loaded column window are not
// double-added.
func (p *Project) FindMissingItemIDs(items map[string]*domain.Item) []string {
	onBoard := p.AllItemIDs()
	var missing []string
	for _, item := range items {
		if item.OnProject(p.Number) {
			continue
		}
		if onBoard[item.ID] {
			continue
		}
		missing = append(missing, item.ID)
	}
	return missing
}

// AddItems places every missing item into its matching column.
func (p *Project) AddItems(ctx context.Context, client Client, items map[string]*domain.Item) error {
	for _, id := range p.FindMissingItemIDs(items) {
		item := items[id]
		if err := p.AddItem(ctx, client, item, p.engine.MatchColumn(item)); err != nil {
			return err
		}
	}
	return nil
}

// AddItem creates (or reuses) a card for the item and inserts it into the
// named column at its priority position. An unmatched or unknown column name
// aborts the add for this item only; so does a card-creation failure.
func (p *Project) AddItem(ctx context.Context, client Client, item *domain.Item, columnName string) error {
	column, ok := p.Columns[columnName]
	if !ok || !p.cfg.KnownColumn(columnName) {
		p.log.Warn("no matching column for item, check the configured column rules",
			"item", item.Title)
		return nil
	}

	p.log.Info("adding item to column", "item", item.Title, "column", columnName)

	// A card may already bind the item to this project; then it is being
	// repositioned, not created.
	cardID, attached := item.CardID(p.Number)
	if !attached {
		var err error
		cardID, err = client.CreateCard(ctx, item.ID, column.ID)
		if errors.Is(err, ErrRateLimited) {
			return err
		}
		if err != nil {
			p.log.Warn("item was not added", "item", item.Title, "error", err)
			return nil
		}
	}

	return column.AddCard(ctx, client, &Card{ID: cardID, Item: item})
}

// CurrentLocation returns the column name and card ID an item currently
// occupies in the loaded columns, or empty strings when it is not visible.
func (p *Project) CurrentLocation(itemID string) (string, string) {
	for _, name := range p.order {
		if cardID := p.Columns[name].CardIDForItem(itemID); cardID != "" {
			return name, cardID
		}
	}
	return "", ""
}

// MoveItems relocates every item whose matched column differs from its
// current one. The add into the destination and the removal from the source
// are separate remote steps with no compensation on partial failure; a crash
// in between leaves the card in both columns until the next run.
func (p *Project) MoveItems(ctx context.Context, client Client, items map[string]*domain.Item) error {
	for _, item := range items {
		before, cardID := p.CurrentLocation(item.ID)
		after := p.engine.MatchColumn(item)
		if before == "" || after == "" || before == after {
			continue
		}
		if _, ok := p.Columns[after]; !ok {
			continue
		}
		if item.Closed() {
			p.log.Debug("skipping closed item", "item", item.Title)
			continue
		}

		p.log.Info("moving item", "item", item.Title, "from", before, "to", after)
		if err := p.Columns[after].AddCard(ctx, client, &Card{ID: cardID, Item: item}); err != nil {
			return err
		}
		p.Columns[before].RemoveCard(cardID)
	}
	return nil
}

// RemoveItems deletes the cards of items that no longer satisfy the label
// filter, skipping the configured closed columns. Each column's card list is
// partitioned into retained and removed up front and rebuilt from the
// retained set; deletions that fail remotely are logged and the card is
// dropped from memory anyway.
func (p *Project) RemoveItems(ctx context.Context, client Client) error {
	filter := p.cfg.LabelFilter()
	closed := p.cfg.ClosedColumns()

	for _, name := range p.order {
		if closed[name] {
			continue
		}
		column := p.Columns[name]

		retained := make([]*Card, 0, len(column.Cards))
		var removed []*Card
		for _, card := range column.Cards {
			if filter.Matches(card.Item.Labels) {
				retained = append(retained, card)
			} else {
				removed = append(removed, card)
			}
		}

		for _, card := range removed {
			p.log.Info("removing item from project", "item", card.Item.Title, "column", name)
			err := client.DeleteCard(ctx, card.ID)
			if errors.Is(err, ErrRateLimited) {
				return err
			}
			if err != nil {
				p.log.Warn("item was not removed", "item", card.Item.Title, "error", err)
			}
		}
		column.Cards = retained
	}
	return nil
}

// SortColumns sorts every column except the configured closed ones.
func (p *Project) SortColumns(ctx context.Context, client Client) error {
	closed := p.cfg.ClosedColumns()
	for _, name := range p.order {
		if closed[name] {
			continue
		}
		if err := p.Columns[name].SortCards(ctx, client); err != nil {
			return err
		}
	}
	return nil
}

// Sync runs the enabled actions in their fixed order: remove first so items
// about to be evicted are not sorted or moved, then add, sort, move.
func (p *Project) Sync(ctx context.Context, client Client, items map[string]*domain.Item) error {
	if p.cfg.Actions.Remove {
		if err := p.RemoveItems(ctx, client); err != nil {
			return err
		}
	}
	if p.cfg.Actions.Add {
		if err := p.AddItems(ctx, client, items); err != nil {
			return err
		}
	}
	if p.cfg.Actions.Sort {
		if err := p.SortColumns(ctx, client); err != nil {
			return err
		}
	}
	if p.cfg.Actions.Move {
		if err := p.MoveItems(ctx, client, items); err != nil {
			return err
		}
	}
	return nil
}
