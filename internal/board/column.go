package board

import (
	"context"
	"errors"
	"log/slog"
	"sort"
)

// Column holds one board column and its cards, highest priority first once a
// sort has run. Between syncs the order may drift through changes made on the
// remote board; the sort action reconciles it.
type Column struct {
	ID    string
	Name  string
	Cards []*Card

	log *slog.Logger
}

// NewColumn builds a column around already-loaded cards.
func NewColumn(id, name string, cards []*Card, log *slog.Logger) *Column {
	if log == nil {
		log = slog.Default()
	}
	return &Column{ID: id, Name: name, Cards: cards, log: log}
}

// ItemIDs returns the set of item IDs currently visible in the column.
func (c *Column) ItemIDs() map[string]bool {
	ids := make(map[string]bool, len(c.Cards))
	for _, card := range c.Cards {
		ids[card.Item.ID] = true
	}
	return ids
}

// CardIDForItem returns the card holding the given item, or "".
func (c *Column) CardIDForItem(itemID string) string {
	for _, card := range c.Cards {
		if card.Item.ID == itemID {
			return card.ID
		}
	}
	return ""
}

// AddCard inserts a card at its priority position and issues the matching
// remote placement: top of the column when it outranks the current first
// card (or the column is empty), otherwise directly after the last card that
// outranks it. A remote failure is logged and the in-memory insert is kept;
// board and memory may then diverge until the next run. Only a rate-limit
// failure propagates.
func (c *Column) AddCard(ctx context.Context, client Client, card *Card) error {
	if len(c.Cards) == 0 || card.Item.OutRanks(c.Cards[0].Item) {
		c.Cards = append([]*Card{card}, c.Cards...)
		return c.place(ctx, client, card, "")
	}

	// Find the first adjacent pair the new item fits between; default to
	// the bottom of the column.
	after := len(c.Cards) - 1
	for i := 0; i < len(c.Cards)-1; i++ {
		if c.Cards[i].Item.OutRanks(card.Item) && card.Item.OutRanks(c.Cards[i+1].Item) {
			after = i
			break
		}
	}

	afterCard := c.Cards[after]
	c.Cards = append(c.Cards[:after+1], append([]*Card{card}, c.Cards[after+1:]...)...)
	return c.place(ctx, client, card, afterCard.ID)
}

// place issues the remote placement call, retrying once through an unarchive
// when the card turns out to be archived.
func (c *Column) place(ctx context.Context, client Client, card *Card, afterCardID string) error {
	err := c.placeOnce(ctx, client, card.ID, afterCardID)
	if errors.Is(err, ErrCardArchived) {
		c.log.Info("un-archiving card", "item", card.Item.Title)
		if uerr := client.UnarchiveCard(ctx, card.ID); uerr == nil {
			err = c.placeOnce(ctx, client, card.ID, afterCardID)
		} else {
			err = errors.Join(err, uerr)
		}
	}
	if errors.Is(err, ErrRateLimited) {
		return err
	}
	if err != nil {
		c.log.Warn("card was not placed", "item", card.Item.Title, "column", c.Name, "error", err)
	}
	return nil
}

func (c *Column) placeOnce(ctx context.Context, client Client, cardID, afterCardID string) error {
	if afterCardID == "" {
		return client.PlaceCardTop(ctx, cardID, c.ID)
	}
	return client.PlaceCardAfter(ctx, cardID, c.ID, afterCardID)
}

// RemoveCard drops the card with the given ID from the in-memory list.
// No-op when absent; no remote call is made.
func (c *Column) RemoveCard(cardID string) {
	for i, card := range c.Cards {
		if card.ID == cardID {
			c.Cards = append(c.Cards[:i], c.Cards[i+1:]...)
			return
		}
	}
}

// moveCardInList relocates a card within the in-memory list only. Used as a
// step inside SortCards to keep positions consistent while remote moves are
// issued.
func (c *Column) moveCardInList(cardID string, newIndex int) {
	for i, card := range c.Cards {
		if card.ID == cardID {
			if i == newIndex {
				return
			}
			c.Cards = append(c.Cards[:i], c.Cards[i+1:]...)
			c.Cards = append(c.Cards[:newIndex], append([]*Card{card}, c.Cards[newIndex:]...)...)
			return
		}
	}
}

// SortCards reorders the column to descending priority, issuing one remote
// placement per card whose position changes. The in-memory list is replaced
// with the sorted order regardless of individual remote outcomes.
func (c *Column) SortCards(ctx context.Context, client Client) error {
	sorted := make([]*Card, len(c.Cards))
	copy(sorted, c.Cards)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Item.OutRanks(sorted[j].Item)
	})

	for i, card := range sorted {
		if card.ID == c.Cards[i].ID {
			continue
		}
		c.moveCardInList(card.ID, i)
		c.log.Info("moving card", "item", card.Item.Title, "column", c.Name, "position", i)
		afterCardID := ""
		if i > 0 {
			afterCardID = sorted[i-1].ID
		}
		if err := c.place(ctx, client, card, afterCardID); err != nil {
			return err
		}
	}

	c.Cards = sorted
	return nil
}
