// Package board implements the in-memory model of a project board and the
// synchronization protocol against the remote board API: card ordering within
// columns, and the remove/add/sort/move actions across them.
package board

import (
	"context"
	"errors"

	"github.com/avern/cardboard/internal/domain"
)

// Typed remote failure codes. The client implementation maps transport error
// messages onto these; the core never inspects message text.
var (
	// ErrCardArchived is returned by card placement calls when the target
	// card is archived on the remote board. It triggers the single
	// unarchive-and-retry path.
	ErrCardArchived = errors.New("card is archived")

	// ErrRateLimited means the API quota is exhausted. Unlike every other
	// remote failure it terminates the whole run: continuing would burn the
	// remaining quota on calls that cannot succeed.
	ErrRateLimited = errors.New("api rate limit exceeded")
)

// Card binds an item to one column position on the board.
type Card struct {
	ID     string
	Cursor string
	Item   *domain.Item
}

// ColumnRef identifies one column in the remote board layout.
type ColumnRef struct {
	ID   string
	Name string
}

// Layout is the remote board's structure: its columns in display order.
type Layout struct {
	Name    string
	Number  int
	Columns []ColumnRef
}

// CardPage is one page of a column read. Cards with no content (free-text
// notes) have already been skipped by the client.
type CardPage struct {
	Cards       []*Card
	EndCursor   string
	HasNextPage bool
}

// Client is the remote board API collaborator. Implementations perform the
// paginated reads and the mutation calls; all failures surface as errors,
// with archived-card and rate-limit failures wrapped in the typed codes
// above.
type Client interface {
	// FetchBoardLayout returns the board's name and columns in display order.
	FetchBoardLayout(ctx context.Context) (Layout, error)

	// FetchColumnPage reads one page of a column's cards. An empty cursor
	// starts from the top.
	FetchColumnPage(ctx context.Context, column ColumnRef, cursor string) (CardPage, error)

	// CreateCard attaches an item to the board and returns the new card ID.
	CreateCard(ctx context.Context, itemID, columnID string) (string, error)

	// PlaceCardTop moves a card to the top of a column.
	PlaceCardTop(ctx context.Context, cardID, columnID string) error

	// PlaceCardAfter moves a card into a column directly below another card.
	PlaceCardAfter(ctx context.Context, cardID, columnID, afterCardID string) error

	// DeleteCard removes a card from the board. The underlying item is
	// untouched.
	DeleteCard(ctx context.Context, cardID string) error

	// UnarchiveCard restores an archived card so it can be placed again.
	UnarchiveCard(ctx context.Context, cardID string) error

	// FetchItem loads a single item by number, fully populated.
	FetchItem(ctx context.Context, kind domain.Kind, number int) (*domain.Item, error)

	// SearchItems returns all items matching a search query, following
	// pagination to the end.
	SearchItems(ctx context.Context, query string) ([]*domain.Item, error)
}
