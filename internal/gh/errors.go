package gh

import (
	"fmt"
	"strings"

	"github.com/avern/cardboard/internal/board"
)

// GitHub reports these failure classes only through error message text; the
// strings below are the API's, not ours. They are inspected here and nowhere
// else — everything past this boundary works with the typed codes.
const (
	archivedMessage  = "The card must not be archived"
	rateLimitMessage = "API rate limit exceeded"
)

// classifyError wraps transport errors carrying a known failure class in the
// matching typed code. Other errors pass through unchanged.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, archivedMessage):
		return fmt.Errorf("%w: %s", board.ErrCardArchived, msg)
	case strings.Contains(msg, rateLimitMessage):
		return fmt.Errorf("%w: %s", board.ErrRateLimited, msg)
	}
	return err
}
