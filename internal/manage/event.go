package manage

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/go-github/v60/github"

	"github.com/avern/cardboard/internal/board"
	"github.com/avern/cardboard/internal/config"
	"github.com/avern/cardboard/internal/domain"
	"github.com/avern/cardboard/internal/rules"
)

// EventRunner applies a single webhook event to every configured board.
// Unlike the sweep it loads only the one column the item lands in.
type EventRunner struct {
	ConfPaths []string
	Event     []byte

	// NewClient builds a board client for one configuration, since each
	// configuration may point at a different project.
	NewClient func(*config.Config) board.Client

	Log *slog.Logger
}

// IssueNumber extracts the issue number from an Actions event payload.
// ok is false for payloads that do not concern an issue.
func IssueNumber(payload []byte) (int, bool) {
	var event github.IssuesEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return 0, false
	}
	if event.GetIssue() == nil {
		return 0, false
	}
	return event.GetIssue().GetNumber(), true
}

// Run parses the event and processes the item against each configuration in
// turn. A configuration that fails to load is skipped; a rate-limit failure
// aborts the whole run.
func (r *EventRunner) Run(ctx context.Context) error {
	log := r.Log
	if log == nil {
		log = slog.Default()
	}

	number, ok := IssueNumber(r.Event)
	if !ok {
		log.Info("event does not concern an issue, nothing to do")
		return nil
	}

	var item *domain.Item
	for _, path := range r.ConfPaths {
		cfg, err := config.Load(path)
		if err != nil {
			log.Error("skipping broken configuration", "path", path, "error", err)
			continue
		}
		client := r.NewClient(cfg)

		// The item itself is the same for every configuration; fetch once.
		if item == nil {
			item, err = client.FetchItem(ctx, domain.KindIssue, number)
			if err != nil {
				return err
			}
			if item.Closed() {
				log.Info("item is closed, not taking an action", "item", item.Title)
				return nil
			}
		}

		if err := r.applyConfig(ctx, cfg, client, item, log); err != nil {
			return err
		}
	}
	return nil
}

func (r *EventRunner) applyConfig(ctx context.Context, cfg *config.Config, client board.Client, item *domain.Item, log *slog.Logger) error {
	filter := cfg.LabelFilter()
	onProject := item.OnProject(cfg.General.ProjectNumber)
	if !onProject && !filter.Matches(item.Labels) {
		log.Debug("item does not match the configured filter", "item", item.Title)
		return nil
	}

	item.SetPriority(cfg.General.PriorityLabels)
	engine := rules.New(cfg.General.ColumnRuleOrder, cfg.CompiledRules(), log)

	// The item is on the board but no longer belongs there.
	if cfg.Actions.Remove && onProject && !filter.Matches(item.Labels) {
		cardID, ok := item.CardID(cfg.General.ProjectNumber)
		if !ok {
			return nil
		}
		log.Info("removing item from project", "item", item.Title)
		err := client.DeleteCard(ctx, cardID)
		if errors.Is(err, board.ErrRateLimited) {
			return err
		}
		if err != nil {
			log.Warn("item was not removed", "item", item.Title, "error", err)
		}
		return nil
	}

	matched := engine.MatchColumn(item)

	if cfg.Actions.Add && !onProject {
		project, err := board.LoadProjectColumn(ctx, client, cfg, engine, log, matched)
		if err != nil {
			return err
		}
		return project.AddItem(ctx, client, item, matched)
	}

	before := item.ColumnOnProject(cfg.General.ProjectNumber)
	needsPlacement := cfg.Actions.Add && before == ""
	needsMove := cfg.Actions.Move && matched != "" && matched != before
	if needsPlacement || needsMove {
		log.Info("moving item", "item", item.Title, "from", before, "to", matched)
		project, err := board.LoadProjectColumn(ctx, client, cfg, engine, log, matched)
		if err != nil {
			return err
		}
		// AddItem finds the existing card for this project and repositions
		// it; the remote move pulls it out of its previous column.
		return project.AddItem(ctx, client, item, matched)
	}

	if cfg.Actions.Sort && matched != "" && matched == before {
		project, err := board.LoadProjectColumn(ctx, client, cfg, engine, log, matched)
		if err != nil {
			return err
		}
		if column, ok := project.Columns[matched]; ok {
			return column.SortCards(ctx, client)
		}
	}
	return nil
}
