package manage

import (
	"fmt"
	"strings"

	"github.com/avern/cardboard/internal/config"
	"github.com/avern/cardboard/internal/domain"
)

// SearchQueries builds the GitHub search queries that discover candidate
// items not yet on the board: one query per filter label, with must-have
// labels carrying an "||" separator expanded into one query per alternative.
// Items already on the project are excluded by the search itself.
func SearchQueries(cfg *config.Config) []string {
	g := cfg.General

	var parts []string
	for _, label := range g.CantHaveLabels {
		parts = append(parts, "-label:"+label)
	}
	if g.FilterMilestone != "" {
		parts = append(parts, "milestone:"+g.FilterMilestone)
	}

	var orLabels []string
	for _, label := range g.MustHaveLabels {
		if strings.Contains(label, domain.OrSeparator) {
			orLabels = append(orLabels, strings.Split(label, domain.OrSeparator)...)
		} else {
			parts = append(parts, "label:"+label)
		}
	}
	base := strings.Join(parts, " ")

	scope := fmt.Sprintf("repo:%s/%s is:open", g.ProjectOwner, g.RepositoryName)
	exclude := fmt.Sprintf("-project:%s/%s/%d", g.ProjectOwner, g.RepositoryName, g.ProjectNumber)

	var queries []string
	for _, filterLabel := range g.FilterLabels {
		filtered := strings.TrimSpace(base + " label:" + filterLabel)
		if len(orLabels) == 0 {
			queries = append(queries, fmt.Sprintf("%s %s %s", scope, filtered, exclude))
			continue
		}
		for _, orLabel := range orLabels {
			queries = append(queries, fmt.Sprintf("%s %s label:%s %s", scope, filtered, orLabel, exclude))
		}
	}
	return queries
}
