package gh

import (
	"github.com/avern/cardboard/internal/domain"
)

// GraphQL connection shapes shared between queries.

type labelEdges struct {
	Edges []struct {
		Node struct {
			Name string `json:"name"`
		} `json:"node"`
	} `json:"edges"`
}

func (l labelEdges) names() []string {
	var names []string
	for _, e := range l.Edges {
		if e.Node.Name != "" {
			names = append(names, e.Node.Name)
		}
	}
	return names
}

type assigneeEdges struct {
	Edges []struct {
		Node *struct {
			Login string `json:"login"`
		} `json:"node"`
	} `json:"edges"`
}

func (a assigneeEdges) logins() []string {
	var logins []string
	for _, e := range a.Edges {
		if e.Node != nil {
			logins = append(logins, e.Node.Login)
		}
	}
	return logins
}

type projectCardNodes struct {
	Nodes []struct {
		ID     string `json:"id"`
		Column *struct {
			Name string `json:"name"`
		} `json:"column"`
		Project *struct {
			Number int `json:"number"`
		} `json:"project"`
	} `json:"nodes"`
}

// locations maps every card the item is attached to onto its board.
func (p projectCardNodes) locations() map[string]domain.CardLocation {
	cards := make(map[string]domain.CardLocation, len(p.Nodes))
	for _, n := range p.Nodes {
		if n.ID == "" || n.Project == nil {
			continue
		}
		loc := domain.CardLocation{ProjectNumber: n.Project.Number}
		if n.Column != nil {
			loc.ColumnName = n.Column.Name
		}
		cards[n.ID] = loc
	}
	return cards
}

type totalCount struct {
	TotalCount int `json:"totalCount"`
}

// linkedPRSource is a pull request referenced from an issue's cross-reference
// timeline.
type linkedPRSource struct {
	Typename  string `json:"__typename"`
	ID        string `json:"id"`
	Title     string `json:"title"`
	Number    int    `json:"number"`
	State     string `json:"state"`
	IsDraft   bool   `json:"isDraft"`
	Assignees struct {
		Nodes []struct {
			Login string `json:"login"`
		} `json:"nodes"`
	} `json:"assignees"`
	Labels struct {
		Nodes []struct {
			Name string `json:"name"`
		} `json:"nodes"`
	} `json:"labels"`
	ReviewRequests totalCount `json:"reviewRequests"`
	Reviews        totalCount `json:"reviews"`
	ReviewDecision string     `json:"reviewDecision"`
}

type timelineItems struct {
	Nodes []struct {
		WillCloseTarget bool            `json:"willCloseTarget"`
		Source          *linkedPRSource `json:"source"`
	} `json:"nodes"`
}

// itemNode is the merged GraphQL shape of an Issue or PullRequest node.
// Issue-only and PR-only fields are simply absent in the other variant's
// response.
type itemNode struct {
	Typename  string        `json:"__typename"`
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Number    int           `json:"number"`
	State     string        `json:"state"`
	Labels    labelEdges    `json:"labels"`
	Assignees assigneeEdges `json:"assignees"`

	ProjectCards projectCardNodes `json:"projectCards"`

	// Issue only.
	Milestone *struct {
		Title string `json:"title"`
	} `json:"milestone"`
	TimelineItems timelineItems `json:"timelineItems"`

	// Pull request only.
	ReviewRequests totalCount `json:"reviewRequests"`
	Reviews        totalCount `json:"reviews"`
	ReviewDecision string     `json:"reviewDecision"`
}

func parseReview(requests, reviews int, decision string) domain.ReviewStatus {
	return domain.ReviewStatus{
		Requested:        requests > 0 || reviews > 0,
		Completed:        decision == "APPROVED",
		ChangesRequested: decision == "CHANGES_REQUESTED",
	}
}

// parseItem converts an itemNode into the domain model, dispatching on the
// GraphQL typename.
func parseItem(n itemNode) *domain.Item {
	item := &domain.Item{
		ID:        n.ID,
		Title:     n.Title,
		Number:    n.Number,
		State:     n.State,
		Labels:    n.Labels.names(),
		Assignees: n.Assignees.logins(),
		Cards:     n.ProjectCards.locations(),
	}

	if n.Typename == "PullRequest" {
		item.Kind = domain.KindPullRequest
		item.Review = parseReview(n.ReviewRequests.TotalCount, n.Reviews.TotalCount, n.ReviewDecision)
		return item
	}

	item.Kind = domain.KindIssue
	if n.Milestone != nil {
		item.Milestone = n.Milestone.Title
	}
	item.LinkedPullRequest = parseLinkedPR(n.TimelineItems)
	return item
}

// parseLinkedPR picks the open, non-draft pull request that will close the
// issue, if the cross-reference timeline holds one.
func parseLinkedPR(timeline timelineItems) *domain.Item {
	for _, node := range timeline.Nodes {
		src := node.Source
		if src == nil || !node.WillCloseTarget || src.Typename != "PullRequest" {
			continue
		}
		if src.State != domain.StateOpen || src.IsDraft {
			continue
		}

		pr := &domain.Item{
			ID:     src.ID,
			Kind:   domain.KindPullRequest,
			Title:  src.Title,
			Number: src.Number,
			State:  src.State,
			Review: parseReview(src.ReviewRequests.TotalCount, src.Reviews.TotalCount, src.ReviewDecision),
		}
		for _, a := range src.Assignees.Nodes {
			pr.Assignees = append(pr.Assignees, a.Login)
		}
		for _, l := range src.Labels.Nodes {
			pr.Labels = append(pr.Labels, l.Name)
		}
		return pr
	}
	return nil
}
