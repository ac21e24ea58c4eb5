package gh

import (
	"context"
	"fmt"

	"github.com/machinebox/graphql"

	"github.com/avern/cardboard/internal/board"
	"github.com/avern/cardboard/internal/domain"
)

// Field selections shared by every query returning items. The issue variant
// carries the cross-reference timeline so a linked pull request can be
// attached; the pull request variant carries the review counters instead.
const issueFields = `
	__typename
	id
	title
	number
	state
	milestone {
		title
	}
	labels(first: 10) {
		edges {
			node {
				name
			}
		}
	}
	assignees(last: 10) {
		edges {
			node {
				login
			}
		}
	}
	projectCards(first: 5) {
		nodes {
			id
			column {
				name
			}
			project {
				number
			}
		}
	}
	timelineItems(first: 10, itemTypes: [CROSS_REFERENCED_EVENT]) {
		nodes {
			... on CrossReferencedEvent {
				willCloseTarget
				source {
					__typename
					... on PullRequest {
						id
						title
						number
						state
						isDraft
						assignees(first: 10) {
							nodes {
								login
							}
						}
						labels(first: 5) {
							nodes {
								name
							}
						}
						reviewRequests(first: 1) {
							totalCount
						}
						reviews(first: 1) {
							totalCount
						}
						reviewDecision
					}
				}
			}
		}
	}`

const pullRequestFields = `
	__typename
	id
	title
	number
	state
	labels(first: 10) {
		edges {
			node {
				name
			}
		}
	}
	assignees(last: 10) {
		edges {
			node {
				login
			}
		}
	}
	projectCards(first: 5) {
		nodes {
			id
			column {
				name
			}
			project {
				number
			}
		}
	}
	reviewRequests(first: 1) {
		totalCount
	}
	reviews(first: 1) {
		totalCount
	}
	reviewDecision`

type layoutResp struct {
	Name    string `json:"name"`
	Number  int    `json:"number"`
	Columns struct {
		Nodes []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"nodes"`
	} `json:"columns"`
}

// FetchBoardLayout reads the project's name and its columns in display order.
func (c *Client) FetchBoardLayout(ctx context.Context) (board.Layout, error) {
	const projectSelection = `
			project(number: $number) {
				name
				number
				columns(first: 30) {
					nodes {
						id
						name
					}
				}
			}`

	var req *graphql.Request
	if c.orgProject {
		req = graphql.NewRequest(`
		query($owner: String!, $number: Int!) {
			organization(login: $owner) {` + projectSelection + `
			}
		}`)
	} else {
		req = graphql.NewRequest(`
		query($owner: String!, $name: String!, $number: Int!) {
			repository(owner: $owner, name: $name) {` + projectSelection + `
			}
		}`)
		req.Var("name", c.repo)
	}
	req.Var("owner", c.owner)
	req.Var("number", c.number)

	var resp struct {
		Repository *struct {
			Project *layoutResp `json:"project"`
		} `json:"repository"`
		Organization *struct {
			Project *layoutResp `json:"project"`
		} `json:"organization"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return board.Layout{}, fmt.Errorf("failed to fetch board layout: %w", err)
	}

	var project *layoutResp
	switch {
	case resp.Repository != nil:
		project = resp.Repository.Project
	case resp.Organization != nil:
		project = resp.Organization.Project
	}
	if project == nil {
		return board.Layout{}, fmt.Errorf("project %d not found for %s", c.number, c.owner)
	}

	layout := board.Layout{Name: project.Name, Number: project.Number}
	for _, col := range project.Columns.Nodes {
		layout.Columns = append(layout.Columns, board.ColumnRef{ID: col.ID, Name: col.Name})
	}
	return layout, nil
}

// FetchColumnPage reads one page of a column's cards. Cards whose content is
// a free-text note come back with no item and are skipped here.
func (c *Client) FetchColumnPage(ctx context.Context, column board.ColumnRef, cursor string) (board.CardPage, error) {
	req := graphql.NewRequest(`
	query($columnId: ID!, $after: String) {
		node(id: $columnId) {
			... on ProjectColumn {
				cards(first: 100, after: $after) {
					pageInfo {
						hasNextPage
						endCursor
					}
					edges {
						cursor
						node {
							id
							content {
								... on Issue {` + issueFields + `
								}
								... on PullRequest {` + pullRequestFields + `
								}
							}
						}
					}
				}
			}
		}
	}`)
	req.Var("columnId", column.ID)
	if cursor != "" {
		req.Var("after", cursor)
	}

	var resp struct {
		Node *struct {
			Cards struct {
				PageInfo struct {
					HasNextPage bool   `json:"hasNextPage"`
					EndCursor   string `json:"endCursor"`
				} `json:"pageInfo"`
				Edges []struct {
					Cursor string `json:"cursor"`
					Node   struct {
						ID      string    `json:"id"`
						Content *itemNode `json:"content"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"cards"`
		} `json:"node"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return board.CardPage{}, fmt.Errorf("failed to fetch cards of column %q: %w", column.Name, err)
	}
	if resp.Node == nil {
		return board.CardPage{}, fmt.Errorf("column %q not found", column.Name)
	}

	page := board.CardPage{
		EndCursor:   resp.Node.Cards.PageInfo.EndCursor,
		HasNextPage: resp.Node.Cards.PageInfo.HasNextPage,
	}
	for _, edge := range resp.Node.Cards.Edges {
		if edge.Node.Content == nil || edge.Node.Content.ID == "" {
			continue
		}
		page.Cards = append(page.Cards, &board.Card{
			ID:     edge.Node.ID,
			Cursor: edge.Cursor,
			Item:   parseItem(*edge.Node.Content),
		})
	}
	return page, nil
}

// SearchItems pages through a GitHub search query and returns every matching
// issue and pull request.
func (c *Client) SearchItems(ctx context.Context, query string) ([]*domain.Item, error) {
	var items []*domain.Item
	cursor := ""
	for {
		req := graphql.NewRequest(`
		query($query: String!, $after: String) {
			search(query: $query, type: ISSUE, first: 100, after: $after) {
				pageInfo {
					hasNextPage
					endCursor
				}
				edges {
					node {
						... on Issue {` + issueFields + `
						}
						... on PullRequest {` + pullRequestFields + `
						}
					}
				}
			}
		}`)
		req.Var("query", query)
		if cursor != "" {
			req.Var("after", cursor)
		}

		var resp struct {
			Search struct {
				PageInfo struct {
					HasNextPage bool   `json:"hasNextPage"`
					EndCursor   string `json:"endCursor"`
				} `json:"pageInfo"`
				Edges []struct {
					Node itemNode `json:"node"`
				} `json:"edges"`
			} `json:"search"`
		}
		if err := c.run(ctx, req, &resp); err != nil {
			return nil, fmt.Errorf("search failed: %w", err)
		}

		for _, edge := range resp.Search.Edges {
			if edge.Node.ID == "" {
				continue
			}
			items = append(items, parseItem(edge.Node))
		}
		if !resp.Search.PageInfo.HasNextPage {
			return items, nil
		}
		cursor = resp.Search.PageInfo.EndCursor
	}
}

// FetchItem loads one issue or pull request by number, fully populated.
func (c *Client) FetchItem(ctx context.Context, kind domain.Kind, number int) (*domain.Item, error) {
	var req *graphql.Request
	if kind == domain.KindPullRequest {
		req = graphql.NewRequest(`
		query($owner: String!, $name: String!, $number: Int!) {
			repository(owner: $owner, name: $name) {
				pullRequest(number: $number) {` + pullRequestFields + `
				}
			}
		}`)
	} else {
		req = graphql.NewRequest(`
		query($owner: String!, $name: String!, $number: Int!) {
			repository(owner: $owner, name: $name) {
				issue(number: $number) {` + issueFields + `
				}
			}
		}`)
	}
	req.Var("owner", c.owner)
	req.Var("name", c.repo)
	req.Var("number", number)

	var resp struct {
		Repository struct {
			Issue       *itemNode `json:"issue"`
			PullRequest *itemNode `json:"pullRequest"`
		} `json:"repository"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch %s #%d: %w", kind, number, err)
	}

	node := resp.Repository.Issue
	if kind == domain.KindPullRequest {
		node = resp.Repository.PullRequest
	}
	if node == nil {
		return nil, fmt.Errorf("%s #%d not found in %s/%s", kind, number, c.owner, c.repo)
	}
	return parseItem(*node), nil
}
