package gh

import (
	"context"
	"fmt"

	"github.com/machinebox/graphql"
)

// CreateCard attaches an item to the board in the given column and returns
// the new card's ID.
func (c *Client) CreateCard(ctx context.Context, itemID, columnID string) (string, error) {
	req := graphql.NewRequest(`
	mutation($contentId: ID!, $columnId: ID!) {
		addProjectCard(input: {contentId: $contentId, projectColumnId: $columnId}) {
			cardEdge {
				node {
					id
				}
			}
		}
	}`)
	req.Var("contentId", itemID)
	req.Var("columnId", columnID)

	var resp struct {
		AddProjectCard struct {
			CardEdge struct {
				Node struct {
					ID string `json:"id"`
				} `json:"node"`
			} `json:"cardEdge"`
		} `json:"addProjectCard"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return "", fmt.Errorf("failed to create card: %w", err)
	}
	if resp.AddProjectCard.CardEdge.Node.ID == "" {
		return "", fmt.Errorf("card creation returned no card id")
	}
	return resp.AddProjectCard.CardEdge.Node.ID, nil
}

// PlaceCardTop moves a card to the top of a column.
func (c *Client) PlaceCardTop(ctx context.Context, cardID, columnID string) error {
	req := graphql.NewRequest(`
	mutation($cardId: ID!, $columnId: ID!) {
		moveProjectCard(input: {cardId: $cardId, columnId: $columnId}) {
			cardEdge {
				node {
					id
				}
			}
		}
	}`)
	req.Var("cardId", cardID)
	req.Var("columnId", columnID)

	var resp struct {
		MoveProjectCard struct {
			CardEdge struct {
				Node struct {
					ID string `json:"id"`
				} `json:"node"`
			} `json:"cardEdge"`
		} `json:"moveProjectCard"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return fmt.Errorf("failed to place card at top: %w", err)
	}
	return nil
}

// PlaceCardAfter moves a card into a column directly below another card.
func (c *Client) PlaceCardAfter(ctx context.Context, cardID, columnID, afterCardID string) error {
	req := graphql.NewRequest(`
	mutation($cardId: ID!, $columnId: ID!, $afterCardId: ID!) {
		moveProjectCard(input: {cardId: $cardId, columnId: $columnId, afterCardId: $afterCardId}) {
			cardEdge {
				node {
					id
				}
			}
		}
	}`)
	req.Var("cardId", cardID)
	req.Var("columnId", columnID)
	req.Var("afterCardId", afterCardID)

	var resp struct {
		MoveProjectCard struct {
			CardEdge struct {
				Node struct {
					ID string `json:"id"`
				} `json:"node"`
			} `json:"cardEdge"`
		} `json:"moveProjectCard"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return fmt.Errorf("failed to place card: %w", err)
	}
	return nil
}

// DeleteCard removes a card from the board; the underlying item is untouched.
func (c *Client) DeleteCard(ctx context.Context, cardID string) error {
	req := graphql.NewRequest(`
	mutation($cardId: ID!) {
		deleteProjectCard(input: {cardId: $cardId}) {
			deletedCardId
		}
	}`)
	req.Var("cardId", cardID)

	var resp struct {
		DeleteProjectCard struct {
			DeletedCardID string `json:"deletedCardId"`
		} `json:"deleteProjectCard"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	return nil
}

// UnarchiveCard restores an archived card so a placement can be retried.
func (c *Client) UnarchiveCard(ctx context.Context, cardID string) error {
	req := graphql.NewRequest(`
	mutation($cardId: ID!, $isArchived: Boolean) {
		updateProjectCard(input: {projectCardId: $cardId, isArchived: $isArchived}) {
			projectCard {
				isArchived
			}
		}
	}`)
	req.Var("cardId", cardID)
	req.Var("isArchived", false)

	var resp struct {
		UpdateProjectCard struct {
			ProjectCard struct {
				IsArchived bool `json:"isArchived"`
			} `json:"projectCard"`
		} `json:"updateProjectCard"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return fmt.Errorf("failed to un-archive card: %w", err)
	}
	return nil
}
