// Package gh implements the board client against the GitHub GraphQL API.
// It is a deep module: the board package sees simple read/mutate methods and
// typed error codes, while query construction, pagination, and response
// parsing stay in here.
package gh

import (
	"context"
	"net/http"

	"github.com/machinebox/graphql"
	"golang.org/x/oauth2"

	"github.com/avern/cardboard/internal/board"
)

const endpoint = "https://api.github.com/graphql"

var _ board.Client = (*Client)(nil)

// Client talks to the GitHub GraphQL API for one configured project.
type Client struct {
	gql *graphql.Client

	owner      string
	repo       string
	number     int
	orgProject bool
}

// Options identify the project a Client operates on.
type Options struct {
	Owner         string
	Repository    string
	ProjectNumber int
	// OrgProject selects organization-level project queries instead of
	// repository-level ones.
	OrgProject bool
}

// New creates a client authenticated with the given token.
func New(token string, opts Options) *Client {
	httpClient := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	))
	return NewWithHTTPClient(httpClient, opts)
}

// NewWithHTTPClient creates a client over a caller-supplied HTTP client,
// which the tests use to serve canned responses.
func NewWithHTTPClient(httpClient *http.Client, opts Options) *Client {
	return &Client{
		gql:        graphql.NewClient(endpoint, graphql.WithHTTPClient(httpClient)),
		owner:      opts.Owner,
		repo:       opts.Repository,
		number:     opts.ProjectNumber,
		orgProject: opts.OrgProject,
	}
}

// run executes a GraphQL request and maps transport failures onto the typed
// board error codes.
func (c *Client) run(ctx context.Context, req *graphql.Request, resp interface{}) error {
	if err := c.gql.Run(ctx, req, resp); err != nil {
		return classifyError(err)
	}
	return nil
}
