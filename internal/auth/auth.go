// Package auth resolves the GitHub token used for board API calls.
// Providers are tried in order: the gh CLI session first, then the
// GITHUB_TOKEN environment variable, so local runs and CI both work without
// flags.
package auth

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// TokenProvider yields a GitHub token from one source.
type TokenProvider interface {
	Token() (string, error)
}

// GhCLI reads the token of the current `gh` session.
type GhCLI struct{}

func (GhCLI) Token() (string, error) {
	cmd := exec.Command("gh", "auth", "token", "--hostname", "github.com")
	output, err := cmd.Output()
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
			return "", errors.New("gh CLI not found in PATH")
		}
		return "", fmt.Errorf("gh auth token failed: %w", err)
	}

	token := strings.TrimSpace(string(output))
	if token == "" {
		return "", errors.New("gh auth token returned an empty token")
	}
	return token, nil
}

// Env reads the GITHUB_TOKEN environment variable.
type Env struct{}

func (Env) Token() (string, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return "", errors.New("GITHUB_TOKEN is not set")
	}
	return token, nil
}

// Chain tries each provider in order and returns the first token found.
type Chain []TokenProvider

func (c Chain) Token() (string, error) {
	var errs []error
	for _, p := range c {
		token, err := p.Token()
		if err == nil {
			return token, nil
		}
		errs = append(errs, err)
	}
	return "", fmt.Errorf(
		"no GitHub token available (%w); run 'gh auth login' or set GITHUB_TOKEN",
		errors.Join(errs...))
}

// Token resolves a token using the default provider chain.
func Token() (string, error) {
	return Chain{GhCLI{}, Env{}}.Token()
}
