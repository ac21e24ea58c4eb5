package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avern/cardboard/internal/auth"
	"github.com/avern/cardboard/internal/board"
	"github.com/avern/cardboard/internal/config"
	"github.com/avern/cardboard/internal/gh"
	"github.com/avern/cardboard/internal/manage"
)

var (
	// CLI flags
	confFlag    string
	eventFlag   string
	verboseFlag int
	quietFlag   bool
	logPathFlag string
	tokenFlag   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cardboard",
		Short: "Automated placement and ordering for GitHub project boards",
		Long: `cardboard keeps a GitHub project board in shape: it adds matching
issues and pull requests, moves them to the column their state matches,
removes the ones that no longer belong, and keeps every column sorted by
priority.

Authentication:
  1. GitHub CLI: run 'gh auth login' (preferred)
  2. Environment variable: set GITHUB_TOKEN
  3. The --token flag`,
	}

	rootCmd.PersistentFlags().StringVarP(&confFlag, "conf", "c", "", "Path to the configuration file; comma-separate for multiple boards.")
	rootCmd.PersistentFlags().CountVarP(&verboseFlag, "verbose", "v", "Increase verbosity (-v for debug).")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Only log errors.")
	rootCmd.PersistentFlags().StringVar(&logPathFlag, "log-path", "", "Directory for per-configuration log files.")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "", "GitHub token override.")
	_ = rootCmd.MarkPersistentFlagRequired("conf")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Synchronize the whole board",
		RunE:  runSweep,
	}

	eventCmd := &cobra.Command{
		Use:   "event",
		Short: "Apply a single webhook event to the board",
		RunE:  runEvent,
	}
	eventCmd.Flags().StringVarP(&eventFlag, "event", "e", "", "The event payload received from the GitHub Action.")
	_ = eventCmd.MarkFlagRequired("event")

	rootCmd.AddCommand(sweepCmd, eventCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func resolveToken() (string, error) {
	if tokenFlag != "" {
		return tokenFlag, nil
	}
	return auth.Token()
}

func newClient(token string, cfg *config.Config) board.Client {
	return gh.New(token, gh.Options{
		Owner:         cfg.General.ProjectOwner,
		Repository:    cfg.General.RepositoryName,
		ProjectNumber: cfg.General.ProjectNumber,
		OrgProject:    cfg.General.IsOrgProject,
	})
}

func runSweep(cmd *cobra.Command, args []string) error {
	token, err := resolveToken()
	if err != nil {
		return err
	}

	ctx := context.Background()
	for _, path := range strings.Split(confFlag, ",") {
		log, closeLog, err := newLogger(verboseFlag, quietFlag, logPathFlag, path)
		if err != nil {
			return err
		}

		// A broken configuration aborts its own run only; the remaining
		// configurations still get their sweep.
		cfg, err := config.Load(path)
		if err != nil {
			log.Error("configuration error", "path", path, "error", err)
			closeLog()
			continue
		}

		log.Info("starting board sweep", "config", path)
		sweeper := manage.NewSweeper(cfg, newClient(token, cfg), log)
		err = sweeper.Run(ctx)
		closeLog()
		if err != nil {
			return err
		}
	}
	return nil
}

func runEvent(cmd *cobra.Command, args []string) error {
	token, err := resolveToken()
	if err != nil {
		return err
	}

	log, closeLog, err := newLogger(verboseFlag, quietFlag, logPathFlag, "event")
	if err != nil {
		return err
	}
	defer closeLog()

	runner := &manage.EventRunner{
		ConfPaths: strings.Split(confFlag, ","),
		Event:     []byte(eventFlag),
		NewClient: func(cfg *config.Config) board.Client {
			return newClient(token, cfg)
		},
		Log: log,
	}
	return runner.Run(context.Background())
}
