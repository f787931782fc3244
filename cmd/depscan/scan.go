package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/rohankatakam/depscan/internal/cli"
	"github.com/rohankatakam/depscan/internal/collector"
	"github.com/rohankatakam/depscan/internal/config"
	"github.com/rohankatakam/depscan/internal/github"
	"github.com/rohankatakam/depscan/internal/output"
)

var (
	scanToken  string
	scanSimple bool
	scanFormat string
)

var scanCmd = &cobra.Command{
	Use:   "scan [repository-url]",
	Short: "Check a GitHub repository for abandonment risk",
	Long: `Fetch commit history, contributor statistics and recent issues for a
repository and grade the maintenance risk. Without a URL the origin remote
of the current git checkout is scanned.

Examples:
  depscan scan https://github.com/spf13/cobra
  depscan scan github.com/spf13/cobra --format json
  depscan scan git@github.com:spf13/cobra.git --simple
  depscan scan                      # inside a clone`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanToken, "token", "t", "", "GitHub token (default: GITHUB_TOKEN, keychain or config)")
	scanCmd.Flags().BoolVarP(&scanSimple, "simple", "s", false, "only show basic repository information")
	scanCmd.Flags().StringVar(&scanFormat, "format", "", "output format: auto, text, plain, json, yaml")
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var repoURL string
	if len(args) == 1 {
		repoURL = args[0]
	} else {
		detected, err := cli.DetectRemoteURL(ctx, "")
		if err != nil {
			return err
		}
		logger.WithField("remote", detected).Debug("Using git remote")
		repoURL = detected
	}

	result := cfg.Validate()
	if result.HasErrors() {
		return result.Err()
	}
	for _, w := range result.Warnings {
		logger.Warn(w)
	}

	// Flag wins over the configured format
	formatName := cfg.Output.Format
	if scanFormat != "" {
		formatName = scanFormat
	}
	format, err := output.ParseFormat(formatName)
	if err != nil {
		return err
	}
	format = output.Resolve(format, os.Stdout)
	formatter, err := output.NewFormatter(format, output.TerminalWidth(os.Stdout))
	if err != nil {
		return err
	}

	// Progress lines would corrupt structured output on stdout
	progress := io.Writer(os.Stdout)
	if format == output.FormatJSON || format == output.FormatYAML {
		progress = os.Stderr
	}

	token, source := config.NewCredentialManager().ResolveGitHubToken(scanToken, cfg)
	logger.WithField("source", source).Debug("Resolved GitHub token")
	if token == "" {
		logger.Debug("No GitHub token found, using unauthenticated requests (60/hour)")
	}

	client := github.NewClient(ctx, token, cfg.GitHub.RateLimit)
	if cfg.GitHub.BaseURL != "" {
		if err := client.SetBaseURL(cfg.GitHub.BaseURL); err != nil {
			return err
		}
	}

	c := collector.New(client, cfg.AnalyzerOptions())

	fmt.Fprintf(progress, "Scanning repository: %s\n", repoURL)
	if err := c.SetRepository(ctx, repoURL); err != nil {
		return err
	}

	if scanSimple {
		info, err := c.BasicInfo(ctx)
		if err != nil {
			return err
		}
		if err := formatter.FormatBasicInfo(info, os.Stdout); err != nil {
			return err
		}
		fmt.Fprintln(progress, "Scan complete")
		return nil
	}

	fmt.Fprintln(progress, "Analyzing risk metrics...")
	report, err := c.RiskReport(ctx)
	if err != nil {
		return err
	}
	logger.WithField("run_id", report.RunID).WithField("risks", len(report.Risks)).Debug("Report generated")

	if err := formatter.FormatReport(report, os.Stdout); err != nil {
		return err
	}
	fmt.Fprintln(progress, "Scan complete")
	return nil
}
