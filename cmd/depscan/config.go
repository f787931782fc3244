package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rohankatakam/depscan/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the configuration depscan would use for a scan, after defaults,
config file and environment overrides have been applied.

The GitHub token is masked and its source is shown.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cm := config.NewCredentialManager()
	token, source := cm.ResolveGitHubToken("", cfg)

	shown := *cfg
	shown.GitHub.Token = config.MaskToken(token)

	data, err := yaml.Marshal(&shown)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Mode:         %s\n", cm.Mode())
	fmt.Fprintf(out, "Config file:  %s\n", cm.ConfigPath())
	fmt.Fprintf(out, "Token source: %s\n\n", source)
	fmt.Fprint(out, string(data))

	result := cfg.Validate()
	for _, e := range result.Errors {
		fmt.Fprintf(out, "\n❌ %s", e)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(out, "\n⚠️  %s", w)
	}
	if len(result.Errors)+len(result.Warnings) > 0 {
		fmt.Fprintln(out)
	}
	return nil
}
