package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rohankatakam/depscan/internal/config"
)

var (
	configureToken  string
	configureDelete bool
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Store a GitHub token for future scans",
	Long: `Save a GitHub personal access token so scans are not limited to
60 unauthenticated requests per hour.

The token goes to the OS keychain when one is available and to
~/.depscan/config.yaml (mode 0600) otherwise. In CI, pass GITHUB_TOKEN
instead.

Examples:
  depscan configure                 # prompt for the token
  depscan configure --token ghp_... # store without prompting
  depscan configure --delete        # forget the stored token`,
	Args: cobra.NoArgs,
	RunE: runConfigure,
}

func init() {
	configureCmd.Flags().StringVar(&configureToken, "token", "", "token to store (prompted when omitted)")
	configureCmd.Flags().BoolVar(&configureDelete, "delete", false, "remove the stored token")
}

func runConfigure(cmd *cobra.Command, args []string) error {
	cm := config.NewCredentialManager()

	if configureDelete {
		if err := cm.DeleteGitHubToken(); err != nil {
			return err
		}
		fmt.Println("✅ Stored GitHub token removed")
		return nil
	}

	token := configureToken
	if token == "" {
		var err error
		token, err = cm.PromptGitHubToken(os.Stdout)
		if err != nil {
			return err
		}
	}

	source, err := cm.SaveGitHubToken(token)
	if err != nil {
		return err
	}

	switch source {
	case config.TokenSourceKeychain:
		fmt.Println("✅ GitHub token saved to OS keychain")
	default:
		fmt.Printf("✅ GitHub token saved to %s\n", cm.ConfigPath())
		logger.Debug("OS keychain not available, stored token in config file")
	}
	fmt.Printf("   Token: %s\n", config.MaskToken(token))
	return nil
}
