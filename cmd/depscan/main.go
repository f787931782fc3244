package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rohankatakam/depscan/internal/config"
	apperrors "github.com/rohankatakam/depscan/internal/errors"
	"github.com/rohankatakam/depscan/internal/logging"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	cfgFile string
	logFile string
	verbose bool
	logger  *logrus.Logger
	cfg     *config.Config
)

func main() {
	err := rootCmd.Execute()
	logging.Close()
	if err != nil {
		var appErr *apperrors.Error
		if verbose && errors.As(err, &appErr) {
			fmt.Fprint(os.Stderr, appErr.DetailedString())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "depscan",
	Short: "depscan - abandonment risk check for GitHub dependencies",
	Long: `depscan looks at a GitHub repository's contributors, commit history and
issue tracker and reports signs that the project may be losing maintenance.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// CLI messages go through logrus; library code logs through slog
		logger = logrus.New()
		logger.SetOutput(os.Stderr)
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.InfoLevel)
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			logger.WithError(err).Warn("Failed to load config, using defaults")
			cfg = config.Default()
		}

		level := logging.ParseLevel(cfg.Log.Level)
		if verbose {
			level = logging.DEBUG
		}
		if logFile != "" {
			cfg.Log.File = logFile
		}
		if err := logging.Initialize(logging.Config{
			Level:      level,
			OutputFile: cfg.Log.File,
			JSONFormat: cfg.Log.JSON,
		}); err != nil {
			logger.WithError(err).Warn("Failed to initialize log file, logging to stderr")
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.depscan/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this file")

	rootCmd.SetVersionTemplate(`depscan {{.Version}}
Build time: ` + BuildTime + `
Git commit: ` + GitCommit + `
`)

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(configCmd)
}
