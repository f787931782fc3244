package config

import (
	"os"
	"strings"
)

// DeploymentMode represents the execution context
type DeploymentMode string

const (
	// ModeInteractive is a developer running depscan from a terminal
	// - Token from flag, env vars, keychain or config file
	// - configure may prompt for a token
	ModeInteractive DeploymentMode = "interactive"

	// ModeCI represents CI/CD pipeline execution
	// - Token from flag or environment variables only
	// - No keychain access, no interactive prompts
	ModeCI DeploymentMode = "ci"
)

// DetectMode determines the execution context based on environment
func DetectMode() DeploymentMode {
	// Explicit mode override (highest priority)
	if mode := os.Getenv("DEPSCAN_MODE"); mode != "" {
		switch strings.ToLower(mode) {
		case "ci", "cicd":
			return ModeCI
		case "interactive", "local":
			return ModeInteractive
		}
	}

	if isCI() {
		return ModeCI
	}
	return ModeInteractive
}

// isCI detects if running in a CI/CD environment
func isCI() bool {
	ciEnvVars := []string{
		"CI",                     // Generic CI indicator
		"CONTINUOUS_INTEGRATION", // Generic CI indicator
		"GITHUB_ACTIONS",         // GitHub Actions
		"GITLAB_CI",              // GitLab CI
		"CIRCLECI",               // CircleCI
		"JENKINS_URL",            // Jenkins
		"BUILDKITE",              // Buildkite
		"TF_BUILD",               // Azure Pipelines
	}

	for _, envVar := range ciEnvVars {
		if os.Getenv(envVar) != "" {
			return true
		}
	}

	return false
}

// String returns the string representation of the mode
func (m DeploymentMode) String() string {
	return string(m)
}

// UsesKeychain returns true if the OS keychain may be consulted
func (m DeploymentMode) UsesKeychain() bool {
	return m == ModeInteractive
}

// AllowsInteractivePrompts returns true if interactive prompts are allowed
func (m DeploymentMode) AllowsInteractivePrompts() bool {
	return m == ModeInteractive
}
