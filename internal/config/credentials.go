package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	apperrors "github.com/rohankatakam/depscan/internal/errors"
)

// TokenSource names where a GitHub token was found
type TokenSource string

const (
	TokenSourceFlag     TokenSource = "flag"
	TokenSourceEnv      TokenSource = "env"
	TokenSourceKeychain TokenSource = "keychain"
	TokenSourceConfig   TokenSource = "config"
	TokenSourceNone     TokenSource = "none"
)

// tokenEnvVars are checked in order
var tokenEnvVars = []string{"GITHUB_TOKEN", "GH_TOKEN"}

// CredentialManager handles credential retrieval with priority chain
// Priority: --token flag → Environment Variables → Keychain → Config File
type CredentialManager struct {
	mode       DeploymentMode
	keyring    *KeyringManager
	configPath string
}

// NewCredentialManager creates a new credential manager
func NewCredentialManager() *CredentialManager {
	return &CredentialManager{
		mode:       DetectMode(),
		keyring:    NewKeyringManager(),
		configPath: DefaultPath(),
	}
}

// ResolveGitHubToken returns the token to use and where it came from.
// No token at all is valid: public repositories can be scanned anonymously.
func (cm *CredentialManager) ResolveGitHubToken(flagToken string, cfg *Config) (string, TokenSource) {
	// 1. Explicit flag
	if flagToken != "" {
		return flagToken, TokenSourceFlag
	}

	// 2. Environment variable
	for _, envVar := range tokenEnvVars {
		if token := os.Getenv(envVar); token != "" {
			return token, TokenSourceEnv
		}
	}

	// 3. Keychain (macOS/Linux), skipped in CI
	if cm.mode.UsesKeychain() && cm.keyring.IsAvailable() {
		if token, err := cm.keyring.GetGitHubToken(); err == nil && token != "" {
			return token, TokenSourceKeychain
		}
	}

	// 4. Config file
	if cfg != nil && cfg.GitHub.Token != "" {
		return cfg.GitHub.Token, TokenSourceConfig
	}

	return "", TokenSourceNone
}

// SaveGitHubToken saves the token to keychain (preferred) or the user config file (fallback)
func (cm *CredentialManager) SaveGitHubToken(token string) (TokenSource, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return TokenSourceNone, apperrors.ValidationError("github token cannot be empty")
	}

	if cm.mode.UsesKeychain() && cm.keyring.IsAvailable() {
		if err := cm.keyring.SetGitHubToken(token); err != nil {
			return TokenSourceNone, apperrors.ConfigError(err, "failed to save GitHub token to keychain")
		}
		return TokenSourceKeychain, nil
	}

	// Fallback: Save to config file
	cfg, err := cm.loadUserConfig()
	if err != nil {
		return TokenSourceNone, apperrors.ConfigError(err, "failed to load config file")
	}
	cfg.GitHub.Token = token
	if err := cfg.Save(cm.configPath); err != nil {
		return TokenSourceNone, apperrors.ConfigError(err, "failed to save GitHub token to config file")
	}
	return TokenSourceConfig, nil
}

// DeleteGitHubToken removes a stored token from the keychain and the user config file
func (cm *CredentialManager) DeleteGitHubToken() error {
	if cm.mode.UsesKeychain() && cm.keyring.IsAvailable() {
		if err := cm.keyring.DeleteGitHubToken(); err != nil {
			return apperrors.ConfigError(err, "failed to delete GitHub token from keychain")
		}
	}

	if _, err := os.Stat(cm.configPath); err != nil {
		return nil
	}
	cfg, err := cm.loadUserConfig()
	if err != nil {
		return apperrors.ConfigError(err, "failed to load config file")
	}
	if cfg.GitHub.Token == "" {
		return nil
	}
	cfg.GitHub.Token = ""
	if err := cfg.Save(cm.configPath); err != nil {
		return apperrors.ConfigError(err, "failed to remove GitHub token from config file")
	}
	return nil
}

// loadUserConfig reads the user config file, or defaults when it does not exist yet
func (cm *CredentialManager) loadUserConfig() (*Config, error) {
	if _, err := os.Stat(cm.configPath); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(cm.configPath)
}

// PromptGitHubToken asks for a token on the terminal without echoing it.
// Piped input is read as a single line.
func (cm *CredentialManager) PromptGitHubToken(out io.Writer) (string, error) {
	if !cm.mode.AllowsInteractivePrompts() {
		return "", apperrors.ConfigError(nil, "no token given and prompts are disabled in CI, pass --token")
	}

	fmt.Fprintln(out, "Create a token at: https://github.com/settings/tokens")
	fmt.Fprint(out, "Enter GitHub Token: ")

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		bytes, err := term.ReadPassword(fd)
		fmt.Fprintln(out) // New line after password input
		if err != nil {
			return "", fmt.Errorf("read token: %w", err)
		}
		return strings.TrimSpace(string(bytes)), nil
	}

	return readToken(os.Stdin)
}

// readToken reads one line of piped input
func readToken(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Mode returns the current deployment mode
func (cm *CredentialManager) Mode() DeploymentMode {
	return cm.mode
}

// ConfigPath returns the path to the user config file
func (cm *CredentialManager) ConfigPath() string {
	return cm.configPath
}
