package cli

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	apperrors "github.com/rohankatakam/depscan/internal/errors"
	"github.com/rohankatakam/depscan/internal/github"
)

// DetectRemoteURL returns the origin remote of the git checkout at dir
// ("" for the current directory) after checking it points at GitHub.
func DetectRemoteURL(ctx context.Context, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "config", "--get", "remote.origin.url")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return "", apperrors.ValidationErrorf("no repository URL given and no git remote found: %v", err)
	}

	remoteURL := strings.TrimSpace(string(output))
	if remoteURL == "" {
		return "", apperrors.ValidationError("remote.origin.url is empty")
	}

	if _, _, err := github.ParseRepoURL(remoteURL); err != nil {
		return "", fmt.Errorf("git remote %q: %w", remoteURL, err)
	}

	return remoteURL, nil
}
