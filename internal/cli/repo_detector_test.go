package cli

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/rohankatakam/depscan/internal/errors"
)

func initRepo(t *testing.T, remote string) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	run("init", "-q")
	if remote != "" {
		run("remote", "add", "origin", remote)
	}
	return dir
}

func TestDetectRemoteURL(t *testing.T) {
	tests := []struct {
		name    string
		remote  string
		wantErr bool
	}{
		{"https remote", "https://github.com/octo/widget.git", false},
		{"ssh remote", "git@github.com:octo/widget.git", false},
		{"no remote", "", true},
		{"other host", "https://gitlab.com/octo/widget.git", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := initRepo(t, tt.remote)

			got, err := DetectRemoteURL(context.Background(), dir)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.remote, got)
		})
	}
}
