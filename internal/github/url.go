package github

import (
	"net/url"
	"strings"

	apperrors "github.com/rohankatakam/depscan/internal/errors"
)

const githubHost = "github.com"

// ParseRepoURL extracts owner and repository name from a GitHub URL.
//
// Supported forms:
//
//	https://github.com/owner/repo[.git][/]
//	github.com/owner/repo
//	git@github.com:owner/repo.git
//
// Anything else is a validation error; no network call is made.
func ParseRepoURL(raw string) (owner, name string, err error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", "", apperrors.ValidationError("repository URL is empty")
	}

	var host, path string
	if strings.HasPrefix(s, "git@") {
		// git@github.com:owner/repo.git
		var ok bool
		host, path, ok = strings.Cut(strings.TrimPrefix(s, "git@"), ":")
		if !ok {
			return "", "", apperrors.ValidationErrorf("invalid SSH URL %q", raw)
		}
	} else {
		if !strings.Contains(s, "://") {
			s = "https://" + s
		}
		u, perr := url.Parse(s)
		if perr != nil {
			return "", "", apperrors.ValidationErrorf("invalid repository URL %q", raw)
		}
		if u.Scheme != "https" && u.Scheme != "http" {
			return "", "", apperrors.ValidationErrorf("unsupported URL scheme %q in %q", u.Scheme, raw)
		}
		host, path = u.Host, u.Path
	}

	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	if host != githubHost {
		return "", "", apperrors.ValidationErrorf("not a GitHub repository URL: %q", raw)
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", apperrors.ValidationErrorf("invalid repository path %q, expected https://github.com/owner/repo", path)
	}

	return parts[0], parts[1], nil
}
