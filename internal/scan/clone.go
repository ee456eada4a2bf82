package scan

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"
)

// runGitCommand is injectable in tests.
var runGitCommand = func(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}

// CloneGitHub shallow-clones a GitHub repository into a fresh temp directory
// and returns its path. The directory is left in place for inspection.
func CloneGitHub(ctx context.Context, rawURL string) (string, error) {
	cloneURL, repo, err := normalizeGitHubURL(rawURL)
	if err != nil {
		return "", err
	}
	dir, err := os.MkdirTemp("", "repo_"+repo+"_")
	if err != nil {
		return "", fmt.Errorf("scan: mkdir temp: %w", err)
	}
	if err := runGitCommand(ctx, "clone", "--depth", "1", cloneURL, dir); err != nil {
		return "", err
	}
	return dir, nil
}

func normalizeGitHubURL(raw string) (cloneURL, repoName string, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", fmt.Errorf("scan: repo url required")
	}

	if strings.HasPrefix(raw, "git@github.com:") {
		repoPath := strings.TrimSuffix(strings.TrimPrefix(raw, "git@github.com:"), ".git")
		owner, repo, ok := splitOwnerRepo(repoPath)
		if !ok {
			return "", "", fmt.Errorf("scan: invalid github url %q", raw)
		}
		return fmt.Sprintf("git@github.com:%s/%s.git", owner, repo), repo, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("scan: invalid repo url: %w", err)
	}
	if !strings.EqualFold(strings.TrimSpace(u.Host), "github.com") {
		return "", "", fmt.Errorf("scan: only github.com is supported")
	}
	owner, repo, ok := splitOwnerRepo(strings.TrimSuffix(u.Path, ".git"))
	if !ok {
		return "", "", fmt.Errorf("scan: invalid github url %q", raw)
	}
	return fmt.Sprintf("https://github.com/%s/%s.git", owner, repo), repo, nil
}

func splitOwnerRepo(repoPath string) (owner, repo string, ok bool) {
	parts := strings.Split(strings.Trim(repoPath, "/"), "/")
	if len(parts) < 2 {
		return "", "", false
	}
	owner = strings.TrimSpace(parts[0])
	repo = strings.TrimSpace(parts[1])
	if owner == "" || repo == "" {
		return "", "", false
	}
	return owner, repo, true
}
