// Package repostate determines the current branch name used in the cache
// key by shelling out to git.
package repostate

import (
	"os/exec"
	"strings"
)

// CurrentBranch returns the checked-out branch name for repoRoot, or
// "unknown" if repoRoot is not a git repository or HEAD is detached.
// "unknown" is a legitimate cache-key component, not an error condition.
func CurrentBranch(repoRoot string) string {
	cmd := exec.Command("git", "rev-parse", "--abbrev-ref", "HEAD")
	cmd.Dir = repoRoot

	output, err := cmd.Output()
	if err != nil {
		return "unknown"
	}

	branch := strings.TrimSpace(string(output))
	if branch == "" || branch == "HEAD" {
		return "unknown"
	}
	return branch
}

// IsGitRepository reports whether repoRoot is inside a git working tree.
func IsGitRepository(repoRoot string) bool {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = repoRoot
	return cmd.Run() == nil
}
