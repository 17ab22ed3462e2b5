// Package gitcli implements the git transport primitive by shelling out to
// the git binary. It owns only the error interpretation around that call:
// non-zero exits become CloneFailedError/PushFailedError carrying the
// return code and sanitized stderr.
package gitcli

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	git "github.com/go-git/go-git/v5"

	"github.com/rios0rios0/repoclass/internal/domain/entities"
	"github.com/rios0rios0/repoclass/internal/domain/repositories"
)

// unknownReturnCode is reported when the subprocess could not be started at
// all (e.g. git missing from PATH), so there is no real exit status.
const unknownReturnCode = -1

// GitCliRepository implements repositories.GitRepository with the system
// git binary.
type GitCliRepository struct{}

// NewGitCliRepository creates the exec-based git transport.
func NewGitCliRepository() repositories.GitRepository {
	return &GitCliRepository{}
}

// Clone clones url into dest. The URL may carry embedded credentials; they
// never survive into the returned error.
func (g *GitCliRepository) Clone(ctx context.Context, url, dest string) error {
	returnCode, stderr, err := runGit(ctx, "", "clone", "--", url, dest)
	if err != nil {
		return entities.NewCloneFailedError(
			"failed to clone "+entities.RedactCredentials(url),
			returnCode, stderr, url,
		)
	}
	return nil
}

// Push pushes branch from the repository at localPath to remoteURL.
func (g *GitCliRepository) Push(ctx context.Context, localPath, remoteURL, branch string) error {
	returnCode, stderr, err := runGit(ctx, localPath, "push", "--", remoteURL, branch)
	if err != nil {
		return entities.NewPushFailedError(
			"failed to push to "+entities.RedactCredentials(remoteURL),
			returnCode, stderr, remoteURL,
		)
	}
	return nil
}

// IsLocalRepo reports whether path holds a git repository.
func (g *GitCliRepository) IsLocalRepo(path string) bool {
	_, err := git.PlainOpen(path)
	return err == nil
}

// runGit executes git with the given arguments, returning the exit code and
// captured stderr on failure.
func runGit(ctx context.Context, dir string, args ...string) (int, []byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		returnCode := unknownReturnCode
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			returnCode = exitErr.ExitCode()
		}
		out := stderr.Bytes()
		if len(out) == 0 {
			out = []byte(err.Error())
		}
		return returnCode, out, err
	}
	return 0, nil, nil
}
