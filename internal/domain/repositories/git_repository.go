package repositories

import (
	"context"
)

// GitRepository is the git transport primitive. Implementations shell out
// to a git binary and only own the error interpretation around that call:
// a non-zero exit becomes a CloneFailedError or PushFailedError with the
// return code, sanitized stderr detail and sanitized URL.
type GitRepository interface {
	// Clone clones url into dest.
	Clone(ctx context.Context, url, dest string) error

	// Push pushes branch from the repository at localPath to remoteURL.
	Push(ctx context.Context, localPath, remoteURL, branch string) error

	// IsLocalRepo reports whether path is a local git repository.
	IsLocalRepo(path string) bool
}
