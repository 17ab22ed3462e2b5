//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"strings"
	"sync"

	"github.com/rios0rios0/repoclass/internal/domain/repositories"
)

// CloneCall records a single invocation of Clone.
type CloneCall struct {
	URL  string
	Dest string
}

// PushCall records a single invocation of Push.
type PushCall struct {
	LocalPath string
	RemoteURL string
	Branch    string
}

// SpyGitRepository implements repositories.GitRepository as a configurable
// spy. Safe for concurrent use.
type SpyGitRepository struct {
	mu sync.Mutex

	// --- Clone ---
	CloneErr error
	// spy: calls received
	Clones []CloneCall

	// --- Push ---
	PushErr error
	// PushFailures fails pushes whose remote URL contains the key. Lets a
	// test break one student repo while its siblings succeed.
	PushFailures map[string]error
	// spy: calls received
	Pushes []PushCall

	// --- IsLocalRepo ---
	LocalRepos map[string]bool // path -> is a git repo
}

var _ repositories.GitRepository = (*SpyGitRepository)(nil)

func (g *SpyGitRepository) Clone(_ context.Context, url, dest string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Clones = append(g.Clones, CloneCall{URL: url, Dest: dest})
	return g.CloneErr
}

func (g *SpyGitRepository) Push(_ context.Context, localPath, remoteURL, branch string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Pushes = append(g.Pushes, PushCall{
		LocalPath: localPath,
		RemoteURL: remoteURL,
		Branch:    branch,
	})
	for fragment, err := range g.PushFailures {
		if strings.Contains(remoteURL, fragment) {
			return err
		}
	}
	return g.PushErr
}

func (g *SpyGitRepository) IsLocalRepo(path string) bool {
	if g.LocalRepos != nil {
		return g.LocalRepos[path]
	}
	return false
}
