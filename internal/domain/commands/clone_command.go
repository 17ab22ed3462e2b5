package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/repoclass/internal/domain/entities"
	"github.com/rios0rios0/repoclass/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/repoclass/internal/infrastructure/repositories"
)

// Clone is the interface for the clone command.
type Clone interface {
	Execute(ctx context.Context, opts CloneOptions) error
}

// CloneOptions holds the inputs for one bulk clone run.
type CloneOptions struct {
	PlatformOptions
	MasterRepoNames []string
	Teams           []entities.Team
	TargetDir       string
	Concurrency     int
}

// CloneCommand clones every student repository derived from the given
// masters and teams into TargetDir. Repositories are cloned concurrently;
// one failed clone never stops the others.
type CloneCommand struct {
	platformRegistry *infraRepos.PlatformRegistry
	git              repositories.GitRepository
}

// NewCloneCommand creates a new CloneCommand.
func NewCloneCommand(
	platformRegistry *infraRepos.PlatformRegistry,
	git repositories.GitRepository,
) *CloneCommand {
	return &CloneCommand{platformRegistry: platformRegistry, git: git}
}

// Execute runs the bulk clone.
func (it *CloneCommand) Execute(ctx context.Context, opts CloneOptions) error {
	if len(opts.MasterRepoNames) == 0 {
		return &entities.ParseError{Message: "no master repo names given"}
	}
	if len(opts.Teams) == 0 {
		return &entities.ParseError{Message: "no student teams given"}
	}

	platform, err := resolvePlatform(it.platformRegistry, opts.PlatformOptions)
	if err != nil {
		return err
	}

	targetDir := opts.TargetDir
	if targetDir == "" {
		targetDir = "."
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(normalizeConcurrency(opts.Concurrency))

	var mu sync.Mutex
	var failures []error

	for _, name := range entities.RepoNames(opts.MasterRepoNames, opts.Teams) {
		group.Go(func() error {
			if cloneErr := it.cloneOne(groupCtx, platform, name, targetDir); cloneErr != nil {
				mu.Lock()
				failures = append(failures, fmt.Errorf("repo %q: %w", name, cloneErr))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = group.Wait()

	return aggregate("clone", failures)
}

func (it *CloneCommand) cloneOne(
	ctx context.Context,
	platform repositories.PlatformRepository,
	repoName, targetDir string,
) error {
	remotes, err := platform.GetRepoURLs(ctx, []string{repoName})
	if err != nil {
		return err
	}

	url := platform.AuthenticatedURL(remotes[0].CloneURL)
	if err := it.git.Clone(ctx, url, filepath.Join(targetDir, repoName)); err != nil {
		return err
	}

	logger.Infof("Cloned %s", repoName)
	return nil
}
