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

// MasterTeamName is the team that collects all migrated master
// repositories in the target organization.
const MasterTeamName = "master-repos"

// Migrate is the interface for the migrate command.
type Migrate interface {
	Execute(ctx context.Context, opts MigrateOptions) error
}

// MigrateOptions holds the inputs for one migrate run. Exactly one of
// MasterRepoURLs and MasterRepoNames must be set: URLs are imported as-is,
// names are resolved within the target organization.
type MigrateOptions struct {
	PlatformOptions
	MasterRepoURLs  []string
	MasterRepoNames []string
	TargetBranch    string
	Concurrency     int
}

// MigrateCommand imports pre-existing repositories into the target
// organization: each source is cloned, a repository with the same name is
// created (or reused) under the organization and the content is pushed.
// No per-student teams or memberships are involved; migrated repos are
// attached to the shared master team. Re-running migrate refreshes the
// content of already-migrated repositories.
type MigrateCommand struct {
	platformRegistry *infraRepos.PlatformRegistry
	git              repositories.GitRepository
}

// NewMigrateCommand creates a new MigrateCommand.
func NewMigrateCommand(
	platformRegistry *infraRepos.PlatformRegistry,
	git repositories.GitRepository,
) *MigrateCommand {
	return &MigrateCommand{platformRegistry: platformRegistry, git: git}
}

// Execute runs the migrate workflow.
func (it *MigrateCommand) Execute(ctx context.Context, opts MigrateOptions) error {
	platform, err := resolvePlatform(it.platformRegistry, opts.PlatformOptions)
	if err != nil {
		return err
	}

	sources, err := it.resolveSources(ctx, platform, opts)
	if err != nil {
		return err
	}

	if _, err = platform.EnsureTeam(ctx, entities.Team{Name: MasterTeamName}); err != nil {
		return err
	}

	workDir, cleanup, err := makeWorkDir()
	if err != nil {
		return err
	}
	defer cleanup()

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(normalizeConcurrency(opts.Concurrency))

	var mu sync.Mutex
	var failures []error

	for _, source := range sources {
		group.Go(func() error {
			if migrateErr := it.migrateOne(
				groupCtx, platform, source, workDir, opts.TargetBranch,
			); migrateErr != nil {
				mu.Lock()
				failures = append(failures, fmt.Errorf("repo %q: %w", source.Name, migrateErr))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = group.Wait()

	return aggregate("migrate", failures)
}

func (it *MigrateCommand) resolveSources(
	ctx context.Context,
	platform repositories.PlatformRepository,
	opts MigrateOptions,
) ([]masterRepo, error) {
	switch {
	case len(opts.MasterRepoURLs) > 0:
		if err := checkDuplicates(opts.MasterRepoURLs, "master repo urls"); err != nil {
			return nil, &entities.ParseError{Message: err.Error()}
		}
		sources := make([]masterRepo, 0, len(opts.MasterRepoURLs))
		for _, url := range opts.MasterRepoURLs {
			sources = append(sources, masterRepo{
				Name:     entities.RepoNameFromURL(url),
				CloneURL: url,
			})
		}
		return sources, nil
	case len(opts.MasterRepoNames) > 0:
		return resolveMasterRepos(ctx, platform, it.git, opts.MasterRepoNames)
	default:
		return nil, &entities.ParseError{Message: "no master repo urls or names given"}
	}
}

func (it *MigrateCommand) migrateOne(
	ctx context.Context,
	platform repositories.PlatformRepository,
	source masterRepo,
	workDir string,
	targetBranch string,
) error {
	url := source.CloneURL
	if !source.Local {
		url = platform.AuthenticatedURL(url)
	}
	localPath := filepath.Join(workDir, source.Name)
	if err := it.git.Clone(ctx, url, localPath); err != nil {
		return err
	}

	created, err := platform.CreateRepos(ctx, []entities.StudentRepo{{
		Name:        source.Name,
		Description: "Master repository " + source.Name,
		Private:     true,
		TeamName:    MasterTeamName,
	}})
	if err != nil {
		return err
	}

	pushURL := platform.AuthenticatedURL(created[0].CloneURL)
	if err := it.git.Push(ctx, localPath, pushURL, targetBranch); err != nil {
		return err
	}

	logger.Infof("Migrated %s", source.Name)
	return nil
}
