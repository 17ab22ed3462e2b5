package commands

import (
	"context"
	"errors"
	"fmt"
	"sync"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/repoclass/internal/domain/entities"
	"github.com/rios0rios0/repoclass/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/repoclass/internal/infrastructure/repositories"
)

// Update is the interface for the update command.
type Update interface {
	Execute(ctx context.Context, opts UpdateOptions) error
}

// UpdateOptions holds the inputs for one update run. Issue, when set, is
// opened in every student repository whose push failed.
type UpdateOptions struct {
	PlatformOptions
	MasterRepoNames []string
	Teams           []entities.Team
	TargetBranch    string
	Concurrency     int
	Issue           *entities.Issue
}

// UpdateCommand pushes current master content to the already-provisioned
// student repositories. Student repos that do not exist yet are skipped
// with a warning (their teams may not have been set up); the run fails only
// when no student repo at all is found.
type UpdateCommand struct {
	platformRegistry *infraRepos.PlatformRegistry
	git              repositories.GitRepository
}

// NewUpdateCommand creates a new UpdateCommand.
func NewUpdateCommand(
	platformRegistry *infraRepos.PlatformRegistry,
	git repositories.GitRepository,
) *UpdateCommand {
	return &UpdateCommand{platformRegistry: platformRegistry, git: git}
}

// studentRepoTarget pairs a resolved student repository with the master it
// was derived from.
type studentRepoTarget struct {
	RepoName   string
	CloneURL   string
	MasterName string
}

// Execute runs the update workflow.
func (it *UpdateCommand) Execute(ctx context.Context, opts UpdateOptions) error {
	if len(opts.Teams) == 0 {
		return &entities.ParseError{Message: "no student teams given"}
	}

	platform, err := resolvePlatform(it.platformRegistry, opts.PlatformOptions)
	if err != nil {
		return err
	}

	masters, err := resolveMasterRepos(ctx, platform, it.git, opts.MasterRepoNames)
	if err != nil {
		return err
	}

	targets, err := it.resolveStudentRepos(ctx, platform, masters, opts.Teams)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return entities.NewNotFoundError(
			"no student repositories found; run setup first", nil)
	}

	workDir, cleanup, err := makeWorkDir()
	if err != nil {
		return err
	}
	defer cleanup()

	masterPaths, err := cloneMasters(ctx, platform, it.git, masters, workDir)
	if err != nil {
		return err
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(normalizeConcurrency(opts.Concurrency))

	var mu sync.Mutex
	var failures []error
	var failedRepos []string

	for _, target := range targets {
		group.Go(func() error {
			pushURL := platform.AuthenticatedURL(target.CloneURL)
			if pushErr := it.git.Push(
				groupCtx, masterPaths[target.MasterName], pushURL, opts.TargetBranch,
			); pushErr != nil {
				mu.Lock()
				failures = append(failures, fmt.Errorf("repo %q: %w", target.RepoName, pushErr))
				failedRepos = append(failedRepos, target.RepoName)
				mu.Unlock()
				return nil
			}
			logger.Infof("Updated %s", target.RepoName)
			return nil
		})
	}
	_ = group.Wait()

	if opts.Issue != nil {
		it.openIssueOnFailed(ctx, platform, *opts.Issue, failedRepos)
	}

	return aggregate("update", failures)
}

// resolveStudentRepos resolves the derived student repo names one by one,
// skipping the ones that do not exist.
func (it *UpdateCommand) resolveStudentRepos(
	ctx context.Context,
	platform repositories.PlatformRepository,
	masters []masterRepo,
	teams []entities.Team,
) ([]studentRepoTarget, error) {
	masterNames := make([]string, 0, len(masters))
	for _, master := range masters {
		masterNames = append(masterNames, master.Name)
	}

	var targets []studentRepoTarget
	for _, name := range entities.RepoNames(masterNames, teams) {
		remotes, err := platform.GetRepoURLs(ctx, []string{name})
		if err != nil {
			var notFound *entities.NotFoundError
			if errors.As(err, &notFound) {
				logger.Warnf("Student repo %q not found, skipping", name)
				continue
			}
			return nil, err
		}

		master, _, ok := entities.SplitRepoName(name, masterNames)
		if !ok {
			continue
		}
		targets = append(targets, studentRepoTarget{
			RepoName:   name,
			CloneURL:   remotes[0].CloneURL,
			MasterName: master,
		})
	}
	return targets, nil
}

func (it *UpdateCommand) openIssueOnFailed(
	ctx context.Context,
	platform repositories.PlatformRepository,
	issue entities.Issue,
	repoNames []string,
) {
	for _, name := range repoNames {
		if err := platform.OpenIssue(ctx, name, issue); err != nil {
			logger.Errorf("Failed to open issue in %q: %v", name, err)
			continue
		}
		logger.Infof("Opened issue %q in %s", issue.Title, name)
	}
}
