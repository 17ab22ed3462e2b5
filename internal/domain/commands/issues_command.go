package commands

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/repoclass/internal/domain/entities"
	"github.com/rios0rios0/repoclass/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/repoclass/internal/infrastructure/repositories"
)

// OpenIssues is the interface for the open-issues command.
type OpenIssues interface {
	Execute(ctx context.Context, opts OpenIssuesOptions) error
}

// CloseIssues is the interface for the close-issues command.
type CloseIssues interface {
	Execute(ctx context.Context, opts CloseIssuesOptions) error
}

// ListIssues is the interface for the list-issues command.
type ListIssues interface {
	Execute(ctx context.Context, opts ListIssuesOptions) (map[string][]entities.Issue, error)
}

// OpenIssuesOptions holds the inputs for one open-issues run.
type OpenIssuesOptions struct {
	PlatformOptions
	MasterRepoNames []string
	Teams           []entities.Team
	Issue           entities.Issue
	Concurrency     int
}

// CloseIssuesOptions holds the inputs for one close-issues run.
type CloseIssuesOptions struct {
	PlatformOptions
	MasterRepoNames []string
	Teams           []entities.Team
	TitleRegex      string
	Concurrency     int
}

// ListIssuesOptions holds the inputs for one list-issues run.
type ListIssuesOptions struct {
	PlatformOptions
	MasterRepoNames []string
	Teams           []entities.Team
	Concurrency     int
}

// OpenIssuesCommand opens the given issue once in every student repository
// derived from the masters and teams. Unlike provisioning, issue creation
// is not idempotent: re-running the command opens duplicate issues, since
// issues represent recurring announcements rather than desired state.
type OpenIssuesCommand struct {
	platformRegistry *infraRepos.PlatformRegistry
}

// NewOpenIssuesCommand creates a new OpenIssuesCommand.
func NewOpenIssuesCommand(platformRegistry *infraRepos.PlatformRegistry) *OpenIssuesCommand {
	return &OpenIssuesCommand{platformRegistry: platformRegistry}
}

// Execute opens the issue in every target repository.
func (it *OpenIssuesCommand) Execute(ctx context.Context, opts OpenIssuesOptions) error {
	if opts.Issue.Title == "" {
		return &entities.ParseError{Message: "issue title must not be empty"}
	}

	platform, repoNames, err := resolveIssueTargets(
		it.platformRegistry, opts.PlatformOptions, opts.MasterRepoNames, opts.Teams,
	)
	if err != nil {
		return err
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(normalizeConcurrency(opts.Concurrency))

	var mu sync.Mutex
	var failures []error

	for _, name := range repoNames {
		group.Go(func() error {
			if openErr := platform.OpenIssue(groupCtx, name, opts.Issue); openErr != nil {
				mu.Lock()
				failures = append(failures, fmt.Errorf("repo %q: %w", name, openErr))
				mu.Unlock()
				return nil
			}
			logger.Infof("Opened issue %q in %s", opts.Issue.Title, name)
			return nil
		})
	}
	_ = group.Wait()

	return aggregate("open-issues", failures)
}

// CloseIssuesCommand closes every open issue whose title matches the given
// regex, in every student repository derived from the masters and teams.
// Issues whose titles do not match are left untouched, whatever their
// state.
type CloseIssuesCommand struct {
	platformRegistry *infraRepos.PlatformRegistry
}

// NewCloseIssuesCommand creates a new CloseIssuesCommand.
func NewCloseIssuesCommand(platformRegistry *infraRepos.PlatformRegistry) *CloseIssuesCommand {
	return &CloseIssuesCommand{platformRegistry: platformRegistry}
}

// Execute closes the matching issues in every target repository.
func (it *CloseIssuesCommand) Execute(ctx context.Context, opts CloseIssuesOptions) error {
	pattern, err := regexp.Compile(opts.TitleRegex)
	if err != nil {
		return &entities.ParseError{
			Message: fmt.Sprintf("invalid title regex %q: %v", opts.TitleRegex, err),
		}
	}

	platform, repoNames, err := resolveIssueTargets(
		it.platformRegistry, opts.PlatformOptions, opts.MasterRepoNames, opts.Teams,
	)
	if err != nil {
		return err
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(normalizeConcurrency(opts.Concurrency))

	var mu sync.Mutex
	var failures []error

	for _, name := range repoNames {
		group.Go(func() error {
			if closeErr := closeMatching(groupCtx, platform, name, pattern); closeErr != nil {
				mu.Lock()
				failures = append(failures, fmt.Errorf("repo %q: %w", name, closeErr))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = group.Wait()

	return aggregate("close-issues", failures)
}

func closeMatching(
	ctx context.Context,
	platform repositories.PlatformRepository,
	repoName string,
	pattern *regexp.Regexp,
) error {
	issues, err := platform.ListIssues(ctx, repoName)
	if err != nil {
		return err
	}

	for _, issue := range issues {
		if issue.State != entities.IssueStateOpen || !pattern.MatchString(issue.Title) {
			continue
		}
		if closeErr := platform.CloseIssue(ctx, repoName, issue.Number); closeErr != nil {
			return closeErr
		}
		logger.Infof("Closed issue #%d %q in %s", issue.Number, issue.Title, repoName)
	}
	return nil
}

// ListIssuesCommand lists the issues of every student repository derived
// from the masters and teams, mostly for verification after bulk
// operations.
type ListIssuesCommand struct {
	platformRegistry *infraRepos.PlatformRegistry
}

// NewListIssuesCommand creates a new ListIssuesCommand.
func NewListIssuesCommand(platformRegistry *infraRepos.PlatformRegistry) *ListIssuesCommand {
	return &ListIssuesCommand{platformRegistry: platformRegistry}
}

// Execute returns the issues of every target repository, keyed by repo
// name.
func (it *ListIssuesCommand) Execute(
	ctx context.Context,
	opts ListIssuesOptions,
) (map[string][]entities.Issue, error) {
	platform, repoNames, err := resolveIssueTargets(
		it.platformRegistry, opts.PlatformOptions, opts.MasterRepoNames, opts.Teams,
	)
	if err != nil {
		return nil, err
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(normalizeConcurrency(opts.Concurrency))

	result := make(map[string][]entities.Issue, len(repoNames))
	var mu sync.Mutex
	var failures []error

	for _, name := range repoNames {
		group.Go(func() error {
			issues, listErr := platform.ListIssues(groupCtx, name)
			mu.Lock()
			defer mu.Unlock()
			if listErr != nil {
				failures = append(failures, fmt.Errorf("repo %q: %w", name, listErr))
				return nil
			}
			result[name] = issues
			return nil
		})
	}
	_ = group.Wait()

	return result, aggregate("list-issues", failures)
}

// resolveIssueTargets validates the shared issue-command inputs and derives
// the target student repository names.
func resolveIssueTargets(
	registry *infraRepos.PlatformRegistry,
	platformOpts PlatformOptions,
	masterRepoNames []string,
	teams []entities.Team,
) (repositories.PlatformRepository, []string, error) {
	if len(masterRepoNames) == 0 {
		return nil, nil, &entities.ParseError{Message: "no master repo names given"}
	}
	if len(teams) == 0 {
		return nil, nil, &entities.ParseError{Message: "no student teams given"}
	}

	platform, err := resolvePlatform(registry, platformOpts)
	if err != nil {
		return nil, nil, err
	}
	return platform, entities.RepoNames(masterRepoNames, teams), nil
}
