package commands

import (
	"context"
	"fmt"
	"sync"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/repoclass/internal/domain/entities"
	"github.com/rios0rios0/repoclass/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/repoclass/internal/infrastructure/repositories"
)

// Setup is the interface for the setup command.
type Setup interface {
	Execute(ctx context.Context, opts SetupOptions) error
}

// SetupOptions holds the inputs for one setup run.
type SetupOptions struct {
	PlatformOptions
	MasterRepoNames []string
	Teams           []entities.Team
	TargetBranch    string
	Concurrency     int
}

// SetupCommand provisions one team/group per student team, one student
// repository per (team, master repo) pair, and the team memberships. Every
// step is create-or-skip against freshly queried remote state, so running
// setup twice converges to the same remote state.
//
// Teams are processed concurrently (bounded by Concurrency); within one
// team the order is strict: team before repos before members. One team's
// failure never blocks the others; all failures are aggregated at the end.
type SetupCommand struct {
	platformRegistry *infraRepos.PlatformRegistry
	git              repositories.GitRepository
}

// NewSetupCommand creates a new SetupCommand.
func NewSetupCommand(
	platformRegistry *infraRepos.PlatformRegistry,
	git repositories.GitRepository,
) *SetupCommand {
	return &SetupCommand{platformRegistry: platformRegistry, git: git}
}

// Execute runs the full setup workflow.
func (it *SetupCommand) Execute(ctx context.Context, opts SetupOptions) error {
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

	for _, team := range opts.Teams {
		group.Go(func() error {
			if provisionErr := it.provisionTeam(
				groupCtx, platform, team, masters, masterPaths, opts.TargetBranch,
			); provisionErr != nil {
				mu.Lock()
				failures = append(failures, fmt.Errorf("team %q: %w", team.Name, provisionErr))
				mu.Unlock()
			}
			return nil // a team's failure must not cancel its siblings
		})
	}
	_ = group.Wait()

	return aggregate("setup", failures)
}

// provisionTeam walks one team through the provisioning state machine:
// ensure team -> ensure repos (create-or-fetch, then push master content)
// -> ensure members.
func (it *SetupCommand) provisionTeam(
	ctx context.Context,
	platform repositories.PlatformRepository,
	team entities.Team,
	masters []masterRepo,
	masterPaths map[string]string,
	targetBranch string,
) error {
	handle, err := platform.EnsureTeam(ctx, team)
	if err != nil {
		return err
	}
	logger.Debugf("Ensured team %q", team.Name)

	descriptors := make([]entities.StudentRepo, 0, len(masters))
	for _, master := range masters {
		descriptors = append(descriptors, entities.StudentRepo{
			Name:        entities.RepoName(master.Name, team),
			Description: fmt.Sprintf("%s created for %s", master.Name, team.Name),
			Private:     true,
			TeamName:    team.Name,
		})
	}

	created, err := platform.CreateRepos(ctx, descriptors)
	if err != nil {
		return err
	}

	for i, repo := range created {
		pushURL := platform.AuthenticatedURL(repo.CloneURL)
		if pushErr := it.git.Push(ctx, masterPaths[masters[i].Name], pushURL, targetBranch); pushErr != nil {
			return pushErr
		}
		logger.Infof("Pushed %s to %s", masters[i].Name, repo.Name)
	}

	return platform.EnsureTeamMembers(ctx, handle, team.Members)
}
