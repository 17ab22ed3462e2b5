//go:build unit

package commands_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/repoclass/internal/domain/commands"
	"github.com/rios0rios0/repoclass/internal/domain/entities"
	"github.com/rios0rios0/repoclass/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/repoclass/internal/infrastructure/repositories"
	doubles "github.com/rios0rios0/repoclass/test/infrastructure/repositorydoubles"
)

// registryWith wires a spy platform into a fresh registry under "github".
func registryWith(platform repositories.PlatformRepository) *infraRepos.PlatformRegistry {
	registry := infraRepos.NewPlatformRegistry()
	registry.Register("github", func(_, _, _ string) (repositories.PlatformRepository, error) {
		return platform, nil
	})
	return registry
}

func githubOptions() commands.PlatformOptions {
	return commands.PlatformOptions{
		Provider:     "github",
		Organization: "test-org",
		Token:        "tok",
	}
}

func mustTeams(t *testing.T, specs ...string) []entities.Team {
	t.Helper()
	teams, err := entities.NewTeams(specs)
	require.NoError(t, err)
	return teams
}

func TestSetupCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should provision team, repos and members for every team", func(t *testing.T) {
		t.Parallel()

		// given
		platform := &doubles.SpyPlatformRepository{
			PlatformName: "github",
			Token:        "tok",
			RepoURLs: map[string]string{
				"task-1": "https://example.com/test-org/task-1.git",
			},
		}
		git := &doubles.SpyGitRepository{}
		cmd := commands.NewSetupCommand(registryWith(platform), git)

		// when
		err := cmd.Execute(context.Background(), commands.SetupOptions{
			PlatformOptions: githubOptions(),
			MasterRepoNames: []string{"task-1"},
			Teams:           mustTeams(t, "alice", "bob"),
			TargetBranch:    "master",
		})

		// then
		require.NoError(t, err)
		assert.Len(t, platform.EnsuredTeams, 2)
		require.Len(t, platform.CreatedRepos, 2)
		names := []string{platform.CreatedRepos[0].Name, platform.CreatedRepos[1].Name}
		assert.ElementsMatch(t, []string{"task-1-alice", "task-1-bob"}, names)
		// one clone per master, one push per student repo
		assert.Len(t, git.Clones, 1)
		assert.Len(t, git.Pushes, 2)
		assert.Len(t, platform.MemberGrants, 2)
	})

	t.Run("should converge on a second run without duplicating", func(t *testing.T) {
		t.Parallel()

		// given
		platform := &doubles.SpyPlatformRepository{
			PlatformName: "github",
			Token:        "tok",
			RepoURLs: map[string]string{
				"task-1":       "https://example.com/test-org/task-1.git",
				"task-1-alice": "https://example.com/test-org/task-1-alice.git",
			},
		}
		git := &doubles.SpyGitRepository{}
		cmd := commands.NewSetupCommand(registryWith(platform), git)
		opts := commands.SetupOptions{
			PlatformOptions: githubOptions(),
			MasterRepoNames: []string{"task-1"},
			Teams:           mustTeams(t, "alice"),
			TargetBranch:    "master",
		}

		// when
		require.NoError(t, cmd.Execute(context.Background(), opts))
		err := cmd.Execute(context.Background(), opts)

		// then both runs succeed against the same remote state
		require.NoError(t, err)
		assert.Len(t, platform.EnsuredTeams, 2)
		assert.Len(t, platform.MemberGrants, 2)
	})

	t.Run("should isolate one team's push failure from its siblings", func(t *testing.T) {
		t.Parallel()

		// given
		platform := &doubles.SpyPlatformRepository{
			PlatformName: "github",
			Token:        "tok",
			RepoURLs: map[string]string{
				"task-1": "https://example.com/test-org/task-1.git",
			},
		}
		git := &doubles.SpyGitRepository{
			PushFailures: map[string]error{
				"task-1-alice": errors.New("remote rejected"),
			},
		}
		cmd := commands.NewSetupCommand(registryWith(platform), git)

		// when
		err := cmd.Execute(context.Background(), commands.SetupOptions{
			PlatformOptions: githubOptions(),
			MasterRepoNames: []string{"task-1"},
			Teams:           mustTeams(t, "alice", "bob"),
			TargetBranch:    "master",
		})

		// then the failing team is reported, the other is fully provisioned
		require.Error(t, err)
		assert.Contains(t, err.Error(), `team "alice"`)
		assert.Contains(t, err.Error(), "1 failure(s)")
		require.Len(t, platform.MemberGrants, 1)
		assert.Equal(t, "bob", platform.MemberGrants[0].TeamName)
	})

	t.Run("should fall back to a local master repo", func(t *testing.T) {
		t.Parallel()

		// given a master that does not exist remotely but is a local repo
		localPath, absErr := filepath.Abs("task-local")
		require.NoError(t, absErr)
		platform := &doubles.SpyPlatformRepository{
			PlatformName: "github",
			Token:        "tok",
		}
		git := &doubles.SpyGitRepository{
			LocalRepos: map[string]bool{localPath: true},
		}
		cmd := commands.NewSetupCommand(registryWith(platform), git)

		// when
		err := cmd.Execute(context.Background(), commands.SetupOptions{
			PlatformOptions: githubOptions(),
			MasterRepoNames: []string{"task-local"},
			Teams:           mustTeams(t, "alice"),
			TargetBranch:    "master",
		})

		// then the local path is cloned without credentials
		require.NoError(t, err)
		require.Len(t, git.Clones, 1)
		assert.Equal(t, localPath, git.Clones[0].URL)
	})

	t.Run("should reject an empty team list", func(t *testing.T) {
		t.Parallel()

		// given
		cmd := commands.NewSetupCommand(
			registryWith(&doubles.SpyPlatformRepository{}), &doubles.SpyGitRepository{})

		// when
		err := cmd.Execute(context.Background(), commands.SetupOptions{
			PlatformOptions: githubOptions(),
			MasterRepoNames: []string{"task-1"},
		})

		// then
		var parseErr *entities.ParseError
		require.ErrorAs(t, err, &parseErr)
	})

	t.Run("should reject duplicate master repo names", func(t *testing.T) {
		t.Parallel()

		// given
		cmd := commands.NewSetupCommand(
			registryWith(&doubles.SpyPlatformRepository{}), &doubles.SpyGitRepository{})

		// when
		err := cmd.Execute(context.Background(), commands.SetupOptions{
			PlatformOptions: githubOptions(),
			MasterRepoNames: []string{"task-1", "task-1"},
			Teams:           mustTeams(t, "alice"),
		})

		// then
		var parseErr *entities.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Contains(t, parseErr.Message, "duplicates")
	})

	t.Run("should fail when a master resolves neither remotely nor locally", func(t *testing.T) {
		t.Parallel()

		// given
		cmd := commands.NewSetupCommand(
			registryWith(&doubles.SpyPlatformRepository{}), &doubles.SpyGitRepository{})

		// when
		err := cmd.Execute(context.Background(), commands.SetupOptions{
			PlatformOptions: githubOptions(),
			MasterRepoNames: []string{"ghost"},
			Teams:           mustTeams(t, "alice"),
		})

		// then
		var parseErr *entities.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Contains(t, parseErr.Message, "ghost")
	})

	t.Run("should fail for an unknown provider", func(t *testing.T) {
		t.Parallel()

		// given
		cmd := commands.NewSetupCommand(
			infraRepos.NewPlatformRegistry(), &doubles.SpyGitRepository{})

		// when
		err := cmd.Execute(context.Background(), commands.SetupOptions{
			PlatformOptions: commands.PlatformOptions{Provider: "bitbucket"},
			MasterRepoNames: []string{"task-1"},
			Teams:           mustTeams(t, "alice"),
		})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown platform type")
	})
}
