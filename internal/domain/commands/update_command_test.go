//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/repoclass/internal/domain/commands"
	"github.com/rios0rios0/repoclass/internal/domain/entities"
	doubles "github.com/rios0rios0/repoclass/test/infrastructure/repositorydoubles"
)

func TestUpdateCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should push master content to every existing student repo", func(t *testing.T) {
		t.Parallel()

		// given
		platform := &doubles.SpyPlatformRepository{
			PlatformName: "github",
			Token:        "tok",
			RepoURLs: map[string]string{
				"task-1":       "https://example.com/test-org/task-1.git",
				"task-1-alice": "https://example.com/test-org/task-1-alice.git",
				"task-1-bob":   "https://example.com/test-org/task-1-bob.git",
			},
		}
		git := &doubles.SpyGitRepository{}
		cmd := commands.NewUpdateCommand(registryWith(platform), git)

		// when
		err := cmd.Execute(context.Background(), commands.UpdateOptions{
			PlatformOptions: githubOptions(),
			MasterRepoNames: []string{"task-1"},
			Teams:           mustTeams(t, "alice", "bob"),
			TargetBranch:    "master",
		})

		// then
		require.NoError(t, err)
		assert.Len(t, git.Clones, 1)
		assert.Len(t, git.Pushes, 2)
		// no team or membership changes on update
		assert.Empty(t, platform.EnsuredTeams)
		assert.Empty(t, platform.MemberGrants)
	})

	t.Run("should skip student repos that do not exist", func(t *testing.T) {
		t.Parallel()

		// given bob's repo was never set up
		platform := &doubles.SpyPlatformRepository{
			PlatformName: "github",
			Token:        "tok",
			RepoURLs: map[string]string{
				"task-1":       "https://example.com/test-org/task-1.git",
				"task-1-alice": "https://example.com/test-org/task-1-alice.git",
			},
		}
		git := &doubles.SpyGitRepository{}
		cmd := commands.NewUpdateCommand(registryWith(platform), git)

		// when
		err := cmd.Execute(context.Background(), commands.UpdateOptions{
			PlatformOptions: githubOptions(),
			MasterRepoNames: []string{"task-1"},
			Teams:           mustTeams(t, "alice", "bob"),
			TargetBranch:    "master",
		})

		// then
		require.NoError(t, err)
		require.Len(t, git.Pushes, 1)
		assert.Contains(t, git.Pushes[0].RemoteURL, "task-1-alice")
	})

	t.Run("should fail when no student repo exists at all", func(t *testing.T) {
		t.Parallel()

		// given
		platform := &doubles.SpyPlatformRepository{
			PlatformName: "github",
			Token:        "tok",
			RepoURLs: map[string]string{
				"task-1": "https://example.com/test-org/task-1.git",
			},
		}
		cmd := commands.NewUpdateCommand(registryWith(platform), &doubles.SpyGitRepository{})

		// when
		err := cmd.Execute(context.Background(), commands.UpdateOptions{
			PlatformOptions: githubOptions(),
			MasterRepoNames: []string{"task-1"},
			Teams:           mustTeams(t, "alice"),
			TargetBranch:    "master",
		})

		// then
		var notFound *entities.NotFoundError
		require.ErrorAs(t, err, &notFound)
	})

	t.Run("should open the issue in repos whose push failed", func(t *testing.T) {
		t.Parallel()

		// given
		platform := &doubles.SpyPlatformRepository{
			PlatformName: "github",
			Token:        "tok",
			RepoURLs: map[string]string{
				"task-1":       "https://example.com/test-org/task-1.git",
				"task-1-alice": "https://example.com/test-org/task-1-alice.git",
				"task-1-bob":   "https://example.com/test-org/task-1-bob.git",
			},
		}
		git := &doubles.SpyGitRepository{
			PushFailures: map[string]error{
				"task-1-bob": errors.New("remote rejected"),
			},
		}
		cmd := commands.NewUpdateCommand(registryWith(platform), git)
		issue := entities.Issue{Title: "Update failed", Body: "Resolve conflicts and pull."}

		// when
		err := cmd.Execute(context.Background(), commands.UpdateOptions{
			PlatformOptions: githubOptions(),
			MasterRepoNames: []string{"task-1"},
			Teams:           mustTeams(t, "alice", "bob"),
			TargetBranch:    "master",
			Issue:           &issue,
		})

		// then the run reports the failure and files the issue only there
		require.Error(t, err)
		require.Len(t, platform.OpenedIssues, 1)
		assert.Equal(t, "task-1-bob", platform.OpenedIssues[0].RepoName)
		assert.Equal(t, "Update failed", platform.OpenedIssues[0].Issue.Title)
	})

	t.Run("should not open issues when every push succeeded", func(t *testing.T) {
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
		cmd := commands.NewUpdateCommand(registryWith(platform), git)
		issue := entities.Issue{Title: "Update failed"}

		// when
		err := cmd.Execute(context.Background(), commands.UpdateOptions{
			PlatformOptions: githubOptions(),
			MasterRepoNames: []string{"task-1"},
			Teams:           mustTeams(t, "alice"),
			TargetBranch:    "master",
			Issue:           &issue,
		})

		// then
		require.NoError(t, err)
		assert.Empty(t, platform.OpenedIssues)
	})
}
