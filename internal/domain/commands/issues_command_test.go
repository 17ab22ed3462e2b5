//go:build unit

package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/repoclass/internal/domain/commands"
	"github.com/rios0rios0/repoclass/internal/domain/entities"
	doubles "github.com/rios0rios0/repoclass/test/infrastructure/repositorydoubles"
)

func TestOpenIssuesCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should open the issue in every derived student repo", func(t *testing.T) {
		t.Parallel()

		// given
		platform := &doubles.SpyPlatformRepository{PlatformName: "github", Token: "tok"}
		cmd := commands.NewOpenIssuesCommand(registryWith(platform))
		issue := entities.Issue{Title: "Deadline", Body: "Friday 17:00."}

		// when
		err := cmd.Execute(context.Background(), commands.OpenIssuesOptions{
			PlatformOptions: githubOptions(),
			MasterRepoNames: []string{"task-1", "task-2"},
			Teams:           mustTeams(t, "alice", "bob"),
			Issue:           issue,
		})

		// then one issue per (master, team) pair
		require.NoError(t, err)
		require.Len(t, platform.OpenedIssues, 4)
		for _, call := range platform.OpenedIssues {
			assert.Equal(t, "Deadline", call.Issue.Title)
		}
	})

	t.Run("should open duplicates on a second run", func(t *testing.T) {
		t.Parallel()

		// given issue creation is deliberately not idempotent
		platform := &doubles.SpyPlatformRepository{PlatformName: "github", Token: "tok"}
		cmd := commands.NewOpenIssuesCommand(registryWith(platform))
		opts := commands.OpenIssuesOptions{
			PlatformOptions: githubOptions(),
			MasterRepoNames: []string{"task-1"},
			Teams:           mustTeams(t, "alice"),
			Issue:           entities.Issue{Title: "Deadline"},
		}

		// when
		require.NoError(t, cmd.Execute(context.Background(), opts))
		require.NoError(t, cmd.Execute(context.Background(), opts))

		// then
		assert.Len(t, platform.OpenedIssues, 2)
	})

	t.Run("should reject an empty title", func(t *testing.T) {
		t.Parallel()

		// given
		cmd := commands.NewOpenIssuesCommand(registryWith(&doubles.SpyPlatformRepository{}))

		// when
		err := cmd.Execute(context.Background(), commands.OpenIssuesOptions{
			PlatformOptions: githubOptions(),
			MasterRepoNames: []string{"task-1"},
			Teams:           mustTeams(t, "alice"),
		})

		// then
		var parseErr *entities.ParseError
		require.ErrorAs(t, err, &parseErr)
	})
}

func TestCloseIssuesCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should close only open issues with matching titles", func(t *testing.T) {
		t.Parallel()

		// given
		platform := &doubles.SpyPlatformRepository{
			PlatformName: "github",
			Token:        "tok",
			Issues: map[string][]entities.Issue{
				"task-1-alice": {
					{Number: 1, Title: "Bug A", State: entities.IssueStateOpen},
					{Number: 2, Title: "Bug B", State: entities.IssueStateOpen},
					{Number: 3, Title: "Bug A again", State: entities.IssueStateClosed},
				},
			},
		}
		cmd := commands.NewCloseIssuesCommand(registryWith(platform))

		// when
		err := cmd.Execute(context.Background(), commands.CloseIssuesOptions{
			PlatformOptions: githubOptions(),
			MasterRepoNames: []string{"task-1"},
			Teams:           mustTeams(t, "alice"),
			TitleRegex:      "Bug A",
		})

		// then #2 does not match and #3 is already closed
		require.NoError(t, err)
		require.Len(t, platform.ClosedIssues, 1)
		assert.Equal(t, "task-1-alice", platform.ClosedIssues[0].RepoName)
		assert.Equal(t, 1, platform.ClosedIssues[0].Number)
	})

	t.Run("should reject an invalid regex", func(t *testing.T) {
		t.Parallel()

		// given
		cmd := commands.NewCloseIssuesCommand(registryWith(&doubles.SpyPlatformRepository{}))

		// when
		err := cmd.Execute(context.Background(), commands.CloseIssuesOptions{
			PlatformOptions: githubOptions(),
			MasterRepoNames: []string{"task-1"},
			Teams:           mustTeams(t, "alice"),
			TitleRegex:      "[unclosed",
		})

		// then
		var parseErr *entities.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Contains(t, parseErr.Message, "invalid title regex")
	})

	t.Run("should do nothing for repos without issues", func(t *testing.T) {
		t.Parallel()

		// given
		platform := &doubles.SpyPlatformRepository{PlatformName: "github", Token: "tok"}
		cmd := commands.NewCloseIssuesCommand(registryWith(platform))

		// when
		err := cmd.Execute(context.Background(), commands.CloseIssuesOptions{
			PlatformOptions: githubOptions(),
			MasterRepoNames: []string{"task-1"},
			Teams:           mustTeams(t, "alice"),
			TitleRegex:      ".*",
		})

		// then
		require.NoError(t, err)
		assert.Empty(t, platform.ClosedIssues)
	})
}

func TestListIssuesCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should return the issues keyed by repo name", func(t *testing.T) {
		t.Parallel()

		// given
		platform := &doubles.SpyPlatformRepository{
			PlatformName: "github",
			Token:        "tok",
			Issues: map[string][]entities.Issue{
				"task-1-alice": {{Number: 1, Title: "Bug A", State: entities.IssueStateOpen}},
			},
		}
		cmd := commands.NewListIssuesCommand(registryWith(platform))

		// when
		result, err := cmd.Execute(context.Background(), commands.ListIssuesOptions{
			PlatformOptions: githubOptions(),
			MasterRepoNames: []string{"task-1"},
			Teams:           mustTeams(t, "alice", "bob"),
		})

		// then every derived repo gets an entry, empty ones included
		require.NoError(t, err)
		require.Len(t, result["task-1-alice"], 1)
		assert.Equal(t, "Bug A", result["task-1-alice"][0].Title)
		assert.Empty(t, result["task-1-bob"])
	})

	t.Run("should reject a run without teams", func(t *testing.T) {
		t.Parallel()

		// given
		cmd := commands.NewListIssuesCommand(registryWith(&doubles.SpyPlatformRepository{}))

		// when
		_, err := cmd.Execute(context.Background(), commands.ListIssuesOptions{
			PlatformOptions: githubOptions(),
			MasterRepoNames: []string{"task-1"},
		})

		// then
		var parseErr *entities.ParseError
		require.ErrorAs(t, err, &parseErr)
	})
}
