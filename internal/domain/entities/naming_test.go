package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/repoclass/internal/domain/entities"
)

func team(t *testing.T, members ...string) entities.Team {
	t.Helper()
	built, err := entities.NewTeam(members)
	require.NoError(t, err)
	return built
}

func TestRepoName(t *testing.T) {
	t.Parallel()

	t.Run("should join master name and team name", func(t *testing.T) {
		t.Parallel()

		// when
		name := entities.RepoName("task-1", team(t, "slarse"))

		// then
		assert.Equal(t, "task-1-slarse", name)
	})
}

func TestRepoNames(t *testing.T) {
	t.Parallel()

	t.Run("should produce the cross product masters-major", func(t *testing.T) {
		t.Parallel()

		// given
		masters := []string{"task-1", "task-2"}
		teams := []entities.Team{team(t, "alice"), team(t, "bob")}

		// when
		names := entities.RepoNames(masters, teams)

		// then
		assert.Equal(t, []string{
			"task-1-alice", "task-1-bob",
			"task-2-alice", "task-2-bob",
		}, names)
	})
}

func TestSplitRepoName(t *testing.T) {
	t.Parallel()

	t.Run("should invert RepoName", func(t *testing.T) {
		t.Parallel()

		// given
		students := team(t, "alice", "bob")
		name := entities.RepoName("task-1", students)

		// when
		master, teamName, ok := entities.SplitRepoName(name, []string{"task-1"})

		// then
		require.True(t, ok)
		assert.Equal(t, "task-1", master)
		assert.Equal(t, students.Name, teamName)
	})

	t.Run("should prefer the longest master prefix", func(t *testing.T) {
		t.Parallel()

		// given master names that are prefixes of each other
		masters := []string{"task", "task-extra"}

		// when
		master, teamName, ok := entities.SplitRepoName("task-extra-alice", masters)

		// then
		require.True(t, ok)
		assert.Equal(t, "task-extra", master)
		assert.Equal(t, "alice", teamName)
	})

	t.Run("should report ok=false for an unrelated name", func(t *testing.T) {
		t.Parallel()

		// when
		_, _, ok := entities.SplitRepoName("other-repo", []string{"task-1"})

		// then
		assert.False(t, ok)
	})
}

func TestRepoNameFromURL(t *testing.T) {
	t.Parallel()

	t.Run("should strip the .git suffix", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "repo", entities.RepoNameFromURL("https://github.com/org/repo.git"))
	})

	t.Run("should strip a trailing slash", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "repo", entities.RepoNameFromURL("https://gitlab.com/group/repo/"))
	})

	t.Run("should handle a local path", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "repo", entities.RepoNameFromURL("/home/teacher/repo"))
	})
}
