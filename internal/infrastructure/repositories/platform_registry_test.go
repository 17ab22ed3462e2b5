package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainRepos "github.com/rios0rios0/repoclass/internal/domain/repositories"
	"github.com/rios0rios0/repoclass/internal/infrastructure/repositories"
	"github.com/rios0rios0/repoclass/internal/infrastructure/repositories/github"
)

func TestPlatformRegistry(t *testing.T) {
	t.Parallel()

	t.Run("should return a configured platform for a registered name", func(t *testing.T) {
		t.Parallel()

		// given
		registry := repositories.NewPlatformRegistry()
		registry.Register("github", github.NewGitHubPlatformRepository)

		// when
		platform, err := registry.Get("github", "", "tok", "org")

		// then
		require.NoError(t, err)
		assert.Equal(t, "github", platform.Name())
	})

	t.Run("should list available platforms on an unknown name", func(t *testing.T) {
		t.Parallel()

		// given
		registry := repositories.NewPlatformRegistry()
		registry.Register("github", github.NewGitHubPlatformRepository)

		// when
		_, err := registry.Get("bitbucket", "", "tok", "org")

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown platform type")
		assert.Contains(t, err.Error(), "github")
	})

	t.Run("should return sorted names", func(t *testing.T) {
		t.Parallel()

		// given
		registry := repositories.NewPlatformRegistry()
		registry.Register("gitlab", func(_, _, _ string) (domainRepos.PlatformRepository, error) {
			return nil, nil //nolint:nilnil // factory never invoked in this test
		})
		registry.Register("github", func(_, _, _ string) (domainRepos.PlatformRepository, error) {
			return nil, nil //nolint:nilnil // factory never invoked in this test
		})

		// then
		assert.Equal(t, []string{"github", "gitlab"}, registry.Names())
	})
}
