package repositories

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/repoclass/internal/infrastructure/repositories/gitcli"
	ghRepo "github.com/rios0rios0/repoclass/internal/infrastructure/repositories/github"
	glRepo "github.com/rios0rios0/repoclass/internal/infrastructure/repositories/gitlab"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register the platform registry with all platform factories
	if err := container.Provide(func() *PlatformRegistry {
		reg := NewPlatformRegistry()
		reg.Register("github", ghRepo.NewGitHubPlatformRepository)
		reg.Register("gitlab", glRepo.NewGitLabPlatformRepository)
		return reg
	}); err != nil {
		return err
	}

	// Register the git transport (exec-based)
	if err := container.Provide(gitcli.NewGitCliRepository); err != nil {
		return err
	}

	return nil
}
