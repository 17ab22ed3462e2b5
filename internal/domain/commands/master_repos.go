package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/repoclass/internal/domain/entities"
	"github.com/rios0rios0/repoclass/internal/domain/repositories"
)

// masterRepo is a resolved master (template) repository: either a remote
// repository in the target organization or a local working copy.
type masterRepo struct {
	Name     string
	CloneURL string
	Local    bool
}

// resolveMasterRepos resolves each master repo name against the platform,
// falling back to a local git repository of the same name in the working
// directory. A name that resolves to neither fails the whole run.
func resolveMasterRepos(
	ctx context.Context,
	platform repositories.PlatformRepository,
	git repositories.GitRepository,
	names []string,
) ([]masterRepo, error) {
	if len(names) == 0 {
		return nil, &entities.ParseError{Message: "no master repo names given"}
	}
	if err := checkDuplicates(names, "master repo names"); err != nil {
		return nil, &entities.ParseError{Message: err.Error()}
	}

	masters := make([]masterRepo, 0, len(names))
	for _, name := range names {
		remotes, err := platform.GetRepoURLs(ctx, []string{name})
		if err == nil {
			masters = append(masters, masterRepo{
				Name:     name,
				CloneURL: remotes[0].CloneURL,
			})
			continue
		}

		var notFound *entities.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}

		localPath, absErr := filepath.Abs(name)
		if absErr == nil && git.IsLocalRepo(localPath) {
			logger.Infof("Using local master repo %s", localPath)
			masters = append(masters, masterRepo{
				Name:     name,
				CloneURL: localPath,
				Local:    true,
			})
			continue
		}

		return nil, &entities.ParseError{
			Message: fmt.Sprintf("could not find master repo %q remotely or locally", name),
		}
	}
	return masters, nil
}

// cloneMasters clones every master repository once into workDir, returning
// the local path per master name.
func cloneMasters(
	ctx context.Context,
	platform repositories.PlatformRepository,
	git repositories.GitRepository,
	masters []masterRepo,
	workDir string,
) (map[string]string, error) {
	paths := make(map[string]string, len(masters))
	for _, master := range masters {
		url := master.CloneURL
		if !master.Local {
			// Credentials live only for the duration of the subprocess.
			url = platform.AuthenticatedURL(url)
		}
		dest := filepath.Join(workDir, master.Name)
		logger.Infof("Cloning master repo %s", master.Name)
		if err := git.Clone(ctx, url, dest); err != nil {
			return nil, err
		}
		paths[master.Name] = dest
	}
	return paths, nil
}

func makeWorkDir() (string, func(), error) {
	workDir, err := os.MkdirTemp("", "repoclass-")
	if err != nil {
		return "", nil, &entities.FileError{
			Message: fmt.Sprintf("failed to create working directory: %v", err),
		}
	}
	return workDir, func() { _ = os.RemoveAll(workDir) }, nil
}
