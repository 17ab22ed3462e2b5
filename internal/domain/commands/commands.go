// Package commands holds the provisioning and issue-lifecycle engines. The
// engines are stateless: every run re-queries remote state and performs
// create-or-skip operations against it, so re-running any command with the
// same inputs converges instead of duplicating (issue opening excepted, see
// OpenIssuesCommand).
package commands

import (
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/repoclass/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/repoclass/internal/infrastructure/repositories"
)

// DefaultConcurrency bounds how many teams/repos are processed in parallel
// when the configuration does not set a limit. Kept low to respect platform
// rate limits.
const DefaultConcurrency = 4

// PlatformOptions selects and authenticates the target platform for a run.
// Token is sensitive: it is handed to the adapter and embedded into push
// URLs immediately before use, never stored or logged.
type PlatformOptions struct {
	Provider     string
	BaseURL      string
	Organization string
	Token        string
}

func resolvePlatform(
	registry *infraRepos.PlatformRegistry,
	opts PlatformOptions,
) (repositories.PlatformRepository, error) {
	return registry.Get(opts.Provider, opts.BaseURL, opts.Token, opts.Organization)
}

func normalizeConcurrency(limit int) int {
	if limit < 1 {
		return DefaultConcurrency
	}
	return limit
}

// aggregate reports every collected failure and folds them into a single
// error, or nil when the batch fully succeeded.
func aggregate(operation string, failures []error) error {
	if len(failures) == 0 {
		return nil
	}
	for _, failure := range failures {
		logger.Errorf("%s: %v", operation, failure)
	}
	return fmt.Errorf("%s finished with %d failure(s): %w",
		operation, len(failures), errors.Join(failures...))
}

func checkDuplicates(names []string, what string) error {
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%s contains duplicates: %q", what, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}
