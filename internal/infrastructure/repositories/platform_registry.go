package repositories

import (
	"fmt"
	"sort"

	domainRepos "github.com/rios0rios0/repoclass/internal/domain/repositories"
)

// PlatformFactory is a constructor that creates a PlatformRepository for a
// base URL, auth token and target organization/group.
type PlatformFactory func(baseURL, token, organization string) (domainRepos.PlatformRepository, error)

// PlatformRegistry manages all registered Git platform implementations.
type PlatformRegistry struct {
	platforms map[string]PlatformFactory
}

// NewPlatformRegistry creates an empty platform registry.
func NewPlatformRegistry() *PlatformRegistry {
	return &PlatformRegistry{
		platforms: make(map[string]PlatformFactory),
	}
}

// Register adds a platform factory under the given name (e.g. "github").
func (r *PlatformRegistry) Register(name string, factory PlatformFactory) {
	r.platforms[name] = factory
}

// Get returns a configured platform instance for the given name.
func (r *PlatformRegistry) Get(name, baseURL, token, organization string) (domainRepos.PlatformRepository, error) {
	factory, ok := r.platforms[name]
	if !ok {
		return nil, fmt.Errorf("unknown platform type: %q (available: %v)", name, r.Names())
	}
	return factory(baseURL, token, organization)
}

// Names returns the sorted list of registered platform names.
func (r *PlatformRegistry) Names() []string {
	names := make([]string, 0, len(r.platforms))
	for name := range r.platforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
