package entities

// StudentRepo describes a repository that should exist on the platform.
type StudentRepo struct {
	Name        string
	Description string
	Private     bool
	// TeamName is the owning team/group; empty for organization-level
	// repositories (e.g. migrated master repos without a team).
	TeamName string
}

// RemoteRepo is a repository that exists on the platform. CloneURL never
// carries credentials; push URLs are derived immediately before use via
// PlatformRepository.AuthenticatedURL and must not be stored.
type RemoteRepo struct {
	Name     string
	CloneURL string
}
