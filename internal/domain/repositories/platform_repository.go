package repositories

import (
	"context"

	"github.com/rios0rios0/repoclass/internal/domain/entities"
)

// PlatformRepository abstracts a Git hosting platform (GitHub organizations
// with teams, GitLab groups with subgroups) behind one capability set. All
// provisioning operations are idempotent: ensuring something that already
// exists converges instead of erroring or duplicating.
//
// Every implementation wraps backend failures into the entities error
// taxonomy: HTTP 404 becomes NotFoundError, rejected credentials become
// AuthenticationError, unreachable hosts become ServiceUnreachableError and
// everything else becomes UnexpectedPlatformError.
type PlatformRepository interface {
	Name() string

	// EnsureTeam returns the existing team/group matching team.Name or
	// creates it. Never creates a duplicate.
	EnsureTeam(ctx context.Context, team entities.Team) (entities.TeamHandle, error)

	// EnsureTeamMembers grants the given members access to the team.
	// Adding an already-granted member is a no-op.
	EnsureTeamMembers(ctx context.Context, handle entities.TeamHandle, members []string) error

	// GetRepoURLs resolves clone URLs for the named repositories within the
	// target organization. An unresolvable name yields a NotFoundError, it
	// is never silently skipped.
	GetRepoURLs(ctx context.Context, repoNames []string) ([]entities.RemoteRepo, error)

	// CreateRepos creates the described repositories, returning one
	// RemoteRepo per descriptor in input order. A repository that already
	// exists under the target group is returned as-is (create-or-fetch).
	CreateRepos(ctx context.Context, repos []entities.StudentRepo) ([]entities.RemoteRepo, error)

	// OpenIssue opens the issue on the named repository. Repeated calls
	// open duplicate issues; issue creation is deliberately not idempotent.
	OpenIssue(ctx context.Context, repoName string, issue entities.Issue) error

	// ListIssues returns all issues of the named repository, open and
	// closed.
	ListIssues(ctx context.Context, repoName string) ([]entities.Issue, error)

	// CloseIssue transitions the numbered issue to closed.
	CloseIssue(ctx context.Context, repoName string, number int) error

	// AuthenticatedURL embeds the access token into an HTTPS clone URL.
	// The result is scoped to a single subprocess invocation and must
	// never be stored or logged.
	AuthenticatedURL(cloneURL string) string
}
