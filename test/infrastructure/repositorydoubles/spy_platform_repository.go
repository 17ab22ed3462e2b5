//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations — no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"strings"
	"sync"

	"github.com/rios0rios0/repoclass/internal/domain/entities"
	"github.com/rios0rios0/repoclass/internal/domain/repositories"
)

// OpenIssueCall records a single invocation of OpenIssue.
type OpenIssueCall struct {
	RepoName string
	Issue    entities.Issue
}

// CloseIssueCall records a single invocation of CloseIssue.
type CloseIssueCall struct {
	RepoName string
	Number   int
}

// MemberGrant records a single invocation of EnsureTeamMembers.
type MemberGrant struct {
	TeamName string
	Members  []string
}

// SpyPlatformRepository implements repositories.PlatformRepository as a
// configurable spy. Configure the response fields for the methods your test
// exercises, then inspect the call-tracking fields to verify behavior.
// Safe for concurrent use; the engines call it from worker goroutines.
type SpyPlatformRepository struct {
	mu sync.Mutex

	// --- identity ---
	PlatformName string
	Token        string

	// --- EnsureTeam ---
	EnsureTeamErr error
	// spy: teams that were ensured
	EnsuredTeams []entities.Team

	// --- EnsureTeamMembers ---
	EnsureMembersErr error
	// spy: member grants received
	MemberGrants []MemberGrant

	// --- GetRepoURLs ---
	// RepoURLs maps a known repo name to its clone URL; names not in the
	// map yield a NotFoundError, matching real adapter behavior.
	RepoURLs      map[string]string
	GetRepoURLErr error
	// spy: names that were requested
	RequestedRepoNames []string

	// --- CreateRepos ---
	CreateReposErr error
	// spy: descriptors received
	CreatedRepos []entities.StudentRepo

	// --- OpenIssue ---
	OpenIssueErr error
	// spy: calls received
	OpenedIssues []OpenIssueCall

	// --- ListIssues ---
	Issues       map[string][]entities.Issue // repo name -> issues
	ListIssueErr error

	// --- CloseIssue ---
	CloseIssueErr error
	// spy: calls received
	ClosedIssues []CloseIssueCall
}

var _ repositories.PlatformRepository = (*SpyPlatformRepository)(nil)

func (p *SpyPlatformRepository) Name() string { return p.PlatformName }

func (p *SpyPlatformRepository) EnsureTeam(
	_ context.Context, team entities.Team,
) (entities.TeamHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.EnsuredTeams = append(p.EnsuredTeams, team)
	if p.EnsureTeamErr != nil {
		return entities.TeamHandle{}, p.EnsureTeamErr
	}
	return entities.TeamHandle{
		ID:   int64(len(p.EnsuredTeams)),
		Name: team.Name,
	}, nil
}

func (p *SpyPlatformRepository) EnsureTeamMembers(
	_ context.Context, handle entities.TeamHandle, members []string,
) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.MemberGrants = append(p.MemberGrants, MemberGrant{
		TeamName: handle.Name,
		Members:  members,
	})
	return p.EnsureMembersErr
}

func (p *SpyPlatformRepository) GetRepoURLs(
	_ context.Context, repoNames []string,
) ([]entities.RemoteRepo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.RequestedRepoNames = append(p.RequestedRepoNames, repoNames...)
	if p.GetRepoURLErr != nil {
		return nil, p.GetRepoURLErr
	}
	remotes := make([]entities.RemoteRepo, 0, len(repoNames))
	for _, name := range repoNames {
		url, ok := p.RepoURLs[name]
		if !ok {
			return nil, entities.NewNotFoundError("repository not found: "+name, nil)
		}
		remotes = append(remotes, entities.RemoteRepo{Name: name, CloneURL: url})
	}
	return remotes, nil
}

func (p *SpyPlatformRepository) CreateRepos(
	_ context.Context, repos []entities.StudentRepo,
) ([]entities.RemoteRepo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.CreatedRepos = append(p.CreatedRepos, repos...)
	if p.CreateReposErr != nil {
		return nil, p.CreateReposErr
	}
	remotes := make([]entities.RemoteRepo, 0, len(repos))
	for _, repo := range repos {
		url, ok := p.RepoURLs[repo.Name]
		if !ok {
			url = "https://example.com/test-org/" + repo.Name + ".git"
		}
		remotes = append(remotes, entities.RemoteRepo{Name: repo.Name, CloneURL: url})
	}
	return remotes, nil
}

func (p *SpyPlatformRepository) OpenIssue(
	_ context.Context, repoName string, issue entities.Issue,
) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.OpenedIssues = append(p.OpenedIssues, OpenIssueCall{
		RepoName: repoName,
		Issue:    issue,
	})
	return p.OpenIssueErr
}

func (p *SpyPlatformRepository) ListIssues(
	_ context.Context, repoName string,
) ([]entities.Issue, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ListIssueErr != nil {
		return nil, p.ListIssueErr
	}
	return p.Issues[repoName], nil
}

func (p *SpyPlatformRepository) CloseIssue(
	_ context.Context, repoName string, number int,
) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ClosedIssues = append(p.ClosedIssues, CloseIssueCall{
		RepoName: repoName,
		Number:   number,
	})
	return p.CloseIssueErr
}

func (p *SpyPlatformRepository) AuthenticatedURL(cloneURL string) string {
	return strings.Replace(cloneURL, "https://", "https://oauth2:"+p.Token+"@", 1)
}
