package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v66/github"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/rios0rios0/repoclass/internal/domain/entities"
	"github.com/rios0rios0/repoclass/internal/domain/repositories"
)

const (
	platformName = "github"
	perPage      = 100
	// teamPermission is the access level granted on student repositories.
	teamPermission = "push"
)

// GitHubPlatformRepository implements repositories.PlatformRepository on
// top of a GitHub organization: teams map to org teams, student repos to
// org repositories.
type GitHubPlatformRepository struct {
	token        string
	organization string
	client       *gh.Client
}

// NewGitHubPlatformRepository creates a GitHub platform adapter. baseURL is
// empty for github.com or the API root of an Enterprise instance. API calls
// go through a retrying HTTP client to absorb transient backend failures.
func NewGitHubPlatformRepository(baseURL, token, organization string) (repositories.PlatformRepository, error) {
	retrying := retryablehttp.NewClient()
	retrying.Logger = nil

	client := gh.NewClient(retrying.StandardClient()).WithAuthToken(token)
	if baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, entities.NewServiceUnreachableError(
				fmt.Sprintf("invalid GitHub base URL %q", baseURL), err)
		}
	}

	return &GitHubPlatformRepository{
		token:        token,
		organization: organization,
		client:       client,
	}, nil
}

func (p *GitHubPlatformRepository) Name() string { return platformName }

// EnsureTeam returns the existing team with the given name or creates it.
func (p *GitHubPlatformRepository) EnsureTeam(
	ctx context.Context,
	team entities.Team,
) (entities.TeamHandle, error) {
	existing, resp, err := p.client.Teams.GetTeamBySlug(ctx, p.organization, team.Name)
	if err == nil {
		return entities.TeamHandle{ID: existing.GetID(), Name: team.Name}, nil
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		return entities.TeamHandle{}, p.wrapError(
			fmt.Sprintf("failed to look up team %q", team.Name), err)
	}

	created, _, err := p.client.Teams.CreateTeam(ctx, p.organization, gh.NewTeam{
		Name:    team.Name,
		Privacy: gh.String("closed"),
	})
	if err != nil {
		return entities.TeamHandle{}, p.wrapError(
			fmt.Sprintf("failed to create team %q", team.Name), err)
	}
	return entities.TeamHandle{ID: created.GetID(), Name: team.Name}, nil
}

// EnsureTeamMembers adds each member to the team. GitHub treats adding an
// existing member as a no-op.
func (p *GitHubPlatformRepository) EnsureTeamMembers(
	ctx context.Context,
	handle entities.TeamHandle,
	members []string,
) error {
	for _, member := range members {
		_, _, err := p.client.Teams.AddTeamMembershipBySlug(
			ctx, p.organization, handle.Name, member, nil,
		)
		if err != nil {
			return p.wrapError(
				fmt.Sprintf("failed to add %q to team %q", member, handle.Name), err)
		}
	}
	return nil
}

func (p *GitHubPlatformRepository) GetRepoURLs(
	ctx context.Context,
	repoNames []string,
) ([]entities.RemoteRepo, error) {
	repos := make([]entities.RemoteRepo, 0, len(repoNames))
	for _, name := range repoNames {
		repo, _, err := p.client.Repositories.Get(ctx, p.organization, name)
		if err != nil {
			return nil, p.wrapError(fmt.Sprintf("failed to resolve repo %q", name), err)
		}
		repos = append(repos, entities.RemoteRepo{
			Name:     repo.GetName(),
			CloneURL: repo.GetCloneURL(),
		})
	}
	return repos, nil
}

// CreateRepos creates each described repository, returning the existing one
// when the name is already taken under the organization.
func (p *GitHubPlatformRepository) CreateRepos(
	ctx context.Context,
	descriptors []entities.StudentRepo,
) ([]entities.RemoteRepo, error) {
	repos := make([]entities.RemoteRepo, 0, len(descriptors))
	for _, descriptor := range descriptors {
		remote, err := p.createOrFetch(ctx, descriptor)
		if err != nil {
			return nil, err
		}
		if descriptor.TeamName != "" {
			if grantErr := p.grantTeamAccess(ctx, descriptor.TeamName, remote.Name); grantErr != nil {
				return nil, grantErr
			}
		}
		repos = append(repos, remote)
	}
	return repos, nil
}

func (p *GitHubPlatformRepository) createOrFetch(
	ctx context.Context,
	descriptor entities.StudentRepo,
) (entities.RemoteRepo, error) {
	created, resp, err := p.client.Repositories.Create(ctx, p.organization, &gh.Repository{
		Name:        gh.String(descriptor.Name),
		Description: gh.String(descriptor.Description),
		Private:     gh.Bool(descriptor.Private),
	})
	if err == nil {
		return entities.RemoteRepo{
			Name:     created.GetName(),
			CloneURL: created.GetCloneURL(),
		}, nil
	}

	// 422 means the name is already taken: fetch the existing repository.
	if resp != nil && resp.StatusCode == http.StatusUnprocessableEntity {
		existing, _, getErr := p.client.Repositories.Get(ctx, p.organization, descriptor.Name)
		if getErr != nil {
			return entities.RemoteRepo{}, p.wrapError(
				fmt.Sprintf("failed to fetch existing repo %q", descriptor.Name), getErr)
		}
		return entities.RemoteRepo{
			Name:     existing.GetName(),
			CloneURL: existing.GetCloneURL(),
		}, nil
	}

	return entities.RemoteRepo{}, p.wrapError(
		fmt.Sprintf("failed to create repo %q", descriptor.Name), err)
}

func (p *GitHubPlatformRepository) grantTeamAccess(
	ctx context.Context,
	teamName, repoName string,
) error {
	_, err := p.client.Teams.AddTeamRepoBySlug(
		ctx, p.organization, teamName, p.organization, repoName,
		&gh.TeamAddTeamRepoOptions{Permission: teamPermission},
	)
	if err != nil {
		return p.wrapError(
			fmt.Sprintf("failed to grant team %q access to %q", teamName, repoName), err)
	}
	return nil
}

func (p *GitHubPlatformRepository) OpenIssue(
	ctx context.Context,
	repoName string,
	issue entities.Issue,
) error {
	_, _, err := p.client.Issues.Create(ctx, p.organization, repoName, &gh.IssueRequest{
		Title: gh.String(issue.Title),
		Body:  gh.String(issue.Body),
	})
	if err != nil {
		return p.wrapError(fmt.Sprintf("failed to open issue in %q", repoName), err)
	}
	return nil
}

func (p *GitHubPlatformRepository) ListIssues(
	ctx context.Context,
	repoName string,
) ([]entities.Issue, error) {
	var issues []entities.Issue
	opts := &gh.IssueListByRepoOptions{
		State:       "all",
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	for {
		page, resp, err := p.client.Issues.ListByRepo(ctx, p.organization, repoName, opts)
		if err != nil {
			return nil, p.wrapError(fmt.Sprintf("failed to list issues in %q", repoName), err)
		}

		for _, issue := range page {
			if issue.IsPullRequest() {
				continue
			}
			issues = append(issues, entities.Issue{
				Number: issue.GetNumber(),
				Title:  issue.GetTitle(),
				Body:   issue.GetBody(),
				State:  entities.IssueState(issue.GetState()),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return issues, nil
}

func (p *GitHubPlatformRepository) CloseIssue(
	ctx context.Context,
	repoName string,
	number int,
) error {
	_, _, err := p.client.Issues.Edit(ctx, p.organization, repoName, number, &gh.IssueRequest{
		State: gh.String("closed"),
	})
	if err != nil {
		return p.wrapError(
			fmt.Sprintf("failed to close issue #%d in %q", number, repoName), err)
	}
	return nil
}

// AuthenticatedURL embeds the token into an HTTPS clone URL. Local and SSH
// URLs are returned unchanged.
func (p *GitHubPlatformRepository) AuthenticatedURL(cloneURL string) string {
	return strings.Replace(
		cloneURL,
		"https://",
		"https://x-access-token:"+p.token+"@",
		1,
	)
}

// wrapError maps a go-github error onto the domain taxonomy. Backend errors
// never escape in raw form.
func (p *GitHubPlatformRepository) wrapError(message string, err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return entities.NewServiceUnreachableError(
			message+": service could not be reached", err)
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		status := ghErr.Response.StatusCode
		switch status {
		case http.StatusNotFound:
			return entities.NewNotFoundError(message, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return entities.NewAuthenticationError(
				message+": credentials rejected", status, err)
		default:
			return entities.NewUnexpectedPlatformError(message, status, err)
		}
	}

	return entities.NewUnexpectedPlatformError(message, 0, err)
}
