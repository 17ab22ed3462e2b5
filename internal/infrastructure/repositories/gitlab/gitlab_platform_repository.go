package gitlab

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/rios0rios0/repoclass/internal/domain/entities"
	"github.com/rios0rios0/repoclass/internal/domain/repositories"
)

const (
	platformName = "gitlab"
	perPage      = 100
)

// GitLabPlatformRepository implements repositories.PlatformRepository on
// top of a GitLab group: teams map to subgroups of the base group, student
// repos to projects inside those subgroups.
type GitLabPlatformRepository struct {
	token  string
	group  string
	client *gl.Client
}

// NewGitLabPlatformRepository creates a GitLab platform adapter. baseURL is
// empty for gitlab.com or the API root of a self-hosted instance.
func NewGitLabPlatformRepository(baseURL, token, group string) (repositories.PlatformRepository, error) {
	retrying := retryablehttp.NewClient()
	retrying.Logger = nil

	opts := []gl.ClientOptionFunc{gl.WithHTTPClient(retrying.StandardClient())}
	if baseURL != "" {
		opts = append(opts, gl.WithBaseURL(baseURL))
	}

	client, err := gl.NewClient(token, opts...)
	if err != nil {
		return nil, entities.NewServiceUnreachableError(
			fmt.Sprintf("failed to initialize GitLab client for %q", baseURL), err)
	}

	return &GitLabPlatformRepository{
		token:  token,
		group:  group,
		client: client,
	}, nil
}

func (p *GitLabPlatformRepository) Name() string { return platformName }

// EnsureTeam returns the subgroup matching team.Name under the base group,
// creating it when absent.
func (p *GitLabPlatformRepository) EnsureTeam(
	ctx context.Context,
	team entities.Team,
) (entities.TeamHandle, error) {
	fullPath := p.group + "/" + team.Name

	existing, resp, err := p.client.Groups.GetGroup(fullPath, nil, gl.WithContext(ctx))
	if err == nil {
		return entities.TeamHandle{ID: existing.ID, Name: team.Name}, nil
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		return entities.TeamHandle{}, p.wrapError(
			fmt.Sprintf("failed to look up group %q", fullPath), err)
	}

	parent, _, err := p.client.Groups.GetGroup(p.group, nil, gl.WithContext(ctx))
	if err != nil {
		return entities.TeamHandle{}, p.wrapError(
			fmt.Sprintf("failed to resolve base group %q", p.group), err)
	}

	created, _, err := p.client.Groups.CreateGroup(&gl.CreateGroupOptions{
		Name:       gl.Ptr(team.Name),
		Path:       gl.Ptr(team.Name),
		ParentID:   gl.Ptr(parent.ID),
		Visibility: gl.Ptr(gl.PrivateVisibility),
	}, gl.WithContext(ctx))
	if err != nil {
		return entities.TeamHandle{}, p.wrapError(
			fmt.Sprintf("failed to create group %q", fullPath), err)
	}
	return entities.TeamHandle{ID: created.ID, Name: team.Name}, nil
}

// EnsureTeamMembers adds each member to the subgroup. GitLab answers 409
// for an existing membership, which is treated as a no-op.
func (p *GitLabPlatformRepository) EnsureTeamMembers(
	ctx context.Context,
	handle entities.TeamHandle,
	members []string,
) error {
	for _, member := range members {
		users, _, err := p.client.Users.ListUsers(&gl.ListUsersOptions{
			Username: gl.Ptr(member),
		}, gl.WithContext(ctx))
		if err != nil {
			return p.wrapError(fmt.Sprintf("failed to look up user %q", member), err)
		}
		if len(users) == 0 {
			return entities.NewNotFoundError(
				fmt.Sprintf("no such user: %q", member), nil)
		}

		_, resp, err := p.client.GroupMembers.AddGroupMember(handle.ID, &gl.AddGroupMemberOptions{
			UserID:      gl.Ptr(users[0].ID),
			AccessLevel: gl.Ptr(gl.DeveloperPermissions),
		}, gl.WithContext(ctx))
		if err != nil {
			if resp != nil && resp.StatusCode == http.StatusConflict {
				continue // already a member
			}
			return p.wrapError(
				fmt.Sprintf("failed to add %q to group %q", member, handle.Name), err)
		}
	}
	return nil
}

func (p *GitLabPlatformRepository) GetRepoURLs(
	ctx context.Context,
	repoNames []string,
) ([]entities.RemoteRepo, error) {
	repos := make([]entities.RemoteRepo, 0, len(repoNames))
	for _, name := range repoNames {
		project, err := p.findProject(ctx, name)
		if err != nil {
			return nil, err
		}
		repos = append(repos, entities.RemoteRepo{
			Name:     project.Path,
			CloneURL: project.HTTPURLToRepo,
		})
	}
	return repos, nil
}

// CreateRepos creates each described project inside its team subgroup (or
// the base group when no team is set), returning the existing project when
// the path is already taken.
func (p *GitLabPlatformRepository) CreateRepos(
	ctx context.Context,
	descriptors []entities.StudentRepo,
) ([]entities.RemoteRepo, error) {
	repos := make([]entities.RemoteRepo, 0, len(descriptors))
	for _, descriptor := range descriptors {
		remote, err := p.createOrFetch(ctx, descriptor)
		if err != nil {
			return nil, err
		}
		repos = append(repos, remote)
	}
	return repos, nil
}

func (p *GitLabPlatformRepository) createOrFetch(
	ctx context.Context,
	descriptor entities.StudentRepo,
) (entities.RemoteRepo, error) {
	namespace := p.group
	if descriptor.TeamName != "" {
		namespace = p.group + "/" + descriptor.TeamName
	}

	parent, _, err := p.client.Groups.GetGroup(namespace, nil, gl.WithContext(ctx))
	if err != nil {
		return entities.RemoteRepo{}, p.wrapError(
			fmt.Sprintf("failed to resolve namespace %q", namespace), err)
	}

	visibility := gl.PrivateVisibility
	if !descriptor.Private {
		visibility = gl.PublicVisibility
	}

	created, resp, err := p.client.Projects.CreateProject(&gl.CreateProjectOptions{
		Name:        gl.Ptr(descriptor.Name),
		Path:        gl.Ptr(descriptor.Name),
		NamespaceID: gl.Ptr(parent.ID),
		Description: gl.Ptr(descriptor.Description),
		Visibility:  gl.Ptr(visibility),
	}, gl.WithContext(ctx))
	if err == nil {
		return entities.RemoteRepo{
			Name:     created.Path,
			CloneURL: created.HTTPURLToRepo,
		}, nil
	}

	// 400 with "has already been taken" means the project exists.
	if resp != nil && (resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusConflict) {
		existing, _, getErr := p.client.Projects.GetProject(
			namespace+"/"+descriptor.Name, nil, gl.WithContext(ctx),
		)
		if getErr != nil {
			return entities.RemoteRepo{}, p.wrapError(
				fmt.Sprintf("failed to fetch existing project %q", descriptor.Name), getErr)
		}
		return entities.RemoteRepo{
			Name:     existing.Path,
			CloneURL: existing.HTTPURLToRepo,
		}, nil
	}

	return entities.RemoteRepo{}, p.wrapError(
		fmt.Sprintf("failed to create project %q", descriptor.Name), err)
}

func (p *GitLabPlatformRepository) OpenIssue(
	ctx context.Context,
	repoName string,
	issue entities.Issue,
) error {
	project, err := p.findProject(ctx, repoName)
	if err != nil {
		return err
	}

	_, _, err = p.client.Issues.CreateIssue(project.PathWithNamespace, &gl.CreateIssueOptions{
		Title:       gl.Ptr(issue.Title),
		Description: gl.Ptr(issue.Body),
	}, gl.WithContext(ctx))
	if err != nil {
		return p.wrapError(fmt.Sprintf("failed to open issue in %q", repoName), err)
	}
	return nil
}

func (p *GitLabPlatformRepository) ListIssues(
	ctx context.Context,
	repoName string,
) ([]entities.Issue, error) {
	project, err := p.findProject(ctx, repoName)
	if err != nil {
		return nil, err
	}

	var issues []entities.Issue
	opts := &gl.ListProjectIssuesOptions{
		ListOptions: gl.ListOptions{PerPage: perPage},
	}

	for {
		page, resp, listErr := p.client.Issues.ListProjectIssues(
			project.PathWithNamespace, opts, gl.WithContext(ctx),
		)
		if listErr != nil {
			return nil, p.wrapError(
				fmt.Sprintf("failed to list issues in %q", repoName), listErr)
		}

		for _, issue := range page {
			state := entities.IssueStateOpen
			if issue.State == "closed" {
				state = entities.IssueStateClosed
			}
			issues = append(issues, entities.Issue{
				Number: int(issue.IID),
				Title:  issue.Title,
				Body:   issue.Description,
				State:  state,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return issues, nil
}

func (p *GitLabPlatformRepository) CloseIssue(
	ctx context.Context,
	repoName string,
	number int,
) error {
	project, err := p.findProject(ctx, repoName)
	if err != nil {
		return err
	}

	_, _, err = p.client.Issues.UpdateIssue(
		project.PathWithNamespace, int64(number),
		&gl.UpdateIssueOptions{StateEvent: gl.Ptr("close")},
		gl.WithContext(ctx),
	)
	if err != nil {
		return p.wrapError(
			fmt.Sprintf("failed to close issue #%d in %q", number, repoName), err)
	}
	return nil
}

// AuthenticatedURL embeds the token into an HTTPS clone URL. Local and SSH
// URLs are returned unchanged.
func (p *GitLabPlatformRepository) AuthenticatedURL(cloneURL string) string {
	return strings.Replace(
		cloneURL,
		"https://",
		"https://oauth2:"+p.token+"@",
		1,
	)
}

// findProject locates a project by name anywhere under the base group,
// including team subgroups.
func (p *GitLabPlatformRepository) findProject(
	ctx context.Context,
	name string,
) (*gl.Project, error) {
	opts := &gl.ListGroupProjectsOptions{
		ListOptions:      gl.ListOptions{PerPage: perPage},
		Search:           gl.Ptr(name),
		IncludeSubGroups: gl.Ptr(true),
	}

	for {
		projects, resp, err := p.client.Groups.ListGroupProjects(
			p.group, opts, gl.WithContext(ctx),
		)
		if err != nil {
			return nil, p.wrapError(fmt.Sprintf("failed to search for project %q", name), err)
		}

		for _, project := range projects {
			if project.Path == name {
				return project, nil
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return nil, entities.NewNotFoundError(
		fmt.Sprintf("no project named %q in group %q", name, p.group), nil)
}

// wrapError maps a GitLab client error onto the domain taxonomy. Backend
// errors never escape in raw form.
func (p *GitLabPlatformRepository) wrapError(message string, err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return entities.NewServiceUnreachableError(
			message+": service could not be reached", err)
	}

	var glErr *gl.ErrorResponse
	if errors.As(err, &glErr) && glErr.Response != nil {
		status := glErr.Response.StatusCode
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
