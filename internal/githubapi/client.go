package githubapi

import (
	"context"
	"errors"
	"strings"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

const (
	repositoryListPageSizeConstant          = 100
	repositoryListTypeAllConstant           = "all"
	missingTokenErrorMessageConstant        = "github token is required"
	missingAPIClientErrorMessageConstant    = "github api client is required"
	missingOrganizationErrorMessageConstant = "organization name is required"
	missingRepositoryErrorMessageConstant   = "repository name is required"
)

// ErrMissingToken indicates that a client was requested without an access token.
var ErrMissingToken = errors.New(missingTokenErrorMessageConstant)

// ErrMissingAPIClient indicates that a client was requested without an underlying API client.
var ErrMissingAPIClient = errors.New(missingAPIClientErrorMessageConstant)

// ErrMissingOrganization indicates that an operation was invoked without an organization name.
var ErrMissingOrganization = errors.New(missingOrganizationErrorMessageConstant)

// ErrMissingRepositoryName indicates that an operation was invoked without a repository name.
var ErrMissingRepositoryName = errors.New(missingRepositoryErrorMessageConstant)

// Repository captures the repository metadata required by mirroring workflows.
type Repository struct {
	Name        string
	Description string
	Private     bool
	Archived    bool
}

// RepositorySpecification describes a repository to create in the backup organization.
type RepositorySpecification struct {
	Name        string
	Description string
	Private     bool
}

// Client performs repository operations against the GitHub REST API.
type Client struct {
	apiClient *github.Client
}

// NewClient constructs a Client authenticated with the provided personal access token.
func NewClient(executionContext context.Context, accessToken string) (*Client, error) {
	trimmedToken := strings.TrimSpace(accessToken)
	if len(trimmedToken) == 0 {
		return nil, ErrMissingToken
	}

	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: trimmedToken})
	httpClient := oauth2.NewClient(executionContext, tokenSource)
	return &Client{apiClient: github.NewClient(httpClient)}, nil
}

// NewClientWithAPIClient constructs a Client around an existing go-github client.
func NewClientWithAPIClient(apiClient *github.Client) (*Client, error) {
	if apiClient == nil {
		return nil, ErrMissingAPIClient
	}
	return &Client{apiClient: apiClient}, nil
}

// ListOrganizationRepositories returns every repository in the organization across all result pages.
func (client *Client) ListOrganizationRepositories(executionContext context.Context, organization string) ([]Repository, error) {
	trimmedOrganization := strings.TrimSpace(organization)
	if len(trimmedOrganization) == 0 {
		return nil, ErrMissingOrganization
	}

	listOptions := &github.RepositoryListByOrgOptions{
		Type:        repositoryListTypeAllConstant,
		ListOptions: github.ListOptions{PerPage: repositoryListPageSizeConstant},
	}

	collectedRepositories := []Repository{}
	for {
		pageRepositories, response, listError := client.apiClient.Repositories.ListByOrg(executionContext, trimmedOrganization, listOptions)
		if listError != nil {
			return nil, classifyOrganizationError(trimmedOrganization, listError)
		}
		for _, pageRepository := range pageRepositories {
			collectedRepositories = append(collectedRepositories, convertRepository(pageRepository))
		}
		if response == nil || response.NextPage == 0 {
			break
		}
		listOptions.Page = response.NextPage
	}
	return collectedRepositories, nil
}

// GetRepository fetches a single repository, returning RepositoryNotFoundError when it does not exist.
func (client *Client) GetRepository(executionContext context.Context, organization string, repositoryName string) (Repository, error) {
	trimmedOrganization := strings.TrimSpace(organization)
	trimmedRepositoryName := strings.TrimSpace(repositoryName)
	if len(trimmedOrganization) == 0 {
		return Repository{}, ErrMissingOrganization
	}
	if len(trimmedRepositoryName) == 0 {
		return Repository{}, ErrMissingRepositoryName
	}

	fetchedRepository, _, fetchError := client.apiClient.Repositories.Get(executionContext, trimmedOrganization, trimmedRepositoryName)
	if fetchError != nil {
		return Repository{}, classifyRepositoryError(trimmedOrganization, trimmedRepositoryName, fetchError)
	}
	return convertRepository(fetchedRepository), nil
}

// CreateRepository creates a repository in the organization with collaboration features disabled.
//
// Backup repositories are plain mirrors, so issues, wikis, and projects stay
// off to keep the target organization free of accidental collaboration state.
func (client *Client) CreateRepository(executionContext context.Context, organization string, specification RepositorySpecification) (Repository, error) {
	trimmedOrganization := strings.TrimSpace(organization)
	trimmedRepositoryName := strings.TrimSpace(specification.Name)
	if len(trimmedOrganization) == 0 {
		return Repository{}, ErrMissingOrganization
	}
	if len(trimmedRepositoryName) == 0 {
		return Repository{}, ErrMissingRepositoryName
	}

	repositoryRequest := &github.Repository{
		Name:        github.String(trimmedRepositoryName),
		Description: github.String(specification.Description),
		Private:     github.Bool(specification.Private),
		HasIssues:   github.Bool(false),
		HasWiki:     github.Bool(false),
		HasProjects: github.Bool(false),
	}

	createdRepository, _, createError := client.apiClient.Repositories.Create(executionContext, trimmedOrganization, repositoryRequest)
	if createError != nil {
		return Repository{}, classifyRepositoryError(trimmedOrganization, trimmedRepositoryName, createError)
	}
	return convertRepository(createdRepository), nil
}

// DeleteRepository removes a repository from the organization.
func (client *Client) DeleteRepository(executionContext context.Context, organization string, repositoryName string) error {
	trimmedOrganization := strings.TrimSpace(organization)
	trimmedRepositoryName := strings.TrimSpace(repositoryName)
	if len(trimmedOrganization) == 0 {
		return ErrMissingOrganization
	}
	if len(trimmedRepositoryName) == 0 {
		return ErrMissingRepositoryName
	}

	_, deleteError := client.apiClient.Repositories.Delete(executionContext, trimmedOrganization, trimmedRepositoryName)
	if deleteError != nil {
		return classifyRepositoryError(trimmedOrganization, trimmedRepositoryName, deleteError)
	}
	return nil
}

func convertRepository(apiRepository *github.Repository) Repository {
	if apiRepository == nil {
		return Repository{}
	}
	return Repository{
		Name:        apiRepository.GetName(),
		Description: apiRepository.GetDescription(),
		Private:     apiRepository.GetPrivate(),
		Archived:    apiRepository.GetArchived(),
	}
}
