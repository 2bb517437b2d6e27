package mirror

import (
	"context"

	"github.com/Zero-Carbon/backup-org/internal/githubapi"
	"github.com/Zero-Carbon/backup-org/internal/gitrepo"
)

// GitHubSourceLister adapts a githubapi.Client into a SourceRepositoryLister.
type GitHubSourceLister struct {
	Client       *githubapi.Client
	Organization string
}

// ListRepositories returns the source organization's repositories as descriptors.
func (lister GitHubSourceLister) ListRepositories(executionContext context.Context) ([]RepositoryDescriptor, error) {
	listedRepositories, listError := lister.Client.ListOrganizationRepositories(executionContext, lister.Organization)
	if listError != nil {
		return nil, listError
	}
	descriptors := make([]RepositoryDescriptor, 0, len(listedRepositories))
	for _, listedRepository := range listedRepositories {
		descriptors = append(descriptors, RepositoryDescriptor{
			Name:        listedRepository.Name,
			Description: listedRepository.Description,
			Private:     listedRepository.Private,
			Archived:    listedRepository.Archived,
		})
	}
	return descriptors, nil
}

// GitHubBackupClient adapts a githubapi.Client into a BackupRepositoryClient.
type GitHubBackupClient struct {
	Client       *githubapi.Client
	Organization string
}

// DeleteRepository removes the backup repository, mapping expected API refusals to deletion statuses.
func (backupClient GitHubBackupClient) DeleteRepository(executionContext context.Context, repositoryName string) (DeletionStatus, error) {
	deleteError := backupClient.Client.DeleteRepository(executionContext, backupClient.Organization, repositoryName)
	switch {
	case deleteError == nil:
		return DeletionStatusDeleted, nil
	case githubapi.IsNotFound(deleteError):
		return DeletionStatusNotFound, nil
	case githubapi.IsPermissionDenied(deleteError):
		return DeletionStatusForbidden, nil
	default:
		return "", deleteError
	}
}

// GetRepository fetches the existing backup repository.
func (backupClient GitHubBackupClient) GetRepository(executionContext context.Context, repositoryName string) (RepositoryDescriptor, error) {
	fetchedRepository, fetchError := backupClient.Client.GetRepository(executionContext, backupClient.Organization, repositoryName)
	if fetchError != nil {
		return RepositoryDescriptor{}, fetchError
	}
	return RepositoryDescriptor{
		Name:        fetchedRepository.Name,
		Description: fetchedRepository.Description,
		Private:     fetchedRepository.Private,
		Archived:    fetchedRepository.Archived,
	}, nil
}

// CreateRepository creates the backup repository with collaboration features disabled.
func (backupClient GitHubBackupClient) CreateRepository(executionContext context.Context, specification BackupRepositorySpecification) (RepositoryDescriptor, error) {
	createdRepository, createError := backupClient.Client.CreateRepository(executionContext, backupClient.Organization, githubapi.RepositorySpecification{
		Name:        specification.Name,
		Description: specification.Description,
		Private:     specification.Private,
	})
	if createError != nil {
		return RepositoryDescriptor{}, createError
	}
	return RepositoryDescriptor{
		Name:        createdRepository.Name,
		Description: createdRepository.Description,
		Private:     createdRepository.Private,
		Archived:    createdRepository.Archived,
	}, nil
}

// TokenRemoteURLBuilder builds authenticated HTTPS remotes for both identities.
type TokenRemoteURLBuilder struct {
	SourceOrganization string
	BackupOrganization string
	SourceToken        string
	BackupToken        string
}

// SourceCloneURL returns the authenticated clone URL for the source repository.
func (urlBuilder TokenRemoteURLBuilder) SourceCloneURL(repositoryName string) (string, error) {
	return buildAuthenticatedURL(urlBuilder.SourceOrganization, repositoryName, urlBuilder.SourceToken)
}

// BackupPushURL returns the authenticated push URL for the backup repository.
func (urlBuilder TokenRemoteURLBuilder) BackupPushURL(repositoryName string) (string, error) {
	return buildAuthenticatedURL(urlBuilder.BackupOrganization, repositoryName, urlBuilder.BackupToken)
}

func buildAuthenticatedURL(organization string, repositoryName string, accessToken string) (string, error) {
	remote, remoteError := gitrepo.NewRemoteURL(organization, repositoryName)
	if remoteError != nil {
		return "", remoteError
	}
	return remote.AuthenticatedURL(accessToken)
}

// GitMirrorerAdapter adapts a gitrepo.RepositoryMirrorer into the RepositoryMirrorer interface.
type GitMirrorerAdapter struct {
	Mirrorer *gitrepo.RepositoryMirrorer
}

// CloneMirror creates a bare mirror clone of the source repository.
func (adapter GitMirrorerAdapter) CloneMirror(executionContext context.Context, sourceURL string, targetDirectory string) error {
	return adapter.Mirrorer.CloneMirror(executionContext, gitrepo.CloneMirrorOptions{
		SourceURL:       sourceURL,
		TargetDirectory: targetDirectory,
	})
}

// PushMirror pushes the bare mirror clone to the backup repository.
func (adapter GitMirrorerAdapter) PushMirror(executionContext context.Context, repositoryDirectory string, destinationURL string) error {
	return adapter.Mirrorer.PushMirror(executionContext, gitrepo.PushMirrorOptions{
		RepositoryDirectory: repositoryDirectory,
		DestinationURL:      destinationURL,
	})
}
