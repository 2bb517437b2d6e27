package mirror

import (
	"context"
	"time"
)

// RepositoryDescriptor captures the repository metadata consumed by the mirroring workflow.
type RepositoryDescriptor struct {
	Name        string
	Description string
	Private     bool
	Archived    bool
}

// BackupRepositorySpecification describes the backup repository to create.
type BackupRepositorySpecification struct {
	Name        string
	Description string
	Private     bool
}

// DeletionStatus enumerates the expected outcomes of deleting a backup repository.
type DeletionStatus string

// Deletion statuses returned by BackupRepositoryClient implementations.
const (
	DeletionStatusDeleted   DeletionStatus = "deleted"
	DeletionStatusNotFound  DeletionStatus = "not_found"
	DeletionStatusForbidden DeletionStatus = "forbidden"
)

// SourceRepositoryLister enumerates the repositories of the source organization.
type SourceRepositoryLister interface {
	ListRepositories(executionContext context.Context) ([]RepositoryDescriptor, error)
}

// BackupRepositoryClient mutates repositories in the backup organization.
//
// DeleteRepository reports missing repositories and permission refusals as
// statuses rather than errors; the returned error is reserved for failures
// the reconciler cannot branch on.
type BackupRepositoryClient interface {
	DeleteRepository(executionContext context.Context, repositoryName string) (DeletionStatus, error)
	GetRepository(executionContext context.Context, repositoryName string) (RepositoryDescriptor, error)
	CreateRepository(executionContext context.Context, specification BackupRepositorySpecification) (RepositoryDescriptor, error)
}

// RemoteURLBuilder produces authenticated git transport URLs for both identities.
type RemoteURLBuilder interface {
	SourceCloneURL(repositoryName string) (string, error)
	BackupPushURL(repositoryName string) (string, error)
}

// RepositoryMirrorer clones and pushes bare repository mirrors.
type RepositoryMirrorer interface {
	CloneMirror(executionContext context.Context, sourceURL string, targetDirectory string) error
	PushMirror(executionContext context.Context, repositoryDirectory string, destinationURL string) error
}

// Sleeper suspends the calling goroutine for the requested duration.
type Sleeper interface {
	Sleep(duration time.Duration)
}

// SystemSleeper implements Sleeper using the runtime clock.
type SystemSleeper struct{}

// Sleep waits for the requested duration.
func (SystemSleeper) Sleep(duration time.Duration) {
	time.Sleep(duration)
}
