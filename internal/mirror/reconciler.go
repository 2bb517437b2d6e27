package mirror

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	backupDescriptionPrefixConstant           = "[BACKUP] "
	backupDescriptionPlaceholderConstant      = "no description provided"
	reconcilerLoggerRequiredMessageConstant   = "reconciler logger is required"
	reconcilerClientRequiredMessageConstant   = "backup repository client is required"
	reconcilerURLsRequiredMessageConstant     = "remote url builder is required"
	reconcilerMirrorerRequiredMessageConstant = "repository mirrorer is required"
	reconcilerSleeperRequiredMessageConstant  = "sleeper is required"
	deleteFailureReasonTemplateConstant       = "delete failed: %s"
	createFailureReasonTemplateConstant       = "create failed: %s"
	reuseFailureReasonTemplateConstant        = "reuse failed: %s"
	cloneFailureReasonTemplateConstant        = "clone failed: %s"
	pushFailureReasonTemplateConstant         = "push failed: %s"
	workspaceFailureReasonTemplateConstant    = "workspace allocation failed: %s"
	remoteURLFailureReasonTemplateConstant    = "remote url construction failed: %s"
	panicFailureReasonTemplateConstant        = "unexpected failure: %v"
	settlingDelayLogMessageConstant           = "waiting for deletion to settle"
	reuseExistingBackupLogMessageConstant     = "deletion forbidden; reusing existing backup repository"
	compensatingDeleteLogMessageConstant      = "removing freshly created backup after push failure"
	compensationFailedLogMessageConstant      = "compensating delete failed"
	repositoryLogFieldNameConstant            = "repository"
	delayLogFieldNameConstant                 = "delay"
	deletionStatusLogFieldNameConstant        = "deletion_status"
)

// Reconciler dependency validation sentinels.
var (
	ErrReconcilerLoggerRequired   = errors.New(reconcilerLoggerRequiredMessageConstant)
	ErrReconcilerClientRequired   = errors.New(reconcilerClientRequiredMessageConstant)
	ErrReconcilerURLsRequired     = errors.New(reconcilerURLsRequiredMessageConstant)
	ErrReconcilerMirrorerRequired = errors.New(reconcilerMirrorerRequiredMessageConstant)
	ErrReconcilerSleeperRequired  = errors.New(reconcilerSleeperRequiredMessageConstant)
)

// ReconcilerDependencies enumerates the collaborators required by the reconciler.
type ReconcilerDependencies struct {
	Logger                  *zap.Logger
	BackupClient            BackupRepositoryClient
	RemoteURLs              RemoteURLBuilder
	Mirrorer                RepositoryMirrorer
	Sleeper                 Sleeper
	SettlingDelay           time.Duration
	ProtectedRepositoryName string
}

// Reconciler drives the delete, create-or-reuse, clone, push workflow for one repository.
type Reconciler struct {
	dependencies ReconcilerDependencies
}

// NewReconciler validates the dependencies and constructs a Reconciler.
func NewReconciler(dependencies ReconcilerDependencies) (*Reconciler, error) {
	if dependencies.Logger == nil {
		return nil, ErrReconcilerLoggerRequired
	}
	if dependencies.BackupClient == nil {
		return nil, ErrReconcilerClientRequired
	}
	if dependencies.RemoteURLs == nil {
		return nil, ErrReconcilerURLsRequired
	}
	if dependencies.Mirrorer == nil {
		return nil, ErrReconcilerMirrorerRequired
	}
	if dependencies.Sleeper == nil {
		return nil, ErrReconcilerSleeperRequired
	}
	return &Reconciler{dependencies: dependencies}, nil
}

// Reconcile mirrors one source repository into the backup organization.
//
// Every failure is converted into a Failed outcome; the method never returns
// an error and never lets a panic escape, so one broken repository cannot
// abort the surrounding run.
func (reconciler *Reconciler) Reconcile(executionContext context.Context, repository RepositoryDescriptor, cloneDirectory string) (outcome ReconciliationOutcome) {
	defer func() {
		if recovered := recover(); recovered != nil {
			outcome = FailedOutcome(repository.Name, fmt.Sprintf(panicFailureReasonTemplateConstant, recovered))
		}
	}()

	if repository.Name == reconciler.dependencies.ProtectedRepositoryName {
		return SkippedOutcome(repository.Name, SkipReasonProtectedRepository)
	}

	deletionStatus, deletionError := reconciler.dependencies.BackupClient.DeleteRepository(executionContext, repository.Name)
	if deletionError != nil {
		return FailedOutcome(repository.Name, fmt.Sprintf(deleteFailureReasonTemplateConstant, deletionError))
	}

	freshlyCreated := false
	switch deletionStatus {
	case DeletionStatusDeleted:
		reconciler.dependencies.Logger.Info(settlingDelayLogMessageConstant,
			zap.String(repositoryLogFieldNameConstant, repository.Name),
			zap.Duration(delayLogFieldNameConstant, reconciler.dependencies.SettlingDelay),
		)
		reconciler.dependencies.Sleeper.Sleep(reconciler.dependencies.SettlingDelay)
		fallthrough
	case DeletionStatusNotFound:
		specification := BackupRepositorySpecification{
			Name:        repository.Name,
			Description: buildBackupDescription(repository.Description),
			Private:     repository.Private,
		}
		if _, createError := reconciler.dependencies.BackupClient.CreateRepository(executionContext, specification); createError != nil {
			return FailedOutcome(repository.Name, fmt.Sprintf(createFailureReasonTemplateConstant, createError))
		}
		freshlyCreated = true
	case DeletionStatusForbidden:
		reconciler.dependencies.Logger.Info(reuseExistingBackupLogMessageConstant,
			zap.String(repositoryLogFieldNameConstant, repository.Name),
			zap.String(deletionStatusLogFieldNameConstant, string(deletionStatus)),
		)
		if _, reuseError := reconciler.dependencies.BackupClient.GetRepository(executionContext, repository.Name); reuseError != nil {
			return FailedOutcome(repository.Name, fmt.Sprintf(reuseFailureReasonTemplateConstant, reuseError))
		}
	}

	sourceCloneURL, sourceURLError := reconciler.dependencies.RemoteURLs.SourceCloneURL(repository.Name)
	if sourceURLError != nil {
		return FailedOutcome(repository.Name, fmt.Sprintf(remoteURLFailureReasonTemplateConstant, sourceURLError))
	}
	backupPushURL, backupURLError := reconciler.dependencies.RemoteURLs.BackupPushURL(repository.Name)
	if backupURLError != nil {
		return FailedOutcome(repository.Name, fmt.Sprintf(remoteURLFailureReasonTemplateConstant, backupURLError))
	}

	if cloneError := reconciler.dependencies.Mirrorer.CloneMirror(executionContext, sourceCloneURL, cloneDirectory); cloneError != nil {
		return FailedOutcome(repository.Name, fmt.Sprintf(cloneFailureReasonTemplateConstant, cloneError))
	}

	if pushError := reconciler.dependencies.Mirrorer.PushMirror(executionContext, cloneDirectory, backupPushURL); pushError != nil {
		if freshlyCreated {
			reconciler.compensateFailedPush(executionContext, repository.Name)
		}
		return FailedOutcome(repository.Name, fmt.Sprintf(pushFailureReasonTemplateConstant, pushError))
	}

	return SucceededOutcome(repository.Name)
}

// compensateFailedPush removes the empty backup repository created earlier in
// the same reconciliation so the next run starts from a clean slate. The
// compensation is best-effort; its own failure is logged and discarded.
func (reconciler *Reconciler) compensateFailedPush(executionContext context.Context, repositoryName string) {
	reconciler.dependencies.Logger.Info(compensatingDeleteLogMessageConstant,
		zap.String(repositoryLogFieldNameConstant, repositoryName),
	)
	if _, compensationError := reconciler.dependencies.BackupClient.DeleteRepository(executionContext, repositoryName); compensationError != nil {
		reconciler.dependencies.Logger.Warn(compensationFailedLogMessageConstant,
			zap.String(repositoryLogFieldNameConstant, repositoryName),
			zap.Error(compensationError),
		)
	}
}

func buildBackupDescription(sourceDescription string) string {
	trimmedDescription := strings.TrimSpace(sourceDescription)
	if len(trimmedDescription) == 0 {
		trimmedDescription = backupDescriptionPlaceholderConstant
	}
	return backupDescriptionPrefixConstant + trimmedDescription
}
