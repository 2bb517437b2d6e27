package mirror

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	serviceLoggerRequiredMessageConstant     = "service logger is required"
	serviceListerRequiredMessageConstant     = "source repository lister is required"
	serviceReconcilerRequiredMessageConstant = "repository reconciler is required"
	listingFailedErrorTemplateConstant       = "failed to list source repositories: %w"
	workspaceRemovalFailedMessageConstant    = "scratch workspace removal failed"
	runStartedLogMessageConstant             = "organization backup run started"
	runCompletedLogMessageConstant           = "organization backup run completed"
	repositorySkippedLogMessageConstant      = "repository skipped"
	repositorySucceededLogMessageConstant    = "repository mirrored"
	repositoryFailedLogMessageConstant       = "repository mirroring failed"
	repositoryCountLogFieldNameConstant      = "repositories"
	outcomeReasonLogFieldNameConstant        = "reason"
	succeededLogFieldNameConstant            = "succeeded"
	skippedLogFieldNameConstant              = "skipped"
	failedLogFieldNameConstant               = "failed"
	durationLogFieldNameConstant             = "duration"
)

// Service dependency validation sentinels.
var (
	ErrServiceLoggerRequired     = errors.New(serviceLoggerRequiredMessageConstant)
	ErrServiceListerRequired     = errors.New(serviceListerRequiredMessageConstant)
	ErrServiceReconcilerRequired = errors.New(serviceReconcilerRequiredMessageConstant)
)

// RepositoryReconciler reconciles one repository into the backup organization.
type RepositoryReconciler interface {
	Reconcile(executionContext context.Context, repository RepositoryDescriptor, cloneDirectory string) ReconciliationOutcome
}

// WorkspaceFactory creates the scratch workspace for one run.
type WorkspaceFactory func() (*ScratchWorkspace, error)

// ServiceDependencies enumerates the collaborators required by the orchestration service.
type ServiceDependencies struct {
	Logger                  *zap.Logger
	SourceLister            SourceRepositoryLister
	Reconciler              RepositoryReconciler
	WorkspaceFactory        WorkspaceFactory
	ProtectedRepositoryName string
	DryRun                  bool
}

// Service lists source repositories and mirrors each one into the backup organization.
type Service struct {
	dependencies ServiceDependencies
}

// NewService validates the dependencies and constructs a Service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Logger == nil {
		return nil, ErrServiceLoggerRequired
	}
	if dependencies.SourceLister == nil {
		return nil, ErrServiceListerRequired
	}
	if dependencies.Reconciler == nil {
		return nil, ErrServiceReconcilerRequired
	}
	if dependencies.WorkspaceFactory == nil {
		dependencies.WorkspaceFactory = NewScratchWorkspace
	}
	return &Service{dependencies: dependencies}, nil
}

// Run mirrors every source repository sequentially and returns the aggregated summary.
//
// Listing and workspace failures abort the run before any repository is
// touched; every later failure stays confined to its repository and is
// reflected only in the summary counters.
func (service *Service) Run(executionContext context.Context) (RunSummary, error) {
	summary := RunSummary{StartedAt: time.Now()}

	repositories, listingError := service.dependencies.SourceLister.ListRepositories(executionContext)
	if listingError != nil {
		summary.CompletedAt = time.Now()
		return summary, fmt.Errorf(listingFailedErrorTemplateConstant, listingError)
	}

	service.dependencies.Logger.Info(runStartedLogMessageConstant,
		zap.Int(repositoryCountLogFieldNameConstant, len(repositories)),
	)

	workspace, workspaceError := service.dependencies.WorkspaceFactory()
	if workspaceError != nil {
		summary.CompletedAt = time.Now()
		return summary, workspaceError
	}
	defer func() {
		if removalError := workspace.Remove(); removalError != nil {
			service.dependencies.Logger.Warn(workspaceRemovalFailedMessageConstant, zap.Error(removalError))
		}
	}()

	for _, repository := range repositories {
		outcome := service.processRepository(executionContext, repository, workspace)
		summary.Record(outcome)
		service.logOutcome(outcome)
	}

	summary.CompletedAt = time.Now()
	service.dependencies.Logger.Info(runCompletedLogMessageConstant,
		zap.Int(succeededLogFieldNameConstant, summary.Succeeded),
		zap.Int(skippedLogFieldNameConstant, summary.Skipped),
		zap.Int(failedLogFieldNameConstant, summary.Failed),
		zap.Duration(durationLogFieldNameConstant, summary.Duration()),
	)
	return summary, nil
}

func (service *Service) processRepository(executionContext context.Context, repository RepositoryDescriptor, workspace *ScratchWorkspace) ReconciliationOutcome {
	if repository.Name == service.dependencies.ProtectedRepositoryName {
		return SkippedOutcome(repository.Name, SkipReasonProtectedRepository)
	}
	if repository.Archived {
		return SkippedOutcome(repository.Name, SkipReasonArchivedRepository)
	}
	if service.dependencies.DryRun {
		return SkippedOutcome(repository.Name, SkipReasonDryRun)
	}

	cloneDirectory, directoryError := workspace.RepositoryDirectory(repository.Name)
	if directoryError != nil {
		return FailedOutcome(repository.Name, fmt.Sprintf(workspaceFailureReasonTemplateConstant, directoryError))
	}
	return service.dependencies.Reconciler.Reconcile(executionContext, repository, cloneDirectory)
}

func (service *Service) logOutcome(outcome ReconciliationOutcome) {
	switch outcome.Status {
	case OutcomeStatusSucceeded:
		service.dependencies.Logger.Info(repositorySucceededLogMessageConstant,
			zap.String(repositoryLogFieldNameConstant, outcome.RepositoryName),
		)
	case OutcomeStatusSkipped:
		service.dependencies.Logger.Info(repositorySkippedLogMessageConstant,
			zap.String(repositoryLogFieldNameConstant, outcome.RepositoryName),
			zap.String(outcomeReasonLogFieldNameConstant, outcome.Reason),
		)
	case OutcomeStatusFailed:
		service.dependencies.Logger.Warn(repositoryFailedLogMessageConstant,
			zap.String(repositoryLogFieldNameConstant, outcome.RepositoryName),
			zap.String(outcomeReasonLogFieldNameConstant, outcome.Reason),
		)
	}
}
