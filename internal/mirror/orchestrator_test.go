package mirror_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Zero-Carbon/backup-org/internal/mirror"
)

const (
	testArchivedRepositoryNameConstant = "legacy-service"
	testFailingRepositoryNameConstant  = "flaky-service"
)

type stubSourceLister struct {
	repositories []mirror.RepositoryDescriptor
	listError    error
}

func (lister stubSourceLister) ListRepositories(context.Context) ([]mirror.RepositoryDescriptor, error) {
	if lister.listError != nil {
		return nil, lister.listError
	}
	return lister.repositories, nil
}

type recordingReconciler struct {
	reconciledNames  []string
	cloneDirectories []string
	failingNames     map[string]bool
}

func (reconciler *recordingReconciler) Reconcile(_ context.Context, repository mirror.RepositoryDescriptor, cloneDirectory string) mirror.ReconciliationOutcome {
	reconciler.reconciledNames = append(reconciler.reconciledNames, repository.Name)
	reconciler.cloneDirectories = append(reconciler.cloneDirectories, cloneDirectory)
	if reconciler.failingNames[repository.Name] {
		return mirror.FailedOutcome(repository.Name, "push failed: remote rejected refs")
	}
	return mirror.SucceededOutcome(repository.Name)
}

func buildTestService(testInstance *testing.T, lister mirror.SourceRepositoryLister, reconciler mirror.RepositoryReconciler, dryRun bool) (*mirror.Service, *string) {
	testInstance.Helper()

	var workspacePath string
	service, constructionError := mirror.NewService(mirror.ServiceDependencies{
		Logger:       zap.NewNop(),
		SourceLister: lister,
		Reconciler:   reconciler,
		WorkspaceFactory: func() (*mirror.ScratchWorkspace, error) {
			workspace, workspaceError := mirror.NewScratchWorkspace()
			if workspaceError != nil {
				return nil, workspaceError
			}
			workspacePath = workspace.Path()
			return workspace, nil
		},
		ProtectedRepositoryName: testProtectedRepositoryNameConstant,
		DryRun:                  dryRun,
	})
	require.NoError(testInstance, constructionError)
	return service, &workspacePath
}

func TestNewServiceValidatesDependencies(testInstance *testing.T) {
	testCases := []struct {
		name          string
		dependencies  mirror.ServiceDependencies
		expectedError error
	}{
		{
			name: "missing_logger",
			dependencies: mirror.ServiceDependencies{
				SourceLister: stubSourceLister{},
				Reconciler:   &recordingReconciler{},
			},
			expectedError: mirror.ErrServiceLoggerRequired,
		},
		{
			name: "missing_lister",
			dependencies: mirror.ServiceDependencies{
				Logger:     zap.NewNop(),
				Reconciler: &recordingReconciler{},
			},
			expectedError: mirror.ErrServiceListerRequired,
		},
		{
			name: "missing_reconciler",
			dependencies: mirror.ServiceDependencies{
				Logger:       zap.NewNop(),
				SourceLister: stubSourceLister{},
			},
			expectedError: mirror.ErrServiceReconcilerRequired,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			service, constructionError := mirror.NewService(testCase.dependencies)

			require.Nil(subtestInstance, service)
			require.ErrorIs(subtestInstance, constructionError, testCase.expectedError)
		})
	}
}

func TestRunFiltersProtectedAndArchivedRepositories(testInstance *testing.T) {
	lister := stubSourceLister{repositories: []mirror.RepositoryDescriptor{
		{Name: testRepositoryNameConstant},
		{Name: testArchivedRepositoryNameConstant, Archived: true},
		{Name: testProtectedRepositoryNameConstant},
	}}
	reconciler := &recordingReconciler{}
	service, workspacePath := buildTestService(testInstance, lister, reconciler, false)

	summary, runError := service.Run(context.Background())

	require.NoError(testInstance, runError)
	require.Equal(testInstance, []string{testRepositoryNameConstant}, reconciler.reconciledNames)
	require.Equal(testInstance, 1, summary.Succeeded)
	require.Equal(testInstance, 2, summary.Skipped)
	require.Equal(testInstance, 0, summary.Failed)
	require.Equal(testInstance, len(lister.repositories), summary.Total())
	require.NoDirExists(testInstance, *workspacePath)
}

func TestRunSummaryArithmeticHoldsWithFailures(testInstance *testing.T) {
	lister := stubSourceLister{repositories: []mirror.RepositoryDescriptor{
		{Name: testRepositoryNameConstant},
		{Name: testFailingRepositoryNameConstant},
		{Name: testArchivedRepositoryNameConstant, Archived: true},
	}}
	reconciler := &recordingReconciler{failingNames: map[string]bool{testFailingRepositoryNameConstant: true}}
	service, _ := buildTestService(testInstance, lister, reconciler, false)

	summary, runError := service.Run(context.Background())

	require.NoError(testInstance, runError)
	require.Equal(testInstance, 1, summary.Succeeded)
	require.Equal(testInstance, 1, summary.Skipped)
	require.Equal(testInstance, 1, summary.Failed)
	require.Equal(testInstance, len(lister.repositories), summary.Total())
	require.False(testInstance, summary.StartedAt.IsZero())
	require.False(testInstance, summary.CompletedAt.IsZero())
	require.GreaterOrEqual(testInstance, summary.Duration(), time.Duration(0))
}

func TestRunListingFailureAbortsBeforeReconciliation(testInstance *testing.T) {
	lister := stubSourceLister{listError: errors.New("organization inaccessible")}
	reconciler := &recordingReconciler{}
	service, _ := buildTestService(testInstance, lister, reconciler, false)

	summary, runError := service.Run(context.Background())

	require.Error(testInstance, runError)
	require.Contains(testInstance, runError.Error(), "failed to list source repositories")
	require.Empty(testInstance, reconciler.reconciledNames)
	require.Equal(testInstance, 0, summary.Total())
}

func TestRunDryRunSkipsEveryEligibleRepository(testInstance *testing.T) {
	lister := stubSourceLister{repositories: []mirror.RepositoryDescriptor{
		{Name: testRepositoryNameConstant},
		{Name: testFailingRepositoryNameConstant},
	}}
	reconciler := &recordingReconciler{}
	service, _ := buildTestService(testInstance, lister, reconciler, true)

	summary, runError := service.Run(context.Background())

	require.NoError(testInstance, runError)
	require.Empty(testInstance, reconciler.reconciledNames)
	require.Equal(testInstance, 0, summary.Succeeded)
	require.Equal(testInstance, len(lister.repositories), summary.Skipped)
	require.Equal(testInstance, 0, summary.Failed)
}

func TestRunAllocatesWorkspaceSubdirectoriesPerRepository(testInstance *testing.T) {
	lister := stubSourceLister{repositories: []mirror.RepositoryDescriptor{
		{Name: testRepositoryNameConstant},
	}}
	reconciler := &recordingReconciler{}
	service, workspacePath := buildTestService(testInstance, lister, reconciler, false)

	_, runError := service.Run(context.Background())

	require.NoError(testInstance, runError)
	require.Len(testInstance, reconciler.cloneDirectories, 1)
	require.Contains(testInstance, reconciler.cloneDirectories[0], testRepositoryNameConstant+".git")
	require.Contains(testInstance, reconciler.cloneDirectories[0], *workspacePath)
}

func TestRunRemovesWorkspaceWhenReconciliationFails(testInstance *testing.T) {
	lister := stubSourceLister{repositories: []mirror.RepositoryDescriptor{
		{Name: testFailingRepositoryNameConstant},
	}}
	reconciler := &recordingReconciler{failingNames: map[string]bool{testFailingRepositoryNameConstant: true}}
	service, workspacePath := buildTestService(testInstance, lister, reconciler, false)

	summary, runError := service.Run(context.Background())

	require.NoError(testInstance, runError)
	require.Equal(testInstance, 1, summary.Failed)
	_, statError := os.Stat(*workspacePath)
	require.True(testInstance, os.IsNotExist(statError))
}
