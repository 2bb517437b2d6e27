package mirror_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Zero-Carbon/backup-org/internal/mirror"
)

func TestScratchWorkspaceLifecycle(testInstance *testing.T) {
	workspace, creationError := mirror.NewScratchWorkspace()
	require.NoError(testInstance, creationError)
	require.DirExists(testInstance, workspace.Path())

	repositoryDirectory, directoryError := workspace.RepositoryDirectory(testRepositoryNameConstant)
	require.NoError(testInstance, directoryError)
	require.Equal(testInstance, filepath.Join(workspace.Path(), testRepositoryNameConstant+".git"), repositoryDirectory)

	require.NoError(testInstance, workspace.Remove())
	require.NoDirExists(testInstance, workspace.Path())
}

func TestScratchWorkspaceRemoveIsIdempotent(testInstance *testing.T) {
	workspace, creationError := mirror.NewScratchWorkspace()
	require.NoError(testInstance, creationError)

	require.NoError(testInstance, workspace.Remove())
	require.NoError(testInstance, workspace.Remove())
}

func TestScratchWorkspaceRejectsBlankRepositoryName(testInstance *testing.T) {
	workspace, creationError := mirror.NewScratchWorkspace()
	require.NoError(testInstance, creationError)
	defer func() {
		require.NoError(testInstance, workspace.Remove())
	}()

	_, directoryError := workspace.RepositoryDirectory("   ")
	require.ErrorIs(testInstance, directoryError, mirror.ErrMissingRepositoryName)
}
