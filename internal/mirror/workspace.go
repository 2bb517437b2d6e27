package mirror

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	workspaceDirectoryPatternConstant    = "github-org-backup-*"
	workspaceCreateErrorTemplateConstant = "failed to create scratch workspace: %w"
	workspaceRemoveErrorTemplateConstant = "failed to remove scratch workspace %s: %w"
	workspaceRepositorySuffixConstant    = ".git"
	workspaceMissingNameErrorConstant    = "repository name is required"
	workspaceNotInitializedErrorConstant = "scratch workspace is not initialized"
)

// Workspace validation sentinels.
var (
	ErrMissingRepositoryName   = errors.New(workspaceMissingNameErrorConstant)
	ErrWorkspaceNotInitialized = errors.New(workspaceNotInitializedErrorConstant)
)

// ScratchWorkspace owns the ephemeral directory tree holding transient mirror clones.
type ScratchWorkspace struct {
	rootPath string
}

// NewScratchWorkspace creates a uniquely named scratch directory for one run.
func NewScratchWorkspace() (*ScratchWorkspace, error) {
	createdPath, createError := os.MkdirTemp("", workspaceDirectoryPatternConstant)
	if createError != nil {
		return nil, fmt.Errorf(workspaceCreateErrorTemplateConstant, createError)
	}
	return &ScratchWorkspace{rootPath: createdPath}, nil
}

// Path returns the workspace root directory.
func (workspace *ScratchWorkspace) Path() string {
	if workspace == nil {
		return ""
	}
	return workspace.rootPath
}

// RepositoryDirectory returns the clone target directory for the named repository.
func (workspace *ScratchWorkspace) RepositoryDirectory(repositoryName string) (string, error) {
	if workspace == nil || len(workspace.rootPath) == 0 {
		return "", ErrWorkspaceNotInitialized
	}
	trimmedRepositoryName := strings.TrimSpace(repositoryName)
	if len(trimmedRepositoryName) == 0 {
		return "", ErrMissingRepositoryName
	}
	return filepath.Join(workspace.rootPath, trimmedRepositoryName+workspaceRepositorySuffixConstant), nil
}

// Remove deletes the workspace tree recursively.
func (workspace *ScratchWorkspace) Remove() error {
	if workspace == nil || len(workspace.rootPath) == 0 {
		return nil
	}
	if removeError := os.RemoveAll(workspace.rootPath); removeError != nil {
		return fmt.Errorf(workspaceRemoveErrorTemplateConstant, workspace.rootPath, removeError)
	}
	return nil
}
