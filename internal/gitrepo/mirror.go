package gitrepo

import (
	"context"
	"errors"
	"strings"

	"github.com/Zero-Carbon/backup-org/internal/execshell"
)

const (
	gitCloneSubcommandConstant             = "clone"
	gitPushSubcommandConstant              = "push"
	gitMirrorFlagConstant                  = "--mirror"
	missingExecutorErrorMessageConstant    = "git executor is required"
	missingSourceURLErrorMessageConstant   = "source url is required"
	missingTargetDirErrorMessageConstant   = "target directory is required"
	missingRepoDirErrorMessageConstant     = "repository directory is required"
	missingDestinationErrorMessageConstant = "destination url is required"
	terminalPromptEnvironmentNameConstant  = "GIT_TERMINAL_PROMPT"
	terminalPromptDisabledValueConstant    = "0"
)

// Validation sentinels returned by the mirrorer before any git command runs.
var (
	ErrExecutorNotConfigured  = errors.New(missingExecutorErrorMessageConstant)
	ErrMissingSourceURL       = errors.New(missingSourceURLErrorMessageConstant)
	ErrMissingTargetDirectory = errors.New(missingTargetDirErrorMessageConstant)
	ErrMissingRepositoryDir   = errors.New(missingRepoDirErrorMessageConstant)
	ErrMissingDestinationURL  = errors.New(missingDestinationErrorMessageConstant)
)

// GitExecutor describes the shell executor capabilities required for mirroring.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// CloneMirrorOptions configures a bare mirror clone.
type CloneMirrorOptions struct {
	SourceURL       string
	TargetDirectory string
}

// PushMirrorOptions configures a mirror push from a local bare clone.
type PushMirrorOptions struct {
	RepositoryDirectory string
	DestinationURL      string
}

// RepositoryMirrorer clones and pushes bare repository mirrors using git.
type RepositoryMirrorer struct {
	executor GitExecutor
}

// NewRepositoryMirrorer constructs a RepositoryMirrorer backed by the provided executor.
func NewRepositoryMirrorer(executor GitExecutor) (*RepositoryMirrorer, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &RepositoryMirrorer{executor: executor}, nil
}

// CloneMirror creates a bare mirror clone of the source repository in the target directory.
func (mirrorer *RepositoryMirrorer) CloneMirror(executionContext context.Context, options CloneMirrorOptions) error {
	trimmedSourceURL := strings.TrimSpace(options.SourceURL)
	trimmedTargetDirectory := strings.TrimSpace(options.TargetDirectory)
	if len(trimmedSourceURL) == 0 {
		return ErrMissingSourceURL
	}
	if len(trimmedTargetDirectory) == 0 {
		return ErrMissingTargetDirectory
	}

	commandDetails := execshell.CommandDetails{
		Arguments:            []string{gitCloneSubcommandConstant, gitMirrorFlagConstant, trimmedSourceURL, trimmedTargetDirectory},
		EnvironmentVariables: nonInteractiveEnvironment(),
	}
	_, executionError := mirrorer.executor.ExecuteGit(executionContext, commandDetails)
	return executionError
}

// PushMirror pushes every ref from the local bare clone to the destination repository.
func (mirrorer *RepositoryMirrorer) PushMirror(executionContext context.Context, options PushMirrorOptions) error {
	trimmedRepositoryDirectory := strings.TrimSpace(options.RepositoryDirectory)
	trimmedDestinationURL := strings.TrimSpace(options.DestinationURL)
	if len(trimmedRepositoryDirectory) == 0 {
		return ErrMissingRepositoryDir
	}
	if len(trimmedDestinationURL) == 0 {
		return ErrMissingDestinationURL
	}

	commandDetails := execshell.CommandDetails{
		Arguments:            []string{gitPushSubcommandConstant, gitMirrorFlagConstant, trimmedDestinationURL},
		WorkingDirectory:     trimmedRepositoryDirectory,
		EnvironmentVariables: nonInteractiveEnvironment(),
	}
	_, executionError := mirrorer.executor.ExecuteGit(executionContext, commandDetails)
	return executionError
}

// nonInteractiveEnvironment keeps git from prompting for credentials when a
// token is rejected so failed pushes surface as command errors instead of
// hanging the run.
func nonInteractiveEnvironment() map[string]string {
	return map[string]string{terminalPromptEnvironmentNameConstant: terminalPromptDisabledValueConstant}
}
