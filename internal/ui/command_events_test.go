package ui_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Zero-Carbon/backup-org/internal/execshell"
	"github.com/Zero-Carbon/backup-org/internal/ui"
)

func buildCloneCommand() execshell.ShellCommand {
	return execshell.ShellCommand{
		Name: execshell.CommandGit,
		Details: execshell.CommandDetails{
			Arguments: []string{"clone", "--mirror", "https://token@github.com/source-org/repo.git", "/tmp/scratch/repo.git"},
		},
	}
}

func TestConsoleCommandEventLoggerLifecycleMessages(testInstance *testing.T) {
	observedCore, observedLogs := observer.New(zapcore.InfoLevel)
	eventLogger := ui.NewConsoleCommandEventLogger(zap.New(observedCore))
	cloneCommand := buildCloneCommand()

	eventLogger.CommandStarted(cloneCommand)
	eventLogger.CommandCompleted(cloneCommand, execshell.ExecutionResult{ExitCode: 0})
	eventLogger.CommandCompleted(cloneCommand, execshell.ExecutionResult{ExitCode: 128, StandardError: "fatal: not found"})
	eventLogger.CommandExecutionFailed(cloneCommand, errors.New("spawn refused"))

	loggedEntries := observedLogs.All()
	require.Len(testInstance, loggedEntries, 4)

	require.Equal(testInstance, zapcore.InfoLevel, loggedEntries[0].Level)
	require.Contains(testInstance, loggedEntries[0].Message, "Mirroring https://***@github.com/source-org/repo.git")

	require.Equal(testInstance, zapcore.InfoLevel, loggedEntries[1].Level)
	require.Contains(testInstance, loggedEntries[1].Message, "Mirrored ")

	require.Equal(testInstance, zapcore.WarnLevel, loggedEntries[2].Level)
	require.Contains(testInstance, loggedEntries[2].Message, "exit code 128")

	require.Equal(testInstance, zapcore.ErrorLevel, loggedEntries[3].Level)
	require.Contains(testInstance, loggedEntries[3].Message, "spawn refused")
}

func TestConsoleCommandEventLoggerToleratesNilLogger(testInstance *testing.T) {
	eventLogger := ui.NewConsoleCommandEventLogger(nil)

	require.NotPanics(testInstance, func() {
		eventLogger.CommandStarted(buildCloneCommand())
		eventLogger.CommandCompleted(buildCloneCommand(), execshell.ExecutionResult{})
		eventLogger.CommandExecutionFailed(buildCloneCommand(), errors.New("spawn refused"))
	})
}
