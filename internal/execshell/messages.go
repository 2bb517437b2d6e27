package execshell

import (
	"fmt"
	"regexp"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	redactedCredentialPlaceholderConstant   = "***"
	credentialDelimiterConstant             = "@"
	protocolDelimiterConstant               = "://"
)

const (
	gitCloneSubcommandNameConstant = "clone"
	gitPushSubcommandNameConstant  = "push"
	gitMirrorFlagConstant          = "--mirror"
)

const (
	gitCloneMirrorStartTemplateConstant            = "Mirroring %s into %s"
	gitCloneMirrorSuccessTemplateConstant          = "Mirrored %s into %s"
	gitCloneMirrorFailureTemplateConstant          = "Failed to mirror %s into %s (exit code %d%s)"
	gitCloneMirrorExecutionFailureTemplateConstant = "Unable to mirror %s into %s: %s"
	gitPushMirrorStartTemplateConstant             = "Pushing mirror from %s to %s"
	gitPushMirrorSuccessTemplateConstant           = "Pushed mirror from %s to %s"
	gitPushMirrorFailureTemplateConstant           = "Failed to push mirror from %s to %s (exit code %d%s)"
	gitPushMirrorExecutionFailureTemplateConstant  = "Unable to push mirror from %s to %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name == CommandGit && len(command.Details.Arguments) > 0 {
		subcommand := strings.TrimSpace(command.Details.Arguments[0])
		switch subcommand {
		case gitCloneSubcommandNameConstant:
			return formatter.describeGitCloneMessage(command, result, failure, stage)
		case gitPushSubcommandNameConstant:
			return formatter.describeGitPushMessage(command, result, failure, stage)
		}
	}
	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitCloneMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) < 3 || !containsArgument(arguments, gitMirrorFlagConstant) {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	sourceLabel := RedactArgument(arguments[len(arguments)-2])
	targetLabel := arguments[len(arguments)-1]

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCloneMirrorStartTemplateConstant, sourceLabel, targetLabel)
	case messageStageSuccess:
		return fmt.Sprintf(gitCloneMirrorSuccessTemplateConstant, sourceLabel, targetLabel)
	case messageStageFailure:
		return fmt.Sprintf(gitCloneMirrorFailureTemplateConstant, sourceLabel, targetLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitCloneMirrorExecutionFailureTemplateConstant, sourceLabel, targetLabel, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeGitPushMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) < 2 || !containsArgument(arguments, gitMirrorFlagConstant) {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	sourceLabel := strings.TrimSpace(command.Details.WorkingDirectory)
	destinationLabel := RedactArgument(arguments[len(arguments)-1])

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitPushMirrorStartTemplateConstant, sourceLabel, destinationLabel)
	case messageStageSuccess:
		return fmt.Sprintf(gitPushMirrorSuccessTemplateConstant, sourceLabel, destinationLabel)
	case messageStageFailure:
		return fmt.Sprintf(gitPushMirrorFailureTemplateConstant, sourceLabel, destinationLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitPushMirrorExecutionFailureTemplateConstant, sourceLabel, destinationLabel, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandParts := []string{string(command.Name)}
	if len(command.Details.Arguments) > 0 {
		commandParts = append(commandParts, strings.Join(RedactArguments(command.Details.Arguments), commandArgumentsJoinSeparatorConstant))
	}
	commandLabel := strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, formatter.formatWorkingDirectorySuffix(command))
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, RedactArgument(trimmedStandardError))
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return RedactArgument(failure.Error())
}

func containsArgument(arguments []string, wantedArgument string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == wantedArgument {
			return true
		}
	}
	return false
}

// RedactArguments returns a copy of the arguments with embedded credentials removed.
func RedactArguments(arguments []string) []string {
	redactedArguments := make([]string, len(arguments))
	for argumentIndex, argument := range arguments {
		redactedArguments[argumentIndex] = RedactArgument(argument)
	}
	return redactedArguments
}

var credentialURLPattern = regexp.MustCompile(`(https?://)[^@/\s]+@`)

// RedactArgument removes userinfo credentials from URL-shaped values.
//
// Values without both a protocol delimiter and a credential delimiter pass
// through unchanged so ordinary paths and refs keep their original form.
func RedactArgument(argument string) string {
	if !strings.Contains(argument, protocolDelimiterConstant) || !strings.Contains(argument, credentialDelimiterConstant) {
		return argument
	}
	return credentialURLPattern.ReplaceAllString(argument, "${1}"+redactedCredentialPlaceholderConstant+credentialDelimiterConstant)
}
