package mirror

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Zero-Carbon/backup-org/internal/execshell"
	"github.com/Zero-Carbon/backup-org/internal/githubapi"
	"github.com/Zero-Carbon/backup-org/internal/githubauth"
	"github.com/Zero-Carbon/backup-org/internal/gitrepo"
	"github.com/Zero-Carbon/backup-org/internal/ui"
	"github.com/Zero-Carbon/backup-org/internal/utils"
)

const (
	commandUseConstant                      = "backup"
	commandShortDescriptionConstant         = "Mirror every source organization repository into the backup organization"
	commandLongDescriptionConstant          = "backup lists the repositories of the source organization, recreates or reuses each backup repository, mirror-clones the source, and mirror-pushes the clone into the backup organization, skipping protected and archived repositories."
	dryRunFlagNameConstant                  = "dry-run"
	dryRunFlagUsageConstant                 = "List repositories and report planned work without mutating anything"
	sourceClientCreationErrorTemplate       = "unable to construct source GitHub client: %w"
	backupClientCreationErrorTemplate       = "unable to construct backup GitHub client: %w"
	mirrorerCreationErrorTemplateConstant   = "unable to construct repository mirrorer: %w"
	reconcilerCreationErrorTemplateConstant = "unable to construct reconciler: %w"
	serviceCreationErrorTemplateConstant    = "unable to construct backup service: %w"
	runFailedErrorTemplateConstant          = "backup run completed with %d failed repositories"
	summaryCountersTemplateConstant         = "Backup run complete: %d succeeded, %d skipped, %d failed\n"
	summaryTimestampTemplateConstant        = "Completed at %s\n"
	summaryTimestampLayoutConstant          = time.RFC3339
)

// RunFailedError signals that at least one repository failed during the run.
type RunFailedError struct {
	Summary RunSummary
}

// Error reports the failed repository count.
func (runFailedError *RunFailedError) Error() string {
	return fmt.Sprintf(runFailedErrorTemplateConstant, runFailedError.Summary.Failed)
}

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the backup Cobra command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        func() CommandConfiguration
	HumanReadableLoggingProvider func() bool
	GitExecutor                  gitrepo.GitExecutor
	SourceLister                 SourceRepositoryLister
	BackupClient                 BackupRepositoryClient
	Mirrorer                     RepositoryMirrorer
	Sleeper                      Sleeper
	WorkspaceFactory             WorkspaceFactory
}

// Build constructs the backup command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.runBackup,
	}

	command.Flags().Bool(dryRunFlagNameConstant, false, dryRunFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) runBackup(command *cobra.Command, _ []string) error {
	configuration := builder.resolveConfiguration()
	configuration = builder.applyTokenFallbacks(configuration)

	if command.Flags().Changed(dryRunFlagNameConstant) {
		flagValue, _ := command.Flags().GetBool(dryRunFlagNameConstant)
		configuration.DryRun = flagValue
	}

	if validationError := configuration.Validate(); validationError != nil {
		return validationError
	}

	logger := builder.resolveLogger()

	sourceLister, backupClient, collaboratorError := builder.resolveClients(command, configuration)
	if collaboratorError != nil {
		return collaboratorError
	}

	mirrorer, mirrorerError := builder.resolveMirrorer(logger)
	if mirrorerError != nil {
		return mirrorerError
	}

	reconciler, reconcilerError := NewReconciler(ReconcilerDependencies{
		Logger:       logger,
		BackupClient: backupClient,
		RemoteURLs: TokenRemoteURLBuilder{
			SourceOrganization: configuration.SourceOrganization,
			BackupOrganization: configuration.BackupOrganization,
			SourceToken:        configuration.SourceToken,
			BackupToken:        configuration.BackupToken,
		},
		Mirrorer:                mirrorer,
		Sleeper:                 builder.resolveSleeper(),
		SettlingDelay:           configuration.SettlingDelay(),
		ProtectedRepositoryName: configuration.ProtectedRepositoryName,
	})
	if reconcilerError != nil {
		return fmt.Errorf(reconcilerCreationErrorTemplateConstant, reconcilerError)
	}

	service, serviceError := NewService(ServiceDependencies{
		Logger:                  logger,
		SourceLister:            sourceLister,
		Reconciler:              reconciler,
		WorkspaceFactory:        builder.WorkspaceFactory,
		ProtectedRepositoryName: configuration.ProtectedRepositoryName,
		DryRun:                  configuration.DryRun,
	})
	if serviceError != nil {
		return fmt.Errorf(serviceCreationErrorTemplateConstant, serviceError)
	}

	summary, runError := service.Run(command.Context())
	if runError != nil {
		return runError
	}

	summaryWriter := utils.NewFlushingWriter(command.OutOrStdout())
	fmt.Fprintf(summaryWriter, summaryCountersTemplateConstant, summary.Succeeded, summary.Skipped, summary.Failed)
	fmt.Fprintf(summaryWriter, summaryTimestampTemplateConstant, summary.CompletedAt.Format(summaryTimestampLayoutConstant))

	if summary.Failed > 0 {
		return &RunFailedError{Summary: summary}
	}
	return nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

// applyTokenFallbacks fills missing tokens from the conventional GitHub
// environment variables so the command works in CI without dedicated
// configuration keys.
func (builder *CommandBuilder) applyTokenFallbacks(configuration CommandConfiguration) CommandConfiguration {
	if len(configuration.SourceToken) == 0 {
		if resolvedToken, found := githubauth.ResolveSourceToken(nil); found {
			configuration.SourceToken = resolvedToken
		}
	}
	if len(configuration.BackupToken) == 0 {
		if resolvedToken, found := githubauth.ResolveBackupToken(nil); found {
			configuration.BackupToken = resolvedToken
		}
	}
	return configuration
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	var logger *zap.Logger
	if builder.LoggerProvider != nil {
		logger = builder.LoggerProvider()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveClients(command *cobra.Command, configuration CommandConfiguration) (SourceRepositoryLister, BackupRepositoryClient, error) {
	sourceLister := builder.SourceLister
	if sourceLister == nil {
		sourceClient, sourceClientError := githubapi.NewClient(command.Context(), configuration.SourceToken)
		if sourceClientError != nil {
			return nil, nil, fmt.Errorf(sourceClientCreationErrorTemplate, sourceClientError)
		}
		sourceLister = GitHubSourceLister{Client: sourceClient, Organization: configuration.SourceOrganization}
	}

	backupClient := builder.BackupClient
	if backupClient == nil {
		backupAPIClient, backupClientError := githubapi.NewClient(command.Context(), configuration.BackupToken)
		if backupClientError != nil {
			return nil, nil, fmt.Errorf(backupClientCreationErrorTemplate, backupClientError)
		}
		backupClient = GitHubBackupClient{Client: backupAPIClient, Organization: configuration.BackupOrganization}
	}

	return sourceLister, backupClient, nil
}

func (builder *CommandBuilder) resolveMirrorer(logger *zap.Logger) (RepositoryMirrorer, error) {
	if builder.Mirrorer != nil {
		return builder.Mirrorer, nil
	}

	executor := builder.GitExecutor
	if executor == nil {
		humanReadableLogging := false
		if builder.HumanReadableLoggingProvider != nil {
			humanReadableLogging = builder.HumanReadableLoggingProvider()
		}
		shellExecutor, executorError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), humanReadableLogging)
		if executorError != nil {
			return nil, executorError
		}
		if humanReadableLogging {
			shellExecutor.SetEventObserver(ui.NewConsoleCommandEventLogger(logger))
		}
		executor = shellExecutor
	}

	gitMirrorer, mirrorerError := gitrepo.NewRepositoryMirrorer(executor)
	if mirrorerError != nil {
		return nil, fmt.Errorf(mirrorerCreationErrorTemplateConstant, mirrorerError)
	}
	return GitMirrorerAdapter{Mirrorer: gitMirrorer}, nil
}

func (builder *CommandBuilder) resolveSleeper() Sleeper {
	if builder.Sleeper != nil {
		return builder.Sleeper
	}
	return SystemSleeper{}
}
