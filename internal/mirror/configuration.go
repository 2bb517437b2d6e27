package mirror

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultProtectedRepositoryName is the repository hosting the backup tooling itself.
	DefaultProtectedRepositoryName = "github-org-backup"
	// DefaultSettlingDelaySeconds covers the hosting service's eventual-consistency window after deletion.
	DefaultSettlingDelaySeconds = 5
)

const (
	configurationKeySeparatorConstant         = "."
	sourceOrganizationConfigurationKey        = "source_org"
	backupOrganizationConfigurationKey        = "backup_org"
	sourceTokenConfigurationKey               = "source_token"
	backupTokenConfigurationKey               = "backup_token"
	protectedRepositoryConfigurationKey       = "script_repository"
	settlingDelayConfigurationKey             = "settling_delay_seconds"
	dryRunConfigurationKey                    = "dry_run"
	sourceOrganizationEnvironmentNameConstant = "SOURCE_ORG"
	backupOrganizationEnvironmentNameConstant = "BACKUP_ORG"
	sourceTokenEnvironmentNameConstant        = "SOURCE_TOKEN"
	backupTokenEnvironmentNameConstant        = "BACKUP_TOKEN"
	protectedRepositoryEnvironmentName        = "BACKUP_SCRIPT_REPO"
	missingConfigurationTemplateConstant      = "missing required configuration: %s"
	missingConfigurationJoinSeparatorConstant = ", "
)

// CommandConfiguration captures persisted configuration for organization backups.
type CommandConfiguration struct {
	SourceOrganization      string `mapstructure:"source_org"`
	BackupOrganization      string `mapstructure:"backup_org"`
	SourceToken             string `mapstructure:"source_token"`
	BackupToken             string `mapstructure:"backup_token"`
	ProtectedRepositoryName string `mapstructure:"script_repository"`
	SettlingDelaySeconds    int    `mapstructure:"settling_delay_seconds"`
	DryRun                  bool   `mapstructure:"dry_run"`
}

// ConfigurationError reports required configuration values that were not provided.
type ConfigurationError struct {
	MissingFields []string
}

// Error lists the missing configuration values.
func (configurationError *ConfigurationError) Error() string {
	return fmt.Sprintf(missingConfigurationTemplateConstant, strings.Join(configurationError.MissingFields, missingConfigurationJoinSeparatorConstant))
}

// DefaultCommandConfiguration returns baseline configuration values for organization backups.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		ProtectedRepositoryName: DefaultProtectedRepositoryName,
		SettlingDelaySeconds:    DefaultSettlingDelaySeconds,
	}
}

// DefaultConfigurationValues exposes baseline values keyed for configuration loading.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		prefixedConfigurationKey(configurationKeyPrefix, protectedRepositoryConfigurationKey): defaults.ProtectedRepositoryName,
		prefixedConfigurationKey(configurationKeyPrefix, settlingDelayConfigurationKey):       defaults.SettlingDelaySeconds,
		prefixedConfigurationKey(configurationKeyPrefix, dryRunConfigurationKey):              defaults.DryRun,
	}
}

// EnvironmentBindings maps configuration keys to the bare environment variable names users export.
func EnvironmentBindings(configurationKeyPrefix string) map[string]string {
	return map[string]string{
		prefixedConfigurationKey(configurationKeyPrefix, sourceOrganizationConfigurationKey):  sourceOrganizationEnvironmentNameConstant,
		prefixedConfigurationKey(configurationKeyPrefix, backupOrganizationConfigurationKey):  backupOrganizationEnvironmentNameConstant,
		prefixedConfigurationKey(configurationKeyPrefix, sourceTokenConfigurationKey):         sourceTokenEnvironmentNameConstant,
		prefixedConfigurationKey(configurationKeyPrefix, backupTokenConfigurationKey):         backupTokenEnvironmentNameConstant,
		prefixedConfigurationKey(configurationKeyPrefix, protectedRepositoryConfigurationKey): protectedRepositoryEnvironmentName,
	}
}

// Sanitize trims configured values and restores defaults for blank optional fields.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.SourceOrganization = strings.TrimSpace(configuration.SourceOrganization)
	sanitized.BackupOrganization = strings.TrimSpace(configuration.BackupOrganization)
	sanitized.SourceToken = strings.TrimSpace(configuration.SourceToken)
	sanitized.BackupToken = strings.TrimSpace(configuration.BackupToken)
	sanitized.ProtectedRepositoryName = strings.TrimSpace(configuration.ProtectedRepositoryName)
	if len(sanitized.ProtectedRepositoryName) == 0 {
		sanitized.ProtectedRepositoryName = DefaultProtectedRepositoryName
	}
	if sanitized.SettlingDelaySeconds < 0 {
		sanitized.SettlingDelaySeconds = DefaultSettlingDelaySeconds
	}
	return sanitized
}

// Validate confirms every required configuration value is present.
func (configuration CommandConfiguration) Validate() error {
	missingFields := []string{}
	if len(strings.TrimSpace(configuration.SourceOrganization)) == 0 {
		missingFields = append(missingFields, sourceOrganizationEnvironmentNameConstant)
	}
	if len(strings.TrimSpace(configuration.BackupOrganization)) == 0 {
		missingFields = append(missingFields, backupOrganizationEnvironmentNameConstant)
	}
	if len(strings.TrimSpace(configuration.SourceToken)) == 0 {
		missingFields = append(missingFields, sourceTokenEnvironmentNameConstant)
	}
	if len(strings.TrimSpace(configuration.BackupToken)) == 0 {
		missingFields = append(missingFields, backupTokenEnvironmentNameConstant)
	}
	if len(missingFields) > 0 {
		return &ConfigurationError{MissingFields: missingFields}
	}
	return nil
}

// SettlingDelay returns the configured settling delay as a duration.
func (configuration CommandConfiguration) SettlingDelay() time.Duration {
	return time.Duration(configuration.SettlingDelaySeconds) * time.Second
}

func prefixedConfigurationKey(configurationKeyPrefix string, configurationKey string) string {
	trimmedPrefix := strings.TrimSpace(configurationKeyPrefix)
	if len(trimmedPrefix) == 0 {
		return configurationKey
	}
	return trimmedPrefix + configurationKeySeparatorConstant + configurationKey
}
