package cli

import (
	"bytes"
	"testing"

	"github.com/go-viper/mapstructure/v2"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Zero-Carbon/backup-org/internal/mirror"
)

const applicationConfigurationFixtureConstant = `
common:
  log_level: debug
  log_format: console
backup:
  source_org: fixture-source
  backup_org: fixture-backup
  script_repository: fixture-protected
  settling_delay_seconds: 2
  dry_run: true
`

func TestNewApplicationRegistersBackupCommand(testInstance *testing.T) {
	application := NewApplication()

	registeredCommandNames := []string{}
	for _, registeredCommand := range application.rootCommand.Commands() {
		registeredCommandNames = append(registeredCommandNames, registeredCommand.Name())
	}

	require.Contains(testInstance, registeredCommandNames, "backup")
}

func TestApplicationConfigurationDecodesFixture(testInstance *testing.T) {
	var rawConfiguration map[string]any
	require.NoError(testInstance, yaml.Unmarshal([]byte(applicationConfigurationFixtureConstant), &rawConfiguration))

	var decodedConfiguration ApplicationConfiguration
	require.NoError(testInstance, mapstructure.Decode(rawConfiguration, &decodedConfiguration))

	require.Equal(testInstance, "debug", decodedConfiguration.Common.LogLevel)
	require.Equal(testInstance, "console", decodedConfiguration.Common.LogFormat)
	require.Equal(testInstance, mirror.CommandConfiguration{
		SourceOrganization:      "fixture-source",
		BackupOrganization:      "fixture-backup",
		ProtectedRepositoryName: "fixture-protected",
		SettlingDelaySeconds:    2,
		DryRun:                  true,
	}, decodedConfiguration.Backup)
}

func TestApplicationRootCommandShowsHelpWithoutArguments(testInstance *testing.T) {
	application := NewApplication()

	outputBuffer := &bytes.Buffer{}
	application.rootCommand.SetOut(outputBuffer)
	application.rootCommand.SetErr(outputBuffer)
	application.rootCommand.SetArgs([]string{})

	executionError := application.Execute()

	require.NoError(testInstance, executionError)
	require.Contains(testInstance, outputBuffer.String(), "github-org-backup")
}

func TestHumanReadableLoggingFollowsLogFormat(testInstance *testing.T) {
	application := NewApplication()

	application.configuration.Common.LogFormat = "console"
	require.True(testInstance, application.humanReadableLoggingEnabled())

	application.configuration.Common.LogFormat = "structured"
	require.False(testInstance, application.humanReadableLoggingEnabled())
}
