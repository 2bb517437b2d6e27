package utils_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Zero-Carbon/backup-org/internal/utils"
)

func TestCreateLogger(testInstance *testing.T) {
	testCases := []struct {
		name          string
		logLevel      utils.LogLevel
		logFormat     utils.LogFormat
		expectedError bool
	}{
		{
			name:      "structured_info_logger",
			logLevel:  utils.LogLevelInfo,
			logFormat: utils.LogFormatStructured,
		},
		{
			name:      "console_debug_logger",
			logLevel:  utils.LogLevelDebug,
			logFormat: utils.LogFormatConsole,
		},
		{
			name:      "warn_level_logger",
			logLevel:  utils.LogLevelWarn,
			logFormat: utils.LogFormatStructured,
		},
		{
			name:          "unsupported_level_is_rejected",
			logLevel:      utils.LogLevel("verbose"),
			logFormat:     utils.LogFormatStructured,
			expectedError: true,
		},
		{
			name:          "unsupported_format_is_rejected",
			logLevel:      utils.LogLevelInfo,
			logFormat:     utils.LogFormat("xml"),
			expectedError: true,
		},
	}

	factory := utils.NewLoggerFactory()

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			logger, creationError := factory.CreateLogger(testCase.logLevel, testCase.logFormat)

			if testCase.expectedError {
				require.Error(subtestInstance, creationError)
				require.Nil(subtestInstance, logger)
				return
			}

			require.NoError(subtestInstance, creationError)
			require.NotNil(subtestInstance, logger)
		})
	}
}
