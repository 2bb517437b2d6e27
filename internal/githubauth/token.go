package githubauth

import (
	"os"
	"strings"
)

// Environment variable names used by GitHub authentication helpers.
const (
	EnvSourceToken       = "SOURCE_TOKEN"
	EnvBackupToken       = "BACKUP_TOKEN"
	EnvGitHubToken       = "GITHUB_TOKEN"
	EnvGitHubAPIToken    = "GITHUB_API_TOKEN"
	EnvGitHubCLITokenVar = "GH_TOKEN"
)

var sourceTokenPreference = []string{
	EnvSourceToken,
	EnvGitHubToken,
	EnvGitHubAPIToken,
	EnvGitHubCLITokenVar,
}

var backupTokenPreference = []string{
	EnvBackupToken,
}

// ResolveSourceToken returns the first non-empty source credential observed in
// the provided environment map or the process environment. Generic GitHub
// token variables act as fallbacks for the source identity only; the backup
// identity must be configured explicitly so a general-purpose token is never
// silently granted deletion rights over the backup organization.
func ResolveSourceToken(environment map[string]string) (string, bool) {
	return resolveFirst(environment, sourceTokenPreference)
}

// ResolveBackupToken returns the backup credential when configured.
func ResolveBackupToken(environment map[string]string) (string, bool) {
	return resolveFirst(environment, backupTokenPreference)
}

func resolveFirst(environment map[string]string, preference []string) (string, bool) {
	for _, key := range preference {
		if value, ok := lookup(environment, key); ok {
			return value, true
		}
	}
	for _, key := range preference {
		if value, ok := os.LookupEnv(key); ok {
			value = strings.TrimSpace(value)
			if len(value) > 0 {
				return value, true
			}
		}
	}
	return "", false
}

func lookup(environment map[string]string, key string) (string, bool) {
	if environment == nil {
		return "", false
	}
	value, exists := environment[key]
	if !exists {
		return "", false
	}
	value = strings.TrimSpace(value)
	if len(value) == 0 {
		return "", false
	}
	return value, true
}
