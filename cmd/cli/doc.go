// Package cli assembles the github-org-backup command hierarchy, wiring
// configuration loading, structured logging, and the backup command.
package cli
