// Package gitrepo executes git operations for repository mirroring.
//
// The package builds authenticated HTTPS remote URLs and drives the git
// binary through a shell executor to create bare mirror clones and push them
// to their backup destinations.
package gitrepo
