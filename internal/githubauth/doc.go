// Package githubauth resolves GitHub credentials from the environment.
package githubauth
