// Package githubapi wraps the GitHub REST API operations required to mirror
// repositories between organizations.
//
// The package exposes a small client surface (list, get, create, delete) and
// translates GitHub API failures into typed errors so callers can distinguish
// missing repositories, permission problems, and conflicting state without
// inspecting HTTP status codes themselves.
package githubapi
