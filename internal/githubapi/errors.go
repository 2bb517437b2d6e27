package githubapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v66/github"
)

const (
	organizationAccessErrorTemplateConstant = "unable to access organization %s: %s"
	repositoryNotFoundErrorTemplateConstant = "repository %s/%s not found"
	permissionDeniedErrorTemplateConstant   = "permission denied for repository %s/%s: %s"
	organizationPermissionTemplateConstant  = "permission denied for organization %s: %s"
	repositoryConflictErrorTemplateConstant = "repository %s/%s conflicts with existing state: %s"
	authenticationFailedMessageConstant     = "authentication failed; verify the configured token"
	insufficientScopeMessageConstant        = "token lacks the required scopes"
	unknownAPIFailureMessageConstant        = "unexpected GitHub API failure"
)

// OrganizationAccessError reports that an organization could not be listed or reached.
type OrganizationAccessError struct {
	Organization string
	Cause        error
}

// Error describes the organization access failure.
func (accessError *OrganizationAccessError) Error() string {
	return fmt.Sprintf(organizationAccessErrorTemplateConstant, accessError.Organization, describeCause(accessError.Cause))
}

// Unwrap exposes the wrapped API failure.
func (accessError *OrganizationAccessError) Unwrap() error {
	return accessError.Cause
}

// RepositoryNotFoundError reports that a repository does not exist in the organization.
type RepositoryNotFoundError struct {
	Organization   string
	RepositoryName string
	Cause          error
}

// Error describes the missing repository.
func (notFoundError *RepositoryNotFoundError) Error() string {
	return fmt.Sprintf(repositoryNotFoundErrorTemplateConstant, notFoundError.Organization, notFoundError.RepositoryName)
}

// Unwrap exposes the wrapped API failure.
func (notFoundError *RepositoryNotFoundError) Unwrap() error {
	return notFoundError.Cause
}

// PermissionDeniedError reports that the configured token may not perform the requested operation.
type PermissionDeniedError struct {
	Organization   string
	RepositoryName string
	Cause          error
}

// Error describes the permission failure.
func (permissionError *PermissionDeniedError) Error() string {
	if len(permissionError.RepositoryName) == 0 {
		return fmt.Sprintf(organizationPermissionTemplateConstant, permissionError.Organization, describeCause(permissionError.Cause))
	}
	return fmt.Sprintf(permissionDeniedErrorTemplateConstant, permissionError.Organization, permissionError.RepositoryName, describeCause(permissionError.Cause))
}

// Unwrap exposes the wrapped API failure.
func (permissionError *PermissionDeniedError) Unwrap() error {
	return permissionError.Cause
}

// RepositoryConflictError reports that repository creation collided with existing state.
type RepositoryConflictError struct {
	Organization   string
	RepositoryName string
	Cause          error
}

// Error describes the conflicting repository state.
func (conflictError *RepositoryConflictError) Error() string {
	return fmt.Sprintf(repositoryConflictErrorTemplateConstant, conflictError.Organization, conflictError.RepositoryName, describeCause(conflictError.Cause))
}

// Unwrap exposes the wrapped API failure.
func (conflictError *RepositoryConflictError) Unwrap() error {
	return conflictError.Cause
}

// IsNotFound reports whether the error chain contains a RepositoryNotFoundError.
func IsNotFound(candidateError error) bool {
	var notFoundError *RepositoryNotFoundError
	return errors.As(candidateError, &notFoundError)
}

// IsPermissionDenied reports whether the error chain contains a PermissionDeniedError.
func IsPermissionDenied(candidateError error) bool {
	var permissionError *PermissionDeniedError
	return errors.As(candidateError, &permissionError)
}

// IsConflict reports whether the error chain contains a RepositoryConflictError.
func IsConflict(candidateError error) bool {
	var conflictError *RepositoryConflictError
	return errors.As(candidateError, &conflictError)
}

func classifyRepositoryError(organization string, repositoryName string, apiError error) error {
	statusCode, hasStatus := responseStatusCode(apiError)
	if !hasStatus {
		return &OrganizationAccessError{Organization: organization, Cause: apiError}
	}

	switch statusCode {
	case http.StatusNotFound:
		return &RepositoryNotFoundError{Organization: organization, RepositoryName: repositoryName, Cause: apiError}
	case http.StatusUnauthorized:
		return &PermissionDeniedError{Organization: organization, RepositoryName: repositoryName, Cause: fmt.Errorf("%s: %w", authenticationFailedMessageConstant, apiError)}
	case http.StatusForbidden:
		return &PermissionDeniedError{Organization: organization, RepositoryName: repositoryName, Cause: fmt.Errorf("%s: %w", insufficientScopeMessageConstant, apiError)}
	case http.StatusConflict, http.StatusUnprocessableEntity:
		return &RepositoryConflictError{Organization: organization, RepositoryName: repositoryName, Cause: apiError}
	default:
		return &OrganizationAccessError{Organization: organization, Cause: apiError}
	}
}

func classifyOrganizationError(organization string, apiError error) error {
	statusCode, hasStatus := responseStatusCode(apiError)
	if hasStatus && (statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden) {
		return &PermissionDeniedError{Organization: organization, Cause: apiError}
	}
	return &OrganizationAccessError{Organization: organization, Cause: apiError}
}

func responseStatusCode(apiError error) (int, bool) {
	var errorResponse *github.ErrorResponse
	if errors.As(apiError, &errorResponse) && errorResponse.Response != nil {
		return errorResponse.Response.StatusCode, true
	}
	return 0, false
}

func describeCause(cause error) string {
	if cause == nil {
		return unknownAPIFailureMessageConstant
	}
	return cause.Error()
}
