package gitrepo

import (
	"fmt"
	"strings"
)

const (
	defaultRemoteHostConstant            = "github.com"
	tokenUserNameConstant                = "x-access-token"
	httpsRemoteURLTemplateConstant       = "https://%s/%s/%s.git"
	authenticatedURLTemplateConstant     = "https://%s:%s@%s/%s/%s.git"
	remoteURLFieldErrorTemplateConstant  = "%s: %s"
	missingOwnerMessageConstant          = "owner is required"
	missingRepositoryMessageConstant     = "repository name is required"
	missingAccessTokenMessageConstant    = "access token is required"
	gitSuffixConstant                    = ".git"
	remoteURLOwnerFieldNameConstant      = "owner"
	remoteURLRepositoryFieldNameConstant = "repository"
	remoteURLTokenFieldNameConstant      = "token"
)

// RemoteURL identifies a repository hosted on an HTTPS git remote.
type RemoteURL struct {
	Host       string
	Owner      string
	Repository string
}

// RemoteURLFieldError indicates a remote URL could not be built from the provided fields.
type RemoteURLFieldError struct {
	Field   string
	Message string
}

// Error describes the invalid field.
func (fieldError RemoteURLFieldError) Error() string {
	return fmt.Sprintf(remoteURLFieldErrorTemplateConstant, fieldError.Field, fieldError.Message)
}

// NewRemoteURL builds a RemoteURL for the default GitHub host.
func NewRemoteURL(owner string, repository string) (RemoteURL, error) {
	trimmedOwner := strings.TrimSpace(owner)
	trimmedRepository := strings.TrimSuffix(strings.TrimSpace(repository), gitSuffixConstant)
	if len(trimmedOwner) == 0 {
		return RemoteURL{}, RemoteURLFieldError{Field: remoteURLOwnerFieldNameConstant, Message: missingOwnerMessageConstant}
	}
	if len(trimmedRepository) == 0 {
		return RemoteURL{}, RemoteURLFieldError{Field: remoteURLRepositoryFieldNameConstant, Message: missingRepositoryMessageConstant}
	}
	return RemoteURL{Host: defaultRemoteHostConstant, Owner: trimmedOwner, Repository: trimmedRepository}, nil
}

// String renders the remote without credentials, suitable for logging.
func (remote RemoteURL) String() string {
	return fmt.Sprintf(httpsRemoteURLTemplateConstant, remote.Host, remote.Owner, remote.Repository)
}

// AuthenticatedURL renders the remote with an embedded access token for git transport.
func (remote RemoteURL) AuthenticatedURL(accessToken string) (string, error) {
	trimmedToken := strings.TrimSpace(accessToken)
	if len(trimmedToken) == 0 {
		return "", RemoteURLFieldError{Field: remoteURLTokenFieldNameConstant, Message: missingAccessTokenMessageConstant}
	}
	return fmt.Sprintf(authenticatedURLTemplateConstant, tokenUserNameConstant, trimmedToken, remote.Host, remote.Owner, remote.Repository), nil
}
