package githubapi_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/require"

	"github.com/Zero-Carbon/backup-org/internal/githubapi"
)

const (
	testOrganizationNameConstant = "source-org"
	testRepositoryNameConstant   = "service-api"
)

func newTestClient(testInstance *testing.T, handler http.Handler) *githubapi.Client {
	testInstance.Helper()

	server := httptest.NewServer(handler)
	testInstance.Cleanup(server.Close)

	apiClient := github.NewClient(nil)
	baseURL, parseError := url.Parse(server.URL + "/")
	require.NoError(testInstance, parseError)
	apiClient.BaseURL = baseURL

	client, clientError := githubapi.NewClientWithAPIClient(apiClient)
	require.NoError(testInstance, clientError)
	return client
}

func decodeJSONBody(request *http.Request, target any) error {
	defer request.Body.Close()
	return json.NewDecoder(request.Body).Decode(target)
}

func TestNewClientRequiresToken(testInstance *testing.T) {
	client, clientError := githubapi.NewClient(context.Background(), "   ")

	require.Nil(testInstance, client)
	require.ErrorIs(testInstance, clientError, githubapi.ErrMissingToken)
}

func TestNewClientWithAPIClientRequiresClient(testInstance *testing.T) {
	client, clientError := githubapi.NewClientWithAPIClient(nil)

	require.Nil(testInstance, client)
	require.ErrorIs(testInstance, clientError, githubapi.ErrMissingAPIClient)
}

func TestListOrganizationRepositoriesPaginates(testInstance *testing.T) {
	var serverURL string
	requestCount := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/orgs/"+testOrganizationNameConstant+"/repos", func(responseWriter http.ResponseWriter, request *http.Request) {
		requestCount++
		responseWriter.Header().Set("Content-Type", "application/json")
		if request.URL.Query().Get("page") == "2" {
			fmt.Fprint(responseWriter, `[{"name":"tooling","private":false,"archived":true}]`)
			return
		}
		responseWriter.Header().Set("Link", fmt.Sprintf(`<%s/orgs/%s/repos?page=2>; rel="next"`, serverURL, testOrganizationNameConstant))
		fmt.Fprint(responseWriter, `[{"name":"service-api","description":"Payment API","private":true,"archived":false}]`)
	})

	server := httptest.NewServer(mux)
	testInstance.Cleanup(server.Close)
	serverURL = server.URL

	apiClient := github.NewClient(nil)
	baseURL, parseError := url.Parse(server.URL + "/")
	require.NoError(testInstance, parseError)
	apiClient.BaseURL = baseURL
	client, clientError := githubapi.NewClientWithAPIClient(apiClient)
	require.NoError(testInstance, clientError)

	repositories, listError := client.ListOrganizationRepositories(context.Background(), testOrganizationNameConstant)

	require.NoError(testInstance, listError)
	require.Equal(testInstance, 2, requestCount)
	require.Equal(testInstance, []githubapi.Repository{
		{Name: "service-api", Description: "Payment API", Private: true, Archived: false},
		{Name: "tooling", Private: false, Archived: true},
	}, repositories)
}

func TestListOrganizationRepositoriesClassifiesAccessFailures(testInstance *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/orgs/"+testOrganizationNameConstant+"/repos", func(responseWriter http.ResponseWriter, _ *http.Request) {
		http.Error(responseWriter, `{"message":"Bad credentials"}`, http.StatusUnauthorized)
	})
	client := newTestClient(testInstance, mux)

	repositories, listError := client.ListOrganizationRepositories(context.Background(), testOrganizationNameConstant)

	require.Nil(testInstance, repositories)
	require.True(testInstance, githubapi.IsPermissionDenied(listError))
}

func TestGetRepositoryClassifiesMissingRepository(testInstance *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/"+testOrganizationNameConstant+"/"+testRepositoryNameConstant, func(responseWriter http.ResponseWriter, _ *http.Request) {
		http.Error(responseWriter, `{"message":"Not Found"}`, http.StatusNotFound)
	})
	client := newTestClient(testInstance, mux)

	_, fetchError := client.GetRepository(context.Background(), testOrganizationNameConstant, testRepositoryNameConstant)

	require.True(testInstance, githubapi.IsNotFound(fetchError))
	var notFoundError *githubapi.RepositoryNotFoundError
	require.ErrorAs(testInstance, fetchError, &notFoundError)
	require.Equal(testInstance, testRepositoryNameConstant, notFoundError.RepositoryName)
}

func TestCreateRepositoryDisablesCollaborationFeatures(testInstance *testing.T) {
	var receivedPayload map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/orgs/"+testOrganizationNameConstant+"/repos", func(responseWriter http.ResponseWriter, request *http.Request) {
		require.Equal(testInstance, http.MethodPost, request.Method)
		decodeError := decodeJSONBody(request, &receivedPayload)
		require.NoError(testInstance, decodeError)
		responseWriter.Header().Set("Content-Type", "application/json")
		responseWriter.WriteHeader(http.StatusCreated)
		fmt.Fprint(responseWriter, `{"name":"service-api","description":"[BACKUP] Payment API","private":true}`)
	})
	client := newTestClient(testInstance, mux)

	createdRepository, createError := client.CreateRepository(context.Background(), testOrganizationNameConstant, githubapi.RepositorySpecification{
		Name:        testRepositoryNameConstant,
		Description: "[BACKUP] Payment API",
		Private:     true,
	})

	require.NoError(testInstance, createError)
	require.Equal(testInstance, testRepositoryNameConstant, createdRepository.Name)
	require.Equal(testInstance, false, receivedPayload["has_issues"])
	require.Equal(testInstance, false, receivedPayload["has_wiki"])
	require.Equal(testInstance, false, receivedPayload["has_projects"])
	require.Equal(testInstance, true, receivedPayload["private"])
}

func TestCreateRepositoryClassifiesNameConflicts(testInstance *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/orgs/"+testOrganizationNameConstant+"/repos", func(responseWriter http.ResponseWriter, _ *http.Request) {
		http.Error(responseWriter, `{"message":"name already exists"}`, http.StatusUnprocessableEntity)
	})
	client := newTestClient(testInstance, mux)

	_, createError := client.CreateRepository(context.Background(), testOrganizationNameConstant, githubapi.RepositorySpecification{Name: testRepositoryNameConstant})

	require.True(testInstance, githubapi.IsConflict(createError))
}

func TestDeleteRepositoryClassifiesOutcomes(testInstance *testing.T) {
	testCases := []struct {
		name        string
		statusCode  int
		verifyError func(*testing.T, error)
	}{
		{
			name:       "success_returns_nil",
			statusCode: http.StatusNoContent,
			verifyError: func(subtestInstance *testing.T, deleteError error) {
				require.NoError(subtestInstance, deleteError)
			},
		},
		{
			name:       "missing_repository_returns_not_found",
			statusCode: http.StatusNotFound,
			verifyError: func(subtestInstance *testing.T, deleteError error) {
				require.True(subtestInstance, githubapi.IsNotFound(deleteError))
			},
		},
		{
			name:       "forbidden_returns_permission_denied",
			statusCode: http.StatusForbidden,
			verifyError: func(subtestInstance *testing.T, deleteError error) {
				require.True(subtestInstance, githubapi.IsPermissionDenied(deleteError))
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/repos/"+testOrganizationNameConstant+"/"+testRepositoryNameConstant, func(responseWriter http.ResponseWriter, request *http.Request) {
				require.Equal(subtestInstance, http.MethodDelete, request.Method)
				if testCase.statusCode == http.StatusNoContent {
					responseWriter.WriteHeader(http.StatusNoContent)
					return
				}
				http.Error(responseWriter, `{"message":"refused"}`, testCase.statusCode)
			})
			client := newTestClient(subtestInstance, mux)

			deleteError := client.DeleteRepository(context.Background(), testOrganizationNameConstant, testRepositoryNameConstant)

			testCase.verifyError(subtestInstance, deleteError)
		})
	}
}

func TestOperationsValidateInputs(testInstance *testing.T) {
	client := newTestClient(testInstance, http.NewServeMux())

	_, listError := client.ListOrganizationRepositories(context.Background(), "  ")
	require.ErrorIs(testInstance, listError, githubapi.ErrMissingOrganization)

	_, getError := client.GetRepository(context.Background(), testOrganizationNameConstant, "")
	require.ErrorIs(testInstance, getError, githubapi.ErrMissingRepositoryName)

	deleteError := client.DeleteRepository(context.Background(), "", testRepositoryNameConstant)
	require.ErrorIs(testInstance, deleteError, githubapi.ErrMissingOrganization)
}
