package customScm

import (
	"context"
	"net/http"

	"github.com/gimlet-io/ci-notify/pkg/git/customScm/customGithub"
)

// CustomGitService resolves CI metadata that is not part of the job environment
type CustomGitService interface {
	WorkflowURL(ctx context.Context, repository string, workflowName string) string
}

func NewGitService(apiURL string, token string, httpClient *http.Client) CustomGitService {
	return &customGithub.GithubClient{
		APIURL:     apiURL,
		Token:      token,
		HTTPClient: httpClient,
	}
}
