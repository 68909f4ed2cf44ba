package customGithub

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gimlet-io/ci-notify/pkg/dx"
	"github.com/google/go-github/v37/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// GithubClient talks to the GitHub REST API at APIURL, authenticated with Token if set
type GithubClient struct {
	APIURL     string
	Token      string
	HTTPClient *http.Client
}

func (c *GithubClient) client() (*github.Client, error) {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if c.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.Token})
		httpClient = &http.Client{
			Transport: &oauth2.Transport{
				Base:   httpClient.Transport,
				Source: ts,
			},
			Timeout: httpClient.Timeout,
		}
	}

	client := github.NewClient(httpClient)
	if c.APIURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(c.APIURL, "/") + "/")
		if err != nil {
			return nil, err
		}
		client.BaseURL = baseURL
	}

	return client, nil
}

// WorkflowURL returns the html url of the repository's workflow with the given name.
// Lookup failures are logged and yield an empty string.
func (c *GithubClient) WorkflowURL(ctx context.Context, repository string, workflowName string) string {
	owner, repo, err := dx.SplitRepository(repository)
	if err != nil {
		logrus.Warn(err)
		return ""
	}

	client, err := c.client()
	if err != nil {
		logrus.Warnf("invalid github api url: %s", err)
		return ""
	}

	opt := &github.ListOptions{PerPage: 100}
	for {
		workflows, resp, err := client.Actions.ListWorkflows(ctx, owner, repo, opt)
		if err != nil {
			logrus.Warnf("could not list workflows of %s: %s", repository, err)
			return ""
		}

		for _, w := range workflows.Workflows {
			if w.GetName() == workflowName {
				return w.GetHTMLURL()
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}

	logrus.Debugf("no workflow named %q in %s", workflowName, repository)
	return ""
}
