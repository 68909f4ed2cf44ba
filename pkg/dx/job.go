package dx

import (
	"fmt"
	"strings"
)

// JobContext holds the CI run metadata the hosting pipeline exposes
type JobContext struct {
	Workflow   string `envconfig:"GITHUB_WORKFLOW" yaml:"workflow"`
	Repository string `envconfig:"GITHUB_REPOSITORY" yaml:"repository"`
	Ref        string `envconfig:"GITHUB_REF" yaml:"ref"`
	RefName    string `envconfig:"GITHUB_REF_NAME" yaml:"refName"`
	SHA        string `envconfig:"GITHUB_SHA" yaml:"sha"`
	RunID      string `envconfig:"GITHUB_RUN_ID" yaml:"runId"`
	Job        string `envconfig:"GITHUB_JOB" yaml:"job"`
	ServerURL  string `envconfig:"GITHUB_SERVER_URL" yaml:"serverUrl"`
	APIURL     string `envconfig:"GITHUB_API_URL" yaml:"apiUrl"`
}

const shortSHALength = 7

// ShortSHA returns the abbreviated commit hash, or the whole hash if it is shorter
func (j *JobContext) ShortSHA() string {
	if len(j.SHA) < shortSHALength {
		return j.SHA
	}
	return j.SHA[:shortSHALength]
}

// Branch prefers the short ref name, falls back to the full ref
func (j *JobContext) Branch() string {
	if j.RefName != "" {
		return j.RefName
	}
	return j.Ref
}

func (j *JobContext) RepoURL() string {
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(j.ServerURL, "/"), j.Repository)
}

func (j *JobContext) CommitURL() string {
	return fmt.Sprintf("%s/commit/%s", j.RepoURL(), j.SHA)
}

func (j *JobContext) RunURL() string {
	return fmt.Sprintf("%s/actions/runs/%s", j.RepoURL(), j.RunID)
}

// JobURL links the job by its key. GitHub's job pages are addressed by a numeric id
// the environment does not expose, so this link is best-effort and may not resolve.
func (j *JobContext) JobURL() string {
	return fmt.Sprintf("%s/job/%s", j.RunURL(), j.Job)
}

// OwnerAndName splits the owner/name repository identifier
func (j *JobContext) OwnerAndName() (string, string, error) {
	return SplitRepository(j.Repository)
}

// SplitRepository splits an owner/name repository identifier, both parts must be present
func SplitRepository(repository string) (string, string, error) {
	parts := strings.Split(repository, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("cannot determine repo owner and name from %q", repository)
	}
	return parts[0], parts[1], nil
}
