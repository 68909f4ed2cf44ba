package notifications

import (
	"sort"
	"strings"

	"github.com/gimlet-io/ci-notify/pkg/dx"
)

const WorkflowURLPattern = "workflow_url"

// Patterns maps placeholder names, without braces, to their values
type Patterns map[string]string

func NewPatterns(job *dx.JobContext, c Classification, workflowURL string) Patterns {
	return Patterns{
		"workflow":         job.Workflow,
		WorkflowURLPattern: workflowURL,
		"repo":             job.Repository,
		"repo_url":         job.RepoURL(),
		"branch":           job.Branch(),
		"commit_sha":       job.ShortSHA(),
		"commit_url":       job.CommitURL(),
		"run_url":          job.RunURL(),
		"job":              job.Job,
		"job_url":          job.JobURL(),
		"color":            c.Color,
		"status_message":   c.StatusMessage,
		"emoji":            c.Emoji,
	}
}

// Render replaces every {name} token of the template in a single pass.
// Substituted values are not scanned again, unknown tokens are left as is.
func Render(template string, patterns Patterns) string {
	keys := make([]string, 0, len(patterns))
	for k := range patterns {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	oldnew := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		oldnew = append(oldnew, token(k), patterns[k])
	}

	return strings.NewReplacer(oldnew...).Replace(template)
}

// References tells if the template uses the given placeholder
func References(template string, name string) bool {
	return strings.Contains(template, token(name))
}

func token(name string) string {
	return "{" + name + "}"
}
