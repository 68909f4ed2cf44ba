package notifications

import (
	"github.com/bwmarrin/discordgo"
	"github.com/gimlet-io/ci-notify/pkg/dx"
)

type Message interface {
	AsSlackMessage() (*slackMessage, error)
	AsDiscordMessage() (*discordgo.WebhookParams, error)
	Status() string
	Color() string
}

// Templates are the user supplied formats of the notification parts
type Templates struct {
	Title   string
	Message string
	Footer  string
}

// NeedsWorkflowURL tells if any part refers to the workflow url, which costs an API call to resolve
func (t Templates) NeedsWorkflowURL() bool {
	return References(t.Title, WorkflowURLPattern) ||
		References(t.Message, WorkflowURLPattern) ||
		References(t.Footer, WorkflowURLPattern)
}

// Rendered is a notification with every placeholder resolved
type Rendered struct {
	Title  string
	Text   string
	Footer string
	Color  string
}

type jobStatusMessage struct {
	status   string
	rendered Rendered
}

// MessageFromJob renders the templates against the job, then appends the mentions to the text
func MessageFromJob(
	job *dx.JobContext,
	status string,
	templates Templates,
	icons Icons,
	mentions Mentions,
	workflowURL string,
) Message {
	classification := Classify(status, icons)
	patterns := NewPatterns(job, classification, workflowURL)

	return &jobStatusMessage{
		status: status,
		rendered: Rendered{
			Title:  Render(templates.Title, patterns),
			Text:   AppendMentions(Render(templates.Message, patterns), status, mentions),
			Footer: Render(templates.Footer, patterns),
			Color:  classification.Color,
		},
	}
}

func (jm *jobStatusMessage) Status() string {
	return jm.status
}

func (jm *jobStatusMessage) Color() string {
	return jm.rendered.Color
}
