package notifications

import (
	"fmt"
)

const markdownText = "text"

type SlackProvider struct {
	WebhookURL string
}

type slackMessage struct {
	Attachments []Attachment `json:"attachments"`
}

type Attachment struct {
	Text     string   `json:"text"`
	Fallback string   `json:"fallback"`
	Pretext  string   `json:"pretext"`
	Color    string   `json:"color"`
	MrkdwnIn []string `json:"mrkdwn_in"`
	Footer   string   `json:"footer"`
}

func (jm *jobStatusMessage) AsSlackMessage() (*slackMessage, error) {
	return &slackMessage{
		Attachments: []Attachment{
			{
				Text:     jm.rendered.Text,
				Fallback: jm.rendered.Title,
				Pretext:  jm.rendered.Title,
				Color:    jm.rendered.Color,
				MrkdwnIn: []string{markdownText},
				Footer:   jm.rendered.Footer,
			},
		},
	}, nil
}

func (s *SlackProvider) name() string {
	return "slack"
}

func (s *SlackProvider) webhookURL() string {
	return s.WebhookURL
}

func (s *SlackProvider) payload(msg Message) ([]byte, error) {
	slackMessage, err := msg.AsSlackMessage()
	if err != nil {
		return nil, fmt.Errorf("cannot create slack message: %s", err)
	}

	return marshal(slackMessage)
}
