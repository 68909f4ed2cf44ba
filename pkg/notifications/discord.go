package notifications

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

const (
	discordGreen  = 3066993
	discordRed    = 15158332
	discordOrange = 15105570
)

// DiscordProvider posts to a Discord channel webhook
type DiscordProvider struct {
	WebhookURL string
}

func (jm *jobStatusMessage) AsDiscordMessage() (*discordgo.WebhookParams, error) {
	return &discordgo.WebhookParams{
		Content: jm.rendered.Title,
		Embeds: []*discordgo.MessageEmbed{
			{
				Type:        "rich",
				Description: jm.rendered.Text,
				Color:       discordColor(jm.rendered.Color),
				Footer: &discordgo.MessageEmbedFooter{
					Text: jm.rendered.Footer,
				},
			},
		},
	}, nil
}

func discordColor(color string) int {
	switch color {
	case colorGood:
		return discordGreen
	case colorDanger:
		return discordRed
	default:
		return discordOrange
	}
}

func (d *DiscordProvider) name() string {
	return "discord"
}

func (d *DiscordProvider) webhookURL() string {
	return d.WebhookURL
}

func (d *DiscordProvider) payload(msg Message) ([]byte, error) {
	discordMessage, err := msg.AsDiscordMessage()
	if err != nil {
		return nil, fmt.Errorf("cannot create discord message: %s", err)
	}

	return marshal(discordMessage)
}
