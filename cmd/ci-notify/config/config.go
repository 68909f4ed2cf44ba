package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/gimlet-io/ci-notify/pkg/dx"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

const (
	ProviderSlack   = "slack"
	ProviderDiscord = "discord"

	redacted = "<redacted>"
)

// Environ returns the settings from the environment.
func Environ() (*Config, error) {
	cfg := Config{}
	err := envconfig.Process("", &cfg)
	defaults(&cfg)

	return &cfg, err
}

func defaults(c *Config) {
	if c.Title == "" {
		c.Title = "{workflow} has {status_message}"
	}
	if c.MessageFormat == "" {
		c.MessageFormat = "{emoji} *{workflow}* {status_message} in <{repo_url}|{repo}>"
	}
	if c.Footer == "" {
		c.Footer = "Linked Repo <{repo_url}|{repo}>"
	}
	if c.Icons.Success == "" {
		c.Icons.Success = ":heavy_check_mark:"
	}
	if c.Icons.Failure == "" {
		c.Icons.Failure = ":x:"
	}
	if c.Icons.Warnings == "" {
		c.Icons.Warnings = ":large_orange_diamond:"
	}
	if c.Provider == "" {
		c.Provider = ProviderSlack
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.Job.ServerURL == "" {
		c.Job.ServerURL = "https://github.com"
	}
	if c.Job.APIURL == "" {
		c.Job.APIURL = "https://api.github.com"
	}
}

// Validate checks the settings that have no sensible default
func (c *Config) Validate() error {
	if c.Provider != ProviderSlack && c.Provider != ProviderDiscord {
		return fmt.Errorf("unknown notification provider %q, use %s or %s", c.Provider, ProviderSlack, ProviderDiscord)
	}
	if c.Retries < 0 {
		return fmt.Errorf("INPUT_RETRIES must not be negative")
	}
	if c.DryRun {
		return nil
	}
	if c.WebhookURL() == "" {
		return fmt.Errorf("no webhook url provided for %s", c.Provider)
	}

	return nil
}

// WebhookURL returns the destination of the configured provider
func (c *Config) WebhookURL() string {
	if c.Provider == ProviderDiscord {
		return c.DiscordWebhookURL
	}
	return c.SlackWebhookURL
}

// String returns the configuration in string format, secrets redacted.
func (c *Config) String() string {
	safe := *c
	if safe.Token != "" {
		safe.Token = redacted
	}
	if safe.SlackWebhookURL != "" {
		safe.SlackWebhookURL = redacted
	}
	if safe.DiscordWebhookURL != "" {
		safe.DiscordWebhookURL = redacted
	}
	out, _ := yaml.Marshal(safe)
	return string(out)
}

type Config struct {
	Logging       Logging       `yaml:"logging"`
	Job           dx.JobContext `yaml:"job"`
	Status        string        `envconfig:"INPUT_STATUS" required:"true" yaml:"status"`
	Title         string        `envconfig:"INPUT_NOTIFICATION_TITLE" yaml:"title"`
	MessageFormat string        `envconfig:"INPUT_MESSAGE_FORMAT" yaml:"messageFormat"`
	Footer        string        `envconfig:"INPUT_FOOTER" yaml:"footer"`
	NotifyWhen    List          `envconfig:"INPUT_NOTIFY_WHEN" yaml:"notifyWhen"`
	Mentions      Mentions      `yaml:"mentions"`
	Icons         Icons         `yaml:"icons"`

	// Token authenticates the workflow metadata lookup
	Token string `envconfig:"INPUT_TOKEN" yaml:"token"`

	Provider          string        `envconfig:"INPUT_PROVIDER" yaml:"provider"`
	SlackWebhookURL   string        `envconfig:"SLACK_WEBHOOK_URL" yaml:"slackWebhookUrl"`
	DiscordWebhookURL string        `envconfig:"DISCORD_WEBHOOK_URL" yaml:"discordWebhookUrl"`
	Retries           int           `envconfig:"INPUT_RETRIES" yaml:"retries"`
	Timeout           time.Duration `envconfig:"INPUT_TIMEOUT" yaml:"timeout"`
	DryRun            bool          `envconfig:"INPUT_DRY_RUN" yaml:"dryRun"`
	PushgatewayURL    string        `envconfig:"PUSHGATEWAY_URL" yaml:"pushgatewayUrl"`
}

// Logging provides the logging configuration.
type Logging struct {
	Debug  bool `envconfig:"DEBUG" yaml:"debug"`
	Trace  bool `envconfig:"TRACE" yaml:"trace"`
	Text   bool `envconfig:"LOG_TEXT" yaml:"text"`
	Color  bool `envconfig:"LOG_COLOR" yaml:"color"`
	Pretty bool `envconfig:"LOG_PRETTY" yaml:"pretty"`
}

type Mentions struct {
	Users      List `envconfig:"INPUT_MENTION_USERS" yaml:"users"`
	UsersWhen  List `envconfig:"INPUT_MENTION_USERS_WHEN" yaml:"usersWhen"`
	Groups     List `envconfig:"INPUT_MENTION_GROUPS" yaml:"groups"`
	GroupsWhen List `envconfig:"INPUT_MENTION_GROUPS_WHEN" yaml:"groupsWhen"`
}

type Icons struct {
	Success  string `envconfig:"INPUT_ICON_SUCCESS" yaml:"success"`
	Failure  string `envconfig:"INPUT_ICON_FAILURE" yaml:"failure"`
	Warnings string `envconfig:"INPUT_ICON_WARNINGS" yaml:"warnings"`
}

// List is a comma separated input. Entries are trimmed, empty entries dropped.
type List []string

func (l *List) Decode(value string) error {
	parsed := List{}
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		parsed = append(parsed, item)
	}
	*l = parsed
	return nil
}
