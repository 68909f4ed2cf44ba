package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/enescakir/emoji"
	"github.com/gimlet-io/ci-notify/cmd/ci-notify/config"
	"github.com/gimlet-io/ci-notify/pkg/git/customScm"
	"github.com/gimlet-io/ci-notify/pkg/notifications"
	"github.com/gimlet-io/ci-notify/pkg/version"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:    "ci-notify",
		Version: version.String(),
		Usage:   "posts the outcome of a CI job to a Slack or Discord webhook",
		UsageText: `ci-notify
     INPUT_STATUS=${{ job.status }} SLACK_WEBHOOK_URL=https://hooks.slack.com/services/... ci-notify`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "dotenv file to load before reading the environment",
				Value: ".env",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "print the payload instead of posting it, INPUT_DRY_RUN environment variable alternatively",
			},
		},
		Action: notify,
	}
	err := app.Run(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", emoji.CrossMark, err.Error())
		os.Exit(1)
	}
}

func notify(c *cli.Context) error {
	err := godotenv.Load(c.String("env-file"))
	if err != nil {
		logrus.Debugf("could not load %s file, relying on env vars", c.String("env-file"))
	}

	cfg, err := config.Environ()
	if err != nil {
		return fmt.Errorf("invalid configuration: %s", err)
	}
	if c.Bool("dry-run") {
		cfg.DryRun = true
	}
	err = cfg.Validate()
	if err != nil {
		return fmt.Errorf("invalid configuration: %s", err)
	}

	initLogging(cfg)

	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		fmt.Println(cfg.String())
	}

	err = run(c.Context, cfg, os.Stdout)
	if err != nil {
		// a failed notification must not fail the CI job
		logrus.Warnf("notification was not delivered: %s", err)
	}

	return nil
}

func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	manager := notifications.NewManager(cfg.NotifyWhen)
	manager.Client = httpClient
	manager.Retries = cfg.Retries
	manager.AddProvider(notificationProvider(cfg))
	if cfg.DryRun {
		manager.DryRun = out
	}

	var metrics *notifications.Metrics
	if cfg.PushgatewayURL != "" {
		metrics = notifications.NewMetrics()
		manager.Metrics = metrics
	}

	templates := notifications.Templates{
		Title:   cfg.Title,
		Message: cfg.MessageFormat,
		Footer:  cfg.Footer,
	}

	workflowURL := ""
	if notifications.ShouldNotify(cfg.Status, cfg.NotifyWhen) && templates.NeedsWorkflowURL() {
		gitService := customScm.NewGitService(cfg.Job.APIURL, cfg.Token, httpClient)
		workflowURL = gitService.WorkflowURL(ctx, cfg.Job.Repository, cfg.Job.Workflow)
	}

	msg := notifications.MessageFromJob(
		&cfg.Job,
		cfg.Status,
		templates,
		notifications.Icons{
			Success:  cfg.Icons.Success,
			Failure:  cfg.Icons.Failure,
			Warnings: cfg.Icons.Warnings,
		},
		notifications.Mentions{
			Users:      cfg.Mentions.Users,
			UsersWhen:  cfg.Mentions.UsersWhen,
			Groups:     cfg.Mentions.Groups,
			GroupsWhen: cfg.Mentions.GroupsWhen,
		},
		workflowURL,
	)

	var notifier notifications.Manager = manager
	notifyErr := notifier.Notify(ctx, msg)

	if metrics != nil {
		err := metrics.Push(ctx, cfg.PushgatewayURL, cfg.Job.Repository, cfg.Job.Workflow)
		if err != nil {
			logrus.Warnf("could not push metrics: %s", err)
		}
	}

	return notifyErr
}

func notificationProvider(cfg *config.Config) notifications.Provider {
	if cfg.Provider == config.ProviderDiscord {
		return &notifications.DiscordProvider{
			WebhookURL: cfg.WebhookURL(),
		}
	}

	return &notifications.SlackProvider{
		WebhookURL: cfg.WebhookURL(),
	}
}

// helper function configures the logging.
func initLogging(c *config.Config) {
	if c.Logging.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if c.Logging.Trace {
		logrus.SetLevel(logrus.TraceLevel)
	}
	if c.Logging.Text {
		logrus.SetFormatter(&logrus.TextFormatter{
			ForceColors:   c.Logging.Color,
			DisableColors: !c.Logging.Color,
		})
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{
			PrettyPrint: c.Logging.Pretty,
		})
	}
}
