package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Manager interface {
	Notify(ctx context.Context, msg Message) error
	AddProvider(provider Provider)
}

type Provider interface {
	name() string
	webhookURL() string
	payload(msg Message) ([]byte, error)
}

// ManagerImpl delivers a message to every provider, if the job status passes the notify filter
type ManagerImpl struct {
	NotifyWhen    []string
	Client        *http.Client
	Retries       int
	RetryInterval time.Duration
	// DryRun, when set, receives the payloads instead of the webhooks
	DryRun  io.Writer
	Metrics *Metrics

	provider []Provider
}

func NewManager(notifyWhen []string) *ManagerImpl {
	return &ManagerImpl{
		NotifyWhen:    notifyWhen,
		Client:        http.DefaultClient,
		RetryInterval: 500 * time.Millisecond,
		provider:      []Provider{},
	}
}

func (m *ManagerImpl) AddProvider(provider Provider) {
	m.provider = append(m.provider, provider)
}

// ShouldNotify is a set membership test. An empty filter lets every status through.
func ShouldNotify(status string, notifyWhen []string) bool {
	if len(nonEmpty(notifyWhen)) == 0 {
		return true
	}
	return contains(notifyWhen, status)
}

func (m *ManagerImpl) Notify(ctx context.Context, msg Message) error {
	if !ShouldNotify(msg.Status(), m.NotifyWhen) {
		logrus.Infof("job status %q is not in %v, not sending notification", msg.Status(), m.NotifyWhen)
		for _, p := range m.provider {
			m.Metrics.observe(p.name(), outcomeSkipped)
		}
		return nil
	}

	var lastErr error
	for _, p := range m.provider {
		err := m.send(ctx, p, msg)
		if err != nil {
			logrus.Warnf("cannot send notification to %s: %s", p.name(), err)
			m.Metrics.observe(p.name(), outcomeFailed)
			lastErr = err
			continue
		}
		m.Metrics.observe(p.name(), outcomeDelivered)
	}

	return lastErr
}

func (m *ManagerImpl) send(ctx context.Context, p Provider, msg Message) error {
	payload, err := p.payload(msg)
	if err != nil {
		return err
	}

	if m.DryRun != nil {
		return printPayload(m.DryRun, p.name(), msg.Color(), payload)
	}

	attempt := 0
	operation := func() error {
		attempt++
		logrus.Debugf("posting to %s, attempt %d", p.name(), attempt)
		return post(ctx, m.Client, p.webhookURL(), payload)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = m.RetryInterval
	err = backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(b, uint64(m.Retries)), ctx))
	if err != nil {
		return errors.Wrapf(err, "gave up after %d attempt(s)", attempt)
	}

	logrus.Infof("notification sent to %s", p.name())
	return nil
}

func printPayload(w io.Writer, providerName string, statusColor string, payload []byte) error {
	var indented bytes.Buffer
	err := json.Indent(&indented, payload, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot format payload: %s", err)
	}

	headline := color.New(color.FgYellow)
	switch statusColor {
	case colorGood:
		headline = color.New(color.FgGreen)
	case colorDanger:
		headline = color.New(color.FgRed)
	}

	headline.Fprintf(w, "dry run, %s payload:\n", providerName)
	fmt.Fprintln(w, indented.String())
	return nil
}
