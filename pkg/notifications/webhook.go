package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// post sends the payload to the webhook. Client errors other than rate limiting are not retried.
func post(ctx context.Context, client *http.Client, url string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("cannot create request: %s", err))
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("could not post to webhook: %s", err)
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	logrus.Debugf("webhook response: %d %s", res.StatusCode, string(body))

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		err = fmt.Errorf("could not post to webhook, status: %d", res.StatusCode)
		if res.StatusCode >= 400 && res.StatusCode < 500 && res.StatusCode != http.StatusTooManyRequests {
			return backoff.Permanent(err)
		}
		return err
	}

	return nil
}

// marshal encodes the payload the way chat services expect it, without escaping <, > and &
func marshal(v interface{}) ([]byte, error) {
	b := new(bytes.Buffer)
	e := json.NewEncoder(b)
	e.SetEscapeHTML(false)
	err := e.Encode(v)
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(b.Bytes(), "\n"), nil
}
