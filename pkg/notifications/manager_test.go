package notifications

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeWebhook struct {
	server *httptest.Server
	calls  int32

	lock        sync.Mutex
	contentType string
	body        []byte
}

func newFakeWebhook(statusCode int) *fakeWebhook {
	hook := &fakeWebhook{}
	hook.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		hook.lock.Lock()
		hook.contentType = r.Header.Get("Content-Type")
		hook.body = body
		hook.lock.Unlock()
		atomic.AddInt32(&hook.calls, 1)
		w.WriteHeader(statusCode)
		w.Write([]byte("ok"))
	}))
	return hook
}

func (f *fakeWebhook) callCount() int {
	return int(atomic.LoadInt32(&f.calls))
}

func (f *fakeWebhook) lastRequest() (string, string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.contentType, string(f.body)
}

func testManager(notifyWhen []string, url string) *ManagerImpl {
	manager := NewManager(notifyWhen)
	manager.RetryInterval = time.Millisecond
	manager.AddProvider(&SlackProvider{WebhookURL: url})
	return manager
}

func testMessage(status string) Message {
	return MessageFromJob(testJob(), status, Templates{Title: "{workflow}", Message: "{emoji}"}, Icons{}, Mentions{}, "")
}

func Test_shouldNotify(t *testing.T) {
	assert.True(t, ShouldNotify("failure", []string{"failure", "warnings"}))
	assert.False(t, ShouldNotify("success", []string{"failure", "warnings"}))
	assert.True(t, ShouldNotify("success", nil), "empty filter notifies always")
	assert.True(t, ShouldNotify("success", []string{""}))
	assert.False(t, ShouldNotify("fail", []string{"failure"}), "membership, not substring")
}

func Test_noCallWhenStatusIsFiltered(t *testing.T) {
	hook := newFakeWebhook(http.StatusOK)
	defer hook.server.Close()

	manager := testManager([]string{"failure"}, hook.server.URL)
	err := manager.Notify(context.Background(), testMessage("success"))
	assert.Nil(t, err)
	assert.Equal(t, 0, hook.callCount())
}

func Test_exactlyOneCallWhenStatusMatches(t *testing.T) {
	hook := newFakeWebhook(http.StatusOK)
	defer hook.server.Close()

	manager := testManager([]string{"success", "failure"}, hook.server.URL)
	err := manager.Notify(context.Background(), testMessage("failure"))
	assert.Nil(t, err)
	assert.Equal(t, 1, hook.callCount())
	contentType, body := hook.lastRequest()
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t,
		`{"attachments":[{"text":":x:","fallback":"test-workflow","pretext":"test-workflow","color":"danger","mrkdwn_in":["text"],"footer":""}]}`,
		body,
	)
}

func Test_notifyThroughManagerInterface(t *testing.T) {
	hook := newFakeWebhook(http.StatusOK)
	defer hook.server.Close()

	var manager Manager = NewManager([]string{"failure"})
	manager.AddProvider(&SlackProvider{WebhookURL: hook.server.URL})

	assert.Nil(t, manager.Notify(context.Background(), testMessage("success")))
	assert.Equal(t, 0, hook.callCount())
	assert.Nil(t, manager.Notify(context.Background(), testMessage("failure")))
	assert.Equal(t, 1, hook.callCount())
}

func Test_emptyFilterAlwaysNotifies(t *testing.T) {
	hook := newFakeWebhook(http.StatusOK)
	defer hook.server.Close()

	manager := testManager(nil, hook.server.URL)
	err := manager.Notify(context.Background(), testMessage("cancelled"))
	assert.Nil(t, err)
	assert.Equal(t, 1, hook.callCount())
}

func Test_failedDeliveryIsReportedWithoutRetries(t *testing.T) {
	hook := newFakeWebhook(http.StatusInternalServerError)
	defer hook.server.Close()

	manager := testManager(nil, hook.server.URL)
	err := manager.Notify(context.Background(), testMessage("success"))
	assert.NotNil(t, err)
	assert.Equal(t, 1, hook.callCount())
}

func Test_retries(t *testing.T) {
	hook := newFakeWebhook(http.StatusBadGateway)
	defer hook.server.Close()

	manager := testManager(nil, hook.server.URL)
	manager.Retries = 2
	err := manager.Notify(context.Background(), testMessage("success"))
	assert.NotNil(t, err)
	assert.Equal(t, 3, hook.callCount())
}

func Test_clientErrorsAreNotRetried(t *testing.T) {
	hook := newFakeWebhook(http.StatusNotFound)
	defer hook.server.Close()

	manager := testManager(nil, hook.server.URL)
	manager.Retries = 2
	err := manager.Notify(context.Background(), testMessage("success"))
	assert.NotNil(t, err)
	assert.Equal(t, 1, hook.callCount())
}

func Test_dryRun(t *testing.T) {
	hook := newFakeWebhook(http.StatusOK)
	defer hook.server.Close()

	out := &bytes.Buffer{}
	manager := testManager(nil, hook.server.URL)
	manager.DryRun = out

	err := manager.Notify(context.Background(), testMessage("success"))
	assert.Nil(t, err)
	assert.Equal(t, 0, hook.callCount())
	assert.Contains(t, out.String(), "dry run, slack payload")
	assert.Contains(t, out.String(), `"pretext": "test-workflow"`)
}

func Test_discordDelivery(t *testing.T) {
	hook := newFakeWebhook(http.StatusNoContent)
	defer hook.server.Close()

	manager := NewManager([]string{"success"})
	manager.AddProvider(&DiscordProvider{WebhookURL: hook.server.URL})
	err := manager.Notify(context.Background(), testMessage("success"))
	assert.Nil(t, err)
	assert.Equal(t, 1, hook.callCount())
	_, body := hook.lastRequest()
	assert.Contains(t, body, `"embeds"`)
}
