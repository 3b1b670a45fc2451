package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/slack-go/slack"
)

// webhookPoster delivers chat messages through a Slack incoming webhook, so
// the Manager can treat it like the bot API client. The webhook decides the
// channel; channelID is ignored.
type webhookPoster struct {
	url    string
	client *http.Client
}

func newWebhookPoster(url string) *webhookPoster {
	return &webhookPoster{url: url, client: &http.Client{Timeout: 10 * time.Second}}
}

func (w *webhookPoster) PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	_, values, err := slack.UnsafeApplyMsgOptions("", channelID, "", options...)
	if err != nil {
		return "", "", fmt.Errorf("failed to build webhook message: %w", err)
	}
	msg := &slack.WebhookMessage{Text: values.Get("text")}
	if err := slack.PostWebhookCustomHTTPContext(ctx, w.url, w.client, msg); err != nil {
		return "", "", err
	}
	return channelID, "", nil
}
