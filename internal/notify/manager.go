package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/slack-go/slack"
	"github.com/spf13/viper"
)

// Event types
const (
	EventSessionStart = "on_session_start"
	EventFileComplete = "on_file_complete"
	EventAllComplete  = "on_all_complete"
)

type slackPoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// Manager routes events to Slack, through the bot API when a token is set
// and through an incoming webhook otherwise.
type Manager struct {
	client    slackPoster
	channelID string

	logger *slog.Logger
}

// NewManager creates a new Notification Manager. opts are passed to the
// slack client.
func NewManager(logger *slog.Logger, opts ...slack.Option) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{logger: logger.With("component", "notify")}
	m.initSlack(opts...)
	return m
}

func (m *Manager) initSlack(opts ...slack.Option) {
	if !viper.GetBool("notifications.slack.enabled") {
		return
	}

	m.channelID = viper.GetString("notifications.slack.channel")
	if m.channelID == "" {
		m.channelID = "#general"
	}

	if botToken := os.Getenv("SLACK_BOT_USER_TOKEN"); botToken != "" {
		m.client = slack.New(botToken, opts...)
		return
	}

	if url := viper.GetString("notifications.slack.webhook_url"); url != "" {
		m.client = newWebhookPoster(url)
		return
	}

	m.logger.Warn("SLACK_BOT_USER_TOKEN not set, slack notifications disabled")
}

// Enabled reports whether any delivery route is configured.
func (m *Manager) Enabled() bool {
	return m.client != nil
}

// Notify sends message if eventType is enabled in configuration.
func (m *Manager) Notify(ctx context.Context, eventType string, message string) error {
	if !m.Enabled() || !m.isEnabled(eventType) {
		return nil
	}
	m.logger.Debug("Sending notification", "event", eventType)

	if err := m.post(ctx, message); err != nil {
		return fmt.Errorf("failed to send %s notification: %w", eventType, err)
	}
	return nil
}

func (m *Manager) isEnabled(eventType string) bool {
	key := "notifications.slack.events." + eventType
	if !viper.IsSet(key) {
		return true
	}
	return viper.GetBool(key)
}

// ErrNotConfigured is returned by SendTest when no route is configured.
var ErrNotConfigured = errors.New("slack notifications are not configured")

// SendTest posts a probe message regardless of per-event switches.
func (m *Manager) SendTest(ctx context.Context) error {
	if !m.Enabled() {
		return ErrNotConfigured
	}
	return m.post(ctx, "mdr: notification test")
}

func (m *Manager) post(ctx context.Context, text string) error {
	_, _, err := m.client.PostMessageContext(ctx, m.channelID, slack.MsgOptionText(text, false))
	return err
}
