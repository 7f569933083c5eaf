package notifier

import (
	"context"
	"fmt"
	"net/http"

	"github.com/lmt927/weather-notify/internal/notifier/providers"
)

// ErrSendFailed indicates the notification relay rejected or never received
// the message. Delivery is best-effort; the caller decides what a failed send
// means for the run.
var ErrSendFailed = providers.ErrSendFailed

// Sender delivers a title/body pair to a push channel.
type Sender interface {
	Name() string
	Send(ctx context.Context, title, body string) error
}

// Config selects and parameterizes the notification channel.
type Config struct {
	Provider          string // "serverchan" or "discord"
	SendKey           string // ServerChan sendkey
	ServerChanBaseURL string // optional override, mainly for tests
	DiscordWebhookURL string
}

// NewFromConfig builds a sender for the configured channel.
func NewFromConfig(client *http.Client, cfg Config) (Sender, error) {
	switch cfg.Provider {
	case "serverchan":
		if cfg.SendKey == "" {
			return nil, fmt.Errorf("serverchan sendkey is not configured")
		}
		return providers.NewServerChanSender(client, cfg.SendKey, cfg.ServerChanBaseURL), nil
	case "discord":
		if cfg.DiscordWebhookURL == "" {
			return nil, fmt.Errorf("discord webhook url is not configured")
		}
		return providers.NewDiscordSender(client, cfg.DiscordWebhookURL), nil
	default:
		return nil, fmt.Errorf("unknown notifier provider: %s", cfg.Provider)
	}
}
