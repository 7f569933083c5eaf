package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// DiscordSender pushes notifications to a Discord webhook.
type DiscordSender struct {
	webhookURL string
	client     *http.Client
}

type discordMessage struct {
	Content string         `json:"content,omitempty"`
	Embeds  []discordEmbed `json:"embeds,omitempty"`
}

type discordEmbed struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Color       int    `json:"color,omitempty"`
}

func NewDiscordSender(client *http.Client, webhookURL string) *DiscordSender {
	return &DiscordSender{
		webhookURL: webhookURL,
		client:     client,
	}
}

func (d *DiscordSender) Name() string {
	return "discord"
}

// Send delivers the report as a single embed. Discord caps embed descriptions
// at 4096 characters, so longer bodies are truncated.
func (d *DiscordSender) Send(ctx context.Context, title, body string) error {
	const maxDescription = 4096
	if len(body) > maxDescription {
		body = body[:maxDescription]
	}

	msg := discordMessage{
		Embeds: []discordEmbed{
			{
				Title:       title,
				Description: body,
				Color:       0x3498db,
			},
		},
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: marshal message: %v", ErrSendFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("%w: discord returned status %d", ErrSendFailed, resp.StatusCode)
	}

	return nil
}
