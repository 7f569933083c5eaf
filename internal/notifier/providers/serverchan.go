package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ErrSendFailed indicates the relay rejected or never received the message.
var ErrSendFailed = errors.New("send failed")

// DefaultServerChanBaseURL is the public ServerChan push endpoint host.
const DefaultServerChanBaseURL = "https://sctapi.ftqq.com"

// ServerChanSender pushes Markdown notifications through the ServerChan
// (Server酱) relay.
type ServerChanSender struct {
	sendKey string
	baseURL string
	client  *http.Client
}

func NewServerChanSender(client *http.Client, sendKey, baseURL string) *ServerChanSender {
	if baseURL == "" {
		baseURL = DefaultServerChanBaseURL
	}
	return &ServerChanSender{
		sendKey: sendKey,
		baseURL: baseURL,
		client:  client,
	}
}

func (s *ServerChanSender) Name() string {
	return "serverchan"
}

// Send posts the title and Markdown body to the sendkey's channel. ServerChan
// reports its own status in the JSON body; code 0 is success.
func (s *ServerChanSender) Send(ctx context.Context, title, body string) error {
	form := url.Values{}
	form.Set("title", title)
	form.Set("desp", body)

	endpoint := fmt.Sprintf("%s/%s.send", s.baseURL, s.sendKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: serverchan returned status %d", ErrSendFailed, resp.StatusCode)
	}

	var result struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrSendFailed, err)
	}
	if result.Code != 0 {
		return fmt.Errorf("%w: serverchan code %d: %s", ErrSendFailed, result.Code, result.Message)
	}

	return nil
}
