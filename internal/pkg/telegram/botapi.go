package telegram

import (
	"fmt"

	"github.com/go-resty/resty/v2"
)

// BotAPI is a minimal Telegram Bot API client used for operational payment
// reports. A nil *BotAPI is a no-op, so reporting stays optional.
type BotAPI struct {
	token  string
	client *resty.Client
}

// NewBotAPI creates a new Bot API client; returns nil when no token is
// configured.
func NewBotAPI(token string) *BotAPI {
	if token == "" {
		return nil
	}
	return &BotAPI{
		token:  token,
		client: resty.New().SetBaseURL("https://api.telegram.org/bot" + token),
	}
}

// Call makes a raw API call to the Telegram Bot API.
func (b *BotAPI) Call(method string, params map[string]interface{}) (string, error) {
	if b == nil {
		return "", nil
	}
	resp, err := b.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(params).
		Post("/" + method)
	if err != nil {
		return "", fmt.Errorf("telegram API call %s failed: %w", method, err)
	}
	return resp.String(), nil
}

// SendMessage sends a text message to a chat or channel.
func (b *BotAPI) SendMessage(chatID string, text string) (string, error) {
	return b.Call("sendMessage", map[string]interface{}{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
	})
}
