package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"resellerbot/internal/pkg/httpclient"
)

// DefaultBaseURL is the public Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

// BotAPI is a direct Bot API client used for outbound pushes outside an update's context.
type BotAPI struct {
	client *resty.Client
}

// APIError is a Bot API response with ok=false.
type APIError struct {
	Method      string
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s: %d %s", e.Method, e.Code, e.Description)
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

// NewBotAPI creates a client for token. An empty baseURL selects DefaultBaseURL.
func NewBotAPI(token, baseURL string) *BotAPI {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &BotAPI{
		client: httpclient.New(0).SetBaseURL(strings.TrimRight(baseURL, "/") + "/bot" + token),
	}
}

// Call makes a raw API call and reports ok=false responses as *APIError.
func (b *BotAPI) Call(ctx context.Context, method string, params map[string]interface{}) error {
	var out apiResponse
	resp, err := b.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(params).
		SetResult(&out).
		SetError(&out).
		Post("/" + method)
	if err != nil {
		return fmt.Errorf("telegram API call %s failed: %w", method, err)
	}
	if !out.OK {
		code := out.ErrorCode
		if code == 0 {
			code = resp.StatusCode()
		}
		return &APIError{Method: method, Code: code, Description: out.Description}
	}
	return nil
}

// SendMessage sends an HTML text message.
func (b *BotAPI) SendMessage(ctx context.Context, chatID int64, text string) error {
	return b.Call(ctx, "sendMessage", map[string]interface{}{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
	})
}

// ForwardMessage forwards a message between chats.
func (b *BotAPI) ForwardMessage(ctx context.Context, chatID, fromChatID int64, messageID int) error {
	return b.Call(ctx, "forwardMessage", map[string]interface{}{
		"chat_id":      chatID,
		"from_chat_id": fromChatID,
		"message_id":   messageID,
	})
}

// CheckTelegramIP reports whether ip belongs to Telegram's webhook ranges
// (149.154.160.0/20 and 91.108.4.0/22).
func CheckTelegramIP(ip string) bool {
	for _, prefix := range []string{"149.154.", "91.108."} {
		if strings.HasPrefix(ip, prefix) {
			return true
		}
	}
	return false
}
