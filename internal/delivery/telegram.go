package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/giantswarm/chatops-processor/internal/logging"
)

// DefaultTelegramAPIURL is the public Bot API endpoint.
const DefaultTelegramAPIURL = "https://api.telegram.org"

// DefaultSendTimeout bounds a single Bot API request.
const DefaultSendTimeout = 10 * time.Second

const (
	parseModeMarkdown = "Markdown"
	maxResponseBytes  = 64 << 10
)

// ErrSendFailed is returned when the Bot API rejects a message.
var ErrSendFailed = errors.New("telegram send failed")

// TokenSource provides the bot token. *secrets.BotToken satisfies it.
type TokenSource interface {
	Get(ctx context.Context) (string, error)
}

// InlineButton is one button of an inline keyboard.
type InlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

// ReplyMarkup attaches an inline keyboard to a message.
type ReplyMarkup struct {
	InlineKeyboard [][]InlineButton `json:"inline_keyboard"`
}

type sendMessageRequest struct {
	ChatID      string       `json:"chat_id"`
	Text        string       `json:"text"`
	ParseMode   string       `json:"parse_mode,omitempty"`
	ReplyMarkup *ReplyMarkup `json:"reply_markup,omitempty"`
}

// TelegramOption configures a Telegram client.
type TelegramOption func(*Telegram)

// WithAPIURL overrides the Bot API base URL.
func WithAPIURL(apiURL string) TelegramOption {
	return func(t *Telegram) {
		if apiURL != "" {
			t.apiURL = strings.TrimRight(apiURL, "/")
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) TelegramOption {
	return func(t *Telegram) {
		if client != nil {
			t.client = client
		}
	}
}

// WithTelegramLogger sets the logger.
func WithTelegramLogger(logger *slog.Logger) TelegramOption {
	return func(t *Telegram) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// Telegram sends messages through the Telegram Bot API.
type Telegram struct {
	apiURL string
	tokens TokenSource
	client *http.Client
	logger *slog.Logger
}

// NewTelegram creates a Bot API client.
func NewTelegram(tokens TokenSource, opts ...TelegramOption) *Telegram {
	t := &Telegram{
		apiURL: DefaultTelegramAPIURL,
		tokens: tokens,
		client: &http.Client{Timeout: DefaultSendTimeout},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Send posts text to chatID with Markdown formatting. When the API rejects the
// message with 400, usually because of unbalanced Markdown, it is sent once
// more as plain text. The raw API response is returned on success.
func (t *Telegram) Send(ctx context.Context, chatID, text string, markup *ReplyMarkup) (json.RawMessage, error) {
	token, err := t.tokens.Get(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.apiURL, token)
	req := sendMessageRequest{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   parseModeMarkdown,
		ReplyMarkup: markup,
	}

	status, body, err := t.post(ctx, endpoint, req)
	if err != nil {
		return nil, err
	}

	if status == http.StatusBadRequest {
		t.logger.Warn("markdown rejected, retrying as plain text",
			logging.ChatHash(chatID),
			slog.String("response", logging.RedactBotTokens(string(body))))

		req.ParseMode = ""
		status, body, err = t.post(ctx, endpoint, req)
		if err != nil {
			return nil, err
		}
	}

	if status < 200 || status >= 300 {
		return json.RawMessage(body), fmt.Errorf("%w: status %d: %s", ErrSendFailed, status, describeAPIError(body))
	}
	return json.RawMessage(body), nil
}

func (t *Telegram) post(ctx context.Context, endpoint string, payload sendMessageRequest) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", redactURLError(err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return 0, nil, redactURLError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// redactURLError strips the bot token from errors that carry the request URL.
func redactURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = logging.RedactBotTokens(urlErr.URL)
	}
	return err
}

// describeAPIError extracts the Bot API description field, if any.
func describeAPIError(body []byte) string {
	var apiErr struct {
		Description string `json:"description"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Description != "" {
		return apiErr.Description
	}
	return "no description"
}
