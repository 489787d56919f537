// Package telegram: транспорт Telegram Bot API: разбор входящих обновлений
// и отправка действий маршрутизатора пользователям.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/psds-microservice/support-router/internal/routing"
)

// Client отправляет сообщения через Bot API. Если token пустой, вызовы ничего не делают.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Deliver renders a and sends it to chatID.
func (c *Client) Deliver(ctx context.Context, chatID string, a routing.Action) error {
	return c.call(ctx, "sendMessage", Render(chatID, a))
}

// AnswerCallback убирает «часики» с нажатой inline-кнопки. Ошибка только логируется.
func (c *Client) AnswerCallback(ctx context.Context, callbackID string) {
	if callbackID == "" {
		return
	}
	if err := c.call(ctx, "answerCallbackQuery", answerCallbackRequest{CallbackQueryID: callbackID}); err != nil {
		c.logger.Warn("telegram: answer callback", "callback_id", callbackID, "err", err)
	}
}

func (c *Client) call(ctx context.Context, method string, payload any) error {
	if c.token == "" {
		c.logger.Debug("telegram: token not set, skipping call", "method", method)
		return nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: marshal %s: %w", method, err)
	}
	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// не логируем url: в нём токен
		return fmt.Errorf("telegram: %s request failed", method)
	}
	defer resp.Body.Close()

	var out apiResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(raw, &out)
	if resp.StatusCode != http.StatusOK || !out.OK {
		return fmt.Errorf("telegram: %s: status %d: %s", method, resp.StatusCode, out.Description)
	}
	return nil
}
