package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"time"

	"vision-alert-service/internal/config"
	"vision-alert-service/internal/core/domain"
	"vision-alert-service/internal/core/ports/output"
)

// Client talks to the Telegram bot API. Message sends fall back to the
// configured default chat and parse mode when the caller passes none.
type Client struct {
	cfg    config.TelegramConfig
	client *http.Client
}

func NewClient(cfg config.TelegramConfig) *Client {
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) IsAvailable() bool {
	return c.cfg.Enabled && c.cfg.Token != ""
}

func (c *Client) SendMessage(ctx context.Context, chatID, message string) error {
	endpoint, body, err := c.prepareSendMessage(chatID, message)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp)
}

func (c *Client) SendPhoto(ctx context.Context, chatID string, photo []byte, caption string) error {
	if !c.IsAvailable() {
		return domain.ErrNotifierNotEnabled
	}
	if chatID == "" {
		chatID = c.cfg.ChatID
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("chat_id", chatID); err != nil {
		return err
	}
	if caption != "" {
		if err := w.WriteField("caption", caption); err != nil {
			return err
		}
	}
	part, err := w.CreateFormFile("photo", "frame.jpg")
	if err != nil {
		return err
	}
	if _, err := part.Write(photo); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	endpoint, err := c.methodURL("sendPhoto")
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp)
}

func (c *Client) prepareSendMessage(chatID, message string) (string, io.Reader, error) {
	if !c.IsAvailable() {
		return "", nil, domain.ErrNotifierNotEnabled
	}
	if chatID == "" {
		chatID = c.cfg.ChatID
	}

	parseMode := c.cfg.ParseMode
	if parseMode != "" && parseMode != "Markdown" && parseMode != "HTML" {
		return "", nil, fmt.Errorf("parse mode %q is not valid, use 'Markdown' or 'HTML'", parseMode)
	}

	postData := map[string]interface{}{
		"chat_id": chatID,
		"text":    message,
	}
	if parseMode != "" {
		postData["parse_mode"] = parseMode
	}
	if c.cfg.DisableWebPagePreview {
		postData["disable_web_page_preview"] = true
	}
	if c.cfg.DisableNotification {
		postData["disable_notification"] = true
	}

	var post bytes.Buffer
	if err := json.NewEncoder(&post).Encode(postData); err != nil {
		return "", nil, err
	}

	endpoint, err := c.methodURL("sendMessage")
	if err != nil {
		return "", nil, err
	}
	return endpoint, &post, nil
}

func (c *Client) methodURL(method string) (string, error) {
	u, err := url.Parse(c.cfg.URL)
	if err != nil {
		return "", fmt.Errorf("invalid telegram URL: %w", err)
	}
	u.Path = path.Join(u.Path+c.cfg.Token, method)
	return u.String(), nil
}

// apiResponse is the bot API envelope; Description and ErrorCode are only
// set when Ok is false.
type apiResponse struct {
	Ok          bool            `json:"ok"`
	ErrorCode   int             `json:"error_code"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

func decodeResponse(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	res := &apiResponse{}
	if err := json.Unmarshal(body, res); err != nil {
		return fmt.Errorf("failed to understand Telegram response (err: %s). code: %d content: %s", err.Error(), resp.StatusCode, string(body))
	}
	return fmt.Errorf("telegram error (%d) description: %s", res.ErrorCode, res.Description)
}

var _ ports.Notifier = (*Client)(nil)
