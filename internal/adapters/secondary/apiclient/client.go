package apiclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"vision-alert-service/internal/core/domain"
	"vision-alert-service/internal/core/ports/output"
)

// Client is the detection worker's connection to the alert server: it posts
// fired alerts to the legacy /send_alert endpoint and detection event
// batches to the versioned API.
type Client struct {
	alertURL string
	baseURL  string
	client   *http.Client
}

// New derives the API base from the /send_alert URL so the worker needs only
// the single API_SERVER_URL setting.
func New(alertURL string) (*Client, error) {
	u, err := url.Parse(alertURL)
	if err != nil {
		return nil, fmt.Errorf("invalid alert server URL: %w", err)
	}
	base := *u
	base.Path = ""

	return &Client{
		alertURL: alertURL,
		baseURL:  base.String(),
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

// Send posts the alert message. The rule's chat override and the triggering
// frame (base64, optional) travel with the message so the server can route
// the alert and attach the snapshot.
func (c *Client) Send(ctx context.Context, rule *domain.MonitorRule, message string, frame domain.Frame) error {
	payload := map[string]string{"message": message}
	if rule != nil && rule.ChatID != "" {
		payload["chat_id"] = rule.ChatID
	}
	if len(frame.Data) > 0 {
		payload["photo"] = base64.StdEncoding.EncodeToString(frame.Data)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.alertURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("send alert: status %d: %s", resp.StatusCode, detail)
	}
	return nil
}

func (c *Client) RecordBatch(ctx context.Context, events []*domain.DetectionEvent) error {
	if len(events) == 0 {
		return nil
	}

	body, err := json.Marshal(map[string]interface{}{"events": events})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/alert-service/detections", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("record detections: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("record detections: status %d", resp.StatusCode)
	}
	return nil
}

var (
	_ ports.AlertSink = (*Client)(nil)
	_ ports.EventSink = (*Client)(nil)
)
