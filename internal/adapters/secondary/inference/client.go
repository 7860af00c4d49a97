package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"vision-alert-service/internal/core/domain"
	"vision-alert-service/internal/core/ports/output"
)

// Client posts JPEG frames to the ONNX inference sidecar and decodes the raw
// candidate boxes it returns. The sidecar applies no thresholds; filtering
// and NMS happen in the caller.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) IsAvailable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

type detectResponse struct {
	Detections []struct {
		Box     [4]float64 `json:"box"`
		Score   float64    `json:"score"`
		ClassID int        `json:"class_id"`
	} `json:"detections"`
}

func (c *Client) Detect(ctx context.Context, frame domain.Frame) ([]domain.Detection, error) {
	if len(frame.Data) == 0 {
		return nil, domain.ErrEmptyFrame
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect", bytes.NewReader(frame.Data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInferenceFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrInferenceFailed, resp.StatusCode)
	}

	var body detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode inference response: %w", err)
	}

	dets := make([]domain.Detection, 0, len(body.Detections))
	for _, d := range body.Detections {
		dets = append(dets, domain.Detection{
			Box: domain.Box{
				X1: d.Box[0],
				Y1: d.Box[1],
				X2: d.Box[2],
				Y2: d.Box[3],
			},
			Score:   d.Score,
			ClassID: d.ClassID,
		})
	}
	return dets, nil
}

var _ ports.InferenceClient = (*Client)(nil)
