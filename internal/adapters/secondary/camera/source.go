package camera

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"vision-alert-service/internal/core/domain"
	"vision-alert-service/internal/core/ports/output"
)

// SnapshotSource pulls single JPEG frames from an IP camera's still-image
// endpoint.
type SnapshotSource struct {
	url    string
	client *http.Client
}

func NewSnapshotSource(url string) *SnapshotSource {
	return &SnapshotSource{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *SnapshotSource) Capture(ctx context.Context) (domain.Frame, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return domain.Frame{}, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.Frame{}, fmt.Errorf("capture frame: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Frame{}, fmt.Errorf("capture frame: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Frame{}, fmt.Errorf("read frame body: %w", err)
	}
	if len(data) == 0 {
		return domain.Frame{}, domain.ErrEmptyFrame
	}

	return domain.Frame{Data: data, CapturedAt: time.Now()}, nil
}

var _ ports.FrameSource = (*SnapshotSource)(nil)
