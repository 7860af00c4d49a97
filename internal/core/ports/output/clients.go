package ports

import (
	"context"

	"vision-alert-service/internal/core/domain"
)

// Notifier delivers alert messages to the configured chat channel.
type Notifier interface {
	IsAvailable() bool
	// SendMessage posts text to chatID, falling back to the configured
	// default chat when chatID is empty.
	SendMessage(ctx context.Context, chatID, message string) error
	// SendPhoto posts a JPEG with a caption.
	SendPhoto(ctx context.Context, chatID string, photo []byte, caption string) error
}

// InferenceClient runs object detection on a single frame and returns raw
// candidate boxes. Confidence filtering and NMS happen on this side.
type InferenceClient interface {
	IsAvailable() bool
	Detect(ctx context.Context, frame domain.Frame) ([]domain.Detection, error)
}

// FrameSource captures frames from a camera.
type FrameSource interface {
	Capture(ctx context.Context) (domain.Frame, error)
}

// AlertSink is where the detection worker reports fired alerts. The in-process
// alert service and the HTTP client to a remote alert server both satisfy it.
// The frame that triggered the alert travels with it so the chat gets a
// snapshot; a zero frame means text only.
type AlertSink interface {
	Send(ctx context.Context, rule *domain.MonitorRule, message string, frame domain.Frame) error
}

// EventSink receives batches of detection events for persistence.
type EventSink interface {
	RecordBatch(ctx context.Context, events []*domain.DetectionEvent) error
}
