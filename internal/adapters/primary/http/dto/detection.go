package dto

import (
	"time"

	"github.com/google/uuid"

	"vision-alert-service/internal/core/domain"
)

type BoxDTO struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

type DetectionEventDTO struct {
	RuleID     *uuid.UUID `json:"rule_id"`
	ClassName  string     `json:"class_name" binding:"required"`
	Confidence float64    `json:"confidence"`
	Box        BoxDTO     `json:"box"`
	CapturedAt time.Time  `json:"captured_at"`
}

type RecordDetectionsRequest struct {
	Events []DetectionEventDTO `json:"events" binding:"required"`
}

type DetectionEventResponse struct {
	ID         uuid.UUID  `json:"id"`
	CreatedAt  string     `json:"created_at"`
	RuleID     *uuid.UUID `json:"rule_id"`
	ClassName  string     `json:"class_name"`
	Confidence float64    `json:"confidence"`
	Box        BoxDTO     `json:"box"`
	CapturedAt string     `json:"captured_at"`
}

type ListDetectionEventsResponse struct {
	Items      []DetectionEventResponse `json:"items"`
	Total      int                      `json:"total"`
	PageSize   int                      `json:"page_size"`
	NextOffset int                      `json:"next_offset"`
}

func (d DetectionEventDTO) ToDomain() *domain.DetectionEvent {
	capturedAt := d.CapturedAt
	if capturedAt.IsZero() {
		capturedAt = time.Now()
	}
	return &domain.DetectionEvent{
		RuleID:     d.RuleID,
		ClassName:  d.ClassName,
		Confidence: d.Confidence,
		Box: domain.Box{
			X1: d.Box.X1,
			Y1: d.Box.Y1,
			X2: d.Box.X2,
			Y2: d.Box.Y2,
		},
		CapturedAt: capturedAt,
	}
}

func ToDetectionEventResponse(e *domain.DetectionEvent) DetectionEventResponse {
	return DetectionEventResponse{
		ID:         e.ID,
		CreatedAt:  e.CreatedAt.Format(time.RFC3339),
		RuleID:     e.RuleID,
		ClassName:  e.ClassName,
		Confidence: e.Confidence,
		Box: BoxDTO{
			X1: e.Box.X1,
			Y1: e.Box.Y1,
			X2: e.Box.X2,
			Y2: e.Box.Y2,
		},
		CapturedAt: e.CapturedAt.Format(time.RFC3339),
	}
}
