package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"vision-alert-service/internal/core/domain"
	"vision-alert-service/internal/core/ports/output"
	"vision-alert-service/internal/metrics"
)

type DetectionService struct {
	repo ports.EventRepository
}

func NewDetectionService(repo ports.EventRepository) *DetectionService {
	return &DetectionService{repo: repo}
}

// RecordBatch persists a batch of detection events, assigning ids and
// creation timestamps.
func (s *DetectionService) RecordBatch(ctx context.Context, events []*domain.DetectionEvent) error {
	if len(events) == 0 {
		return nil
	}
	now := time.Now()
	for _, e := range events {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
	}
	if err := s.repo.CreateBatch(ctx, events); err != nil {
		return err
	}
	for _, e := range events {
		metrics.DetectionsRecorded.WithLabelValues(e.ClassName).Inc()
	}
	return nil
}

func (s *DetectionService) List(ctx context.Context, filter ports.EventListFilter) ([]*domain.DetectionEvent, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}
	return s.repo.List(ctx, filter)
}

var _ ports.EventSink = (*DetectionService)(nil)

// Postprocess turns raw inference candidates into final detections for a
// rule: confidence filter first, then per-class NMS.
func Postprocess(rule *domain.MonitorRule, raw []domain.Detection) []domain.Detection {
	kept := domain.FilterByScore(raw, rule.ConfThreshold)
	return domain.NonMaxSuppression(kept, rule.IoUThreshold)
}
