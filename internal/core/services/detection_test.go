package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"vision-alert-service/internal/core/domain"
	"vision-alert-service/internal/core/ports/output"
	"vision-alert-service/internal/testutil"
)

func TestDetectionService_RecordBatch(t *testing.T) {
	repo := new(testutil.MockEventRepo)
	svc := NewDetectionService(repo)

	events := []*domain.DetectionEvent{
		{ClassName: "person", Confidence: 0.9},
		{ClassName: "person", Confidence: 0.8},
	}
	repo.On("CreateBatch", mock.Anything, events).Return(nil)

	err := svc.RecordBatch(context.Background(), events)
	assert.NoError(t, err)
	for _, e := range events {
		assert.NotEqual(t, uuid.Nil, e.ID)
		assert.False(t, e.CreatedAt.IsZero())
	}
	repo.AssertExpectations(t)
}

func TestDetectionService_RecordBatch_Empty(t *testing.T) {
	repo := new(testutil.MockEventRepo)
	svc := NewDetectionService(repo)

	assert.NoError(t, svc.RecordBatch(context.Background(), nil))
	repo.AssertNotCalled(t, "CreateBatch")
}

func TestDetectionService_List_ClampsLimit(t *testing.T) {
	repo := new(testutil.MockEventRepo)
	svc := NewDetectionService(repo)

	expected := ports.EventListFilter{Limit: 500}
	repo.On("List", mock.Anything, expected).Return([]*domain.DetectionEvent{}, 0, nil)

	_, _, err := svc.List(context.Background(), ports.EventListFilter{Limit: 9999})
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestPostprocess(t *testing.T) {
	rule := &domain.MonitorRule{ConfThreshold: 0.75, IoUThreshold: 0.5}

	base := domain.Box{X1: 0, Y1: 0, X2: 10, Y2: 10}
	raw := []domain.Detection{
		{Box: base, Score: 0.95, ClassID: 0},
		// near duplicate of the first, should be suppressed
		{Box: domain.Box{X1: 1, Y1: 0, X2: 11, Y2: 10}, Score: 0.8, ClassID: 0},
		// below confidence threshold
		{Box: domain.Box{X1: 50, Y1: 50, X2: 60, Y2: 60}, Score: 0.4, ClassID: 0},
	}

	dets := Postprocess(rule, raw)
	assert.Len(t, dets, 1)
	assert.Equal(t, 0.95, dets[0].Score)
}
