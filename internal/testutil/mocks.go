package testutil

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"vision-alert-service/internal/core/domain"
	"vision-alert-service/internal/core/ports/output"
)

// MockAlertRepo is a mock of AlertRepository.
type MockAlertRepo struct {
	mock.Mock
}

func (m *MockAlertRepo) Create(ctx context.Context, alert *domain.Alert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockAlertRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Alert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Alert), args.Error(1)
}

func (m *MockAlertRepo) Update(ctx context.Context, alert *domain.Alert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockAlertRepo) List(ctx context.Context, filter ports.AlertListFilter) ([]*domain.Alert, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Alert), args.Int(1), args.Error(2)
}

// MockRuleRepo is a mock of RuleRepository.
type MockRuleRepo struct {
	mock.Mock
}

func (m *MockRuleRepo) Create(ctx context.Context, rule *domain.MonitorRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRuleRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.MonitorRule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonitorRule), args.Error(1)
}

func (m *MockRuleRepo) GetBySlug(ctx context.Context, slug string) (*domain.MonitorRule, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonitorRule), args.Error(1)
}

func (m *MockRuleRepo) Update(ctx context.Context, rule *domain.MonitorRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRuleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRuleRepo) List(ctx context.Context, enabledOnly bool) ([]*domain.MonitorRule, error) {
	args := m.Called(ctx, enabledOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.MonitorRule), args.Error(1)
}

// MockEventRepo is a mock of EventRepository.
type MockEventRepo struct {
	mock.Mock
}

func (m *MockEventRepo) CreateBatch(ctx context.Context, events []*domain.DetectionEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *MockEventRepo) List(ctx context.Context, filter ports.EventListFilter) ([]*domain.DetectionEvent, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.DetectionEvent), args.Int(1), args.Error(2)
}

// MockNotifier is a mock of the Notifier port.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) IsAvailable() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockNotifier) SendMessage(ctx context.Context, chatID, message string) error {
	args := m.Called(ctx, chatID, message)
	return args.Error(0)
}

func (m *MockNotifier) SendPhoto(ctx context.Context, chatID string, photo []byte, caption string) error {
	args := m.Called(ctx, chatID, photo, caption)
	return args.Error(0)
}

// MockInferenceClient is a mock of the InferenceClient port.
type MockInferenceClient struct {
	mock.Mock
}

func (m *MockInferenceClient) IsAvailable() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockInferenceClient) Detect(ctx context.Context, frame domain.Frame) ([]domain.Detection, error) {
	args := m.Called(ctx, frame)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Detection), args.Error(1)
}

// MockAlertSink is a mock of the AlertSink port.
type MockAlertSink struct {
	mock.Mock
}

func (m *MockAlertSink) Send(ctx context.Context, rule *domain.MonitorRule, message string, frame domain.Frame) error {
	args := m.Called(ctx, rule, message, frame)
	return args.Error(0)
}
