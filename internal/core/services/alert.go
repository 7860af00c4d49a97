package services

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"vision-alert-service/internal/core/domain"
	"vision-alert-service/internal/core/ports/output"
	"vision-alert-service/internal/metrics"
)

const (
	maxSendAttempts = 3
	sendRetryDelay  = time.Second
)

type AlertService struct {
	repo     ports.AlertRepository
	rules    ports.RuleRepository
	notifier ports.Notifier
}

func NewAlertService(repo ports.AlertRepository, rules ports.RuleRepository, notifier ports.Notifier) *AlertService {
	return &AlertService{repo: repo, rules: rules, notifier: notifier}
}

// Create persists a PENDING alert and dispatches it synchronously. The alert
// is always returned when persistence succeeded; a non-nil error alongside it
// means delivery failed and the alert is stored as FAILED.
func (s *AlertService) Create(ctx context.Context, source, level, message, chatID string, ruleID *uuid.UUID) (*domain.Alert, error) {
	if message == "" {
		return nil, domain.ErrEmptyAlertMessage
	}
	if level == "" {
		level = string(domain.AlertLevelInfo)
	}
	if err := domain.ValidateAlertLevel(level); err != nil {
		return nil, err
	}
	if source == "" {
		source = "api"
	}

	now := time.Now()
	alert := &domain.Alert{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
		RuleID:    ruleID,
		Source:    source,
		Level:     domain.AlertLevel(level),
		Message:   message,
		ChatID:    chatID,
		Status:    domain.AlertStatusPending,
	}

	if err := s.repo.Create(ctx, alert); err != nil {
		return nil, err
	}
	metrics.AlertsCreated.WithLabelValues(level).Inc()

	return alert, s.dispatch(ctx, alert)
}

// Retry re-dispatches a FAILED alert.
func (s *AlertService) Retry(ctx context.Context, id uuid.UUID) (*domain.Alert, error) {
	alert, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if alert.Status != domain.AlertStatusFailed {
		return nil, domain.ErrAlertNotRetryable
	}
	return alert, s.dispatch(ctx, alert)
}

func (s *AlertService) Get(ctx context.Context, id uuid.UUID) (*domain.Alert, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AlertService) List(ctx context.Context, filter ports.AlertListFilter) ([]*domain.Alert, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.repo.List(ctx, filter)
}

// dispatch pushes the alert through the notifier with constant-delay retries
// and records the outcome on the stored row.
func (s *AlertService) dispatch(ctx context.Context, alert *domain.Alert) error {
	attempts := 0
	op := func() error {
		if attempts > 0 {
			metrics.NotifyRetries.Inc()
		}
		attempts++
		return s.notifier.SendMessage(ctx, alert.ChatID, alert.Message)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(sendRetryDelay), maxSendAttempts-1),
		ctx,
	)
	sendErr := backoff.Retry(op, policy)

	now := time.Now()
	alert.UpdatedAt = now
	alert.Attempts += attempts
	if sendErr != nil {
		alert.Status = domain.AlertStatusFailed
		alert.LastError = sendErr.Error()
		metrics.AlertsFailed.Inc()
		log.WithError(sendErr).WithField("alert_id", alert.ID).Error("alert delivery failed")
	} else {
		alert.Status = domain.AlertStatusSent
		alert.LastError = ""
		alert.SentAt = &now
		metrics.AlertsSent.Inc()
		log.WithFields(log.Fields{"alert_id": alert.ID, "level": alert.Level}).Info("alert sent")
	}

	if err := s.repo.Update(ctx, alert); err != nil {
		log.WithError(err).WithField("alert_id", alert.ID).Error("record alert outcome failed")
		if sendErr == nil {
			return err
		}
	}
	return sendErr
}

// Send satisfies the detection worker's alert sink when the monitor runs
// in-process: it honors the rule's cooldown and stamps its last-alert time.
// A non-zero frame is forwarded to the chat as a snapshot; snapshot delivery
// is best effort and never fails the alert.
func (s *AlertService) Send(ctx context.Context, rule *domain.MonitorRule, message string, frame domain.Frame) error {
	if !rule.Enabled {
		return domain.ErrRuleDisabled
	}
	now := time.Now()
	if rule.InCooldown(now) {
		return domain.ErrRuleCooldown
	}

	ruleID := rule.ID
	_, err := s.Create(ctx, "detector", string(domain.AlertLevelWarning), message, rule.ChatID, &ruleID)
	if err != nil {
		return err
	}

	if len(frame.Data) > 0 {
		if perr := s.SendSnapshot(ctx, rule.ChatID, frame.Data, message); perr != nil {
			log.WithError(perr).WithField("rule", rule.Name).Warn("snapshot delivery failed")
		}
	}

	rule.LastAlertAt = &now
	if s.rules != nil {
		if uerr := s.rules.Update(ctx, rule); uerr != nil {
			return fmt.Errorf("stamp rule last alert: %w", uerr)
		}
	}
	return nil
}

// SendSnapshot posts a camera frame to the chat with the alert text as
// caption.
func (s *AlertService) SendSnapshot(ctx context.Context, chatID string, photo []byte, caption string) error {
	return s.notifier.SendPhoto(ctx, chatID, photo, caption)
}

var _ ports.AlertSink = (*AlertService)(nil)
