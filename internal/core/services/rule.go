package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"vision-alert-service/internal/core/domain"
	"vision-alert-service/internal/core/ports/output"
)

type RuleService struct {
	repo ports.RuleRepository
}

func NewRuleService(repo ports.RuleRepository) *RuleService {
	return &RuleService{repo: repo}
}

func (s *RuleService) Create(ctx context.Context, rule *domain.MonitorRule) (*domain.MonitorRule, error) {
	if rule.ConfThreshold == 0 {
		rule.ConfThreshold = domain.DefaultConfThreshold
	}
	if rule.IoUThreshold == 0 {
		rule.IoUThreshold = domain.DefaultIoUThreshold
	}
	if rule.MinDuration == 0 {
		rule.MinDuration = domain.DefaultMinDuration
	}
	if rule.SamplingDuration == 0 {
		rule.SamplingDuration = domain.DefaultSamplingDuration
	}
	if rule.SleepDuration == 0 {
		rule.SleepDuration = domain.DefaultSleepDuration
	}
	if rule.TargetClass == "" {
		rule.TargetClass = "person"
	}

	if err := rule.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	rule.ID = uuid.New()
	rule.CreatedAt = now
	rule.UpdatedAt = now
	rule.Slug = generateSlug(rule.Name)

	if err := s.repo.Create(ctx, rule); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, rule.ID)
}

func (s *RuleService) Get(ctx context.Context, id uuid.UUID) (*domain.MonitorRule, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *RuleService) List(ctx context.Context, enabledOnly bool) ([]*domain.MonitorRule, error) {
	return s.repo.List(ctx, enabledOnly)
}

func (s *RuleService) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*domain.MonitorRule, error) {
	rule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if v, ok := updates["name"]; ok && v != nil {
		rule.Name = v.(string)
		rule.Slug = generateSlug(rule.Name)
	}
	if v, ok := updates["enabled"]; ok && v != nil {
		rule.Enabled = v.(bool)
	}
	if v, ok := updates["target_class"]; ok && v != nil {
		rule.TargetClass = v.(string)
	}
	if v, ok := updates["conf_threshold"]; ok && v != nil {
		rule.ConfThreshold = v.(float64)
	}
	if v, ok := updates["iou_threshold"]; ok && v != nil {
		rule.IoUThreshold = v.(float64)
	}
	if v, ok := updates["min_duration"]; ok && v != nil {
		rule.MinDuration = v.(time.Duration)
	}
	if v, ok := updates["sampling_duration"]; ok && v != nil {
		rule.SamplingDuration = v.(time.Duration)
	}
	if v, ok := updates["sleep_duration"]; ok && v != nil {
		rule.SleepDuration = v.(time.Duration)
	}
	if v, ok := updates["cooldown"]; ok && v != nil {
		rule.Cooldown = v.(time.Duration)
	}
	if v, ok := updates["camera_url"]; ok && v != nil {
		rule.CameraURL = v.(string)
	}
	if v, ok := updates["chat_id"]; ok && v != nil {
		rule.ChatID = v.(string)
	}

	if err := rule.Validate(); err != nil {
		return nil, err
	}
	rule.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, rule); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *RuleService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func generateSlug(name string) string {
	slug := ""
	for _, ch := range name {
		if (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') || ch == '-' {
			slug += string(ch)
		} else if ch >= 'A' && ch <= 'Z' {
			slug += string(ch + 32)
		} else if ch == ' ' || ch == '_' {
			slug += "-"
		}
	}
	if len(slug) > 60 {
		slug = slug[:60]
	}
	return slug
}
