package dto

import (
	"time"

	"github.com/google/uuid"

	"vision-alert-service/internal/core/domain"
)

// Durations cross the wire as strings in Go syntax ("2s", "500ms").
type CreateRuleRequest struct {
	Name             string  `json:"name" binding:"required,max=100"`
	Enabled          *bool   `json:"enabled"`
	TargetClass      string  `json:"target_class"`
	ConfThreshold    float64 `json:"conf_threshold"`
	IoUThreshold     float64 `json:"iou_threshold"`
	MinDuration      string  `json:"min_duration"`
	SamplingDuration string  `json:"sampling_duration"`
	SleepDuration    string  `json:"sleep_duration"`
	Cooldown         string  `json:"cooldown"`
	CameraURL        string  `json:"camera_url"`
	ChatID           string  `json:"chat_id"`
}

type UpdateRuleRequest struct {
	Name             *string  `json:"name"`
	Enabled          *bool    `json:"enabled"`
	TargetClass      *string  `json:"target_class"`
	ConfThreshold    *float64 `json:"conf_threshold"`
	IoUThreshold     *float64 `json:"iou_threshold"`
	MinDuration      *string  `json:"min_duration"`
	SamplingDuration *string  `json:"sampling_duration"`
	SleepDuration    *string  `json:"sleep_duration"`
	Cooldown         *string  `json:"cooldown"`
	CameraURL        *string  `json:"camera_url"`
	ChatID           *string  `json:"chat_id"`
}

type RuleResponse struct {
	ID               uuid.UUID `json:"id"`
	CreatedAt        string    `json:"created_at"`
	UpdatedAt        string    `json:"updated_at"`
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	Enabled          bool      `json:"enabled"`
	TargetClass      string    `json:"target_class"`
	ConfThreshold    float64   `json:"conf_threshold"`
	IoUThreshold     float64   `json:"iou_threshold"`
	MinDuration      string    `json:"min_duration"`
	SamplingDuration string    `json:"sampling_duration"`
	SleepDuration    string    `json:"sleep_duration"`
	Cooldown         string    `json:"cooldown"`
	CameraURL        string    `json:"camera_url"`
	ChatID           string    `json:"chat_id,omitempty"`
	LastAlertAt      *string   `json:"last_alert_at"`
}

type ListRulesResponse struct {
	Items []RuleResponse `json:"items"`
	Total int            `json:"total"`
}

func ToRuleResponse(r *domain.MonitorRule) RuleResponse {
	resp := RuleResponse{
		ID:               r.ID,
		CreatedAt:        r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        r.UpdatedAt.Format(time.RFC3339),
		Name:             r.Name,
		Slug:             r.Slug,
		Enabled:          r.Enabled,
		TargetClass:      r.TargetClass,
		ConfThreshold:    r.ConfThreshold,
		IoUThreshold:     r.IoUThreshold,
		MinDuration:      r.MinDuration.String(),
		SamplingDuration: r.SamplingDuration.String(),
		SleepDuration:    r.SleepDuration.String(),
		Cooldown:         r.Cooldown.String(),
		CameraURL:        r.CameraURL,
		ChatID:           r.ChatID,
	}
	if r.LastAlertAt != nil {
		t := r.LastAlertAt.Format(time.RFC3339)
		resp.LastAlertAt = &t
	}
	return resp
}
