package domain

import (
	"time"

	"github.com/google/uuid"
)

// Default tuning for new monitor rules.
const (
	DefaultConfThreshold    = 0.75
	DefaultIoUThreshold     = 0.5
	DefaultMinDuration      = 2 * time.Second
	DefaultSamplingDuration = 5 * time.Second
	DefaultSleepDuration    = 2 * time.Second
)

// MonitorRule describes one camera watch: which class to look for, how
// confident detections must be, and how long the class must stay in frame
// before an alert fires.
type MonitorRule struct {
	ID               uuid.UUID     `json:"id"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	Name             string        `json:"name"`
	Slug             string        `json:"slug"`
	Enabled          bool          `json:"enabled"`
	TargetClass      string        `json:"target_class"`
	ConfThreshold    float64       `json:"conf_threshold"`
	IoUThreshold     float64       `json:"iou_threshold"`
	MinDuration      time.Duration `json:"min_duration"`
	SamplingDuration time.Duration `json:"sampling_duration"`
	SleepDuration    time.Duration `json:"sleep_duration"`
	Cooldown         time.Duration `json:"cooldown"`
	CameraURL        string        `json:"camera_url"`
	ChatID           string        `json:"chat_id,omitempty"`
	LastAlertAt      *time.Time    `json:"last_alert_at"`
}

func (r *MonitorRule) Validate() error {
	if r.Name == "" {
		return ErrInvalidRuleName
	}
	if !KnownClass(r.TargetClass) {
		return ErrUnknownTargetClass
	}
	if r.ConfThreshold <= 0 || r.ConfThreshold > 1 {
		return ErrInvalidThreshold
	}
	if r.IoUThreshold <= 0 || r.IoUThreshold > 1 {
		return ErrInvalidThreshold
	}
	if r.MinDuration <= 0 || r.SamplingDuration <= 0 || r.SleepDuration <= 0 {
		return ErrInvalidDuration
	}
	if r.Cooldown < 0 {
		return ErrInvalidDuration
	}
	return nil
}

// InCooldown reports whether the rule alerted within its cooldown window.
func (r *MonitorRule) InCooldown(now time.Time) bool {
	if r.Cooldown == 0 || r.LastAlertAt == nil {
		return false
	}
	return now.Sub(*r.LastAlertAt) < r.Cooldown
}
