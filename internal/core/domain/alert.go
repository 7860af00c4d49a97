package domain

import (
	"time"

	"github.com/google/uuid"
)

type AlertLevel string

const (
	AlertLevelInfo     AlertLevel = "INFO"
	AlertLevelWarning  AlertLevel = "WARNING"
	AlertLevelCritical AlertLevel = "CRITICAL"
)

func ValidateAlertLevel(level string) error {
	switch AlertLevel(level) {
	case AlertLevelInfo, AlertLevelWarning, AlertLevelCritical:
		return nil
	}
	return ErrInvalidAlertLevel
}

type AlertStatus string

const (
	AlertStatusPending AlertStatus = "PENDING"
	AlertStatusSent    AlertStatus = "SENT"
	AlertStatusFailed  AlertStatus = "FAILED"
)

// Alert is a single notification sent (or attempted) to the configured
// Telegram chat. RuleID is nil for ad-hoc alerts posted through the API.
type Alert struct {
	ID        uuid.UUID   `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	RuleID    *uuid.UUID  `json:"rule_id"`
	Source    string      `json:"source"`
	Level     AlertLevel  `json:"level"`
	Message   string      `json:"message"`
	ChatID    string      `json:"chat_id,omitempty"`
	Status    AlertStatus `json:"status"`
	Attempts  int         `json:"attempts"`
	LastError string      `json:"last_error,omitempty"`
	SentAt    *time.Time  `json:"sent_at"`
}
