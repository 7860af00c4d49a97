package dto

import (
	"time"

	"github.com/google/uuid"

	"vision-alert-service/internal/core/domain"
)

// SendAlertRequest is the legacy /send_alert payload. Photo is an optional
// base64 JPEG attached by the detection worker.
type SendAlertRequest struct {
	Message string `json:"message" binding:"required"`
	ChatID  string `json:"chat_id"`
	Photo   string `json:"photo"`
}

type CreateAlertRequest struct {
	Message string     `json:"message" binding:"required"`
	Level   string     `json:"level"`
	Source  string     `json:"source"`
	ChatID  string     `json:"chat_id"`
	RuleID  *uuid.UUID `json:"rule_id"`
}

type AlertResponse struct {
	ID        uuid.UUID  `json:"id"`
	CreatedAt string     `json:"created_at"`
	UpdatedAt string     `json:"updated_at"`
	RuleID    *uuid.UUID `json:"rule_id"`
	Source    string     `json:"source"`
	Level     string     `json:"level"`
	Message   string     `json:"message"`
	ChatID    string     `json:"chat_id,omitempty"`
	Status    string     `json:"status"`
	Attempts  int        `json:"attempts"`
	LastError string     `json:"last_error,omitempty"`
	SentAt    *string    `json:"sent_at"`
}

type ListAlertsResponse struct {
	Items      []AlertResponse `json:"items"`
	Total      int             `json:"total"`
	PageSize   int             `json:"page_size"`
	NextOffset int             `json:"next_offset"`
}

func ToAlertResponse(a *domain.Alert) AlertResponse {
	resp := AlertResponse{
		ID:        a.ID,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
		UpdatedAt: a.UpdatedAt.Format(time.RFC3339),
		RuleID:    a.RuleID,
		Source:    a.Source,
		Level:     string(a.Level),
		Message:   a.Message,
		ChatID:    a.ChatID,
		Status:    string(a.Status),
		Attempts:  a.Attempts,
		LastError: a.LastError,
	}
	if a.SentAt != nil {
		sentAt := a.SentAt.Format(time.RFC3339)
		resp.SentAt = &sentAt
	}
	return resp
}
