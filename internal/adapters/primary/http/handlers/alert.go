package handlers

import (
	"encoding/base64"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"vision-alert-service/internal/adapters/primary/http/dto"
	"vision-alert-service/internal/core/ports/output"
)

// SendAlert is the legacy endpoint the detection worker posts to. Response
// shape is fixed: {"status":"success","message":"Alert sent successfully."}.
func (h *Handler) SendAlert(c *gin.Context) {
	var req dto.SendAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var photo []byte
	if req.Photo != "" {
		var err error
		photo, err = base64.StdEncoding.DecodeString(req.Photo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid photo encoding"})
			return
		}
	}

	_, err := h.alertSvc.Create(c.Request.Context(), "detector", "", req.Message, req.ChatID, nil)
	if err != nil {
		log.WithError(err).Error("send alert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if len(photo) > 0 {
		if err := h.alertSvc.SendSnapshot(c.Request.Context(), req.ChatID, photo, req.Message); err != nil {
			log.WithError(err).Warn("snapshot delivery failed")
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Alert sent successfully."})
}

func (h *Handler) CreateAlert(c *gin.Context) {
	var req dto.CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	alert, err := h.alertSvc.Create(c.Request.Context(), req.Source, req.Level, req.Message, req.ChatID, req.RuleID)
	if err != nil && alert == nil {
		log.WithError(err).Error("create alert failed")
		mapDomainError(c, err)
		return
	}

	// Delivery failure still created the alert; surface it as stored.
	c.JSON(http.StatusCreated, dto.ToAlertResponse(alert))
}

func (h *Handler) GetAlert(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert id"})
		return
	}

	alert, err := h.alertSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAlertResponse(alert))
}

func (h *Handler) ListAlerts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := ports.AlertListFilter{
		Status: c.Query("status"),
		Level:  c.Query("level"),
		Source: c.Query("source"),
		SortBy: c.Query("sort_by"),
		Order:  c.Query("order"),
		Limit:  limit,
		Offset: offset,
	}
	if raw := c.Query("rule_id"); raw != "" {
		ruleID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rule id"})
			return
		}
		filter.RuleID = ruleID
	}

	alerts, total, err := h.alertSvc.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list alerts failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		items = append(items, dto.ToAlertResponse(a))
	}

	c.JSON(http.StatusOK, dto.ListAlertsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) RetryAlert(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert id"})
		return
	}

	alert, err := h.alertSvc.Retry(c.Request.Context(), id)
	if err != nil && alert == nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAlertResponse(alert))
}
