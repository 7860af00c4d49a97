package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"vision-alert-service/internal/adapters/primary/http/dto"
	"vision-alert-service/internal/core/domain"
	"vision-alert-service/internal/core/ports/output"
)

func (h *Handler) RecordDetections(c *gin.Context) {
	var req dto.RecordDetectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events := make([]*domain.DetectionEvent, 0, len(req.Events))
	for _, e := range req.Events {
		events = append(events, e.ToDomain())
	}

	if err := h.detectionSvc.RecordBatch(c.Request.Context(), events); err != nil {
		log.WithError(err).Error("record detections failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recorded": len(events)})
}

func (h *Handler) ListDetections(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := ports.EventListFilter{
		ClassName: c.Query("class"),
		Limit:     limit,
		Offset:    offset,
	}
	if raw := c.Query("rule_id"); raw != "" {
		ruleID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rule id"})
			return
		}
		filter.RuleID = ruleID
	}
	if raw := c.Query("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid since timestamp"})
			return
		}
		filter.Since = since
	}
	if raw := c.Query("until"); raw != "" {
		until, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid until timestamp"})
			return
		}
		filter.Until = until
	}

	events, total, err := h.detectionSvc.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list detections failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.DetectionEventResponse, 0, len(events))
	for _, e := range events {
		items = append(items, dto.ToDetectionEventResponse(e))
	}

	c.JSON(http.StatusOK, dto.ListDetectionEventsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}
