package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"vision-alert-service/internal/adapters/primary/http/dto"
	"vision-alert-service/internal/core/domain"
)

func (h *Handler) CreateRule(c *gin.Context) {
	var req dto.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rule := &domain.MonitorRule{
		Name:          req.Name,
		Enabled:       true,
		TargetClass:   req.TargetClass,
		ConfThreshold: req.ConfThreshold,
		IoUThreshold:  req.IoUThreshold,
		CameraURL:     req.CameraURL,
		ChatID:        req.ChatID,
	}
	if req.Enabled != nil {
		rule.Enabled = *req.Enabled
	}

	var err error
	if rule.MinDuration, err = parseOptionalDuration(req.MinDuration); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_duration"})
		return
	}
	if rule.SamplingDuration, err = parseOptionalDuration(req.SamplingDuration); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sampling_duration"})
		return
	}
	if rule.SleepDuration, err = parseOptionalDuration(req.SleepDuration); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sleep_duration"})
		return
	}
	if rule.Cooldown, err = parseOptionalDuration(req.Cooldown); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cooldown"})
		return
	}

	created, err := h.ruleSvc.Create(c.Request.Context(), rule)
	if err != nil {
		log.WithError(err).Error("create rule failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToRuleResponse(created))
}

func (h *Handler) GetRule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rule id"})
		return
	}

	rule, err := h.ruleSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRuleResponse(rule))
}

func (h *Handler) ListRules(c *gin.Context) {
	enabledOnly := c.Query("enabled") == "true"

	rules, err := h.ruleSvc.List(c.Request.Context(), enabledOnly)
	if err != nil {
		log.WithError(err).Error("list rules failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.RuleResponse, 0, len(rules))
	for _, r := range rules {
		items = append(items, dto.ToRuleResponse(r))
	}

	c.JSON(http.StatusOK, dto.ListRulesResponse{Items: items, Total: len(items)})
}

func (h *Handler) UpdateRule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rule id"})
		return
	}

	var req dto.UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Enabled != nil {
		updates["enabled"] = *req.Enabled
	}
	if req.TargetClass != nil {
		updates["target_class"] = *req.TargetClass
	}
	if req.ConfThreshold != nil {
		updates["conf_threshold"] = *req.ConfThreshold
	}
	if req.IoUThreshold != nil {
		updates["iou_threshold"] = *req.IoUThreshold
	}
	if req.CameraURL != nil {
		updates["camera_url"] = *req.CameraURL
	}
	if req.ChatID != nil {
		updates["chat_id"] = *req.ChatID
	}

	durationFields := map[string]*string{
		"min_duration":      req.MinDuration,
		"sampling_duration": req.SamplingDuration,
		"sleep_duration":    req.SleepDuration,
		"cooldown":          req.Cooldown,
	}
	for key, raw := range durationFields {
		if raw == nil {
			continue
		}
		d, err := time.ParseDuration(*raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + key})
			return
		}
		updates[key] = d
	}

	rule, err := h.ruleSvc.Update(c.Request.Context(), id, updates)
	if err != nil {
		log.WithError(err).Error("update rule failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRuleResponse(rule))
}

func (h *Handler) DeleteRule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rule id"})
		return
	}

	if err := h.ruleSvc.Delete(c.Request.Context(), id); err != nil {
		log.WithError(err).Error("delete rule failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func parseOptionalDuration(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	return time.ParseDuration(raw)
}
