package handlers

import (
	"vision-alert-service/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	alertSvc     *services.AlertService
	ruleSvc      *services.RuleService
	detectionSvc *services.DetectionService
}

func New(alertSvc *services.AlertService, ruleSvc *services.RuleService, detectionSvc *services.DetectionService) *Handler {
	return &Handler{
		alertSvc:     alertSvc,
		ruleSvc:      ruleSvc,
		detectionSvc: detectionSvc,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Alerts
	r.GET("/alerts", h.ListAlerts)
	r.GET("/alerts/:id", h.GetAlert)
	r.POST("/alerts", h.CreateAlert)
	r.POST("/alerts/:id/retry", h.RetryAlert)

	// Monitor Rules
	r.GET("/rules", h.ListRules)
	r.GET("/rules/:id", h.GetRule)
	r.POST("/rules", h.CreateRule)
	r.PATCH("/rules/:id", h.UpdateRule)
	r.DELETE("/rules/:id", h.DeleteRule)

	// Detection Events
	r.GET("/detections", h.ListDetections)
	r.POST("/detections", h.RecordDetections)
}

// RegisterLegacyRoutes mounts the pre-versioning endpoints at the root.
func (h *Handler) RegisterLegacyRoutes(r *gin.Engine) {
	r.POST("/send_alert", h.SendAlert)
}
