package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avishkarchauhan001/stress-score-monitoring-system/internal/monitor"
)

// APIHandler serves the JSON endpoints the dashboard page calls.
type APIHandler struct {
	log     *zap.Logger
	monitor *monitor.Monitor
}

func NewAPIHandler(log *zap.Logger, mon *monitor.Monitor) *APIHandler {
	return &APIHandler{log: log, monitor: mon}
}

type feedbackRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}

// Simulate scores one synthetic reading and returns the result.
func (h *APIHandler) Simulate(c *gin.Context) {
	scored, err := h.monitor.Simulate(c.Request.Context())
	if err != nil {
		h.log.Error("Simulate failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stress_score": scored.StressScore,
		"new_index":    scored.Index,
		"hrv":          scored.Sample.HRV,
		"spo2":         scored.Sample.SpO2,
	})
}

// Feedback attaches a label to the current feedback target.
func (h *APIHandler) Feedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid feedback request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "feedback label is required"})
		return
	}

	res, err := h.monitor.SubmitFeedback(c.Request.Context(), req.Feedback)
	if err != nil {
		switch {
		case errors.Is(err, monitor.ErrNoReading):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, monitor.ErrUnknownLabel):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.log.Error("Feedback failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"index":     res.Index,
		"new_score": res.NewScore,
	})
}

// History returns the currently loaded display series.
func (h *APIHandler) History(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"history": h.monitor.History()})
}
