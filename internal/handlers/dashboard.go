package handlers

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avishkarchauhan001/stress-score-monitoring-system/internal/models"
	"github.com/avishkarchauhan001/stress-score-monitoring-system/internal/monitor"
)

// DashboardHandler renders the dashboard page.
type DashboardHandler struct {
	log     *zap.Logger
	monitor *monitor.Monitor
	catalog *models.FeedbackCatalog
}

func NewDashboardHandler(log *zap.Logger, mon *monitor.Monitor, catalog *models.FeedbackCatalog) *DashboardHandler {
	return &DashboardHandler{log: log, monitor: mon, catalog: catalog}
}

// Show serves the dashboard: current score panel, feedback buttons and
// both sensor charts built from the loaded history. The history is
// refreshed on every page load; a failed refresh renders whatever is
// already held, indistinguishable from an empty series.
func (h *DashboardHandler) Show(c *gin.Context) {
	if err := h.monitor.LoadHistory(c.Request.Context()); err != nil {
		h.log.Error("Failed to load history for dashboard", zap.Error(err))
	}
	history := h.monitor.History()

	hrvOptions, err := json.Marshal(buildHRVChart(history).JSON())
	if err != nil {
		h.log.Error("Failed to marshal HRV chart options", zap.Error(err))
		c.String(http.StatusInternalServerError, "Error loading dashboard")
		return
	}
	spo2Options, err := json.Marshal(buildSpO2Chart(history).JSON())
	if err != nil {
		h.log.Error("Failed to marshal SpO2 chart options", zap.Error(err))
		c.String(http.StatusInternalServerError, "Error loading dashboard")
		return
	}

	scoreDisplay := "--"
	var last *models.ScoredReading
	if last = h.monitor.Last(); last != nil {
		scoreDisplay = fmt.Sprintf("%.3f", last.StressScore)
	}

	csrfValue, _ := c.Get("csrf_token")
	csrfToken, _ := csrfValue.(string)

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Title":        "Stress Monitor",
		"ScoreDisplay": scoreDisplay,
		"Last":         last,
		"History":      history,
		"Labels":       h.catalog.Labels,
		"HRVOptions":   template.JS(hrvOptions),
		"SpO2Options":  template.JS(spo2Options),
		"CSRFToken":    csrfToken,
	})
}

// Charts returns freshly built chart options for the current history, so
// the page can redraw after a simulate or feedback round trip.
func (h *DashboardHandler) Charts(c *gin.Context) {
	history := h.monitor.History()

	c.JSON(http.StatusOK, gin.H{
		"hrv":  buildHRVChart(history).JSON(),
		"spo2": buildSpO2Chart(history).JSON(),
	})
}
