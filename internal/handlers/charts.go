package handlers

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/avishkarchauhan001/stress-score-monitoring-system/internal/models"
)

// buildSeriesChart renders one sensor series from the loaded history as a
// time-axis line chart.
func buildSeriesChart(history []models.Reading, title, seriesName string, value func(models.Reading) float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: seriesName,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "time",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:  "value",
			Scale: opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)

	items := make([]opts.LineData, 0, len(history))
	for _, reading := range history {
		items = append(items, opts.LineData{Value: []interface{}{reading.Timestamp, value(reading)}})
	}

	line.AddSeries(seriesName, items).SetSeriesOptions(charts.WithLineStyleOpts(opts.LineStyle{Width: 2}))
	return line
}

func buildHRVChart(history []models.Reading) *charts.Line {
	return buildSeriesChart(history, "Heart Rate Variability", "HRV (ms)", func(r models.Reading) float64 {
		return r.HRV
	})
}

func buildSpO2Chart(history []models.Reading) *charts.Line {
	return buildSeriesChart(history, "Blood Oxygen Saturation", "SpO2 (%)", func(r models.Reading) float64 {
		return r.SpO2
	})
}
