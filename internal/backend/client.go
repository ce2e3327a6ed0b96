// Package backend is the HTTP client for the remote prediction service.
// All durability lives on that side; this client only reads history,
// scores synthetic samples, and attaches feedback to prior readings.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/avishkarchauhan001/stress-score-monitoring-system/internal/metrics"
	"github.com/avishkarchauhan001/stress-score-monitoring-system/internal/models"
)

const maxErrBody = 4096

// Client calls the prediction backend.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
	metrics *metrics.Metrics
}

// New returns a Client for the backend at baseURL. metrics may be nil.
func New(baseURL string, timeout time.Duration, log *zap.Logger, m *metrics.Metrics) *Client {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 3 * time.Minute,
		}).DialContext,
		MaxIdleConns:        32,
		MaxIdleConnsPerHost: 8,
		IdleConnTimeout:     2 * time.Minute,
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: tr,
			Timeout:   timeout,
		},
		log:     log,
		metrics: m,
	}
}

// History fetches the full list of past readings. Rows may carry fields
// this dashboard does not display; those are ignored. A row missing any
// displayed field is a malformed response.
func (c *Client) History(ctx context.Context) ([]models.Reading, error) {
	body, err := c.do(ctx, http.MethodGet, "/history", nil)
	if err != nil {
		return nil, err
	}

	rows := gjson.GetBytes(body, "history")
	if !rows.Exists() {
		c.metrics.RecordError("history", "malformed")
		return nil, fmt.Errorf("history: response has no 'history' field")
	}

	items := rows.Array()
	readings := make([]models.Reading, 0, len(items))
	for i, row := range items {
		hrv := row.Get("HRV_Denormalized")
		spo2 := row.Get("Oxygen_Saturation")
		idx := row.Get("index")
		if !hrv.Exists() || !spo2.Exists() || !idx.Exists() {
			c.metrics.RecordError("history", "malformed")
			return nil, fmt.Errorf("history: row %d is missing required fields", i)
		}

		ts, err := parseTimestamp(row.Get("Timestamp"))
		if err != nil {
			c.metrics.RecordError("history", "malformed")
			return nil, fmt.Errorf("history: row %d: %w", i, err)
		}

		readings = append(readings, models.Reading{
			Timestamp: ts,
			HRV:       hrv.Float(),
			SpO2:      spo2.Float(),
			Index:     int(idx.Int()),
		})
	}

	return readings, nil
}

// Predict asks the backend to score a synthetic sample. The backend
// persists the reading and returns the index of the stored row.
func (c *Client) Predict(ctx context.Context, sample models.Sample) (models.Prediction, error) {
	payload, err := json.Marshal(sample)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("predict marshal: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/predict", payload)
	if err != nil {
		return models.Prediction{}, err
	}

	score := gjson.GetBytes(body, "stress_score")
	index := gjson.GetBytes(body, "new_index")
	if !score.Exists() || !index.Exists() {
		c.metrics.RecordError("predict", "malformed")
		return models.Prediction{}, fmt.Errorf("predict: response is missing stress_score or new_index")
	}

	return models.Prediction{
		StressScore: score.Float(),
		NewIndex:    int(index.Int()),
	}, nil
}

// Feedback attaches a qualitative label to the reading stored at index.
func (c *Client) Feedback(ctx context.Context, index int, label string) (models.FeedbackResult, error) {
	payload, err := json.Marshal(map[string]any{
		"index":    index,
		"feedback": label,
	})
	if err != nil {
		return models.FeedbackResult{}, fmt.Errorf("feedback marshal: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/feedback", payload)
	if err != nil {
		return models.FeedbackResult{}, err
	}

	idx := gjson.GetBytes(body, "index")
	score := gjson.GetBytes(body, "new_score")
	if !idx.Exists() || !score.Exists() {
		c.metrics.RecordError("feedback", "malformed")
		return models.FeedbackResult{}, fmt.Errorf("feedback: response is missing index or new_score")
	}

	return models.FeedbackResult{
		Index:    int(idx.Int()),
		NewScore: score.Float(),
	}, nil
}

// do issues one request and returns the raw response body. Transport
// failures and non-200 statuses are reported as errors; there is no
// retry at this layer.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	endpoint := strings.TrimPrefix(path, "/")

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	c.metrics.RecordRequest(endpoint, time.Since(start).Seconds())
	if err != nil {
		c.metrics.RecordError(endpoint, "transport")
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.RecordError(endpoint, fmt.Sprintf("status_%d", resp.StatusCode))
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		return nil, fmt.Errorf("%s %s: %s", endpoint, resp.Status, strings.TrimSpace(string(snippet)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordError(endpoint, "read")
		return nil, fmt.Errorf("%s read: %w", endpoint, err)
	}

	c.log.Debug("Backend call completed",
		zap.String("endpoint", endpoint),
		zap.Duration("latency", time.Since(start)))

	return body, nil
}

// parseTimestamp accepts the timestamp shapes the backend has been seen
// to emit: RFC3339 strings, "YYYY-MM-DD HH:MM:SS" strings, and Unix
// seconds as a number.
func parseTimestamp(value gjson.Result) (time.Time, error) {
	if !value.Exists() {
		return time.Time{}, fmt.Errorf("missing Timestamp field")
	}

	if value.Type == gjson.Number {
		sec := value.Float()
		return time.Unix(int64(sec), 0).UTC(), nil
	}

	s := value.String()
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable Timestamp %q", s)
}
