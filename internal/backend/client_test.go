package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/avishkarchauhan001/stress-score-monitoring-system/internal/models"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, zap.NewNop(), nil), srv
}

func TestHistory(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/history" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"history": [
			{"Timestamp": "2026-08-29 10:00:00", "HRV_Denormalized": 62.5, "Oxygen_Saturation": 97.1, "index": 0, "Stress_Score": 0.3},
			{"Timestamp": "2026-08-29 10:05:00", "HRV_Denormalized": 48.0, "Oxygen_Saturation": 94.2, "index": 1, "Extra": "ignored"}
		]}`))
	}))

	readings, err := client.History(context.Background())
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(readings) != 2 {
		t.Fatalf("len(readings) = %d, want 2", len(readings))
	}
	if readings[0].HRV != 62.5 || readings[0].SpO2 != 97.1 || readings[0].Index != 0 {
		t.Errorf("readings[0] = %+v", readings[0])
	}
	if readings[1].Index != 1 {
		t.Errorf("readings[1].Index = %d, want 1", readings[1].Index)
	}
	if readings[0].Timestamp.IsZero() {
		t.Error("readings[0].Timestamp not parsed")
	}
}

func TestHistoryTimestampFormats(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"rfc3339", `{"history": [{"Timestamp": "2026-08-29T10:00:00Z", "HRV_Denormalized": 60, "Oxygen_Saturation": 95, "index": 0}]}`},
		{"unix seconds", `{"history": [{"Timestamp": 1787188800, "HRV_Denormalized": 60, "Oxygen_Saturation": 95, "index": 0}]}`},
		{"space separated", `{"history": [{"Timestamp": "2026-08-29 10:00:00", "HRV_Denormalized": 60, "Oxygen_Saturation": 95, "index": 0}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			readings, err := client.History(context.Background())
			if err != nil {
				t.Fatalf("History() error = %v", err)
			}
			if readings[0].Timestamp.IsZero() {
				t.Error("timestamp not parsed")
			}
		})
	}
}

func TestHistoryMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no history field", `{"rows": []}`},
		{"row missing HRV", `{"history": [{"Timestamp": "2026-08-29 10:00:00", "Oxygen_Saturation": 95, "index": 0}]}`},
		{"row missing index", `{"history": [{"Timestamp": "2026-08-29 10:00:00", "HRV_Denormalized": 60, "Oxygen_Saturation": 95}]}`},
		{"bad timestamp", `{"history": [{"Timestamp": "yesterday", "HRV_Denormalized": 60, "Oxygen_Saturation": 95, "index": 0}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			if _, err := client.History(context.Background()); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestPredict(t *testing.T) {
	var gotBody string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/predict" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		w.Write([]byte(`{"stress_score": 0.42, "new_index": 7}`))
	}))

	pred, err := client.Predict(context.Background(), models.Sample{HRV: 55.5, SpO2: 96.25})
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if pred.StressScore != 0.42 {
		t.Errorf("StressScore = %v, want 0.42", pred.StressScore)
	}
	if pred.NewIndex != 7 {
		t.Errorf("NewIndex = %d, want 7", pred.NewIndex)
	}
	if gotBody != `{"HRV":55.5,"SpO2":96.25}` {
		t.Errorf("request body = %s", gotBody)
	}
}

func TestPredictBackendError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))

	if _, err := client.Predict(context.Background(), models.Sample{HRV: 50, SpO2: 95}); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestPredictMalformed(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"score": 0.42}`))
	}))

	if _, err := client.Predict(context.Background(), models.Sample{HRV: 50, SpO2: 95}); err == nil {
		t.Fatal("expected error for missing fields, got nil")
	}
}

func TestFeedback(t *testing.T) {
	var gotBody string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/feedback" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		w.Write([]byte(`{"index": 7, "new_score": 0.38}`))
	}))

	res, err := client.Feedback(context.Background(), 7, "good")
	if err != nil {
		t.Fatalf("Feedback() error = %v", err)
	}
	if res.Index != 7 || res.NewScore != 0.38 {
		t.Errorf("result = %+v", res)
	}
	if gotBody != `{"feedback":"good","index":7}` {
		t.Errorf("request body = %s", gotBody)
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close() // nothing listens here anymore

	client := New(url, 1*time.Second, zap.NewNop(), nil)
	if _, err := client.History(context.Background()); err == nil {
		t.Fatal("expected transport error, got nil")
	}
}
