package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"EcoUrban/internal/calculator"
	"EcoUrban/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotFor(values []float64, forecast *float64, phase model.RequestPhase) model.Snapshot {
	snap := model.Snapshot{
		RequestState:  phase,
		ForecastValue: forecast,
		DerivedStats:  calculator.ComputeDerived(values, forecast),
		UpdatedAt:     time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC),
	}
	if text, ok := calculator.RecommendationText(forecast, snap.Average); ok {
		snap.Recommendation = &text
	}
	return snap
}

func TestFormatForecastReport_Succeeded(t *testing.T) {
	values := []float64{400, 600, 500}
	f := 700.0
	series := model.SeriesFromValues(values)
	msg := FormatForecastReport(snapshotFor(values, &f, model.PhaseSucceeded), series)

	assert.Contains(t, msg, "2026-10-17 08:00")
	assert.Contains(t, msg, "Next hour: <b>700.0 kWh</b>")
	assert.Contains(t, msg, "Current: 500.0 kWh | Average: 500.0 kWh")
	assert.Contains(t, msg, "Saving potential: -40.0%")
	assert.Contains(t, msg, "24h range: 400-600 kWh (peak at -1h)")
	assert.Contains(t, msg, "Anomaly")
	assert.Contains(t, msg, calculator.HighDemandText)
}

func TestFormatForecastReport_Failed(t *testing.T) {
	values := []float64{500}
	snap := snapshotFor(values, nil, model.PhaseFailed)
	snap.Error = "API error (500): <html>"
	msg := FormatForecastReport(snap, model.SeriesFromValues(values))

	assert.Contains(t, msg, "Forecast unavailable: API error (500): &lt;html&gt;")
	assert.NotContains(t, msg, "Saving potential")
	assert.NotContains(t, msg, "Anomaly")
	assert.NotContains(t, msg, "💡")
}

func TestFormatAnomalyAlert(t *testing.T) {
	values := []float64{500, 500}
	f := 700.0
	msg := FormatAnomalyAlert(snapshotFor(values, &f, model.PhaseSucceeded))

	assert.Contains(t, msg, "Forecast: 700.0 kWh")
	assert.Contains(t, msg, "24h average: 500.0 kWh (+40.0%)")
	assert.Contains(t, msg, calculator.HighDemandText)
}

func newTestNotifier(url string) *TelegramNotifier {
	tn := NewTelegramNotifier("TOKEN", "42", "")
	tn.APIBase = url
	return tn
}

func TestTelegramNotifier_Send(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	require.NoError(t, newTestNotifier(srv.URL).Send("<b>hi</b>"))
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "<b>hi</b>", got["text"])
	assert.Equal(t, "HTML", got["parse_mode"])
}

func TestTelegramNotifier_SendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"ok":false,"description":"Unauthorized"}`))
	}))
	defer srv.Close()

	err := newTestNotifier(srv.URL).Send("hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestSendWithRetry(t *testing.T) {
	calls := 0
	flaky := func(string) error {
		calls++
		if calls < 3 {
			return errors.New("boom")
		}
		return nil
	}
	require.NoError(t, sendWithRetry(context.Background(), flaky, "x", 3, time.Millisecond))
	assert.Equal(t, 3, calls)

	calls = 0
	always := func(string) error { calls++; return errors.New("down") }
	err := sendWithRetry(context.Background(), always, "x", 2, time.Millisecond)
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "all 3 retries exhausted: down")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = sendWithRetry(ctx, always, "x", 5, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStartPolling_DispatchesCommands(t *testing.T) {
	var (
		mu      sync.Mutex
		replies []string
		served  bool
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			mu.Lock()
			first := !served
			served = true
			mu.Unlock()
			if first {
				w.Write([]byte(`{"ok":true,"result":[{"update_id":7,"message":{"text":" /forecast "}},{"update_id":8}]}`))
				return
			}
			assert.Equal(t, "9", r.URL.Query().Get("offset"))
			<-r.Context().Done()
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			mu.Lock()
			replies = append(replies, body["text"])
			mu.Unlock()
			w.Write([]byte(`{"ok":true}`))
			cancel()
		}
	}))
	defer srv.Close()

	var commands []string
	done := make(chan struct{})
	go func() {
		defer close(done)
		newTestNotifier(srv.URL).StartPolling(ctx, func(cmd string) string {
			commands = append(commands, cmd)
			return "reply to " + cmd
		})
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("polling did not stop")
	}
	assert.Equal(t, []string{"/forecast"}, commands)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"reply to /forecast"}, replies)
}

func TestNoopNotifier(t *testing.T) {
	var n Notifier = NoopNotifier{}
	assert.NoError(t, n.Send("x"))
	assert.NoError(t, n.SendWithRetry(context.Background(), "x", 3))
}
