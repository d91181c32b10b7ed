package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/chaz8081/engoctl/internal/ble"
	"github.com/chaz8081/engoctl/internal/ble/protocol"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestSessionMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSessionMetrics(reg)

	m.FrameSent(protocol.OpBattery)
	m.FrameSent(protocol.OpBattery)
	m.NotificationReceived(ble.ResultMatched)
	m.DecodeFailed(protocol.OpImageList)
	m.QueryCompleted(protocol.OpBattery, 20*time.Millisecond)

	if got := counterValue(t, m.FramesSent.WithLabelValues("battery")); got != 2 {
		t.Errorf("frames sent{battery} = %v, want 2", got)
	}
	if got := counterValue(t, m.Notifications.WithLabelValues("matched")); got != 1 {
		t.Errorf("notifications{matched} = %v, want 1", got)
	}
	if got := counterValue(t, m.DecodeFailures.WithLabelValues("image_list")); got != 1 {
		t.Errorf("decode failures{image_list} = %v, want 1", got)
	}
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	var observed uint64
	for _, f := range families {
		if f.GetName() == "engo_query_duration_seconds" {
			observed = f.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	if observed != 1 {
		t.Errorf("query duration samples = %d, want 1", observed)
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	reg := NewRegistry()
	m := NewSessionMetrics(reg)
	m.FrameSent(protocol.OpClearDisplay)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, `engo_frames_sent_total{opcode="clear_display"} 1`) {
		t.Errorf("metrics output missing frames counter:\n%s", body)
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Error("metrics output missing Go runtime collector")
	}
}
