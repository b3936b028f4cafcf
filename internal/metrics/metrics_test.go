package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("read counter failed: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestReservationCounters(t *testing.T) {
	okBefore := counterValue(t, stockReservations.WithLabelValues("ok"))
	failBefore := counterValue(t, stockReservations.WithLabelValues("insufficient"))

	ObserveReservation(true)
	ObserveReservation(true)
	ObserveReservation(false)

	if got := counterValue(t, stockReservations.WithLabelValues("ok")) - okBefore; got != 2 {
		t.Fatalf("ok reservations want 2 got %v", got)
	}
	if got := counterValue(t, stockReservations.WithLabelValues("insufficient")) - failBefore; got != 1 {
		t.Fatalf("failed reservations want 1 got %v", got)
	}

	releasedBefore := counterValue(t, stockReleasedUnits)
	AddReleasedUnits(3)
	AddReleasedUnits(-1)
	if got := counterValue(t, stockReleasedUnits) - releasedBefore; got != 3 {
		t.Fatalf("released units want 3 got %v", got)
	}
}

func TestHandlerExposesStorefrontMetrics(t *testing.T) {
	ObserveHTTP("GET", "/api/v1/products", 200, 5*time.Millisecond)
	ObserveEventPublish("orders", errors.New("broker down"))

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	text := string(body)
	for _, name := range []string{
		"storefront_http_requests_total",
		"storefront_http_request_duration_seconds",
		`storefront_events_published_total{result="error",topic="orders"}`,
	} {
		if !strings.Contains(text, name) {
			t.Fatalf("metrics output missing %s", name)
		}
	}
}
