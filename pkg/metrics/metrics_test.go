package metrics_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/nexus/app/models"
	"github.com/shashiranjanraj/nexus/pkg/event"
	"github.com/shashiranjanraj/nexus/pkg/metrics"
	"github.com/shashiranjanraj/nexus/pkg/testkit"
)

func value(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(metrics.Middleware())
	r.Get("/api/orders/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := value(metrics.RequestTotal.WithLabelValues("GET", "/api/orders/{id}", "404"))
	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/orders/"+id, nil))
	}
	after := value(metrics.RequestTotal.WithLabelValues("GET", "/api/orders/{id}", "404"))
	assert.Equal(t, 3.0, after-before)
}

func samples(t *testing.T, op, table string) uint64 {
	t.Helper()
	var m dto.Metric
	h := metrics.DBQueryDuration.WithLabelValues(op, table).(prometheus.Histogram)
	require.NoError(t, h.Write(&m))
	return m.GetHistogram().GetSampleCount()
}

func TestInstrumentDBObservesStatements(t *testing.T) {
	db := testkit.DB(t)
	require.NoError(t, metrics.InstrumentDB(db))

	inserts, selects := samples(t, "insert", "products"), samples(t, "select", "products")

	require.NoError(t, db.Create(&models.Product{Name: "Pad", Category: models.DefaultCategory}).Error)
	var got []models.Product
	require.NoError(t, db.Find(&got).Error)

	assert.Equal(t, inserts+1, samples(t, "insert", "products"))
	assert.Equal(t, selects+1, samples(t, "select", "products"))
}

func TestObserveEvents(t *testing.T) {
	d := event.New()
	metrics.ObserveEvents(d)

	c := metrics.DomainEvents.WithLabelValues(event.OrderPlaced)
	before := value(c)
	d.Fire(context.Background(), event.OrderPlaced, nil)
	assert.Equal(t, 1.0, value(c)-before)
}

func TestHandlerExposesNamespace(t *testing.T) {
	metrics.RecordSessionLookup("memory", true, nil)

	rec := httptest.NewRecorder()
	metrics.Handler()(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `nexus_session_lookups_total{driver="memory",result="hit"}`)
}
