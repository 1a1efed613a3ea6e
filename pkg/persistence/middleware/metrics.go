package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/aretw0/paintboard/pkg/domain"
	"github.com/aretw0/paintboard/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

type metricsMiddleware struct {
	next     ports.BoardStore
	duration *prometheus.HistogramVec
}

// NewMetricsMiddleware records the latency of every store call, labelled by
// operation and result ("ok", "not_found" or "error").
func NewMetricsMiddleware(reg prometheus.Registerer) Middleware {
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "paintboard_store_duration_seconds",
		Help:    "Latency of board store calls.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	}, []string{"op", "result"})
	reg.MustRegister(duration)

	return func(next ports.BoardStore) ports.BoardStore {
		return &metricsMiddleware{next: next, duration: duration}
	}
}

func (m *metricsMiddleware) observe(op string, start time.Time, err error) {
	result := "ok"
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		result = "not_found"
	case err != nil:
		result = "error"
	}
	m.duration.WithLabelValues(op, result).Observe(time.Since(start).Seconds())
}

func (m *metricsMiddleware) Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error {
	start := time.Now()
	err := m.next.Save(ctx, sessionID, snap)
	m.observe("save", start, err)
	return err
}

func (m *metricsMiddleware) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	start := time.Now()
	snap, err := m.next.Load(ctx, sessionID)
	m.observe("load", start, err)
	return snap, err
}

func (m *metricsMiddleware) Delete(ctx context.Context, sessionID string) error {
	start := time.Now()
	err := m.next.Delete(ctx, sessionID)
	m.observe("delete", start, err)
	return err
}

func (m *metricsMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := m.next.List(ctx)
	m.observe("list", start, err)
	return ids, err
}
