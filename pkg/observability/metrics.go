package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/paintboard/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for board activity.
type Metrics struct {
	Actions *prometheus.CounterVec
	Noops   *prometheus.CounterVec
	Painted prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paintboard_actions_total",
				Help: "Applied board actions by operation and action kind",
			},
			[]string{"op", "kind"},
		),
		Noops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paintboard_noop_total",
				Help: "Undo/redo calls that found an empty history",
			},
			[]string{"op"},
		),
		Painted: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "paintboard_painted_cells",
				Help:    "Painted cell count observed after each applied action",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
	}
	reg.MustRegister(m.Actions, m.Noops, m.Painted)
	return m
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	record := func(_ context.Context, e *domain.BoardEvent) {
		if !e.Applied() {
			m.Noops.WithLabelValues(string(e.Type)).Inc()
			return
		}
		m.Actions.WithLabelValues(string(e.Type), string(e.Action.Kind)).Inc()
		m.Painted.Observe(float64(e.Painted))
	}
	return domain.LifecycleHooks{
		OnToggle: record,
		OnUndo:   record,
		OnRedo:   record,
	}
}

// LogHooks returns hooks that write one debug line per board event.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	log := func(ctx context.Context, e *domain.BoardEvent) {
		attrs := []any{"session_id", e.SessionID, "painted", e.Painted}
		if e.Applied() {
			attrs = append(attrs, "kind", e.Action.Kind, "x", e.Action.Coordinate.X, "y", e.Action.Coordinate.Y)
		} else {
			attrs = append(attrs, "noop", true)
		}
		logger.DebugContext(ctx, "board_"+string(e.Type), attrs...)
	}
	return domain.LifecycleHooks{
		OnToggle: log,
		OnUndo:   log,
		OnRedo:   log,
	}
}
