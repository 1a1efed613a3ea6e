package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/paintboard"
	"github.com/aretw0/paintboard/internal/config"
	"github.com/aretw0/paintboard/pkg/adapters/memory"
	"github.com/aretw0/paintboard/pkg/adapters/redis"
	"github.com/aretw0/paintboard/pkg/domain"
	"github.com/aretw0/paintboard/pkg/history"
	"github.com/aretw0/paintboard/pkg/observability"
	"github.com/aretw0/paintboard/pkg/persistence/middleware"
	"github.com/aretw0/paintboard/pkg/ports"
	"github.com/aretw0/paintboard/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
)

// Runtime bundles the session manager and the resources behind it.
type Runtime struct {
	Manager  *session.Manager
	Store    ports.BoardStore // Backend wrapped in the store middlewares
	Backend  ports.BoardStore
	Registry *prometheus.Registry // nil when metrics are disabled
	closers  []func() error
}

// Close releases backend connections.
func (r *Runtime) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// NewRuntime builds the store, locker, hooks and manager described by cfg.
func NewRuntime(cfg config.Config, logger *slog.Logger) (*Runtime, error) {
	policy, err := history.ParseRedoPolicy(cfg.History.RedoPolicy)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{}
	hooks := observability.LogHooks(logger)
	mws := []middleware.Middleware{middleware.NewIntegrityMiddleware()}
	if cfg.Server.Metrics {
		rt.Registry = prometheus.NewRegistry()
		hooks = hooks.Merge(observability.NewMetrics(rt.Registry).Hooks())
		mws = append([]middleware.Middleware{middleware.NewMetricsMiddleware(rt.Registry)}, mws...)
	}

	mgrOpts := []session.Option{
		session.WithLogger(logger),
		session.WithBoardOptions(
			paintboard.WithRedoPolicy(policy),
			paintboard.WithLifecycleHooks(hooks),
			paintboard.WithLogger(logger),
		),
	}
	if cfg.Store.LockTTL > 0 {
		mgrOpts = append(mgrOpts, session.WithLockTTL(cfg.Store.LockTTL))
	}

	switch cfg.Store.Backend {
	case "redis":
		storeOpts := []redis.Option{redis.WithTTL(cfg.Store.TTL)}
		if cfg.Store.Prefix != "" {
			storeOpts = append(storeOpts, redis.WithPrefix(cfg.Store.Prefix))
		}
		store, err := redis.New(cfg.Store.RedisURL, storeOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		rt.Backend = store
		rt.closers = append(rt.closers, store.Close)
		// Replicas sharing a prefix lock on the same keys.
		locker := redis.NewLocker(store.Client(), store.Prefix())
		mgrOpts = append(mgrOpts, session.WithLocker(locker))
		logger.Info("Using redis board store", "prefix", store.Prefix(), "ttl", cfg.Store.TTL)
	case "memory", "":
		rt.Backend = memory.NewStore()
		logger.Info("Using in-memory board store")
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	rt.Store = middleware.Chain(rt.Backend, mws...)
	rt.Manager = session.NewManager(rt.Store, mgrOpts...)
	return rt, nil
}

// DescribeBoard renders a one-line summary used by the session commands.
func DescribeBoard(s *domain.Snapshot) string {
	return fmt.Sprintf("%s: %d painted, revision %d, %d to undo, %d to redo",
		s.SessionID, len(s.Painted), s.Revision, len(s.Done), len(s.Undone))
}
