package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/awmpietro/under5-screening/internal/config"
	"github.com/awmpietro/under5-screening/internal/history"
	"github.com/awmpietro/under5-screening/internal/logger"
	"github.com/awmpietro/under5-screening/internal/metrics"
	"github.com/awmpietro/under5-screening/internal/notify"
	"github.com/awmpietro/under5-screening/internal/policy"
	"github.com/awmpietro/under5-screening/internal/triage"
	"github.com/awmpietro/under5-screening/internal/triage/cache"
)

// Build wires a Service from configuration. The returned close function
// releases pools and flushes the latency observer; call it once.
func Build(ctx context.Context, cfg config.Runtime, log logger.Logger) (*Service, func() error, error) {
	var closers []func() error
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}
	fail := func(err error) (*Service, func() error, error) {
		_ = closeAll()
		return nil, nil, err
	}

	observer := policy.NewAsyncNodeLatencyObserver(policy.NodeLatencyObservers{
		metrics.NodeLatency{},
		policy.NewNodeLatencyLogger(log),
	}, cfg.Policy.ObsBuffer)
	closers = append(closers, func() error { observer.Close(); return nil })

	scorer := triage.NewScorer(
		triage.WithNodeLatencyObserver(observer),
		triage.WithMaxSteps(cfg.Policy.MaxSteps),
	)

	var c cache.Cache = cache.Noop{}
	switch {
	case cfg.Cache.RedisAddr != "":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		closers = append(closers, client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			return fail(fmt.Errorf("failed to connect to redis: %w", err))
		}
		c = cache.NewRedis(client, cfg.Cache.TTL, log)
	case cfg.Cache.MaxItems > 0:
		c = cache.NewInMemory(cfg.Cache.MaxItems)
	}

	var store history.Store = history.NewMemoryStore(cfg.History.MaxRecords)
	if cfg.History.PostgresDSN != "" {
		db, err := history.OpenPostgres(ctx, cfg.History.PostgresDSN, cfg.History.MaxConnections)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, db.Close)
		pg := history.NewPostgresStore(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			return fail(err)
		}
		store = pg
	}

	notifier, err := notify.New(ctx, notify.Options{
		Region:    cfg.Alerts.Region,
		TopicARN:  cfg.Alerts.SNSTopicARN,
		EmailFrom: cfg.Alerts.EmailFrom,
		EmailTo:   cfg.Alerts.EmailTo,
	})
	if err != nil {
		return fail(err)
	}

	svc := NewService(scorer, c,
		WithHistory(store),
		WithNotifier(notifier),
		WithLogger(log),
		WithAlertTimeout(cfg.Alerts.Timeout),
		WithShareDefaults(ShareDefaults{
			Language:       cfg.Share.DefaultLanguage,
			IncludePatient: cfg.Share.IncludePatient,
			IncludeVillage: cfg.Share.IncludeVillage,
		}),
	)
	return svc, closeAll, nil
}
