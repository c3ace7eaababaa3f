// Package app wires the configured adapters, pool and services together.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shipment-tracker/internal/core/browser"
	"shipment-tracker/internal/core/cache"
	"shipment-tracker/internal/core/config"
	"shipment-tracker/internal/core/httpclient"
	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/core/proxy"
	"shipment-tracker/internal/core/workerpool"
	adapter "shipment-tracker/internal/features/shipments/adapters"
	"shipment-tracker/internal/features/shipments/ports"
	"shipment-tracker/internal/features/shipments/service"

	"go.uber.org/zap"
)

const cachePrefix = "shipment-tracker:"

// App holds the process-wide services.
type App struct {
	Shipments *service.ShipmentService
	Lookups   *service.LookupService
	Pool      *workerpool.Pool[*adapter.CustomsTab]

	tabs  *adapter.CustomsTabFactory
	cache cache.Cache
}

// Build constructs every service from cfg. Browsers are launched on first use.
func Build(cfg *config.AppConfig) (*App, error) {
	l := logger.Get()

	opts := browser.Options{
		Headless: cfg.Browser.Headless,
		Bin:      cfg.Browser.Bin,
		Proxy: proxy.Settings{
			Enabled:  cfg.Proxy.Enabled,
			Hostname: cfg.Proxy.Hostname,
			Port:     cfg.Proxy.Port,
			Username: cfg.Proxy.Username,
			Password: cfg.Proxy.Password,
		},
	}

	client, err := httpclient.NewClient(cfg.Lookup.Timeout, httpclient.WithProxy(opts.Proxy.FullURL()))
	if err != nil {
		return nil, fmt.Errorf("failed to create customs HTTP client: %w", err)
	}

	tabs := adapter.NewCustomsTabFactory(opts)
	pool, err := workerpool.New[*adapter.CustomsTab](workerpool.Config{
		MaxConcurrency: cfg.Lookup.MaxConcurrency,
		Timeout:        cfg.Lookup.Timeout,
		Retries:        cfg.Lookup.Retries,
		RetryDelay:     cfg.Lookup.RetryDelay,
	}, tabs)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup pool: %w", err)
	}

	a := &App{Pool: pool, tabs: tabs}

	var lookup ports.StatusLookup = adapter.NewPooledLookup(pool, adapter.NewCustomsAdapter(cfg.Customs, client))

	if cfg.Cache.RedisURL != "" {
		c, err := connectCache(cfg.Cache.RedisURL)
		if err != nil {
			l.Warn("Lookup cache disabled", zap.Error(err))
		} else {
			a.cache = c
			lookup = adapter.NewCachedLookup(lookup, c, cfg.Cache.LookupTTL)
			l.Info("Lookup cache enabled", zap.Duration("ttl", cfg.Cache.LookupTTL))
		}
	}

	sessions := adapter.NewPortalSessionAdapter(cfg.Portal, opts)
	a.Shipments = service.NewShipmentService(sessions, lookup)
	a.Lookups = service.NewLookupService(lookup)

	l.Info("Services ready",
		zap.Int("lookup_concurrency", cfg.Lookup.MaxConcurrency),
		zap.Duration("lookup_timeout", cfg.Lookup.Timeout),
		zap.Int("lookup_retries", cfg.Lookup.Retries),
		zap.Bool("proxy_enabled", opts.Proxy.HasProxy()),
	)
	return a, nil
}

func connectCache(redisURL string) (cache.Cache, error) {
	c, err := cache.NewRedisAdapter(redisURL, cachePrefix)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// Close drains the lookup pool, then stops the customs browser and the cache.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if err := a.Pool.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := a.tabs.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close customs browser: %w", err))
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cache: %w", err))
		}
	}
	return errors.Join(errs...)
}
