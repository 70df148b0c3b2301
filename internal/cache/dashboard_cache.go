package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net"
	"time"

	"github.com/farmio-app/farmio/internal/config"
	"github.com/farmio-app/farmio/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	dashboardKey = "farmio:dashboard"
	defaultTTL   = time.Minute
)

// DashboardCache holds the assembled dashboard payload between mutations.
// Every mutating service call invalidates it.
type DashboardCache interface {
	Get(ctx context.Context) (*domain.Dashboard, bool, error)
	Set(ctx context.Context, dashboard *domain.Dashboard) error
	Invalidate(ctx context.Context) error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

func NewDashboardCache(cfg config.CacheConfig) (DashboardCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.DashboardTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &redisDashboardCache{client: client, ttl: ttl}, nil
}

// redisOptions builds client options from either a full URL or discrete
// host/port settings, whichever the environment provides.
func redisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := cfg.RedisHost
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.RedisPort
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

func NewNoopDashboardCache() DashboardCache {
	return &noopDashboardCache{}
}

func (c *redisDashboardCache) Get(ctx context.Context) (*domain.Dashboard, bool, error) {
	payload, err := c.client.Get(ctx, dashboardKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var dashboard cachedDashboard
	if err := json.Unmarshal(payload, &dashboard); err != nil {
		return nil, false, fmt.Errorf("decode dashboard cache: %w", err)
	}

	return dashboard.toDomain(), true, nil
}

func (c *redisDashboardCache) Set(ctx context.Context, dashboard *domain.Dashboard) error {
	payload, err := json.Marshal(fromDomain(dashboard))
	if err != nil {
		return fmt.Errorf("encode dashboard cache: %w", err)
	}

	if err := c.client.Set(ctx, dashboardKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisDashboardCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, dashboardKey).Err()
}

func (n *noopDashboardCache) Get(ctx context.Context) (*domain.Dashboard, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) Set(ctx context.Context, dashboard *domain.Dashboard) error {
	return nil
}

func (n *noopDashboardCache) Invalidate(ctx context.Context) error {
	return nil
}

// cachedDashboard flattens infinities out of the payload: +Inf days-remaining
// does not survive a JSON round trip, so it is stored as a null pointer.
type cachedDashboard struct {
	Medications []cachedProjection `json:"medications"`
	OpenOrders  []domain.Order     `json:"open_orders"`
}

type cachedProjection struct {
	domain.Medication
	DaysRemaining *float64 `json:"days_remaining"`
}

func fromDomain(dashboard *domain.Dashboard) cachedDashboard {
	cached := cachedDashboard{
		Medications: make([]cachedProjection, 0, len(dashboard.Medications)),
		OpenOrders:  dashboard.OpenOrders,
	}
	for _, p := range dashboard.Medications {
		entry := cachedProjection{Medication: p.Medication}
		if !math.IsInf(p.DaysRemaining, 1) {
			d := p.DaysRemaining
			entry.DaysRemaining = &d
		}
		cached.Medications = append(cached.Medications, entry)
	}
	return cached
}

func (c cachedDashboard) toDomain() *domain.Dashboard {
	dashboard := &domain.Dashboard{
		Medications: make([]domain.Projection, 0, len(c.Medications)),
		OpenOrders:  c.OpenOrders,
	}
	for _, p := range c.Medications {
		days := math.Inf(1)
		if p.DaysRemaining != nil {
			days = *p.DaysRemaining
		}
		dashboard.Medications = append(dashboard.Medications, domain.Projection{
			Medication:    p.Medication,
			DaysRemaining: days,
		})
	}
	return dashboard
}
