package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"booking-core/internal/pkg/config"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ReservationCache stores reservation views as JSON under "<prefix>reservation:<id>".
//
// Invalidate leaves an empty fence entry rather than deleting the key, and Set
// only writes absent keys. A reader that loaded a view before a status change
// committed therefore cannot put it back while the fence lives.
type ReservationCache struct {
	client    redis.UniversalClient
	ttl       time.Duration
	fenceTTL  time.Duration
	keyPrefix string
}

const defaultFenceTTL = 5 * time.Second

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: 10,
	})
}

func NewReservationCache(client redis.UniversalClient, cfg config.RedisConfig) *ReservationCache {
	fenceTTL := cfg.FenceTTL
	if fenceTTL <= 0 {
		fenceTTL = defaultFenceTTL
	}
	return &ReservationCache{
		client:    client,
		ttl:       cfg.TTL,
		fenceTTL:  fenceTTL,
		keyPrefix: cfg.KeyPrefix,
	}
}

func (c *ReservationCache) Get(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	val, err := c.client.Get(ctx, c.reservationKey(id)).Bytes()
	if err != nil {
		if errs.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errs.Wrap(err, "failed to get reservation from cache")
	}
	if len(val) == 0 {
		return nil, nil
	}

	var view queries.ReservationView
	if err := json.Unmarshal(val, &view); err != nil {
		// drop the poisoned entry so the next read repopulates it
		if delErr := c.client.Del(ctx, c.reservationKey(id)).Err(); delErr != nil {
			slog.Warn("failed to drop undecodable cache entry", "reservation_id", id.String(), "error", delErr.Error())
		}
		return nil, errs.Wrap(err, "failed to unmarshal cached reservation")
	}

	slog.Debug("cache hit for reservation", "reservation_id", id.String())
	return &view, nil
}

func (c *ReservationCache) Set(ctx context.Context, view *queries.ReservationView) error {
	data, err := json.Marshal(view)
	if err != nil {
		return errs.Wrap(err, "failed to marshal reservation")
	}

	stored, err := c.client.SetNX(ctx, c.reservationKey(view.ID), data, c.ttl).Result()
	if err != nil {
		return errs.Wrap(err, "failed to set reservation in cache")
	}
	if !stored {
		slog.Debug("reservation cache entry already present or fenced", "reservation_id", view.ID.String())
	}
	return nil
}

func (c *ReservationCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Set(ctx, c.reservationKey(id), "", c.fenceTTL).Err(); err != nil {
		return errs.Wrap(err, "failed to fence reservation in cache")
	}
	return nil
}

func (c *ReservationCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *ReservationCache) reservationKey(id uuid.UUID) string {
	return c.keyPrefix + "reservation:" + id.String()
}
