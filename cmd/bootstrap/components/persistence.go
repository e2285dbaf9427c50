package components

import (
	"context"
	"fmt"

	"promo-engine/internal/infra/promostore"
	"promo-engine/internal/infra/usagestore"
	"promo-engine/internal/pkg/config"
	"promo-engine/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		fx.Annotate(
			promostore.NewPostgresStore,
			fx.As(new(shared.PromotionStore)),
		),
		NewUsageStore,
	),
)

// NewUsageStore picks the counter backend from config. The redis client is
// only dialed when the redis driver is selected.
func NewUsageStore(lc fx.Lifecycle, cfg config.Config, pool *pgxpool.Pool) (shared.UsageStore, error) {
	switch cfg.Usage.Driver {
	case "postgres", "":
		return usagestore.NewPostgresStore(pool, cfg.Usage.MaxRetries, cfg.Usage.RetryInterval), nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			},
			OnStop: func(_ context.Context) error {
				return client.Close()
			},
		})
		return usagestore.NewRedisStore(client), nil

	default:
		return nil, fmt.Errorf("unknown usage driver: %q", cfg.Usage.Driver)
	}
}
