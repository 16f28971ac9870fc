package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/byteristo/pkg/config"
	"github.com/example/byteristo/pkg/models"
	"github.com/go-redis/redis/v8"
)

const menuCacheTTL = 5 * time.Minute

type RedisRepository struct {
	client *redis.Client
	config *config.RedisConfig
}

func NewRedisRepository(cfg *config.RedisConfig) *RedisRepository {
	return &RedisRepository{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
		config: cfg,
	}
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisRepository) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, expiration).Err()
}

func (r *RedisRepository) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

// Cache for the available-menu listing

func (r *RedisRepository) CacheAvailableMenu(ctx context.Context, items []models.MenuItem) error {
	return r.SetJSON(ctx, "menu:available", items, menuCacheTTL)
}

func (r *RedisRepository) GetAvailableMenuCache(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.GetJSON(ctx, "menu:available", &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *RedisRepository) CacheMenuItem(ctx context.Context, item *models.MenuItem) error {
	return r.SetJSON(ctx, fmt.Sprintf("menu:item:%s", item.ID), item, menuCacheTTL)
}

func (r *RedisRepository) GetMenuItemCache(ctx context.Context, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.GetJSON(ctx, fmt.Sprintf("menu:item:%s", id), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// InvalidateMenu drops the listing cache and, when an id is given, the
// single-item cache. Called after every menu write.
func (r *RedisRepository) InvalidateMenu(ctx context.Context, ids ...string) error {
	keys := []string{"menu:available"}
	for _, id := range ids {
		keys = append(keys, fmt.Sprintf("menu:item:%s", id))
	}
	return r.client.Del(ctx, keys...).Err()
}
