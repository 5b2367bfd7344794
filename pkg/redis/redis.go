package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/config"
)

// Client Redis クライアントのラッパー
// 当日スナップショットのキャッシュに使用する。接続に失敗してもコンソールは
// キャッシュなしで動作するため、呼び出し側は nil を許容すること。
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient Redis へ接続し Ping でヘルスチェックする
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 接続に失敗: %w", err)
	}

	logger.Info("Redis 接続成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── 当日スナップショットキャッシュ ──

const snapshotPrefix = "today:snapshot:"

// SetTodaySnapshot 営業日の店舗スナップショット JSON をキャッシュする
func (c *Client) SetTodaySnapshot(ctx context.Context, date string, payload []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, snapshotPrefix+date, payload, ttl).Err()
}

// GetTodaySnapshot キャッシュ済みスナップショットを取得する（未登録なら nil）
func (c *Client) GetTodaySnapshot(ctx context.Context, date string) ([]byte, error) {
	b, err := c.rdb.Get(ctx, snapshotPrefix+date).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Close Redis 接続を閉じる
func (c *Client) Close() error {
	return c.rdb.Close()
}
