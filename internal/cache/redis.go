package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/redis/go-redis/v9"
)

// RedisCache stores rendered responses in redis. Values are zstd compressed,
// since HTML pages and base64 images compress well.
type RedisCache struct {
	client  *redis.Client
	ttl     time.Duration
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func NewRedisCache(addr, password string, db int, ttl time.Duration) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &RedisCache{
		client:  rdb,
		ttl:     ttl,
		encoder: enc,
		decoder: dec,
	}, nil
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	raw, err := r.decoder.DecodeAll(val, nil)
	if err != nil {
		return "", false, fmt.Errorf("decompress %s: %w", key, err)
	}
	return string(raw), true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value string) error {
	packed := r.encoder.EncodeAll([]byte(value), nil)
	return r.client.Set(ctx, key, packed, r.ttl).Err()
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	r.decoder.Close()
	if err := r.encoder.Close(); err != nil {
		return err
	}
	return r.client.Close()
}
