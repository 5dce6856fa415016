package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sangkips/stockledger-api/internal/domain/entity"
	domainRepo "github.com/sangkips/stockledger-api/internal/domain/repository"
	"gorm.io/gorm"
)

type idempotencyRepository struct {
	db *gorm.DB
}

// NewIdempotencyRepository creates a new idempotency repository backed by the database
func NewIdempotencyRepository(db *gorm.DB) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{db: db}
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, key, endpoint string) (*entity.IdempotencyKey, error) {
	var ikey entity.IdempotencyKey
	err := conn(ctx, r.db).
		Where("key = ? AND endpoint = ? AND expires_at > ?", key, endpoint, time.Now()).
		First(&ikey).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ikey, err
}

// Claim replaces an expired row for the same key so it can be reused.
// The unique index on (key, endpoint) decides between concurrent claims.
func (r *idempotencyRepository) Claim(ctx context.Context, ikey *entity.IdempotencyKey) (bool, error) {
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("key = ? AND endpoint = ? AND expires_at <= ?", ikey.Key, ikey.Endpoint, time.Now()).
			Delete(&entity.IdempotencyKey{}).Error; err != nil {
			return err
		}
		return tx.Create(ikey).Error
	})
	if IsDuplicateKey(err) {
		return false, nil
	}
	return err == nil, err
}

func (r *idempotencyRepository) Complete(ctx context.Context, ikey *entity.IdempotencyKey) error {
	result := conn(ctx, r.db).Model(&entity.IdempotencyKey{}).
		Where("key = ? AND endpoint = ?", ikey.Key, ikey.Endpoint).
		Updates(map[string]interface{}{
			"request_hash":  ikey.RequestHash,
			"response_code": ikey.ResponseCode,
			"response_body": ikey.ResponseBody,
			"expires_at":    ikey.ExpiresAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// the claim was purged while the request ran
		_, err := r.Claim(ctx, ikey)
		return err
	}
	return nil
}

func (r *idempotencyRepository) Release(ctx context.Context, key, endpoint string) error {
	return conn(ctx, r.db).
		Where("key = ? AND endpoint = ? AND response_code = 0", key, endpoint).
		Delete(&entity.IdempotencyKey{}).Error
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := conn(ctx, r.db).
		Where("expires_at < ?", time.Now()).
		Delete(&entity.IdempotencyKey{})
	return result.RowsAffected, result.Error
}

// KeyIdempotency is the Redis key for a cached response: idem:{endpoint}:{key}
const KeyIdempotency = "idem:%s:%s"

type redisIdempotencyRepository struct {
	rdb *redis.Client
}

// NewRedisIdempotencyRepository stores idempotency keys in Redis, expiring them with the key TTL
func NewRedisIdempotencyRepository(rdb *redis.Client) domainRepo.IdempotencyRepository {
	return &redisIdempotencyRepository{rdb: rdb}
}

func redisIdempotencyKey(key, endpoint string) string {
	return fmt.Sprintf(KeyIdempotency, endpoint, key)
}

func (r *redisIdempotencyRepository) GetByKey(ctx context.Context, key, endpoint string) (*entity.IdempotencyKey, error) {
	raw, err := r.rdb.Get(ctx, redisIdempotencyKey(key, endpoint)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var ikey entity.IdempotencyKey
	if err := json.Unmarshal(raw, &ikey); err != nil {
		return nil, err
	}
	return &ikey, nil
}

// Claim uses SET NX so only one request holds the key
func (r *redisIdempotencyRepository) Claim(ctx context.Context, ikey *entity.IdempotencyKey) (bool, error) {
	raw, ttl, err := encodeIdempotencyKey(ikey)
	if err != nil || ttl <= 0 {
		return false, err
	}
	return r.rdb.SetNX(ctx, redisIdempotencyKey(ikey.Key, ikey.Endpoint), raw, ttl).Result()
}

func (r *redisIdempotencyRepository) Complete(ctx context.Context, ikey *entity.IdempotencyKey) error {
	raw, ttl, err := encodeIdempotencyKey(ikey)
	if err != nil || ttl <= 0 {
		return err
	}
	return r.rdb.Set(ctx, redisIdempotencyKey(ikey.Key, ikey.Endpoint), raw, ttl).Err()
}

func (r *redisIdempotencyRepository) Release(ctx context.Context, key, endpoint string) error {
	return r.rdb.Del(ctx, redisIdempotencyKey(key, endpoint)).Err()
}

func encodeIdempotencyKey(ikey *entity.IdempotencyKey) ([]byte, time.Duration, error) {
	if ikey.CreatedAt.IsZero() {
		ikey.CreatedAt = time.Now()
	}
	raw, err := json.Marshal(ikey)
	return raw, time.Until(ikey.ExpiresAt), err
}

// DeleteExpired is a no-op: Redis expires keys on its own
func (r *redisIdempotencyRepository) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}
