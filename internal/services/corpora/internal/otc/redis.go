package otc

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/service"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "reset:"

// Redis keeps password reset codes until they are redeemed or expire.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func NewRedis(cfg RedisConfig) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &Redis{
		rdb: rdb,
		ttl: cfg.TTL,
	}
}

func (r *Redis) CreateCode(ctx context.Context, userID int64) (string, error) {
	for range 3 {
		code := generateCode()
		ok, err := r.rdb.SetNX(ctx, keyPrefix+code, strconv.FormatInt(userID, 10), r.ttl).Result()
		if err != nil {
			return "", fmt.Errorf("store code in redis: %w", err)
		}
		if ok {
			return code, nil
		}
	}

	return "", fmt.Errorf("failed to generate unique code")
}

// RedeemCode returns the user a code was issued for. A code can only be
// redeemed once.
func (r *Redis) RedeemCode(ctx context.Context, code string) (int64, error) {
	val, err := r.rdb.GetDel(ctx, keyPrefix+code).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, service.ErrCodeNotFound
		}

		return 0, fmt.Errorf("retrieve code from redis: %w", err)
	}

	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse user id: %w", err)
	}

	return id, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}

func generateCode() string {
	return base64.RawURLEncoding.EncodeToString([]byte(uuid.New().String()))
}
