package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/garyburd/redigo/redis"

	"tomato-health/internal/domain/port"
)

const revokedKeyPrefix = "revoked:"

// RedisTokenDenylist хранит отозванные токены в Redis с TTL до истечения токена
type RedisTokenDenylist struct {
	pool *redis.Pool
	now  func() time.Time
}

// NewRedisPool создаёт пул соединений к Redis
func NewRedisPool(address, password string, maxConnections int) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     maxConnections,
		MaxActive:   maxConnections,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			c, err := redis.Dial("tcp", address)
			if err != nil {
				return nil, err
			}
			if password != "" {
				if _, err := c.Do("AUTH", password); err != nil {
					c.Close()
					return nil, err
				}
			}
			return c, nil
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
}

func NewRedisTokenDenylist(pool *redis.Pool) *RedisTokenDenylist {
	return &RedisTokenDenylist{pool: pool, now: time.Now}
}

// Ping проверяет доступность Redis
func (d *RedisTokenDenylist) Ping(ctx context.Context) error {
	conn := d.pool.Get()
	defer conn.Close()

	if _, err := conn.Do("PING"); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (d *RedisTokenDenylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := int(until.Sub(d.now()).Seconds()) + 1
	if ttl <= 0 {
		return nil
	}

	conn := d.pool.Get()
	defer conn.Close()

	if _, err := conn.Do("SETEX", revokedKeyPrefix+tokenID, ttl, 1); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (d *RedisTokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	conn := d.pool.Get()
	defer conn.Close()

	ok, err := redis.Bool(conn.Do("EXISTS", revokedKeyPrefix+tokenID))
	if err != nil {
		return false, fmt.Errorf("check token: %w", err)
	}
	return ok, nil
}

// Проверка реализации интерфейса
var _ port.TokenDenylist = (*RedisTokenDenylist)(nil)
