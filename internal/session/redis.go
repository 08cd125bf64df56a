package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// DefaultKeyPrefix is the prefix for all session keys.
const DefaultKeyPrefix = "hotelsim:session:"

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	Addr       string
	Password   string
	DB         int
	MaxRetries uint64
}

// ConnectRedis opens a client and pings it with exponential backoff.
func ConnectRedis(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), opts.MaxRetries), ctx)
	err := backoff.Retry(func() error {
		if err := client.Ping(ctx).Err(); err != nil {
			logrus.Warnf("redis connection to %s failed: %v, retrying...", opts.Addr, err)
			return err
		}
		return nil
	}, b)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis at %s: %w", opts.Addr, err)
	}

	logrus.Infof("connected to redis at %s", opts.Addr)
	return client, nil
}

// RedisStore keeps each session as a JSON blob under KeyPrefix+team.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisStore wraps client. An empty prefix uses DefaultKeyPrefix; ttl 0 never expires.
func NewRedisStore(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisStore{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

func (r *RedisStore) key(team string) string {
	return r.keyPrefix + slug(team)
}

// Load fetches the team's session. Returns ErrNotFound if the key doesn't exist.
func (r *RedisStore) Load(ctx context.Context, team string) (*Game, error) {
	data, err := r.client.Get(ctx, r.key(team)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	var g Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &g, nil
}

// Save stores the session, refreshing its TTL.
func (r *RedisStore) Save(ctx context.Context, g *Game) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, r.key(g.Team), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	logrus.Debugf("saved session for %s (ttl %v)", g.Team, r.ttl)
	return nil
}

// Delete removes the team's session.
func (r *RedisStore) Delete(ctx context.Context, team string) error {
	if err := r.client.Del(ctx, r.key(team)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
