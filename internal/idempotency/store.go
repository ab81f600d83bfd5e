package idempotency

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nimasrn/ledger/pkg/redis"
)

const (
	responseKeyPrefix = "idempotency:response:"
	lockKeyPrefix     = "idempotency:lock:"
)

// CachedResponse is what a replay writes back.
type CachedResponse struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
	// RequestHash fingerprints the request body the response belongs to.
	RequestHash string `json:"request_hash"`
}

type Config struct {
	TTL     time.Duration
	LockTTL time.Duration
}

func DefaultConfig() Config {
	return Config{
		TTL:     24 * time.Hour,
		LockTTL: 30 * time.Second,
	}
}

// Store keeps finished responses and in-flight locks in redis.
type Store struct {
	redis  redis.RedisAdapter
	config Config
}

func NewStore(redisAdapter redis.RedisAdapter, config Config) *Store {
	return &Store{
		redis:  redisAdapter,
		config: config,
	}
}

// Get returns nil, nil when key has no stored response.
func (s *Store) Get(key string) (*CachedResponse, error) {
	b, err := s.redis.Get(responseKeyPrefix + key)
	if errors.Is(err, redis.NilError) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get idempotency key: %w", err)
	}

	var resp CachedResponse
	if err := json.Unmarshal(b, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal cached response: %w", err)
	}
	return &resp, nil
}

func (s *Store) Save(key string, resp CachedResponse) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal cached response: %w", err)
	}
	return s.redis.Set(responseKeyPrefix+key, b, s.config.TTL)
}

// Lock claims key for one in-flight request. It reports false when another
// request holds it.
func (s *Store) Lock(key string) (bool, error) {
	value := []byte(strconv.FormatInt(time.Now().UnixNano(), 10))
	return s.redis.SetNX(lockKeyPrefix+key, value, s.config.LockTTL)
}

func (s *Store) Unlock(key string) error {
	return s.redis.Del(lockKeyPrefix + key)
}
