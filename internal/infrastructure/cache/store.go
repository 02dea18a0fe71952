package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"bcexplorer/internal/application"
	"bcexplorer/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix       = "bcexplorer:"
	defaultCacheTTL = time.Hour
)

type Config struct {
	Addr string
	TTL  time.Duration
}

// CachedStore wraps a Store and caches lookups by block number and
// transaction hash in Redis. List queries always go to the base store.
// A nil client turns every call into a pass-through.
type CachedStore struct {
	application.Store
	cache *redis.Client
	ttl   time.Duration
}

func NewCachedStore(base application.Store, cfg Config) (*CachedStore, error) {
	if base == nil {
		return nil, errors.New("base store is required")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return &CachedStore{Store: base}, nil
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaultCacheTTL
	}
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &CachedStore{Store: base, cache: client, ttl: cfg.TTL}, nil
}

func newWithClient(base application.Store, client *redis.Client, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedStore{Store: base, cache: client, ttl: ttl}
}

func (s *CachedStore) Close() error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Close()
}

func (s *CachedStore) Block(ctx context.Context, number uint64) (domain.Block, error) {
	return cached(ctx, s, blockKey(number, false), func() (domain.Block, error) {
		return s.Store.Block(ctx, number)
	}, nil)
}

// BlockWithTransactions is only cached once the block has transactions; an
// empty list may be a block whose transaction rows are not written yet.
func (s *CachedStore) BlockWithTransactions(ctx context.Context, number uint64) (domain.BlockWithTransactions, error) {
	return cached(ctx, s, blockKey(number, true), func() (domain.BlockWithTransactions, error) {
		return s.Store.BlockWithTransactions(ctx, number)
	}, func(block domain.BlockWithTransactions) bool {
		return len(block.Transactions) > 0
	})
}

func (s *CachedStore) Transaction(ctx context.Context, hash string) (domain.Transaction, error) {
	return cached(ctx, s, txKey("tx", hash), func() (domain.Transaction, error) {
		return s.Store.Transaction(ctx, hash)
	}, nil)
}

func (s *CachedStore) TransactionReceipt(ctx context.Context, hash string) (domain.TransactionReceipt, error) {
	return cached(ctx, s, txKey("receipt", hash), func() (domain.TransactionReceipt, error) {
		return s.Store.TransactionReceipt(ctx, hash)
	}, nil)
}

// cached serves key from Redis when possible and fills it from load on a
// miss. Values rejected by keep are returned but not stored. Cache failures
// are logged and never fail the lookup.
func cached[T any](ctx context.Context, s *CachedStore, key string, load func() (T, error), keep func(T) bool) (T, error) {
	if s.cache == nil {
		return load()
	}
	if payload, err := s.cache.Get(ctx, key).Bytes(); err == nil {
		var value T
		if err := json.Unmarshal(payload, &value); err == nil {
			return value, nil
		}
		slog.Warn("cache entry undecodable", "key", key)
	} else if !errors.Is(err, redis.Nil) {
		slog.Debug("cache read failed", "key", key, "err", err)
	}

	value, err := load()
	if err != nil {
		return value, err
	}
	if keep != nil && !keep(value) {
		return value, nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return value, nil
	}
	if err := s.cache.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		slog.Debug("cache write failed", "key", key, "err", err)
	}
	return value, nil
}

func blockKey(number uint64, withTransactions bool) string {
	var b strings.Builder
	b.Grow(48)
	b.WriteString(keyPrefix)
	b.WriteString("block:")
	b.WriteString(strconv.FormatUint(number, 10))
	if withTransactions {
		b.WriteString(":txs")
	}
	return b.String()
}

func txKey(kind, hash string) string {
	return keyPrefix + kind + ":" + strings.ToLower(strings.TrimSpace(hash))
}
