package cache

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"reflect"
	"testing"
	"time"

	"bcexplorer/internal/application"
	"bcexplorer/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type countingStore struct {
	application.Store
	blockCalls     int
	fullBlockCalls int
	txCalls        int
	transactions   []domain.Transaction
}

func (s *countingStore) Block(ctx context.Context, number uint64) (domain.Block, error) {
	s.blockCalls++
	if number == 0 {
		return domain.Block{}, application.ErrNotFound
	}
	return domain.Block{Number: new(big.Int).SetUint64(number), Hash: "0xb", Timestamp: big.NewInt(1)}, nil
}

func (s *countingStore) BlockWithTransactions(ctx context.Context, number uint64) (domain.BlockWithTransactions, error) {
	s.fullBlockCalls++
	return domain.BlockWithTransactions{
		Block:        domain.Block{Number: new(big.Int).SetUint64(number), Hash: "0xb", Timestamp: big.NewInt(1)},
		Transactions: s.transactions,
	}, nil
}

func (s *countingStore) Transaction(ctx context.Context, hash string) (domain.Transaction, error) {
	s.txCalls++
	return domain.Transaction{Hash: domain.Hash(hash), Value: big.NewInt(10)}, nil
}

func TestNewCachedStoreWithoutAddrPassesThrough(t *testing.T) {
	base := &countingStore{}
	store, err := NewCachedStore(base, Config{})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := store.Block(context.Background(), 5); err != nil {
			t.Fatalf("block: %v", err)
		}
	}
	if base.blockCalls != 2 {
		t.Fatalf("expected every call to hit the base store, got %d", base.blockCalls)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNewCachedStoreRequiresBase(t *testing.T) {
	if _, err := NewCachedStore(nil, Config{}); err == nil {
		t.Fatalf("expected error for nil base")
	}
}

func TestCachedStoreDegradesWhenRedisUnavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	base := &countingStore{}
	store := newWithClient(base, client, time.Minute)

	tx, err := store.Transaction(context.Background(), "0xabc")
	if err != nil {
		t.Fatalf("expected lookup to succeed without redis: %v", err)
	}
	if tx.Hash != "0xabc" || base.txCalls != 1 {
		t.Fatalf("unexpected result %+v after %d calls", tx, base.txCalls)
	}

	if _, err := store.Block(context.Background(), 0); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("expected base error to propagate, got %v", err)
	}
}

func TestCacheKeys(t *testing.T) {
	if got := blockKey(42, false); got != "bcexplorer:block:42" {
		t.Errorf("unexpected block key %s", got)
	}
	if got := blockKey(42, true); got != "bcexplorer:block:42:txs" {
		t.Errorf("unexpected block key %s", got)
	}
	if got := txKey("tx", " 0xABC "); got != "bcexplorer:tx:0xabc" {
		t.Errorf("unexpected tx key %s", got)
	}
}

func TestCachedPayloadRoundTrip(t *testing.T) {
	to := domain.Address("0x2")
	original := domain.BlockWithTransactions{
		Block: domain.Block{Number: big.NewInt(100), Hash: "0xb", Timestamp: big.NewInt(1700000000)},
		Transactions: []domain.Transaction{
			{Hash: "0x1", BlockNumber: big.NewInt(100), From: "0x1", To: &to, Value: big.NewInt(1000), Timestamp: big.NewInt(1700000000)},
			{Hash: "0x2", BlockNumber: big.NewInt(100), From: "0x1", Value: big.NewInt(7), Timestamp: big.NewInt(1700000000)},
		},
	}
	payload, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded domain.BlockWithTransactions
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(original, decoded) {
		t.Fatalf("round-trip mismatch: %+v != %+v", original, decoded)
	}
}

func newMiniredisStore(t *testing.T, base application.Store) (*CachedStore, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return newWithClient(base, client, time.Minute), server
}

func TestCachedStoreServesRepeatLookupsFromRedis(t *testing.T) {
	base := &countingStore{}
	store, server := newMiniredisStore(t, base)

	first, err := store.Block(context.Background(), 42)
	if err != nil {
		t.Fatalf("first lookup: %v", err)
	}
	if !server.Exists(blockKey(42, false)) {
		t.Fatalf("expected a miss to fill %s", blockKey(42, false))
	}
	if ttl := server.TTL(blockKey(42, false)); ttl != time.Minute {
		t.Fatalf("expected ttl of one minute, got %s", ttl)
	}

	second, err := store.Block(context.Background(), 42)
	if err != nil {
		t.Fatalf("second lookup: %v", err)
	}
	if base.blockCalls != 1 {
		t.Fatalf("expected one base call, got %d", base.blockCalls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("cached value differs: %+v != %+v", first, second)
	}
}

func TestCachedStoreDoesNotCacheMisses(t *testing.T) {
	base := &countingStore{}
	store, server := newMiniredisStore(t, base)

	for i := 0; i < 2; i++ {
		if _, err := store.Block(context.Background(), 0); !errors.Is(err, application.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	}
	if base.blockCalls != 2 {
		t.Fatalf("expected every miss to reach the base store, got %d", base.blockCalls)
	}
	if keys := server.Keys(); len(keys) != 0 {
		t.Fatalf("expected nothing cached, got %v", keys)
	}
}

func TestCachedStoreReloadsUndecodableEntry(t *testing.T) {
	base := &countingStore{}
	store, server := newMiniredisStore(t, base)

	key := txKey("tx", "0xabc")
	if err := server.Set(key, "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	tx, err := store.Transaction(context.Background(), "0xabc")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if tx.Hash != "0xabc" || base.txCalls != 1 {
		t.Fatalf("expected reload from base, got %+v after %d calls", tx, base.txCalls)
	}
	payload, err := server.Get(key)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var decoded domain.Transaction
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		t.Fatalf("expected entry to be rewritten, got %q", payload)
	}

	if _, err := store.Transaction(context.Background(), "0xabc"); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if base.txCalls != 1 {
		t.Fatalf("expected rewritten entry to be served, got %d base calls", base.txCalls)
	}
}

func TestCachedStoreSkipsBlocksWithoutTransactions(t *testing.T) {
	base := &countingStore{}
	store, server := newMiniredisStore(t, base)
	key := blockKey(7, true)

	for i := 0; i < 2; i++ {
		block, err := store.BlockWithTransactions(context.Background(), 7)
		if err != nil {
			t.Fatalf("lookup: %v", err)
		}
		if len(block.Transactions) != 0 {
			t.Fatalf("expected no transactions, got %d", len(block.Transactions))
		}
	}
	if base.fullBlockCalls != 2 || server.Exists(key) {
		t.Fatalf("empty block must not be cached: calls=%d cached=%v", base.fullBlockCalls, server.Exists(key))
	}

	base.transactions = []domain.Transaction{{Hash: "0x1", Value: big.NewInt(1)}}
	for i := 0; i < 2; i++ {
		block, err := store.BlockWithTransactions(context.Background(), 7)
		if err != nil {
			t.Fatalf("lookup: %v", err)
		}
		if len(block.Transactions) != 1 {
			t.Fatalf("expected one transaction, got %d", len(block.Transactions))
		}
	}
	if base.fullBlockCalls != 3 || !server.Exists(key) {
		t.Fatalf("populated block should be cached after one load: calls=%d cached=%v", base.fullBlockCalls, server.Exists(key))
	}
}
