package application

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"bcexplorer/internal/domain"
)

type mockStore struct {
	blocks       map[uint64]domain.BlockWithTransactions
	transactions map[string]domain.Transaction
	receipts     map[string]domain.TransactionReceipt
	accounts     map[string]domain.AddressDetails
	lastTxFilter TransactionQueryFilter
	lastTTFilter TokenTransferFilter
}

func newMockStore() *mockStore {
	return &mockStore{
		blocks:       make(map[uint64]domain.BlockWithTransactions),
		transactions: make(map[string]domain.Transaction),
		receipts:     make(map[string]domain.TransactionReceipt),
		accounts:     make(map[string]domain.AddressDetails),
	}
}

func (m *mockStore) Block(ctx context.Context, number uint64) (domain.Block, error) {
	block, ok := m.blocks[number]
	if !ok {
		return domain.Block{}, ErrNotFound
	}
	return block.Block, nil
}
func (m *mockStore) BlockWithTransactions(ctx context.Context, number uint64) (domain.BlockWithTransactions, error) {
	block, ok := m.blocks[number]
	if !ok {
		return domain.BlockWithTransactions{}, ErrNotFound
	}
	return block, nil
}
func (m *mockStore) Transaction(ctx context.Context, hash string) (domain.Transaction, error) {
	tx, ok := m.transactions[hash]
	if !ok {
		return domain.Transaction{}, ErrNotFound
	}
	return tx, nil
}
func (m *mockStore) TransactionReceipt(ctx context.Context, hash string) (domain.TransactionReceipt, error) {
	receipt, ok := m.receipts[hash]
	if !ok {
		return domain.TransactionReceipt{}, ErrNotFound
	}
	return receipt, nil
}
func (m *mockStore) TransactionsByAddress(ctx context.Context, filter TransactionQueryFilter) ([]domain.Transaction, error) {
	m.lastTxFilter = filter
	return nil, nil
}
func (m *mockStore) AddressDetails(ctx context.Context, address string) (domain.AddressDetails, error) {
	details, ok := m.accounts[address]
	if !ok {
		return domain.AddressDetails{}, ErrNotFound
	}
	return details, nil
}
func (m *mockStore) TokenTransfers(ctx context.Context, filter TokenTransferFilter) ([]domain.TokenTransfer, error) {
	m.lastTTFilter = filter
	return nil, nil
}
func (m *mockStore) L1L2Transactions(ctx context.Context, filter L1L2QueryFilter) ([]domain.L1L2Transaction, error) {
	return nil, nil
}
func (m *mockStore) Ping(ctx context.Context) error { return nil }

func TestExplorer_TransactionWithReceipt(t *testing.T) {
	store := newMockStore()
	store.transactions["0xabc"] = domain.Transaction{Hash: "0xabc", Value: big.NewInt(1)}
	store.receipts["0xabc"] = domain.TransactionReceipt{TransactionHash: "0xabc", Status: domain.ReceiptStatusSuccess}

	explorer, err := NewExplorer(store)
	if err != nil {
		t.Fatalf("new explorer: %v", err)
	}
	result, err := explorer.TransactionWithReceipt(context.Background(), " 0xABC ")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if result.Hash != "0xabc" || result.Receipt.TransactionHash != "0xabc" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestExplorer_TransactionWithoutReceipt(t *testing.T) {
	store := newMockStore()
	store.transactions["0xabc"] = domain.Transaction{Hash: "0xabc"}
	explorer, _ := NewExplorer(store)

	_, err := explorer.TransactionWithReceipt(context.Background(), "0xabc")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestExplorer_BlockWithAndWithoutTransactions(t *testing.T) {
	store := newMockStore()
	store.blocks[7] = domain.BlockWithTransactions{
		Block:        domain.Block{Number: big.NewInt(7), Hash: "0xb7", Timestamp: big.NewInt(1)},
		Transactions: []domain.Transaction{{Hash: "0x1"}, {Hash: "0x2"}},
	}
	explorer, _ := NewExplorer(store)

	header, err := explorer.Block(context.Background(), 7, false)
	if err != nil {
		t.Fatalf("block failed: %v", err)
	}
	if header.Transactions != nil {
		t.Errorf("expected header only, got %d transactions", len(header.Transactions))
	}
	full, err := explorer.Block(context.Background(), 7, true)
	if err != nil {
		t.Fatalf("block failed: %v", err)
	}
	if len(full.Transactions) != 2 {
		t.Errorf("expected 2 transactions, got %d", len(full.Transactions))
	}
	if _, err := explorer.Block(context.Background(), 8, true); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestExplorer_AddressTransactionsNormalizesFilter(t *testing.T) {
	store := newMockStore()
	explorer, _ := NewExplorer(store)

	if _, err := explorer.AddressTransactions(context.Background(), TransactionQueryFilter{Address: "0xABCD", Limit: 5000}); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if store.lastTxFilter.Address != "0xabcd" {
		t.Errorf("expected lowercased address, got %s", store.lastTxFilter.Address)
	}
	if store.lastTxFilter.Limit != defaultQueryLimit {
		t.Errorf("expected default limit, got %d", store.lastTxFilter.Limit)
	}

	from, to := uint64(10), uint64(5)
	if _, err := explorer.AddressTransactions(context.Background(), TransactionQueryFilter{Address: "0x1", FromBlock: &from, ToBlock: &to}); !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("expected inverted range to fail, got %v", err)
	}
	if _, err := explorer.AddressTransactions(context.Background(), TransactionQueryFilter{}); !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("expected missing address to fail, got %v", err)
	}
}

func TestExplorer_TokenTransfersNormalizesFilter(t *testing.T) {
	store := newMockStore()
	explorer, _ := NewExplorer(store)

	if _, err := explorer.TokenTransfers(context.Background(), TokenTransferFilter{Address: "0xAA", TokenAddress: "0xBB", Limit: 10}); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if store.lastTTFilter.Address != "0xaa" || store.lastTTFilter.TokenAddress != "0xbb" || store.lastTTFilter.Limit != 10 {
		t.Fatalf("unexpected filter: %+v", store.lastTTFilter)
	}
}

func TestNormalizeLimit(t *testing.T) {
	cases := map[int]int{0: 100, -1: 100, 1: 1, 1000: 1000, 1001: 100}
	for in, want := range cases {
		if got := NormalizeLimit(in); got != want {
			t.Errorf("NormalizeLimit(%d) = %d, want %d", in, got, want)
		}
	}
}
