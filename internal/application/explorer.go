package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"bcexplorer/internal/domain"
)

// Explorer serves the read operations the API exposes on top of a Store.
type Explorer struct {
	store Store
}

func NewExplorer(store Store) (*Explorer, error) {
	if store == nil {
		return nil, errors.New("explorer store is required")
	}
	return &Explorer{store: store}, nil
}

func (e *Explorer) Block(ctx context.Context, number uint64, withTransactions bool) (domain.BlockWithTransactions, error) {
	if !withTransactions {
		block, err := e.store.Block(ctx, number)
		if err != nil {
			return domain.BlockWithTransactions{}, fmt.Errorf("block %d: %w", number, err)
		}
		return domain.BlockWithTransactions{Block: block}, nil
	}
	block, err := e.store.BlockWithTransactions(ctx, number)
	if err != nil {
		return domain.BlockWithTransactions{}, fmt.Errorf("block %d: %w", number, err)
	}
	return block, nil
}

// TransactionWithReceipt loads a transaction and attaches its receipt.
func (e *Explorer) TransactionWithReceipt(ctx context.Context, hash string) (domain.TransactionWithReceipt, error) {
	hash = strings.ToLower(strings.TrimSpace(hash))
	tx, err := e.store.Transaction(ctx, hash)
	if err != nil {
		return domain.TransactionWithReceipt{}, fmt.Errorf("transaction %s: %w", hash, err)
	}
	receipt, err := e.store.TransactionReceipt(ctx, hash)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			slog.Warn("transaction without receipt", "hash", hash)
		}
		return domain.TransactionWithReceipt{}, fmt.Errorf("receipt %s: %w", hash, err)
	}
	return domain.TransactionWithReceipt{Transaction: tx, Receipt: receipt}, nil
}

func (e *Explorer) Address(ctx context.Context, address string) (domain.AddressDetails, error) {
	address = strings.ToLower(strings.TrimSpace(address))
	details, err := e.store.AddressDetails(ctx, address)
	if err != nil {
		return domain.AddressDetails{}, fmt.Errorf("address %s: %w", address, err)
	}
	return details, nil
}

func (e *Explorer) AddressTransactions(ctx context.Context, filter TransactionQueryFilter) ([]domain.Transaction, error) {
	filter.Address = strings.ToLower(strings.TrimSpace(filter.Address))
	if filter.Address == "" {
		return nil, fmt.Errorf("%w: address is required", ErrInvalidFilter)
	}
	if filter.FromBlock != nil && filter.ToBlock != nil && *filter.FromBlock > *filter.ToBlock {
		return nil, fmt.Errorf("%w: from_block must not exceed to_block", ErrInvalidFilter)
	}
	filter.Limit = NormalizeLimit(filter.Limit)
	return e.store.TransactionsByAddress(ctx, filter)
}

func (e *Explorer) TokenTransfers(ctx context.Context, filter TokenTransferFilter) ([]domain.TokenTransfer, error) {
	filter.Address = strings.ToLower(strings.TrimSpace(filter.Address))
	filter.TokenAddress = strings.ToLower(strings.TrimSpace(filter.TokenAddress))
	if filter.Address == "" {
		return nil, fmt.Errorf("%w: address is required", ErrInvalidFilter)
	}
	filter.Limit = NormalizeLimit(filter.Limit)
	return e.store.TokenTransfers(ctx, filter)
}

// L1L2Transactions returns the bridge records whose L1 or L2 hash matches.
func (e *Explorer) L1L2Transactions(ctx context.Context, filter L1L2QueryFilter) ([]domain.L1L2Transaction, error) {
	filter.Hash = strings.ToLower(strings.TrimSpace(filter.Hash))
	filter.Limit = NormalizeLimit(filter.Limit)
	return e.store.L1L2Transactions(ctx, filter)
}

func (e *Explorer) Ping(ctx context.Context) error {
	return e.store.Ping(ctx)
}
