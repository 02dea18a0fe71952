package application

import (
	"context"
	"errors"

	"bcexplorer/internal/domain"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidFilter = errors.New("invalid filter")
)

// Store is the read contract every storage backend implements. Backends
// scan their own rows and return canonical domain values.
type Store interface {
	Block(ctx context.Context, number uint64) (domain.Block, error)
	BlockWithTransactions(ctx context.Context, number uint64) (domain.BlockWithTransactions, error)
	Transaction(ctx context.Context, hash string) (domain.Transaction, error)
	TransactionReceipt(ctx context.Context, hash string) (domain.TransactionReceipt, error)
	TransactionsByAddress(ctx context.Context, filter TransactionQueryFilter) ([]domain.Transaction, error)
	AddressDetails(ctx context.Context, address string) (domain.AddressDetails, error)
	TokenTransfers(ctx context.Context, filter TokenTransferFilter) ([]domain.TokenTransfer, error)
	L1L2Transactions(ctx context.Context, filter L1L2QueryFilter) ([]domain.L1L2Transaction, error)
	Ping(ctx context.Context) error
}
