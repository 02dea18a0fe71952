package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"bcexplorer/internal/application"
	"bcexplorer/internal/domain"
	"bcexplorer/internal/infrastructure/sqlrows"
	"bcexplorer/internal/mapping"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

var _ application.Store = (*Repository)(nil)

func NewRepository(dbPath string) (*Repository, error) {
	if dbPath == "" {
		return nil, errors.New("db path is required")
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if err := createSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Block(ctx context.Context, number uint64) (domain.Block, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row, err := r.blockRow(ctx, number)
	if err != nil {
		return domain.Block{}, err
	}
	return mapping.MapBlock(row)
}

func (r *Repository) BlockWithTransactions(ctx context.Context, number uint64) (domain.BlockWithTransactions, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row, err := r.blockRow(ctx, number)
	if err != nil {
		return domain.BlockWithTransactions{}, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+sqlrows.TransactionColumns+` FROM transactions
		WHERE block_number = ? ORDER BY transaction_index ASC`, number)
	if err != nil {
		return domain.BlockWithTransactions{}, err
	}
	txRows, err := sqlrows.CollectTransactions(rows)
	if err != nil {
		return domain.BlockWithTransactions{}, err
	}
	return mapping.MapBlockWithTransactions(row, txRows)
}

func (r *Repository) blockRow(ctx context.Context, number uint64) (mapping.BlockRow, error) {
	row, err := sqlrows.ScanBlock(r.db.QueryRowContext(ctx, `SELECT `+sqlrows.BlockColumns+` FROM blocks WHERE number = ?`, number))
	if err != nil {
		return mapping.BlockRow{}, notFound(err)
	}
	return row, nil
}

func (r *Repository) Transaction(ctx context.Context, hash string) (domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row, err := sqlrows.ScanTransaction(r.db.QueryRowContext(ctx, `SELECT `+sqlrows.TransactionColumns+` FROM transactions WHERE hash = ?`, strings.ToLower(hash)))
	if err != nil {
		return domain.Transaction{}, notFound(err)
	}
	return mapping.MapTransaction(row)
}

func (r *Repository) TransactionReceipt(ctx context.Context, hash string) (domain.TransactionReceipt, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row, err := sqlrows.ScanReceipt(r.db.QueryRowContext(ctx, `SELECT `+sqlrows.ReceiptColumns+` FROM transaction_receipts WHERE transaction_hash = ?`, strings.ToLower(hash)))
	if err != nil {
		return domain.TransactionReceipt{}, notFound(err)
	}
	return mapping.MapReceipt(row)
}

func (r *Repository) TransactionsByAddress(ctx context.Context, filter application.TransactionQueryFilter) ([]domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	address := strings.ToLower(filter.Address)
	clauses := []string{"(from_addr = ? OR to_addr = ?)"}
	args := []any{address, address}
	if filter.FromBlock != nil {
		clauses = append(clauses, "block_number >= ?")
		args = append(args, *filter.FromBlock)
	}
	if filter.ToBlock != nil {
		clauses = append(clauses, "block_number <= ?")
		args = append(args, *filter.ToBlock)
	}
	query := `SELECT ` + sqlrows.TransactionColumns + ` FROM transactions WHERE ` + strings.Join(clauses, " AND ") +
		` ORDER BY block_number DESC, transaction_index DESC LIMIT ?`
	args = append(args, application.NormalizeLimit(filter.Limit))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	txRows, err := sqlrows.CollectTransactions(rows)
	if err != nil {
		return nil, err
	}
	transactions := make([]domain.Transaction, 0, len(txRows))
	for _, row := range txRows {
		tx, err := mapping.MapTransaction(row)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

func (r *Repository) AddressDetails(ctx context.Context, address string) (domain.AddressDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row, err := sqlrows.ScanAccount(r.db.QueryRowContext(ctx, `SELECT `+sqlrows.AccountColumns+` FROM accounts WHERE address = ?`, strings.ToLower(address)))
	if err != nil {
		return domain.AddressDetails{}, notFound(err)
	}
	return mapping.MapAddressDetails(row)
}

func (r *Repository) TokenTransfers(ctx context.Context, filter application.TokenTransferFilter) ([]domain.TokenTransfer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	address := strings.ToLower(filter.Address)
	query := `SELECT ` + sqlrows.TokenTransferColumns + ` FROM token_transfers WHERE (from_addr = ? OR to_addr = ?)`
	args := []any{address, address}
	if filter.TokenAddress != "" {
		query += " AND token_address = ?"
		args = append(args, strings.ToLower(filter.TokenAddress))
	}
	query += " ORDER BY block_number DESC, log_index DESC LIMIT ?"
	args = append(args, application.NormalizeLimit(filter.Limit))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []domain.TokenTransfer
	for rows.Next() {
		row, err := sqlrows.ScanTokenTransfer(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, mapping.MapTokenTransfer(row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transfers, nil
}

func (r *Repository) L1L2Transactions(ctx context.Context, filter application.L1L2QueryFilter) ([]domain.L1L2Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `SELECT ` + sqlrows.L1L2Columns + ` FROM l1_l2_transactions`
	args := make([]any, 0, 3)
	if filter.Hash != "" {
		query += " WHERE l1_hash = ? OR l2_hash = ?"
		args = append(args, filter.Hash, filter.Hash)
	}
	query += " ORDER BY l1_block_number DESC LIMIT ?"
	args = append(args, application.NormalizeLimit(filter.Limit))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.L1L2Transaction
	for rows.Next() {
		row, err := sqlrows.ScanL1L2(rows)
		if err != nil {
			return nil, err
		}
		mapped, err := mapping.MapL1L2Transaction(row)
		if err != nil {
			return nil, err
		}
		out = append(out, mapped)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.db.PingContext(ctx)
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return application.ErrNotFound
	}
	return err
}
