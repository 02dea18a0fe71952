package mysql

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

	_ "github.com/go-sql-driver/mysql"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Repository struct {
	db *sql.DB
}

var _ application.Store = (*Repository)(nil)

func NewRepository(dsn string) (*Repository, error) {
	if dsn == "" {
		return nil, errors.New("db dsn is required")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
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
	ctx, span := startDBSpan(ctx, "mysql.Block", attribute.Int64("block.number", int64(number)))
	defer span.End()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row, err := r.blockRow(ctx, number)
	if err != nil {
		return domain.Block{}, recordError(span, err)
	}
	block, err := mapping.MapBlock(row)
	if err != nil {
		return domain.Block{}, recordError(span, err)
	}
	return block, nil
}

func (r *Repository) BlockWithTransactions(ctx context.Context, number uint64) (domain.BlockWithTransactions, error) {
	ctx, span := startDBSpan(ctx, "mysql.BlockWithTransactions", attribute.Int64("block.number", int64(number)))
	defer span.End()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row, err := r.blockRow(ctx, number)
	if err != nil {
		return domain.BlockWithTransactions{}, recordError(span, err)
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+sqlrows.TransactionColumns+` FROM transactions
		WHERE block_number = ? ORDER BY transaction_index ASC`, number)
	if err != nil {
		return domain.BlockWithTransactions{}, recordError(span, err)
	}
	txRows, err := sqlrows.CollectTransactions(rows)
	if err != nil {
		return domain.BlockWithTransactions{}, recordError(span, err)
	}
	span.SetAttributes(attribute.Int("tx.count", len(txRows)))
	block, err := mapping.MapBlockWithTransactions(row, txRows)
	if err != nil {
		return domain.BlockWithTransactions{}, recordError(span, err)
	}
	return block, nil
}

func (r *Repository) blockRow(ctx context.Context, number uint64) (mapping.BlockRow, error) {
	row, err := sqlrows.ScanBlock(r.db.QueryRowContext(ctx, `SELECT `+sqlrows.BlockColumns+` FROM blocks WHERE number = ?`, number))
	if err != nil {
		return mapping.BlockRow{}, notFound(err)
	}
	return row, nil
}

func (r *Repository) Transaction(ctx context.Context, hash string) (domain.Transaction, error) {
	hash = strings.ToLower(hash)
	ctx, span := startDBSpan(ctx, "mysql.Transaction", attribute.String("tx.hash", hash))
	defer span.End()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row, err := sqlrows.ScanTransaction(r.db.QueryRowContext(ctx, `SELECT `+sqlrows.TransactionColumns+` FROM transactions WHERE hash = ?`, hash))
	if err != nil {
		return domain.Transaction{}, recordError(span, notFound(err))
	}
	tx, err := mapping.MapTransaction(row)
	if err != nil {
		return domain.Transaction{}, recordError(span, err)
	}
	return tx, nil
}

func (r *Repository) TransactionReceipt(ctx context.Context, hash string) (domain.TransactionReceipt, error) {
	hash = strings.ToLower(hash)
	ctx, span := startDBSpan(ctx, "mysql.TransactionReceipt", attribute.String("tx.hash", hash))
	defer span.End()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row, err := sqlrows.ScanReceipt(r.db.QueryRowContext(ctx, `SELECT `+sqlrows.ReceiptColumns+` FROM transaction_receipts WHERE transaction_hash = ?`, hash))
	if err != nil {
		return domain.TransactionReceipt{}, recordError(span, notFound(err))
	}
	receipt, err := mapping.MapReceipt(row)
	if err != nil {
		return domain.TransactionReceipt{}, recordError(span, err)
	}
	return receipt, nil
}

func (r *Repository) TransactionsByAddress(ctx context.Context, filter application.TransactionQueryFilter) ([]domain.Transaction, error) {
	address := strings.ToLower(filter.Address)
	ctx, span := startDBSpan(ctx, "mysql.TransactionsByAddress", attribute.String("address", address))
	defer span.End()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// UNION keeps both address indexes usable.
	clauses := make([]string, 0, 2)
	rangeArgs := make([]any, 0, 2)
	if filter.FromBlock != nil {
		clauses = append(clauses, "block_number >= ?")
		rangeArgs = append(rangeArgs, *filter.FromBlock)
	}
	if filter.ToBlock != nil {
		clauses = append(clauses, "block_number <= ?")
		rangeArgs = append(rangeArgs, *filter.ToBlock)
	}
	rangeClause := ""
	if len(clauses) > 0 {
		rangeClause = " AND " + strings.Join(clauses, " AND ")
	}
	query := `SELECT ` + sqlrows.TransactionColumns + ` FROM transactions WHERE from_addr = ?` + rangeClause +
		` UNION SELECT ` + sqlrows.TransactionColumns + ` FROM transactions WHERE to_addr = ?` + rangeClause +
		` ORDER BY block_number DESC, transaction_index DESC LIMIT ?`
	args := make([]any, 0, 2*len(rangeArgs)+3)
	args = append(args, address)
	args = append(args, rangeArgs...)
	args = append(args, address)
	args = append(args, rangeArgs...)
	args = append(args, application.NormalizeLimit(filter.Limit))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, recordError(span, err)
	}
	txRows, err := sqlrows.CollectTransactions(rows)
	if err != nil {
		return nil, recordError(span, err)
	}
	transactions := make([]domain.Transaction, 0, len(txRows))
	for _, row := range txRows {
		tx, err := mapping.MapTransaction(row)
		if err != nil {
			return nil, recordError(span, err)
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

func (r *Repository) AddressDetails(ctx context.Context, address string) (domain.AddressDetails, error) {
	address = strings.ToLower(address)
	ctx, span := startDBSpan(ctx, "mysql.AddressDetails", attribute.String("address", address))
	defer span.End()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row, err := sqlrows.ScanAccount(r.db.QueryRowContext(ctx, `SELECT `+sqlrows.AccountColumns+` FROM accounts WHERE address = ?`, address))
	if err != nil {
		return domain.AddressDetails{}, recordError(span, notFound(err))
	}
	details, err := mapping.MapAddressDetails(row)
	if err != nil {
		return domain.AddressDetails{}, recordError(span, err)
	}
	return details, nil
}

func (r *Repository) TokenTransfers(ctx context.Context, filter application.TokenTransferFilter) ([]domain.TokenTransfer, error) {
	address := strings.ToLower(filter.Address)
	ctx, span := startDBSpan(ctx, "mysql.TokenTransfers", attribute.String("address", address))
	defer span.End()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

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
		return nil, recordError(span, err)
	}
	defer rows.Close()

	var transfers []domain.TokenTransfer
	for rows.Next() {
		row, err := sqlrows.ScanTokenTransfer(rows)
		if err != nil {
			return nil, recordError(span, err)
		}
		transfers = append(transfers, mapping.MapTokenTransfer(row))
	}
	if err := rows.Err(); err != nil {
		return nil, recordError(span, err)
	}
	return transfers, nil
}

func (r *Repository) L1L2Transactions(ctx context.Context, filter application.L1L2QueryFilter) ([]domain.L1L2Transaction, error) {
	ctx, span := startDBSpan(ctx, "mysql.L1L2Transactions", attribute.String("hash", filter.Hash))
	defer span.End()
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
		return nil, recordError(span, err)
	}
	defer rows.Close()

	var out []domain.L1L2Transaction
	for rows.Next() {
		row, err := sqlrows.ScanL1L2(rows)
		if err != nil {
			return nil, recordError(span, err)
		}
		mapped, err := mapping.MapL1L2Transaction(row)
		if err != nil {
			return nil, recordError(span, err)
		}
		out = append(out, mapped)
	}
	if err := rows.Err(); err != nil {
		return nil, recordError(span, err)
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

// recordError marks the span failed unless err is a plain miss.
func recordError(span trace.Span, err error) error {
	if errors.Is(err, application.ErrNotFound) {
		return err
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func startDBSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("db.system", "mysql"))
	return otel.Tracer("bcexplorer/mysql").Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(attrs...))
}
