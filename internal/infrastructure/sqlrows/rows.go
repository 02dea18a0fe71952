// Package sqlrows holds the column lists and scanners shared by the SQL
// backends so every backend reads the same row shape.
package sqlrows

import (
	"database/sql"

	"bcexplorer/internal/mapping"
)

const (
	BlockColumns         = `number, hash, timestamp`
	TransactionColumns   = `hash, block_number, from_addr, to_addr, value, gas, gas_price, max_fee_per_gas, max_priority_fee_per_gas, nonce, transaction_index, input, signature, timestamp`
	ReceiptColumns       = `transaction_hash, status, from_addr, to_addr, effective_gas_price, gas_used, l1_fee, l1_gas_price, l1_gas_used, l1_fee_scalar`
	AccountColumns       = `address, balance, is_contract`
	TokenTransferColumns = `transaction_hash, log_index, block_number, from_addr, to_addr, token_address, amount, decimals`
	L1L2Columns          = `l1_block_number, l1_hash, l2_hash, timestamp, l1_tx_hash, l1_tx_origin, gas_limit`
)

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

func ScanBlock(s Scanner) (mapping.BlockRow, error) {
	var row mapping.BlockRow
	err := s.Scan(&row.Number, &row.Hash, &row.Timestamp)
	return row, err
}

func ScanTransaction(s Scanner) (mapping.TransactionRow, error) {
	var row mapping.TransactionRow
	err := s.Scan(
		&row.Hash,
		&row.BlockNumber,
		&row.From,
		&row.To,
		&row.Value,
		&row.Gas,
		&row.GasPrice,
		&row.MaxFeePerGas,
		&row.MaxPriorityFeePerGas,
		&row.Nonce,
		&row.TransactionIndex,
		&row.Input,
		&row.Signature,
		&row.Timestamp,
	)
	return row, err
}

func ScanReceipt(s Scanner) (mapping.ReceiptRow, error) {
	var row mapping.ReceiptRow
	err := s.Scan(
		&row.TransactionHash,
		&row.Status,
		&row.From,
		&row.To,
		&row.EffectiveGasPrice,
		&row.GasUsed,
		&row.L1Fee,
		&row.L1GasPrice,
		&row.L1GasUsed,
		&row.L1FeeScalar,
	)
	return row, err
}

func ScanAccount(s Scanner) (mapping.AccountRow, error) {
	var row mapping.AccountRow
	var isContract int64
	if err := s.Scan(&row.Address, &row.Balance, &isContract); err != nil {
		return mapping.AccountRow{}, err
	}
	row.IsContract = isContract != 0
	return row, nil
}

func ScanTokenTransfer(s Scanner) (mapping.TokenTransferRow, error) {
	var row mapping.TokenTransferRow
	err := s.Scan(
		&row.TransactionHash,
		&row.LogIndex,
		&row.BlockNumber,
		&row.From,
		&row.To,
		&row.TokenAddress,
		&row.Amount,
		&row.Decimals,
	)
	return row, err
}

func ScanL1L2(s Scanner) (mapping.L1L2Row, error) {
	var row mapping.L1L2Row
	err := s.Scan(
		&row.L1BlockNumber,
		&row.L1Hash,
		&row.L2Hash,
		&row.Timestamp,
		&row.L1TxHash,
		&row.L1TxOrigin,
		&row.GasLimit,
	)
	return row, err
}

// CollectTransactions scans every remaining row and closes rows.
func CollectTransactions(rows *sql.Rows) ([]mapping.TransactionRow, error) {
	defer rows.Close()
	var out []mapping.TransactionRow
	for rows.Next() {
		row, err := ScanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
