// Package mapping converts rows read from the relational store into the
// canonical domain types. Every backend scans into these row shapes and
// hands them to the Map functions, so the conversion rules live in one place.
package mapping

import "database/sql"

// BlockRow mirrors the blocks table.
type BlockRow struct {
	Number    string
	Hash      string
	Timestamp string
}

// TransactionRow mirrors the transactions table. Quantities are stored as
// decimal strings because they exceed 64 bits.
type TransactionRow struct {
	Hash                 string
	BlockNumber          string
	From                 string
	To                   sql.NullString
	Value                string
	Gas                  string
	GasPrice             sql.NullString
	MaxFeePerGas         sql.NullString
	MaxPriorityFeePerGas sql.NullString
	Nonce                uint64
	TransactionIndex     uint64
	Input                string
	Signature            string
	Timestamp            string
}

// ReceiptRow mirrors the transaction_receipts table.
type ReceiptRow struct {
	TransactionHash   string
	Status            int64
	From              string
	To                sql.NullString
	EffectiveGasPrice string
	GasUsed           string
	L1Fee             sql.NullString
	L1GasPrice        sql.NullString
	L1GasUsed         sql.NullString
	L1FeeScalar       sql.NullFloat64
}

// AccountRow mirrors the accounts table.
type AccountRow struct {
	Address    string
	Balance    string
	IsContract bool
}

// TokenTransferRow mirrors the token_transfers table.
type TokenTransferRow struct {
	TransactionHash string
	LogIndex        uint64
	BlockNumber     uint64
	From            string
	To              string
	TokenAddress    string
	Amount          string
	Decimals        uint8
}

// L1L2Row mirrors the l1_l2_transactions table.
type L1L2Row struct {
	L1BlockNumber string
	L1Hash        string
	L2Hash        string
	Timestamp     string
	L1TxHash      string
	L1TxOrigin    string
	GasLimit      uint64
}
