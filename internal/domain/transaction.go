package domain

import "math/big"

// Transaction represents a chain transaction record.
type Transaction struct {
	Hash                 Hash     `json:"hash"`
	BlockNumber          *big.Int `json:"blockNumber"`
	From                 Address  `json:"from"`
	To                   *Address `json:"to"`
	Value                *big.Int `json:"value"`
	Gas                  *big.Int `json:"gas"`
	GasPrice             *big.Int `json:"gasPrice"`
	MaxFeePerGas         *big.Int `json:"maxFeePerGas"`
	MaxPriorityFeePerGas *big.Int `json:"maxPriorityFeePerGas"`
	Nonce                uint64   `json:"nonce"`
	TransactionIndex     uint64   `json:"transactionIndex"`
	Input                Hex      `json:"input"`
	Signature            string   `json:"signature"`
	Timestamp            *big.Int `json:"timestamp"`
}

// IsContractCreation reports whether the transaction deploys a contract.
func (t Transaction) IsContractCreation() bool {
	return t.To == nil
}

// TransactionWithReceipt pairs a transaction with its execution receipt.
type TransactionWithReceipt struct {
	Transaction
	Receipt TransactionReceipt `json:"transactionReceipt"`
}
