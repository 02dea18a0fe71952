package domain

import "math/big"

// Hash is a 32-byte content identifier rendered as 0x-prefixed hex.
// Values are carried as stored; nothing in this package validates them.
type Hash string

// Address is a 20-byte account identifier rendered as 0x-prefixed hex.
type Address string

// Hex is arbitrary 0x-prefixed hex data such as transaction input.
type Hex string

// Block is the canonical block header view.
type Block struct {
	Number    *big.Int `json:"number"`
	Hash      Hash     `json:"hash"`
	Timestamp *big.Int `json:"timestamp"`
}

// BlockWithTransactions is a block together with its transactions in block order.
type BlockWithTransactions struct {
	Block
	Transactions []Transaction `json:"transactions"`
}
