package domain

import "math/big"

type ReceiptStatus string

const (
	ReceiptStatusSuccess  ReceiptStatus = "success"
	ReceiptStatusReverted ReceiptStatus = "reverted"
)

// TransactionReceipt represents the outcome of an executed transaction.
// The L1 fields are only set on rollup chains that charge a data fee.
type TransactionReceipt struct {
	TransactionHash   Hash          `json:"transactionHash"`
	Status            ReceiptStatus `json:"status"`
	From              Address       `json:"from"`
	To                *Address      `json:"to"`
	EffectiveGasPrice *big.Int      `json:"effectiveGasPrice"`
	GasUsed           *big.Int      `json:"gasUsed"`
	L1Fee             *big.Int      `json:"l1Fee"`
	L1GasPrice        *big.Int      `json:"l1GasPrice"`
	L1GasUsed         *big.Int      `json:"l1GasUsed"`
	L1FeeScalar       *float64      `json:"l1FeeScalar"`
}

// Succeeded reports whether execution completed without reverting.
func (r TransactionReceipt) Succeeded() bool {
	return r.Status == ReceiptStatusSuccess
}

// Fee returns the total fee paid: execution gas plus the L1 data fee when present.
func (r TransactionReceipt) Fee() *big.Int {
	fee := new(big.Int)
	if r.GasUsed != nil && r.EffectiveGasPrice != nil {
		fee.Mul(r.GasUsed, r.EffectiveGasPrice)
	}
	if r.L1Fee != nil {
		fee.Add(fee, r.L1Fee)
	}
	return fee
}
