package domain

import (
	"math/big"
	"testing"
)

func TestTokenTransferFormattedAmount(t *testing.T) {
	cases := []struct {
		amount   string
		decimals uint8
		want     string
	}{
		{"1500000000000000000", 18, "1.5"},
		{"1000000", 6, "1"},
		{"5", 3, "0.005"},
		{"42", 0, "42"},
		{"-250", 2, "-2.5"},
		{"garbage", 18, "garbage"},
	}
	for _, tc := range cases {
		transfer := TokenTransfer{Amount: tc.amount, Decimals: tc.decimals}
		if got := transfer.FormattedAmount(); got != tc.want {
			t.Errorf("FormattedAmount(%s, %d) = %s, want %s", tc.amount, tc.decimals, got, tc.want)
		}
	}
}

func TestReceiptFee(t *testing.T) {
	receipt := TransactionReceipt{
		Status:            ReceiptStatusSuccess,
		EffectiveGasPrice: big.NewInt(10),
		GasUsed:           big.NewInt(21000),
	}
	if got := receipt.Fee(); got.Cmp(big.NewInt(210000)) != 0 {
		t.Fatalf("expected fee 210000, got %s", got)
	}

	receipt.L1Fee = big.NewInt(5)
	if got := receipt.Fee(); got.Cmp(big.NewInt(210005)) != 0 {
		t.Fatalf("expected fee with l1 data 210005, got %s", got)
	}
	if !receipt.Succeeded() {
		t.Fatalf("expected success status")
	}
}

func TestTransactionIsContractCreation(t *testing.T) {
	to := Address("0x2")
	if (Transaction{To: &to}).IsContractCreation() {
		t.Fatalf("transaction with recipient is not a deployment")
	}
	if !(Transaction{}).IsContractCreation() {
		t.Fatalf("transaction without recipient is a deployment")
	}
}
