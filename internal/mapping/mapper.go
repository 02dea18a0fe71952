package mapping

import (
	"database/sql"
	"math/big"
	"strings"

	"bcexplorer/internal/domain"
)

func MapBlock(row BlockRow) (domain.Block, error) {
	number, err := parseBig("block.number", row.Number)
	if err != nil {
		return domain.Block{}, err
	}
	timestamp, err := parseBig("block.timestamp", row.Timestamp)
	if err != nil {
		return domain.Block{}, err
	}
	return domain.Block{
		Number:    number,
		Hash:      domain.Hash(row.Hash),
		Timestamp: timestamp,
	}, nil
}

// MapBlockWithTransactions maps the block and each transaction, keeping the
// transaction order. It does not check that the transactions belong to the block.
func MapBlockWithTransactions(row BlockRow, transactions []TransactionRow) (domain.BlockWithTransactions, error) {
	block, err := MapBlock(row)
	if err != nil {
		return domain.BlockWithTransactions{}, err
	}
	mapped := make([]domain.Transaction, 0, len(transactions))
	for _, txRow := range transactions {
		tx, err := MapTransaction(txRow)
		if err != nil {
			return domain.BlockWithTransactions{}, err
		}
		mapped = append(mapped, tx)
	}
	return domain.BlockWithTransactions{Block: block, Transactions: mapped}, nil
}

func MapTransaction(row TransactionRow) (domain.Transaction, error) {
	tx := domain.Transaction{
		Hash:             domain.Hash(row.Hash),
		From:             domain.Address(row.From),
		To:               optionalAddress(row.To),
		Nonce:            row.Nonce,
		TransactionIndex: row.TransactionIndex,
		Input:            domain.Hex(row.Input),
		Signature:        row.Signature,
	}

	var err error
	if tx.BlockNumber, err = parseBig("transaction.blockNumber", row.BlockNumber); err != nil {
		return domain.Transaction{}, err
	}
	if tx.Value, err = parseBig("transaction.value", row.Value); err != nil {
		return domain.Transaction{}, err
	}
	if tx.Gas, err = parseBig("transaction.gas", row.Gas); err != nil {
		return domain.Transaction{}, err
	}
	if tx.GasPrice, err = parseOptionalBig("transaction.gasPrice", row.GasPrice); err != nil {
		return domain.Transaction{}, err
	}
	if tx.MaxFeePerGas, err = parseOptionalBig("transaction.maxFeePerGas", row.MaxFeePerGas); err != nil {
		return domain.Transaction{}, err
	}
	if tx.MaxPriorityFeePerGas, err = parseOptionalBig("transaction.maxPriorityFeePerGas", row.MaxPriorityFeePerGas); err != nil {
		return domain.Transaction{}, err
	}
	if tx.Timestamp, err = parseBig("transaction.timestamp", row.Timestamp); err != nil {
		return domain.Transaction{}, err
	}
	return tx, nil
}

func MapReceipt(row ReceiptRow) (domain.TransactionReceipt, error) {
	receipt := domain.TransactionReceipt{
		TransactionHash: domain.Hash(row.TransactionHash),
		Status:          receiptStatus(row.Status),
		From:            domain.Address(row.From),
		To:              optionalAddress(row.To),
	}
	if row.L1FeeScalar.Valid {
		scalar := row.L1FeeScalar.Float64
		receipt.L1FeeScalar = &scalar
	}

	var err error
	if receipt.EffectiveGasPrice, err = parseBig("receipt.effectiveGasPrice", row.EffectiveGasPrice); err != nil {
		return domain.TransactionReceipt{}, err
	}
	if receipt.GasUsed, err = parseBig("receipt.gasUsed", row.GasUsed); err != nil {
		return domain.TransactionReceipt{}, err
	}
	if receipt.L1Fee, err = parseOptionalBig("receipt.l1Fee", row.L1Fee); err != nil {
		return domain.TransactionReceipt{}, err
	}
	if receipt.L1GasPrice, err = parseOptionalBig("receipt.l1GasPrice", row.L1GasPrice); err != nil {
		return domain.TransactionReceipt{}, err
	}
	if receipt.L1GasUsed, err = parseOptionalBig("receipt.l1GasUsed", row.L1GasUsed); err != nil {
		return domain.TransactionReceipt{}, err
	}
	return receipt, nil
}

func MapTransactionWithReceipt(tx TransactionRow, receipt ReceiptRow) (domain.TransactionWithReceipt, error) {
	mappedTx, err := MapTransaction(tx)
	if err != nil {
		return domain.TransactionWithReceipt{}, err
	}
	mappedReceipt, err := MapReceipt(receipt)
	if err != nil {
		return domain.TransactionWithReceipt{}, err
	}
	return domain.TransactionWithReceipt{Transaction: mappedTx, Receipt: mappedReceipt}, nil
}

func MapAddressDetails(row AccountRow) (domain.AddressDetails, error) {
	balance, err := parseBig("account.balance", row.Balance)
	if err != nil {
		return domain.AddressDetails{}, err
	}
	addressType := domain.AddressTypeAddress
	if row.IsContract {
		addressType = domain.AddressTypeContract
	}
	return domain.AddressDetails{AddressType: addressType, Balance: balance}, nil
}

func MapTokenTransfer(row TokenTransferRow) domain.TokenTransfer {
	return domain.TokenTransfer{
		From:         domain.Address(row.From),
		To:           domain.Address(row.To),
		TokenAddress: domain.Address(row.TokenAddress),
		Amount:       row.Amount,
		Decimals:     row.Decimals,
	}
}

func MapL1L2Transaction(row L1L2Row) (domain.L1L2Transaction, error) {
	l1Block, err := parseBig("l1l2.l1BlockNumber", row.L1BlockNumber)
	if err != nil {
		return domain.L1L2Transaction{}, err
	}
	timestamp, err := parseBig("l1l2.timestamp", row.Timestamp)
	if err != nil {
		return domain.L1L2Transaction{}, err
	}
	return domain.L1L2Transaction{
		L1BlockNumber: l1Block,
		L1Hash:        domain.Hash(row.L1Hash),
		L2Hash:        domain.Hash(row.L2Hash),
		Timestamp:     timestamp,
		L1TxHash:      row.L1TxHash,
		L1TxOrigin:    row.L1TxOrigin,
		GasLimit:      row.GasLimit,
	}, nil
}

func receiptStatus(status int64) domain.ReceiptStatus {
	if status == 1 {
		return domain.ReceiptStatusSuccess
	}
	return domain.ReceiptStatusReverted
}

func optionalAddress(value sql.NullString) *domain.Address {
	if !value.Valid || value.String == "" {
		return nil
	}
	address := domain.Address(value.String)
	return &address
}

// parseBig accepts a decimal integer with an optional sign, or an unsigned
// 0x, 0o or 0b prefixed literal. Surrounding whitespace is ignored and a
// blank string parses as zero. There is no size limit.
func parseBig(field, value string) (*big.Int, error) {
	literal := strings.TrimSpace(value)
	if literal == "" {
		return new(big.Int), nil
	}
	digits, base := literal, 10
	if len(literal) > 2 && literal[0] == '0' {
		switch literal[1] {
		case 'x', 'X':
			digits, base = literal[2:], 16
		case 'o', 'O':
			digits, base = literal[2:], 8
		case 'b', 'B':
			digits, base = literal[2:], 2
		}
	}
	if base != 10 && (digits[0] == '+' || digits[0] == '-') {
		return nil, &NumericParseError{Field: field, Value: value}
	}
	parsed, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, &NumericParseError{Field: field, Value: value}
	}
	return parsed, nil
}

func parseOptionalBig(field string, value sql.NullString) (*big.Int, error) {
	if !value.Valid || value.String == "" {
		return nil, nil
	}
	return parseBig(field, value.String)
}
