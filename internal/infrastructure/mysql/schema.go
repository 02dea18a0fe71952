package mysql

import (
	"database/sql"
	"fmt"
)

// Quantities are stored as decimal text. DECIMAL tops out at 65 digits,
// short of the 78 a uint256 needs.
const quantityType = "VARCHAR(80)"

var rollupFeeColumns = []string{"l1_fee", "l1_gas_price", "l1_gas_used"}

func schemaStatements() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS blocks (
			number BIGINT UNSIGNED NOT NULL,
			hash VARCHAR(66) NOT NULL,
			timestamp BIGINT UNSIGNED NOT NULL,
			PRIMARY KEY (number)
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			hash VARCHAR(66) NOT NULL,
			block_number BIGINT UNSIGNED NOT NULL,
			from_addr VARCHAR(42) NOT NULL,
			to_addr VARCHAR(42) NULL,
			value ` + quantityType + ` NOT NULL,
			gas ` + quantityType + ` NOT NULL,
			gas_price ` + quantityType + ` NULL,
			max_fee_per_gas ` + quantityType + ` NULL,
			max_priority_fee_per_gas ` + quantityType + ` NULL,
			nonce BIGINT UNSIGNED NOT NULL,
			transaction_index BIGINT UNSIGNED NOT NULL,
			input MEDIUMTEXT NOT NULL,
			signature VARCHAR(140) NOT NULL,
			timestamp BIGINT UNSIGNED NOT NULL,
			PRIMARY KEY (hash),
			KEY tx_block_idx (block_number, transaction_index),
			KEY tx_from_idx (from_addr),
			KEY tx_to_idx (to_addr)
		)`,
		`CREATE TABLE IF NOT EXISTS transaction_receipts (
			transaction_hash VARCHAR(66) NOT NULL,
			status TINYINT UNSIGNED NOT NULL,
			from_addr VARCHAR(42) NOT NULL,
			to_addr VARCHAR(42) NULL,
			effective_gas_price ` + quantityType + ` NOT NULL,
			gas_used ` + quantityType + ` NOT NULL,
			l1_fee ` + quantityType + ` NULL,
			l1_gas_price ` + quantityType + ` NULL,
			l1_gas_used ` + quantityType + ` NULL,
			l1_fee_scalar DOUBLE NULL,
			PRIMARY KEY (transaction_hash)
		)`,
		`CREATE TABLE IF NOT EXISTS accounts (
			address VARCHAR(42) NOT NULL,
			balance ` + quantityType + ` NOT NULL,
			is_contract TINYINT(1) NOT NULL DEFAULT 0,
			PRIMARY KEY (address)
		)`,
		`CREATE TABLE IF NOT EXISTS token_transfers (
			transaction_hash VARCHAR(66) NOT NULL,
			log_index BIGINT UNSIGNED NOT NULL,
			block_number BIGINT UNSIGNED NOT NULL,
			from_addr VARCHAR(42) NOT NULL,
			to_addr VARCHAR(42) NOT NULL,
			token_address VARCHAR(42) NOT NULL,
			amount ` + quantityType + ` NOT NULL,
			decimals TINYINT UNSIGNED NOT NULL,
			PRIMARY KEY (transaction_hash, log_index),
			KEY tt_from_idx (from_addr),
			KEY tt_to_idx (to_addr)
		)`,
		`CREATE TABLE IF NOT EXISTS l1_l2_transactions (
			l1_block_number BIGINT UNSIGNED NOT NULL,
			l1_hash VARCHAR(66) NOT NULL,
			l2_hash VARCHAR(66) NOT NULL,
			timestamp BIGINT UNSIGNED NOT NULL,
			l1_tx_hash VARCHAR(66) NOT NULL,
			l1_tx_origin VARCHAR(42) NOT NULL,
			gas_limit BIGINT UNSIGNED NOT NULL,
			PRIMARY KEY (l1_hash, l2_hash),
			KEY l1l2_l2_idx (l2_hash)
		)`,
	}
}

func createSchema(db *sql.DB) error {
	for _, stmt := range schemaStatements() {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	// Older deployments predate the rollup fee columns.
	for _, column := range rollupFeeColumns {
		if err := ensureColumn(db, "transaction_receipts", column, quantityType+" NULL"); err != nil {
			return err
		}
	}
	return ensureColumn(db, "transaction_receipts", "l1_fee_scalar", "DOUBLE NULL")
}

func ensureColumn(db *sql.DB, table, column, definition string) error {
	var count int
	row := db.QueryRow(
		`SELECT COUNT(*) FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? AND COLUMN_NAME = ?`,
		table,
		column,
	)
	if err := row.Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition)
	_, err := db.Exec(stmt)
	return err
}
