package sqlite

import "database/sql"

func createSchema(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS blocks (
			number INTEGER PRIMARY KEY,
			hash TEXT NOT NULL,
			timestamp INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			hash TEXT PRIMARY KEY,
			block_number INTEGER NOT NULL,
			from_addr TEXT NOT NULL,
			to_addr TEXT NULL,
			value TEXT NOT NULL,
			gas TEXT NOT NULL,
			gas_price TEXT NULL,
			max_fee_per_gas TEXT NULL,
			max_priority_fee_per_gas TEXT NULL,
			nonce INTEGER NOT NULL,
			transaction_index INTEGER NOT NULL,
			input TEXT NOT NULL,
			signature TEXT NOT NULL,
			timestamp INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS tx_block_idx ON transactions (block_number, transaction_index)`,
		`CREATE INDEX IF NOT EXISTS tx_from_idx ON transactions (from_addr)`,
		`CREATE INDEX IF NOT EXISTS tx_to_idx ON transactions (to_addr)`,
		`CREATE TABLE IF NOT EXISTS transaction_receipts (
			transaction_hash TEXT PRIMARY KEY,
			status INTEGER NOT NULL,
			from_addr TEXT NOT NULL,
			to_addr TEXT NULL,
			effective_gas_price TEXT NOT NULL,
			gas_used TEXT NOT NULL,
			l1_fee TEXT NULL,
			l1_gas_price TEXT NULL,
			l1_gas_used TEXT NULL,
			l1_fee_scalar REAL NULL
		)`,
		`CREATE TABLE IF NOT EXISTS accounts (
			address TEXT PRIMARY KEY,
			balance TEXT NOT NULL,
			is_contract INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS token_transfers (
			transaction_hash TEXT NOT NULL,
			log_index INTEGER NOT NULL,
			block_number INTEGER NOT NULL,
			from_addr TEXT NOT NULL,
			to_addr TEXT NOT NULL,
			token_address TEXT NOT NULL,
			amount TEXT NOT NULL,
			decimals INTEGER NOT NULL,
			PRIMARY KEY (transaction_hash, log_index)
		)`,
		`CREATE TABLE IF NOT EXISTS l1_l2_transactions (
			l1_block_number INTEGER NOT NULL,
			l1_hash TEXT NOT NULL,
			l2_hash TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			l1_tx_hash TEXT NOT NULL,
			l1_tx_origin TEXT NOT NULL,
			gas_limit INTEGER NOT NULL,
			PRIMARY KEY (l1_hash, l2_hash)
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
