// ledger/schema.go
package ledger

// Schema creates both tables when absent. Opening a store never drops data;
// the destructive path is Reset, which a caller must invoke explicitly.
const Schema = `
CREATE TABLE IF NOT EXISTS accounts (
	account_id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	currency TEXT,
	type TEXT,
	balance REAL NOT NULL,
	yield_percent REAL,
	yield_period TEXT,
	is_taxable BOOLEAN,
	expiration_date TEXT
);

CREATE TABLE IF NOT EXISTS transactions (
	transaction_id TEXT PRIMARY KEY,
	account_id INTEGER NOT NULL,
	date TEXT NOT NULL,
	amount REAL NOT NULL,
	description TEXT,
	FOREIGN KEY (account_id) REFERENCES accounts (account_id)
);

CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions(account_id);
`

const dropSchema = `
DROP TABLE IF EXISTS transactions;
DROP TABLE IF EXISTS accounts;
`
