package database

import (
	"context"
	"database/sql"
)

// schema statements are idempotent so EnsureSchema can run on every boot.
// The ORM-based predecessors of this service synced tables implicitly; here
// the schema is explicit and versioned with the code.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		first_name    VARCHAR(120) NOT NULL DEFAULT '',
		last_name     VARCHAR(120) NOT NULL DEFAULT '',
		username      VARCHAR(20)  NOT NULL,
		email         VARCHAR(320) NOT NULL,
		password_hash VARCHAR(100) NOT NULL,
		role          ENUM('admin','regular') NOT NULL DEFAULT 'regular',
		created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_username (username),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		token      VARCHAR(96) NOT NULL,
		expires_at BIGINT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_refresh_user_token (user_id, token),
		CONSTRAINT fk_refresh_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS currencies (
		id                BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name              VARCHAR(255) NOT NULL,
		symbol            VARCHAR(10)  NOT NULL,
		introduction_year INT NOT NULL,
		UNIQUE KEY uq_currencies_name (name),
		UNIQUE KEY uq_currencies_symbol (symbol)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS prices (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		currency_id BIGINT UNSIGNED NOT NULL,
		value       DOUBLE NOT NULL,
		date        TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_prices_currency_date (currency_id, date),
		CONSTRAINT fk_prices_currency FOREIGN KEY (currency_id) REFERENCES currencies(id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
}

// EnsureSchema creates the application tables when they do not yet exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
