package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied in order by Migrate.  Every statement is idempotent.
// Lineup, waiting list, summary and highlights are stored as JSON documents
// on the reservation row; the roster engine always rewrites them together.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		email         VARCHAR(255) NOT NULL,
		display_name  VARCHAR(100) NOT NULL DEFAULT '',
		password_hash VARCHAR(255) NOT NULL,
		role          ENUM('ADMIN','PLAYER') NOT NULL DEFAULT 'PLAYER',
		is_active     BOOLEAN NOT NULL DEFAULT TRUE,
		created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_refresh_token_hash (token_hash),
		KEY idx_refresh_user (user_id),
		CONSTRAINT fk_refresh_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS pitches (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name       VARCHAR(120) NOT NULL,
		location   VARCHAR(255) NOT NULL DEFAULT '',
		surface    VARCHAR(50)  NOT NULL DEFAULT '',
		capacity   INT UNSIGNED NOT NULL DEFAULT 10,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_pitches_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS reservations (
		id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		pitch_id     BIGINT UNSIGNED NOT NULL,
		pitch_name   VARCHAR(120) NOT NULL,
		location     VARCHAR(255) NOT NULL DEFAULT '',
		game_date    CHAR(10) NOT NULL,
		start_time   CHAR(5)  NOT NULL,
		end_time     CHAR(5)  NOT NULL DEFAULT '',
		max_players  INT UNSIGNED NOT NULL,
		lineup       JSON NOT NULL,
		waiting_list JSON NOT NULL,
		status       ENUM('open','full','completed','cancelled') NOT NULL DEFAULT 'open',
		summary      JSON NULL,
		highlights   JSON NULL,
		created_by   BIGINT UNSIGNED NOT NULL,
		created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_reservations_pitch_date (pitch_id, game_date),
		KEY idx_reservations_date (game_date),
		CONSTRAINT fk_reservations_pitch FOREIGN KEY (pitch_id) REFERENCES pitches(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS suspensions (
		id             CHAR(36) PRIMARY KEY,
		user_id        BIGINT UNSIGNED NOT NULL,
		reservation_id BIGINT UNSIGNED NOT NULL,
		days           INT UNSIGNED NOT NULL,
		reason         VARCHAR(500) NOT NULL,
		issued_by      BIGINT UNSIGNED NOT NULL,
		issued_at      DATETIME NOT NULL,
		expires_at     DATETIME NOT NULL,
		KEY idx_suspensions_user_expiry (user_id, expires_at),
		CONSTRAINT fk_suspensions_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates any missing tables.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
