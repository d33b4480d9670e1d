package db

import (
	"context"
	"database/sql"
	"fmt"

	"resort/internal/utils"
)

var tables = []struct {
	name string
	ddl  string
}{
	{"users", `
CREATE TABLE IF NOT EXISTS users (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	first_name VARCHAR(100) NOT NULL,
	last_name VARCHAR(100) NOT NULL,
	email VARCHAR(255) NOT NULL,
	mobile VARCHAR(50) NOT NULL DEFAULT '',
	province VARCHAR(100) NOT NULL DEFAULT '',
	city VARCHAR(100) NOT NULL DEFAULT '',
	barangay VARCHAR(100) NOT NULL DEFAULT '',
	street VARCHAR(255) NULL,
	password_hash VARCHAR(255) NOT NULL,
	profile_picture VARCHAR(255) NULL,
	sec_question_1 VARCHAR(255) NOT NULL DEFAULT '',
	sec_answer_1 VARCHAR(255) NOT NULL DEFAULT '',
	sec_question_2 VARCHAR(255) NOT NULL DEFAULT '',
	sec_answer_2 VARCHAR(255) NOT NULL DEFAULT '',
	role VARCHAR(20) NOT NULL DEFAULT 'guest',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_email (email),
	KEY idx_role (role)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
	{"facilities", `
CREATE TABLE IF NOT EXISTS facilities (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	type ENUM('Kubo','Cabana','Room','Hall','House') NOT NULL,
	capacity INT NOT NULL,
	price DECIMAL(10,2) NOT NULL,
	status ENUM('available','occupied','maintenance') NOT NULL DEFAULT 'available',
	description TEXT NULL,
	image_url VARCHAR(255) NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
	{"bookings", `
CREATE TABLE IF NOT EXISTS bookings (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	user_id BIGINT NOT NULL,
	facility_id BIGINT NOT NULL,
	check_in DATE NOT NULL,
	check_out DATE NOT NULL,
	guests INT NOT NULL DEFAULT 1,
	contact_phone VARCHAR(50) NULL,
	notes TEXT NULL,
	total DECIMAL(10,2) NOT NULL DEFAULT 0,
	status ENUM('pending','confirmed','completed','cancelled') NOT NULL DEFAULT 'pending',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	KEY idx_user (user_id),
	KEY idx_facility_range (facility_id, status, check_in, check_out),
	KEY idx_created (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
	{"messages", `
CREATE TABLE IF NOT EXISTS messages (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	sender_id BIGINT NOT NULL,
	recipient_id BIGINT NOT NULL,
	content TEXT NOT NULL,
	is_read TINYINT(1) NOT NULL DEFAULT 0,
	created_at TIMESTAMP(3) DEFAULT CURRENT_TIMESTAMP(3),
	KEY idx_pair (sender_id, recipient_id),
	KEY idx_unread (recipient_id, sender_id, is_read)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
}

// EnsureSchema creates missing tables and backfills columns added after the
// first deployment.
func EnsureSchema(ctx context.Context, conn *sql.DB) error {
	if conn == nil {
		return fmt.Errorf("db not available")
	}
	for _, t := range tables {
		if HasTable(ctx, conn, t.name) {
			continue
		}
		if _, err := conn.ExecContext(ctx, t.ddl); err != nil {
			return fmt.Errorf("create %s: %w", t.name, err)
		}
		utils.Logger.WithField("table", t.name).Info("created table")
	}

	if !HasColumn(ctx, conn, "users", "profile_picture") {
		if _, err := conn.ExecContext(ctx, `ALTER TABLE users ADD COLUMN profile_picture VARCHAR(255) NULL AFTER password_hash`); err != nil {
			return fmt.Errorf("add users.profile_picture: %w", err)
		}
		utils.Logger.Info("added users.profile_picture column")
	}
	return nil
}
