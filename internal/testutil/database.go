package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the MySQL test database samplehub_test on localhost:3306
// and skips the test when it is not reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/samplehub_test?parseTime=true&loc=UTC"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.Ping()
	if err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties every table and closes db.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{
		"notifications", "push_tokens", "orders", "payment_records", "payment_customers",
		"sample_status_history", "sample_requests", "factories", "reps", "brands",
	}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the schema used by the repository tests.
func SetupTestTables(t *testing.T, db *sql.DB) {
	tables := []struct {
		name  string
		query string
	}{
		{"brands", `
		CREATE TABLE IF NOT EXISTS brands (
			id CHAR(36) NOT NULL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255)
		)`},
		{"reps", `
		CREATE TABLE IF NOT EXISTS reps (
			id CHAR(36) NOT NULL PRIMARY KEY,
			user_id CHAR(36) NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255),
			is_active TINYINT(1) NOT NULL DEFAULT 1,
			last_assigned_at DATETIME(6)
		)`},
		{"factories", `
		CREATE TABLE IF NOT EXISTS factories (
			id CHAR(36) NOT NULL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			assigned_rep_ref CHAR(36)
		)`},
		{"sample_requests", `
		CREATE TABLE IF NOT EXISTS sample_requests (
			id CHAR(36) NOT NULL PRIMARY KEY,
			brand_id CHAR(36) NOT NULL,
			factory_id CHAR(36) NOT NULL,
			rep_id CHAR(36) NOT NULL,
			status VARCHAR(32) NOT NULL DEFAULT 'requested',
			product_description TEXT NOT NULL,
			quantity INT NOT NULL,
			preferred_moq INT,
			delivery_address VARCHAR(512) NOT NULL,
			file_urls JSON,
			payment_intent_id VARCHAR(255),
			invoice_amount DECIMAL(12,2),
			invoice_currency CHAR(3),
			invoice_due_date DATE,
			created_at DATETIME(6) NOT NULL,
			updated_at DATETIME(6) NOT NULL,
			INDEX idx_brand (brand_id),
			INDEX idx_rep (rep_id)
		)`},
		{"sample_status_history", `
		CREATE TABLE IF NOT EXISTS sample_status_history (
			id CHAR(36) NOT NULL PRIMARY KEY,
			sample_request_id CHAR(36) NOT NULL,
			seq INT NOT NULL,
			status VARCHAR(32) NOT NULL,
			note TEXT,
			eta DATE,
			tracking_number VARCHAR(255),
			payment_intent_id VARCHAR(255),
			created_at DATETIME(6) NOT NULL,
			UNIQUE KEY uq_sample_seq (sample_request_id, seq)
		)`},
		{"payment_customers", `
		CREATE TABLE IF NOT EXISTS payment_customers (
			brand_id CHAR(36) NOT NULL PRIMARY KEY,
			provider_customer_id VARCHAR(255) NOT NULL,
			created_at DATETIME(6) NOT NULL
		)`},
		{"payment_records", `
		CREATE TABLE IF NOT EXISTS payment_records (
			id CHAR(36) NOT NULL PRIMARY KEY,
			sample_request_id CHAR(36) NOT NULL,
			brand_id CHAR(36) NOT NULL,
			customer_id VARCHAR(255) NOT NULL,
			payment_intent_id VARCHAR(255) NOT NULL UNIQUE,
			amount DECIMAL(12,2) NOT NULL,
			currency CHAR(3) NOT NULL,
			due_date DATE NOT NULL,
			status VARCHAR(16) NOT NULL,
			created_at DATETIME(6) NOT NULL,
			paid_at DATETIME(6),
			INDEX idx_sample (sample_request_id)
		)`},
		{"orders", `
		CREATE TABLE IF NOT EXISTS orders (
			id CHAR(36) NOT NULL PRIMARY KEY,
			sample_request_id CHAR(36) NOT NULL UNIQUE,
			brand_id CHAR(36) NOT NULL,
			factory_id CHAR(36) NOT NULL,
			rep_id CHAR(36) NOT NULL,
			quantity INT NOT NULL,
			status VARCHAR(16) NOT NULL,
			created_at DATETIME(6) NOT NULL
		)`},
		{"notifications", `
		CREATE TABLE IF NOT EXISTS notifications (
			id CHAR(36) NOT NULL PRIMARY KEY,
			user_id CHAR(36) NOT NULL,
			sample_request_id CHAR(36),
			type VARCHAR(32) NOT NULL,
			title VARCHAR(255) NOT NULL,
			body TEXT NOT NULL,
			created_at DATETIME(6) NOT NULL,
			read_at DATETIME(6),
			INDEX idx_user (user_id)
		)`},
		{"push_tokens", `
		CREATE TABLE IF NOT EXISTS push_tokens (
			token VARCHAR(255) NOT NULL PRIMARY KEY,
			user_id CHAR(36) NOT NULL,
			platform VARCHAR(16) NOT NULL,
			created_at DATETIME(6) NOT NULL,
			INDEX idx_user (user_id)
		)`},
	}

	for _, tbl := range tables {
		_, err := db.Exec(tbl.query)
		if err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}
