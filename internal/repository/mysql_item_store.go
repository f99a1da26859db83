package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/guttosm/stock-service/internal/domain/dto"
	"github.com/rs/zerolog/log"
)

const createItemsTable = `
CREATE TABLE IF NOT EXISTS catalog_items (
	code     BIGINT       NOT NULL PRIMARY KEY,
	position INT          NOT NULL,
	name     VARCHAR(255) NOT NULL,
	quantity INT          NOT NULL,
	price    DOUBLE       NOT NULL,
	discount DOUBLE       NOT NULL,
	policy   VARCHAR(16)  NOT NULL DEFAULT 'mutable',
	INDEX idx_catalog_items_position (position)
)`

// OpenMySQL opens a pooled connection for dsn and pings it.
func OpenMySQL(ctx context.Context, dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

// MySQLItemStore stores item records in the catalog_items table.
type MySQLItemStore struct {
	db *sql.DB
}

// NewMySQLItemStore creates a store on db.
func NewMySQLItemStore(db *sql.DB) *MySQLItemStore {
	return &MySQLItemStore{db: db}
}

// EnsureSchema creates the catalog_items table when missing.
func (s *MySQLItemStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, createItemsTable)
	return err
}

// SaveItems replaces the table content with records.
func (s *MySQLItemStore) SaveItems(ctx context.Context, records []dto.ItemRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_items`); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO catalog_items (code, position, name, quantity, price, discount, policy)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for i, rec := range records {
		policy := rec.Policy
		if policy == "" {
			policy = "mutable"
		}
		if _, err := stmt.ExecContext(ctx, rec.Code, i, rec.Name, rec.Quantity, rec.Price, rec.Discount, policy); err != nil {
			return fmt.Errorf("insert item %d: %w", rec.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	log.Debug().Int("records", len(records)).Msg("Saved items to MySQL")
	return nil
}

// LoadItems returns all records ordered by position.
func (s *MySQLItemStore) LoadItems(ctx context.Context) ([]dto.ItemRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, name, quantity, price, discount, policy
		FROM catalog_items ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := []dto.ItemRecord{}
	for rows.Next() {
		var rec dto.ItemRecord
		if err := rows.Scan(&rec.Code, &rec.Name, &rec.Quantity, &rec.Price, &rec.Discount, &rec.Policy); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return records, nil
}
