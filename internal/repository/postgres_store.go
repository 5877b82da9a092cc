package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"galpe/internal/domain"
	"galpe/internal/metrics"
)

// PostgresStoreImpl implements the RecordStore interface on a user_records table
type PostgresStoreImpl struct {
	db *pgxpool.Pool
	mu sync.Mutex
}

// NewPostgresStore creates a new PostgreSQL-backed RecordStore
func NewPostgresStore(db *pgxpool.Pool) domain.RecordStore {
	return &PostgresStoreImpl{db: db}
}

// GetAll retrieves all user records
func (r *PostgresStoreImpl) GetAll(ctx context.Context) ([]*domain.UserRecord, error) {
	query := `
		SELECT id, name, email, password, assets, created_at
		FROM user_records
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query user records: %w: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	records := []*domain.UserRecord{}
	for rows.Next() {
		record := &domain.UserRecord{}
		var assets []byte
		err := rows.Scan(
			&record.ID,
			&record.Name,
			&record.Email,
			&record.Password,
			&assets,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user record: %w: %v", domain.ErrStoreUnavailable, err)
		}

		if err := json.Unmarshal(assets, &record.Assets); err != nil {
			return nil, fmt.Errorf("failed to decode assets of %s: %w: %v", record.ID, domain.ErrStoreUnavailable, err)
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user records: %w: %v", domain.ErrStoreUnavailable, err)
	}
	if err := domain.CheckRecords(records); err != nil {
		return nil, fmt.Errorf("invalid user records: %w", err)
	}

	return records, nil
}

// SaveAll replaces every row with records inside one transaction
func (r *PostgresStoreImpl) SaveAll(ctx context.Context, records []*domain.UserRecord) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	defer func() {
		metrics.RecordStoreSave("postgres", err == nil, time.Since(start))
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// no-op once committed
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err = tx.Exec(ctx, `DELETE FROM user_records`); err != nil {
		return fmt.Errorf("failed to clear user records: %w", err)
	}

	insert := `
		INSERT INTO user_records (id, name, email, password, assets, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	batch := &pgx.Batch{}
	for _, record := range records {
		assets, mErr := json.Marshal(record.Assets)
		if mErr != nil {
			return fmt.Errorf("failed to encode assets of %s: %w", record.ID, mErr)
		}
		batch.Queue(insert,
			record.ID,
			record.Name,
			record.Email,
			record.Password,
			assets,
			record.CreatedAt,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range records {
		if _, err = br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("failed to insert user record: %w", err)
		}
	}
	if err = br.Close(); err != nil {
		return fmt.Errorf("failed to close insert batch: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit user records: %w", err)
	}

	return nil
}
