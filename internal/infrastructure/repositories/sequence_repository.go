package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sfsc/platform-governance/internal/infrastructure/db"
)

// SequenceRepository stores partition counters in Postgres. Each allocation is a
// single upsert, so the row lock serializes concurrent writers across processes.
type SequenceRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewSequenceRepository(database *db.Database, logger *logrus.Logger) *SequenceRepository {
	return &SequenceRepository{db: database, logger: logger}
}

const (
	incrementSequenceQuery = `
		INSERT INTO product_code_sequences (partition_key, sequence)
		VALUES ($1, $2 + 1)
		ON CONFLICT (partition_key)
		DO UPDATE SET sequence = product_code_sequences.sequence + 1, updated_at = NOW()
		RETURNING sequence`

	currentSequenceQuery = `SELECT sequence FROM product_code_sequences WHERE partition_key = $1`

	setSequenceQuery = `
		INSERT INTO product_code_sequences (partition_key, sequence)
		VALUES ($1, $2)
		ON CONFLICT (partition_key)
		DO UPDATE SET sequence = EXCLUDED.sequence, updated_at = NOW()`
)

func (r *SequenceRepository) Increment(ctx context.Context, partition string, floor int64) (int64, error) {
	var seq int64
	if err := r.db.DB.QueryRowxContext(ctx, incrementSequenceQuery, partition, floor).Scan(&seq); err != nil {
		return 0, fmt.Errorf("increment sequence %s: %w", partition, err)
	}
	return seq, nil
}

func (r *SequenceRepository) Current(ctx context.Context, partition string) (int64, bool, error) {
	var seq int64
	err := r.db.DB.GetContext(ctx, &seq, currentSequenceQuery, partition)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read sequence %s: %w", partition, err)
	}
	return seq, true, nil
}

func (r *SequenceRepository) Set(ctx context.Context, partition string, value int64) error {
	if _, err := r.db.DB.ExecContext(ctx, setSequenceQuery, partition, value); err != nil {
		return fmt.Errorf("set sequence %s: %w", partition, err)
	}
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"partition": partition, "value": value}).Debug("sequence row overwritten")
	}
	return nil
}
