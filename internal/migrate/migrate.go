// Package migrate runs the versioned schema migrations for deployments that
// predate the junction-table shape. Each migration is an explicit forward
// and backward transform applied inside a single transaction, so readers see
// the old shape or the new shape and nothing in between.
package migrate

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Migration struct {
	ID          string
	Description string
	// Lossy marks a Down that discards data. The runner refuses to apply it
	// without explicit confirmation.
	Lossy bool
	Up    func(tx *gorm.DB, logger *zap.Logger) error
	Down  func(tx *gorm.DB, logger *zap.Logger) error
}

// appliedMigration is one row of the runner's bookkeeping table.
type appliedMigration struct {
	ID        string `gorm:"primaryKey;size:64"`
	AppliedAt time.Time
}

func (appliedMigration) TableName() string {
	return "schema_migrations"
}

type Runner struct {
	db         *gorm.DB
	logger     *zap.Logger
	migrations []Migration
}

func NewRunner(db *gorm.DB, logger *zap.Logger) *Runner {
	return &Runner{db: db, logger: logger, migrations: All()}
}

func (r *Runner) ensureTable() error {
	return r.db.AutoMigrate(&appliedMigration{})
}

// Applied returns the ids of applied migrations in application order.
func (r *Runner) Applied() ([]string, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}
	var rows []appliedMigration
	if err := r.db.Order("applied_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	return ids, nil
}

// Up applies every pending migration in registration order.
func (r *Runner) Up() error {
	applied, err := r.Applied()
	if err != nil {
		return err
	}
	done := make(map[string]bool, len(applied))
	for _, id := range applied {
		done[id] = true
	}

	for _, m := range r.migrations {
		if done[m.ID] {
			continue
		}
		r.logger.Info("applying migration",
			zap.String("id", m.ID),
			zap.String("description", m.Description),
		)
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx, r.logger); err != nil {
				return err
			}
			return tx.Create(&appliedMigration{ID: m.ID, AppliedAt: time.Now()}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %s: %w", m.ID, err)
		}
	}
	return nil
}

// Down reverts the most recently applied migration. A lossy migration is
// refused unless force is set; the caller is expected to have shown the
// operator what will be discarded.
func (r *Runner) Down(force bool) error {
	applied, err := r.Applied()
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		return fmt.Errorf("no applied migrations to revert")
	}
	last := applied[len(applied)-1]

	var target *Migration
	for i := range r.migrations {
		if r.migrations[i].ID == last {
			target = &r.migrations[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("applied migration %s is not known to this binary", last)
	}
	if target.Lossy && !force {
		return fmt.Errorf("migration %s downgrade discards data; re-run with --force to confirm", last)
	}

	r.logger.Info("reverting migration",
		zap.String("id", target.ID),
		zap.String("description", target.Description),
		zap.Bool("lossy", target.Lossy),
	)
	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := target.Down(tx, r.logger); err != nil {
			return err
		}
		return tx.Delete(&appliedMigration{}, "id = ?", target.ID).Error
	})
	if err != nil {
		return fmt.Errorf("migration %s down: %w", target.ID, err)
	}
	return nil
}
