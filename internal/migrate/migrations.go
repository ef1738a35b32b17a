package migrate

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// All returns the migration chain in order. 0001 is the original
// single-category schema; 0002 is the junction-table transition.
func All() []Migration {
	return []Migration{
		initialSchema,
		partCategoriesJunction,
	}
}

// initialSchema is the legacy shape: parts carry a nullable category_id
// foreign key, one category per part.
var initialSchema = Migration{
	ID:          "0001_initial_schema",
	Description: "bins, categories and single-category parts",
	Up: func(tx *gorm.DB, _ *zap.Logger) error {
		stmts := []string{
			`CREATE TABLE bins (
				id INTEGER NOT NULL,
				number INTEGER NOT NULL,
				name VARCHAR(100),
				description TEXT,
				location VARCHAR(200),
				created_at DATETIME NOT NULL,
				PRIMARY KEY (id)
			)`,
			`CREATE UNIQUE INDEX idx_bins_number ON bins (number)`,
			`CREATE TABLE categories (
				id INTEGER NOT NULL,
				name VARCHAR(100) NOT NULL,
				description TEXT,
				created_at DATETIME NOT NULL,
				PRIMARY KEY (id)
			)`,
			`CREATE UNIQUE INDEX idx_categories_name ON categories (name)`,
			`CREATE TABLE parts (
				id INTEGER NOT NULL,
				name VARCHAR(200) NOT NULL,
				description TEXT,
				quantity INTEGER NOT NULL DEFAULT 1,
				part_type VARCHAR(100),
				specifications TEXT,
				manufacturer VARCHAR(100),
				model VARCHAR(100),
				bin_id INTEGER NOT NULL,
				category_id INTEGER,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL,
				PRIMARY KEY (id),
				FOREIGN KEY (bin_id) REFERENCES bins (id),
				FOREIGN KEY (category_id) REFERENCES categories (id)
			)`,
			`CREATE INDEX idx_parts_name ON parts (name)`,
		}
		for _, stmt := range stmts {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return nil
	},
	Down: func(tx *gorm.DB, _ *zap.Logger) error {
		for _, stmt := range []string{
			`DROP TABLE parts`,
			`DROP TABLE categories`,
			`DROP TABLE bins`,
		} {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return nil
	},
}

// partCategoriesJunction moves from one category per part to a many-to-many
// junction. Up is lossless. Down collapses each part's set to its smallest
// category id and discards the rest, so it is flagged Lossy and the runner
// demands confirmation before applying it.
//
// Both directions rebuild parts as a shadow table and swap it in, because
// SQLite cannot drop or re-add a foreign-key column in place. The whole
// sequence runs inside the runner's transaction: build new shape, bulk-copy
// the untouched columns, apply the relationship transform, rename over the
// old table, recreate indexes.
var partCategoriesJunction = Migration{
	ID:          "0002_part_categories_junction",
	Description: "convert categories to many-to-many relationship",
	Lossy:       true,
	Up: func(tx *gorm.DB, logger *zap.Logger) error {
		stmts := []string{
			`CREATE TABLE part_categories (
				part_id INTEGER NOT NULL,
				category_id INTEGER NOT NULL,
				PRIMARY KEY (part_id, category_id),
				FOREIGN KEY (part_id) REFERENCES parts (id),
				FOREIGN KEY (category_id) REFERENCES categories (id)
			)`,

			// Lossless: one junction row per legacy assignment.
			`INSERT INTO part_categories (part_id, category_id)
				SELECT id, category_id FROM parts WHERE category_id IS NOT NULL`,

			`CREATE TABLE parts_new (
				id INTEGER NOT NULL,
				name VARCHAR(200) NOT NULL,
				description TEXT,
				quantity INTEGER NOT NULL DEFAULT 1,
				part_type VARCHAR(100),
				specifications TEXT,
				manufacturer VARCHAR(100),
				model VARCHAR(100),
				bin_id INTEGER NOT NULL,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL,
				PRIMARY KEY (id),
				FOREIGN KEY (bin_id) REFERENCES bins (id)
			)`,
			`INSERT INTO parts_new (id, name, description, quantity, part_type,
				specifications, manufacturer, model, bin_id, created_at, updated_at)
				SELECT id, name, description, quantity, part_type,
					specifications, manufacturer, model, bin_id, created_at, updated_at
				FROM parts`,
			`DROP TABLE parts`,
			`ALTER TABLE parts_new RENAME TO parts`,
			`CREATE INDEX idx_parts_name ON parts (name)`,
		}
		for _, stmt := range stmts {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}

		var migrated int64
		if err := tx.Table("part_categories").Count(&migrated).Error; err != nil {
			return err
		}
		logger.Info("migrated category assignments to junction table",
			zap.Int64("assignments", migrated))
		return nil
	},
	Down: func(tx *gorm.DB, logger *zap.Logger) error {
		// Surface the data loss before it happens: every part with more than
		// one category keeps only the numerically smallest category id.
		var losing int64
		err := tx.Raw(`SELECT COUNT(*) FROM (
			SELECT part_id FROM part_categories GROUP BY part_id HAVING COUNT(*) > 1
		) multi`).Scan(&losing).Error
		if err != nil {
			return err
		}
		if losing > 0 {
			logger.Warn("downgrade is lossy: parts with multiple categories keep only the smallest category id",
				zap.Int64("parts_losing_categories", losing))
		}

		stmts := []string{
			`CREATE TABLE parts_new (
				id INTEGER NOT NULL,
				name VARCHAR(200) NOT NULL,
				description TEXT,
				quantity INTEGER NOT NULL DEFAULT 1,
				part_type VARCHAR(100),
				specifications TEXT,
				manufacturer VARCHAR(100),
				model VARCHAR(100),
				bin_id INTEGER NOT NULL,
				category_id INTEGER,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL,
				PRIMARY KEY (id),
				FOREIGN KEY (bin_id) REFERENCES bins (id),
				FOREIGN KEY (category_id) REFERENCES categories (id)
			)`,
			`INSERT INTO parts_new (id, name, description, quantity, part_type,
				specifications, manufacturer, model, bin_id, created_at, updated_at)
				SELECT id, name, description, quantity, part_type,
					specifications, manufacturer, model, bin_id, created_at, updated_at
				FROM parts`,

			// Collapse: smallest category id wins.
			`UPDATE parts_new SET category_id = (
				SELECT MIN(category_id) FROM part_categories
				WHERE part_categories.part_id = parts_new.id
			)`,

			`DROP TABLE parts`,
			`ALTER TABLE parts_new RENAME TO parts`,
			`CREATE INDEX idx_parts_name ON parts (name)`,
			`DROP TABLE part_categories`,
		}
		for _, stmt := range stmts {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return nil
	},
}
