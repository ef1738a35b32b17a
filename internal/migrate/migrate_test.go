package migrate

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nmanzi/partsdb/internal/testutil"
)

// legacyFixture applies 0001 and seeds the single-category shape: three
// parts, two of which carry a legacy category assignment.
func legacyFixture(t *testing.T) (*gorm.DB, *Runner) {
	t.Helper()
	db := testutil.SetupBareDB(t)
	runner := &Runner{db: db, logger: testutil.Logger(), migrations: []Migration{initialSchema}}
	require.NoError(t, runner.Up())

	stmts := []string{
		`INSERT INTO bins (id, number, created_at) VALUES (1, 10, '2026-01-01 00:00:00')`,
		`INSERT INTO categories (id, name, created_at) VALUES (1, 'Cables', '2026-01-01 00:00:00')`,
		`INSERT INTO categories (id, name, created_at) VALUES (2, 'Electronics', '2026-01-01 00:00:00')`,
		`INSERT INTO parts (id, name, quantity, bin_id, category_id, created_at, updated_at)
			VALUES (1, 'hdmi cable', 1, 1, 1, '2026-01-01 00:00:00', '2026-01-01 00:00:00')`,
		`INSERT INTO parts (id, name, quantity, bin_id, category_id, created_at, updated_at)
			VALUES (2, 'bare widget', 1, 1, NULL, '2026-01-01 00:00:00', '2026-01-01 00:00:00')`,
		`INSERT INTO parts (id, name, quantity, bin_id, category_id, created_at, updated_at)
			VALUES (3, 'adapter', 2, 1, 2, '2026-01-01 00:00:00', '2026-01-01 00:00:00')`,
	}
	for _, stmt := range stmts {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db, &Runner{db: db, logger: testutil.Logger(), migrations: All()}
}

func tableExists(t *testing.T, db *gorm.DB, name string) bool {
	t.Helper()
	var n int64
	err := db.Raw(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n).Error
	require.NoError(t, err)
	return n > 0
}

func columnExists(t *testing.T, db *gorm.DB, table, column string) bool {
	t.Helper()
	var n int64
	err := db.Raw(`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column).Scan(&n).Error
	require.NoError(t, err)
	return n > 0
}

func TestUpgradeMovesAssignmentsLosslessly(t *testing.T) {
	db, runner := legacyFixture(t)

	require.NoError(t, runner.Up())

	require.True(t, tableExists(t, db, "part_categories"))
	assert.False(t, columnExists(t, db, "parts", "category_id"))

	var rows []struct {
		PartID     uint
		CategoryID uint
	}
	require.NoError(t, db.Table("part_categories").Order("part_id ASC").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, uint(1), rows[0].PartID)
	assert.Equal(t, uint(1), rows[0].CategoryID)
	assert.Equal(t, uint(3), rows[1].PartID)
	assert.Equal(t, uint(2), rows[1].CategoryID)

	// Every untouched column survived the shadow-table copy.
	var part struct {
		Name     string
		Quantity int
		BinID    uint
	}
	require.NoError(t, db.Table("parts").Where("id = 3").Take(&part).Error)
	assert.Equal(t, "adapter", part.Name)
	assert.Equal(t, 2, part.Quantity)
	assert.Equal(t, uint(1), part.BinID)

	var total int64
	require.NoError(t, db.Table("parts").Count(&total).Error)
	assert.Equal(t, int64(3), total)
}

func TestUpgradeIsIdempotent(t *testing.T) {
	_, runner := legacyFixture(t)
	require.NoError(t, runner.Up())
	// A second run has nothing pending and must not fail.
	require.NoError(t, runner.Up())
}

func TestDowngradeRequiresForceWhenLossy(t *testing.T) {
	_, runner := legacyFixture(t)
	require.NoError(t, runner.Up())

	err := runner.Down(false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")
}

func TestDowngradePicksSmallestCategoryID(t *testing.T) {
	db, runner := legacyFixture(t)
	require.NoError(t, runner.Up())

	// Give part 1 a second category so the downgrade has something to lose.
	require.NoError(t, db.Exec(`INSERT INTO part_categories (part_id, category_id) VALUES (1, 2)`).Error)

	require.NoError(t, runner.Down(true))

	require.False(t, tableExists(t, db, "part_categories"))
	require.True(t, columnExists(t, db, "parts", "category_id"))

	categoryID := func(partID uint) sql.NullInt64 {
		var v sql.NullInt64
		require.NoError(t, db.Raw(`SELECT category_id FROM parts WHERE id = ?`, partID).Scan(&v).Error)
		return v
	}

	one := categoryID(1)
	require.True(t, one.Valid)
	assert.Equal(t, int64(1), one.Int64, "smallest category id wins the collapse")

	assert.False(t, categoryID(2).Valid)

	three := categoryID(3)
	require.True(t, three.Valid)
	assert.Equal(t, int64(2), three.Int64)
}

func TestRoundTripUpDownUp(t *testing.T) {
	db, runner := legacyFixture(t)

	require.NoError(t, runner.Up())
	require.NoError(t, runner.Down(true))
	require.NoError(t, runner.Up())

	var rows int64
	require.NoError(t, db.Table("part_categories").Count(&rows).Error)
	assert.Equal(t, int64(2), rows, "single-category assignments survive a full cycle")
}
