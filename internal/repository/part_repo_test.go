package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmanzi/partsdb/internal/entity"
	"github.com/nmanzi/partsdb/internal/testutil"
)

func setupPartRepos(t *testing.T) (*BinRepository, *CategoryRepository, *PartRepository) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewBinRepository(db), NewCategoryRepository(db), NewPartRepository(db)
}

func seedBin(t *testing.T, bins *BinRepository, number int) *entity.Bin {
	t.Helper()
	bin := &entity.Bin{Number: number}
	require.NoError(t, bins.Create(bin))
	return bin
}

func seedCategory(t *testing.T, cats *CategoryRepository, name string) *entity.Category {
	t.Helper()
	cat := &entity.Category{Name: name}
	require.NoError(t, cats.Create(cat))
	return cat
}

func TestPartSearchANDAcrossWords(t *testing.T) {
	bins, _, parts := setupPartRepos(t)
	bin := seedBin(t, bins, 1)

	require.NoError(t, parts.Create(&entity.Part{Name: "USB-C power supply", Quantity: 1, BinID: bin.ID}))
	require.NoError(t, parts.Create(&entity.Part{Name: "Ethernet cable", Quantity: 1, BinID: bin.ID}))

	matches, err := parts.Search([]string{"usb", "power"}, false, 0, 100)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "USB-C power supply", matches[0].Name)

	matches, err = parts.Search([]string{"usb", "ethernet"}, false, 0, 100)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestPartSearchORAcrossFields(t *testing.T) {
	bins, _, parts := setupPartRepos(t)
	bin := seedBin(t, bins, 1)

	require.NoError(t, parts.Create(&entity.Part{
		Name: "Adapter", Manufacturer: "Anker", Quantity: 1, BinID: bin.ID,
	}))
	require.NoError(t, parts.Create(&entity.Part{
		Name: "Anker cable", Quantity: 1, BinID: bin.ID,
	}))

	// One token hitting different fields on different parts matches both.
	matches, err := parts.Search([]string{"anker"}, false, 0, 100)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestPartSearchDescriptionFlag(t *testing.T) {
	bins, _, parts := setupPartRepos(t)
	bin := seedBin(t, bins, 1)

	require.NoError(t, parts.Create(&entity.Part{
		Name: "Mystery item", Description: "vintage oscilloscope probe", Quantity: 1, BinID: bin.ID,
	}))

	matches, err := parts.Search([]string{"oscilloscope"}, false, 0, 100)
	require.NoError(t, err)
	assert.Empty(t, matches)

	matches, err = parts.Search([]string{"oscilloscope"}, true, 0, 100)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestPartSearchDeterministicOrder(t *testing.T) {
	bins, _, parts := setupPartRepos(t)
	bin := seedBin(t, bins, 1)

	for _, name := range []string{"usb hub", "usb cable", "usb drive"} {
		require.NoError(t, parts.Create(&entity.Part{Name: name, Quantity: 1, BinID: bin.ID}))
	}

	first, err := parts.Search([]string{"usb"}, false, 0, 100)
	require.NoError(t, err)
	second, err := parts.Search([]string{"usb"}, false, 0, 100)
	require.NoError(t, err)

	require.Len(t, first, 3)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
	// Primary key ascending.
	assert.Less(t, first[0].ID, first[1].ID)
	assert.Less(t, first[1].ID, first[2].ID)
}

func TestPartListFilters(t *testing.T) {
	bins, cats, parts := setupPartRepos(t)
	b1 := seedBin(t, bins, 1)
	b2 := seedBin(t, bins, 2)
	cables := seedCategory(t, cats, "Cables")
	power := seedCategory(t, cats, "Power")

	p1 := &entity.Part{Name: "hdmi", Quantity: 1, BinID: b1.ID}
	p2 := &entity.Part{Name: "psu", Quantity: 1, BinID: b2.ID}
	require.NoError(t, parts.Create(p1))
	require.NoError(t, parts.Create(p2))
	require.NoError(t, parts.AppendCategories(p1.ID, []entity.Category{*cables}))
	require.NoError(t, parts.AppendCategories(p2.ID, []entity.Category{*cables, *power}))

	byBin, err := parts.List(PartListParams{BinID: b1.ID, Limit: 100})
	require.NoError(t, err)
	require.Len(t, byBin, 1)
	assert.Equal(t, "hdmi", byBin[0].Name)

	byCat, err := parts.List(PartListParams{CategoryIDs: []uint{cables.ID}, Limit: 100})
	require.NoError(t, err)
	assert.Len(t, byCat, 2)

	// A part in several requested categories still appears once.
	multi, err := parts.List(PartListParams{CategoryIDs: []uint{cables.ID, power.ID}, Limit: 100})
	require.NoError(t, err)
	assert.Len(t, multi, 2)
}

func TestPartReplaceCategoriesAndOrder(t *testing.T) {
	bins, cats, parts := setupPartRepos(t)
	bin := seedBin(t, bins, 1)
	c1 := seedCategory(t, cats, "Cables")
	c2 := seedCategory(t, cats, "Electronics")
	c3 := seedCategory(t, cats, "Adapters")

	part := &entity.Part{Name: "adapter", Quantity: 1, BinID: bin.ID}
	require.NoError(t, parts.Create(part))
	require.NoError(t, parts.AppendCategories(part.ID, []entity.Category{*c3}))

	require.NoError(t, parts.ReplaceCategories(part.ID, []entity.Category{*c2, *c1}))

	got, err := parts.CategoriesOf(part.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Ordered by category id regardless of input order.
	assert.Equal(t, c1.ID, got[0].ID)
	assert.Equal(t, c2.ID, got[1].ID)

	// Replace with empty clears.
	require.NoError(t, parts.ReplaceCategories(part.ID, nil))
	got, err = parts.CategoriesOf(part.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPartUpdateStampsUpdatedAt(t *testing.T) {
	bins, _, parts := setupPartRepos(t)
	bin := seedBin(t, bins, 1)

	part := &entity.Part{Name: "widget", Quantity: 1, BinID: bin.ID}
	require.NoError(t, parts.Create(part))
	before := part.UpdatedAt

	time.Sleep(10 * time.Millisecond)
	qty := 5
	updated, err := parts.Update(part.ID, entity.PartPatch{Quantity: &qty})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 5, updated.Quantity)
	assert.True(t, updated.UpdatedAt.After(before), "updated_at must advance on every update")
}

func TestPartAssociationChangeStampsUpdatedAt(t *testing.T) {
	bins, cats, parts := setupPartRepos(t)
	bin := seedBin(t, bins, 1)
	cat := seedCategory(t, cats, "Cables")

	part := &entity.Part{Name: "widget", Quantity: 1, BinID: bin.ID}
	require.NoError(t, parts.Create(part))
	before := part.UpdatedAt

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, parts.ReplaceCategories(part.ID, []entity.Category{*cat}))

	reloaded, err := parts.GetByID(part.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.UpdatedAt.After(before), "association writes must stamp updated_at")
}

func TestPartDeleteRemovesJunctionRows(t *testing.T) {
	bins, cats, parts := setupPartRepos(t)
	bin := seedBin(t, bins, 1)
	cat := seedCategory(t, cats, "Cables")

	part := &entity.Part{Name: "widget", Quantity: 1, BinID: bin.ID}
	require.NoError(t, parts.Create(part))
	require.NoError(t, parts.AppendCategories(part.ID, []entity.Category{*cat}))

	deleted, err := parts.Delete(part.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)

	orphans, err := parts.CategoriesOf(part.ID)
	require.NoError(t, err)
	assert.Empty(t, orphans)

	// The category itself survives; only the association goes.
	still, err := cats.GetByID(cat.ID)
	require.NoError(t, err)
	assert.NotNil(t, still)
}
