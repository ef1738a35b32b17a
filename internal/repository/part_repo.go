package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nmanzi/partsdb/internal/entity"
	"gorm.io/gorm"
)

type PartRepository struct {
	db *gorm.DB
}

func NewPartRepository(db *gorm.DB) *PartRepository {
	return &PartRepository{db: db}
}

// PartListParams is a plain numeric window plus optional referential filters.
type PartListParams struct {
	BinID       uint
	CategoryIDs []uint
	Offset      int
	Limit       int
}

func (r *PartRepository) GetByID(id uint) (*entity.Part, error) {
	var part entity.Part
	err := r.db.Preload("Bin").Preload("Categories", categoryOrder).
		First(&part, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *PartRepository) List(params PartListParams) ([]entity.Part, error) {
	query := r.db.Model(&entity.Part{})
	if params.BinID != 0 {
		query = query.Where("parts.bin_id = ?", params.BinID)
	}
	if len(params.CategoryIDs) > 0 {
		query = query.
			Joins("JOIN part_categories pc ON pc.part_id = parts.id").
			Where("pc.category_id IN ?", params.CategoryIDs).
			Distinct("parts.*")
	}
	var parts []entity.Part
	err := query.Preload("Bin").Preload("Categories", categoryOrder).
		Order("parts.id ASC").
		Offset(params.Offset).Limit(params.Limit).
		Find(&parts).Error
	return parts, err
}

// searchFields are the columns a search token is matched against. Description
// was dropped from the default set when multi-category search came back.
var searchFields = []string{"name", "part_type", "specifications", "manufacturer", "model"}

// Search applies one OR-across-fields substring predicate per token, tokens
// AND-combined, ordered by primary key so pagination is deterministic. The
// token list arrives pre-split; swapping in an indexed backend only has to
// honor this signature.
func (r *PartRepository) Search(tokens []string, includeDescription bool, offset, limit int) ([]entity.Part, error) {
	fields := searchFields
	if includeDescription {
		fields = append(append([]string{}, searchFields...), "description")
	}

	query := r.db.Model(&entity.Part{})
	for _, tok := range tokens {
		pattern := "%" + strings.ToLower(tok) + "%"
		clauses := make([]string, 0, len(fields))
		args := make([]interface{}, 0, len(fields))
		for _, f := range fields {
			// lower() + LIKE is case-insensitive on both sqlite and postgres,
			// unlike ILIKE which sqlite lacks.
			clauses = append(clauses, fmt.Sprintf("lower(%s) LIKE ?", f))
			args = append(args, pattern)
		}
		query = query.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}

	var parts []entity.Part
	err := query.Preload("Bin").Preload("Categories", categoryOrder).
		Order("parts.id ASC").
		Offset(offset).Limit(limit).
		Find(&parts).Error
	return parts, err
}

func (r *PartRepository) Create(part *entity.Part) error {
	now := time.Now()
	part.CreatedAt = now
	part.UpdatedAt = now
	return r.db.Create(part).Error
}

// Update applies only the fields present in the patch and stamps UpdatedAt.
// Category membership is handled separately via ReplaceCategories. Returns
// nil, nil when the id does not resolve.
func (r *PartRepository) Update(id uint, patch entity.PartPatch) (*entity.Part, error) {
	part, err := r.GetByID(id)
	if err != nil || part == nil {
		return nil, err
	}
	if patch.Name != nil {
		part.Name = *patch.Name
	}
	if patch.Description != nil {
		part.Description = *patch.Description
	}
	if patch.Quantity != nil {
		part.Quantity = *patch.Quantity
	}
	if patch.PartType != nil {
		part.PartType = *patch.PartType
	}
	if patch.Specifications != nil {
		part.Specifications = *patch.Specifications
	}
	if patch.Manufacturer != nil {
		part.Manufacturer = *patch.Manufacturer
	}
	if patch.Model != nil {
		part.Model = *patch.Model
	}
	if patch.BinID != nil {
		part.BinID = *patch.BinID
	}
	part.UpdatedAt = time.Now()
	if err := r.db.Omit("Bin", "Categories").Save(part).Error; err != nil {
		return nil, err
	}
	return part, nil
}

func (r *PartRepository) Delete(id uint) (*entity.Part, error) {
	part, err := r.GetByID(id)
	if err != nil || part == nil {
		return nil, err
	}
	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(part).Association("Categories").Clear(); err != nil {
			return err
		}
		return tx.Delete(&entity.Part{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return part, nil
}

// ReplaceCategories swaps the part's whole junction membership in one
// transaction and stamps UpdatedAt. Callers validate the category set first;
// by the time this runs every id must resolve.
func (r *PartRepository) ReplaceCategories(partID uint, cats []entity.Category) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		part := entity.Part{ID: partID}
		assoc := tx.Model(&part).Association("Categories")
		if len(cats) == 0 {
			if err := assoc.Clear(); err != nil {
				return err
			}
		} else if err := assoc.Replace(toPointers(cats)...); err != nil {
			return err
		}
		return tx.Model(&entity.Part{}).Where("id = ?", partID).
			UpdateColumn("updated_at", time.Now()).Error
	})
}

// AppendCategories adds junction rows without clearing existing membership.
// Duplicate pairs are skipped rather than violating the composite key.
func (r *PartRepository) AppendCategories(partID uint, cats []entity.Category) error {
	if len(cats) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		part := entity.Part{ID: partID}
		if err := tx.Model(&part).Association("Categories").Append(toPointers(cats)...); err != nil {
			return err
		}
		return tx.Model(&entity.Part{}).Where("id = ?", partID).
			UpdateColumn("updated_at", time.Now()).Error
	})
}

// CategoriesOf returns the part's category set ordered by category id.
func (r *PartRepository) CategoriesOf(partID uint) ([]entity.Category, error) {
	var cats []entity.Category
	err := r.db.
		Joins("JOIN part_categories pc ON pc.category_id = categories.id").
		Where("pc.part_id = ?", partID).
		Order("categories.id ASC").
		Find(&cats).Error
	return cats, err
}

func toPointers(cats []entity.Category) []interface{} {
	out := make([]interface{}, len(cats))
	for i := range cats {
		out[i] = &cats[i]
	}
	return out
}
