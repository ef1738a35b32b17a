package repository

import (
	"errors"

	"github.com/nmanzi/partsdb/internal/entity"
	"gorm.io/gorm"
)

// categoryOrder keeps hydrated category sets in a stable order so exports
// and repeated reads agree.
func categoryOrder(db *gorm.DB) *gorm.DB {
	return db.Order("categories.id ASC")
}

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) GetByID(id uint) (*entity.Category, error) {
	var cat entity.Category
	err := r.db.First(&cat, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// GetByName looks a category up by its natural key.
func (r *CategoryRepository) GetByName(name string) (*entity.Category, error) {
	var cat entity.Category
	err := r.db.Where("name = ?", name).First(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) GetWithParts(id uint) (*entity.Category, error) {
	var cat entity.Category
	err := r.db.Preload("Parts").Preload("Parts.Categories", categoryOrder).
		First(&cat, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// GetByIDs resolves a set of category ids, deduplicated, ordered by id.
func (r *CategoryRepository) GetByIDs(ids []uint) ([]entity.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var cats []entity.Category
	err := r.db.Where("id IN ?", ids).Order("id ASC").Find(&cats).Error
	return cats, err
}

func (r *CategoryRepository) List(offset, limit int) ([]entity.Category, error) {
	var cats []entity.Category
	err := r.db.Order("id ASC").Offset(offset).Limit(limit).Find(&cats).Error
	return cats, err
}

func (r *CategoryRepository) Create(cat *entity.Category) error {
	return r.db.Create(cat).Error
}

func (r *CategoryRepository) Update(id uint, patch entity.CategoryPatch) (*entity.Category, error) {
	cat, err := r.GetByID(id)
	if err != nil || cat == nil {
		return nil, err
	}
	if patch.Name != nil {
		cat.Name = *patch.Name
	}
	if patch.Description != nil {
		cat.Description = *patch.Description
	}
	if err := r.db.Save(cat).Error; err != nil {
		return nil, err
	}
	return cat, nil
}

func (r *CategoryRepository) Delete(id uint) (*entity.Category, error) {
	cat, err := r.GetByID(id)
	if err != nil || cat == nil {
		return nil, err
	}
	if err := r.db.Delete(cat).Error; err != nil {
		return nil, err
	}
	return cat, nil
}

// CountParts reports how many parts the category is attached to.
func (r *CategoryRepository) CountParts(id uint) (int64, error) {
	var n int64
	err := r.db.Table("part_categories").Where("category_id = ?", id).Count(&n).Error
	return n, err
}
