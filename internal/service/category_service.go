package service

import (
	"github.com/nmanzi/partsdb/internal/entity"
	"github.com/nmanzi/partsdb/internal/repository"
)

type CategoryService struct {
	categories *repository.CategoryRepository
}

func NewCategoryService(categories *repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// CategoryCreateRequest 创建分类
type CategoryCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s *CategoryService) List(offset, limit int) ([]entity.Category, error) {
	return s.categories.List(offset, limit)
}

func (s *CategoryService) Get(id uint) (*entity.Category, error) {
	cat, err := s.categories.GetWithParts(id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, &NotFoundError{Resource: "category", Key: id}
	}
	return cat, nil
}

func (s *CategoryService) Create(req CategoryCreateRequest) (*entity.Category, error) {
	existing, err := s.categories.GetByName(req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &ConflictError{Resource: "category", Field: "name", Value: req.Name}
	}
	cat := &entity.Category{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.categories.Create(cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *CategoryService) Update(id uint, patch entity.CategoryPatch) (*entity.Category, error) {
	if patch.Name != nil {
		existing, err := s.categories.GetByName(*patch.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, &ConflictError{Resource: "category", Field: "name", Value: *patch.Name}
		}
	}
	cat, err := s.categories.Update(id, patch)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, &NotFoundError{Resource: "category", Key: id}
	}
	return cat, nil
}

// Delete rejects when the category is still attached to parts, same policy
// as bins.
func (s *CategoryService) Delete(id uint) (*entity.Category, error) {
	count, err := s.categories.CountParts(id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &ReferencedError{Resource: "category", ID: id, Count: count}
	}
	cat, err := s.categories.Delete(id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, &NotFoundError{Resource: "category", Key: id}
	}
	return cat, nil
}
