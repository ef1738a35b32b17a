package service

import (
	"github.com/nmanzi/partsdb/internal/entity"
	"github.com/nmanzi/partsdb/internal/repository"
)

// PartService owns part CRUD and the part↔category relationship: an
// externally supplied id set becomes junction membership, validated before
// any write so a bad set never commits partially.
type PartService struct {
	parts      *repository.PartRepository
	bins       *repository.BinRepository
	categories *repository.CategoryRepository
}

func NewPartService(parts *repository.PartRepository, bins *repository.BinRepository, categories *repository.CategoryRepository) *PartService {
	return &PartService{parts: parts, bins: bins, categories: categories}
}

// PartCreateRequest 创建零件
type PartCreateRequest struct {
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description"`
	Quantity       int    `json:"quantity"`
	PartType       string `json:"part_type"`
	Specifications string `json:"specifications"`
	Manufacturer   string `json:"manufacturer"`
	Model          string `json:"model"`
	BinID          uint   `json:"bin_id" binding:"required"`
	CategoryIDs    []uint `json:"category_ids"`
}

func (s *PartService) List(params repository.PartListParams) ([]entity.Part, error) {
	return s.parts.List(params)
}

func (s *PartService) Get(id uint) (*entity.Part, error) {
	part, err := s.parts.GetByID(id)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, &NotFoundError{Resource: "part", Key: id}
	}
	return part, nil
}

func (s *PartService) Create(req PartCreateRequest) (*entity.Part, error) {
	bin, err := s.bins.GetByID(req.BinID)
	if err != nil {
		return nil, err
	}
	if bin == nil {
		return nil, &ReferentialError{Resource: "bin", ID: req.BinID}
	}
	cats, err := s.resolveCategories(req.CategoryIDs)
	if err != nil {
		return nil, err
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	part := &entity.Part{
		Name:           req.Name,
		Description:    req.Description,
		Quantity:       quantity,
		PartType:       req.PartType,
		Specifications: req.Specifications,
		Manufacturer:   req.Manufacturer,
		Model:          req.Model,
		BinID:          req.BinID,
	}
	if err := s.parts.Create(part); err != nil {
		return nil, err
	}
	if len(cats) > 0 {
		if err := s.parts.AppendCategories(part.ID, cats); err != nil {
			return nil, err
		}
	}
	return s.Get(part.ID)
}

func (s *PartService) Update(id uint, patch entity.PartPatch) (*entity.Part, error) {
	if patch.BinID != nil {
		bin, err := s.bins.GetByID(*patch.BinID)
		if err != nil {
			return nil, err
		}
		if bin == nil {
			return nil, &ReferentialError{Resource: "bin", ID: *patch.BinID}
		}
	}
	var cats []entity.Category
	if patch.CategoryIDs != nil {
		var err error
		cats, err = s.resolveCategories(*patch.CategoryIDs)
		if err != nil {
			return nil, err
		}
	}

	part, err := s.parts.Update(id, patch)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, &NotFoundError{Resource: "part", Key: id}
	}
	if patch.CategoryIDs != nil {
		if err := s.parts.ReplaceCategories(id, cats); err != nil {
			return nil, err
		}
	}
	return s.Get(id)
}

func (s *PartService) Delete(id uint) (*entity.Part, error) {
	part, err := s.parts.Delete(id)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, &NotFoundError{Resource: "part", Key: id}
	}
	return part, nil
}

// SetCategories replaces the part's whole category membership. Unknown ids
// reject the request before anything is written; duplicates in the input
// collapse silently.
func (s *PartService) SetCategories(partID uint, categoryIDs []uint) error {
	part, err := s.parts.GetByID(partID)
	if err != nil {
		return err
	}
	if part == nil {
		return &NotFoundError{Resource: "part", Key: partID}
	}
	cats, err := s.resolveCategories(categoryIDs)
	if err != nil {
		return err
	}
	return s.parts.ReplaceCategories(partID, cats)
}

// AddCategories appends to the membership without clearing; the import
// pipeline uses it after creating a part.
func (s *PartService) AddCategories(partID uint, categoryIDs []uint) error {
	part, err := s.parts.GetByID(partID)
	if err != nil {
		return err
	}
	if part == nil {
		return &NotFoundError{Resource: "part", Key: partID}
	}
	cats, err := s.resolveCategories(categoryIDs)
	if err != nil {
		return err
	}
	return s.parts.AppendCategories(partID, cats)
}

// CategoriesOf hydrates the part's category set for reads and export.
func (s *PartService) CategoriesOf(partID uint) ([]entity.Category, error) {
	return s.parts.CategoriesOf(partID)
}

// resolveCategories dedupes the input and verifies every id exists. The
// first missing id fails the whole set.
func (s *PartService) resolveCategories(ids []uint) ([]entity.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	seen := make(map[uint]bool, len(ids))
	unique := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	cats, err := s.categories.GetByIDs(unique)
	if err != nil {
		return nil, err
	}
	if len(cats) != len(unique) {
		found := make(map[uint]bool, len(cats))
		for _, c := range cats {
			found[c.ID] = true
		}
		for _, id := range unique {
			if !found[id] {
				return nil, &ReferentialError{Resource: "category", ID: id}
			}
		}
	}
	return cats, nil
}
