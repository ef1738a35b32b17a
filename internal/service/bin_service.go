package service

import (
	"github.com/nmanzi/partsdb/internal/entity"
	"github.com/nmanzi/partsdb/internal/repository"
)

type BinService struct {
	bins *repository.BinRepository
}

func NewBinService(bins *repository.BinRepository) *BinService {
	return &BinService{bins: bins}
}

// BinCreateRequest 创建存储位
type BinCreateRequest struct {
	Number      int    `json:"number" binding:"required,gt=0"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

func (s *BinService) List(offset, limit int) ([]entity.Bin, error) {
	return s.bins.List(offset, limit)
}

func (s *BinService) ListWithCounts(offset, limit int) ([]entity.BinWithCount, error) {
	return s.bins.ListWithCounts(offset, limit)
}

func (s *BinService) Get(id uint) (*entity.Bin, error) {
	bin, err := s.bins.GetWithParts(id)
	if err != nil {
		return nil, err
	}
	if bin == nil {
		return nil, &NotFoundError{Resource: "bin", Key: id}
	}
	return bin, nil
}

func (s *BinService) Create(req BinCreateRequest) (*entity.Bin, error) {
	existing, err := s.bins.GetByNumber(req.Number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &ConflictError{Resource: "bin", Field: "number", Value: req.Number}
	}
	bin := &entity.Bin{
		Number:      req.Number,
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
	}
	if err := s.bins.Create(bin); err != nil {
		return nil, err
	}
	return bin, nil
}

func (s *BinService) Update(id uint, patch entity.BinPatch) (*entity.Bin, error) {
	bin, err := s.bins.Update(id, patch)
	if err != nil {
		return nil, err
	}
	if bin == nil {
		return nil, &NotFoundError{Resource: "bin", Key: id}
	}
	return bin, nil
}

// Delete rejects when parts still reference the bin. The source system had
// no cascade policy at all; reject-if-referenced keeps parts from pointing
// at a vanished location.
func (s *BinService) Delete(id uint) (*entity.Bin, error) {
	count, err := s.bins.CountParts(id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &ReferencedError{Resource: "bin", ID: id, Count: count}
	}
	bin, err := s.bins.Delete(id)
	if err != nil {
		return nil, err
	}
	if bin == nil {
		return nil, &NotFoundError{Resource: "bin", Key: id}
	}
	return bin, nil
}
