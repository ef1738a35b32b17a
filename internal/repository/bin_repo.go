package repository

import (
	"errors"

	"github.com/nmanzi/partsdb/internal/entity"
	"gorm.io/gorm"
)

type BinRepository struct {
	db *gorm.DB
}

func NewBinRepository(db *gorm.DB) *BinRepository {
	return &BinRepository{db: db}
}

// GetByID returns nil, nil when the bin does not exist; absence is a valid
// result, not an error.
func (r *BinRepository) GetByID(id uint) (*entity.Bin, error) {
	var bin entity.Bin
	err := r.db.First(&bin, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bin, nil
}

// GetByNumber looks a bin up by its natural key.
func (r *BinRepository) GetByNumber(number int) (*entity.Bin, error) {
	var bin entity.Bin
	err := r.db.Where("number = ?", number).First(&bin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bin, nil
}

// GetWithParts hydrates the bin's parts, each with its categories.
func (r *BinRepository) GetWithParts(id uint) (*entity.Bin, error) {
	var bin entity.Bin
	err := r.db.Preload("Parts").Preload("Parts.Categories", categoryOrder).
		First(&bin, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bin, nil
}

func (r *BinRepository) List(offset, limit int) ([]entity.Bin, error) {
	var bins []entity.Bin
	err := r.db.Order("id ASC").Offset(offset).Limit(limit).Find(&bins).Error
	return bins, err
}

// ListWithCounts aggregates the part count per bin, ordered by bin number.
func (r *BinRepository) ListWithCounts(offset, limit int) ([]entity.BinWithCount, error) {
	var bins []entity.Bin
	err := r.db.Order("number ASC").Offset(offset).Limit(limit).Find(&bins).Error
	if err != nil {
		return nil, err
	}

	var counts []struct {
		BinID uint
		N     int64
	}
	err = r.db.Model(&entity.Part{}).
		Select("bin_id AS bin_id, COUNT(*) AS n").
		Group("bin_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	byBin := make(map[uint]int64, len(counts))
	for _, c := range counts {
		byBin[c.BinID] = c.N
	}

	rows := make([]entity.BinWithCount, len(bins))
	for i, bin := range bins {
		rows[i] = entity.BinWithCount{Bin: bin, PartCount: byBin[bin.ID]}
	}
	return rows, nil
}

func (r *BinRepository) Create(bin *entity.Bin) error {
	return r.db.Create(bin).Error
}

// Update applies only the fields present in the patch. Returns nil, nil when
// the id does not resolve.
func (r *BinRepository) Update(id uint, patch entity.BinPatch) (*entity.Bin, error) {
	bin, err := r.GetByID(id)
	if err != nil || bin == nil {
		return nil, err
	}
	if patch.Name != nil {
		bin.Name = *patch.Name
	}
	if patch.Description != nil {
		bin.Description = *patch.Description
	}
	if patch.Location != nil {
		bin.Location = *patch.Location
	}
	if err := r.db.Save(bin).Error; err != nil {
		return nil, err
	}
	return bin, nil
}

func (r *BinRepository) Delete(id uint) (*entity.Bin, error) {
	bin, err := r.GetByID(id)
	if err != nil || bin == nil {
		return nil, err
	}
	if err := r.db.Delete(bin).Error; err != nil {
		return nil, err
	}
	return bin, nil
}

// CountParts reports how many parts reference the bin.
func (r *BinRepository) CountParts(id uint) (int64, error) {
	var n int64
	err := r.db.Model(&entity.Part{}).Where("bin_id = ?", id).Count(&n).Error
	return n, err
}
