package repository

import "gorm.io/gorm"

// Repositories 仓库集合
type Repositories struct {
	Bin      *BinRepository
	Category *CategoryRepository
	Part     *PartRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Bin:      NewBinRepository(db),
		Category: NewCategoryRepository(db),
		Part:     NewPartRepository(db),
	}
}
