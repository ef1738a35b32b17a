package entity

import "time"

// Part 零件
//
// UpdatedAt is stamped by the repository write path. The junction-table
// schema has no trigger or ORM hook covering association-only changes, so
// relying on gorm's automatic tracking alone would miss category updates.
type Part struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"size:200;not null;index"`
	Description    string    `json:"description,omitempty" gorm:"type:text"`
	Quantity       int       `json:"quantity" gorm:"not null;default:1"`
	PartType       string    `json:"part_type,omitempty" gorm:"size:100"`
	Specifications string    `json:"specifications,omitempty" gorm:"type:text"`
	Manufacturer   string    `json:"manufacturer,omitempty" gorm:"size:100"`
	Model          string    `json:"model,omitempty" gorm:"size:100"`
	BinID          uint      `json:"bin_id" gorm:"not null;index"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Bin        *Bin       `json:"bin,omitempty" gorm:"foreignKey:BinID"`
	Categories []Category `json:"categories,omitempty" gorm:"many2many:part_categories"`
}

func (Part) TableName() string {
	return "parts"
}

// PartPatch carries the mutable part fields; nil means "leave unchanged".
// CategoryIDs, when present, replaces the part's whole category set.
type PartPatch struct {
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	Quantity       *int    `json:"quantity"`
	PartType       *string `json:"part_type"`
	Specifications *string `json:"specifications"`
	Manufacturer   *string `json:"manufacturer"`
	Model          *string `json:"model"`
	BinID          *uint   `json:"bin_id"`
	CategoryIDs    *[]uint `json:"category_ids"`
}
