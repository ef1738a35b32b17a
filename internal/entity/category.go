package entity

import "time"

// Category 分类标签
type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`

	Parts []Part `json:"parts,omitempty" gorm:"many2many:part_categories"`
}

func (Category) TableName() string {
	return "categories"
}

// CategoryPatch carries the mutable category fields; nil means "leave unchanged".
type CategoryPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}
