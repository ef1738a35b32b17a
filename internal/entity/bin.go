package entity

import "time"

// Bin 存储位
type Bin struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Number      int       `json:"number" gorm:"not null;uniqueIndex"`
	Name        string    `json:"name,omitempty" gorm:"size:100"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Location    string    `json:"location,omitempty" gorm:"size:200"`
	CreatedAt   time.Time `json:"created_at"`

	Parts []Part `json:"parts,omitempty" gorm:"foreignKey:BinID"`
}

func (Bin) TableName() string {
	return "bins"
}

// BinPatch carries the mutable bin fields; nil means "leave unchanged".
// Number is immutable once assigned, matching the create contract.
type BinPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
}

// BinWithCount is the aggregated list row for bin overviews.
type BinWithCount struct {
	Bin
	PartCount int64 `json:"part_count"`
}
