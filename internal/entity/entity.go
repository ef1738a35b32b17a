package entity

import "gorm.io/gorm"

// AutoMigrate 自动迁移所有表
//
// Fresh installs get the current many-to-many shape directly. Deployments
// upgrading from the single-category schema run cmd/migrate instead, which
// performs the shadow-table transition (see internal/migrate).
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Bin{},
		&Category{},
		&Part{},
	)
}
