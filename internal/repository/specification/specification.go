package specification

import "gorm.io/gorm"

// Specification applies a filter or ordering clause to a query.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
