package tenant

import "gorm.io/gorm"

// Scope restricts a query to one tenant. Every repository read and write in
// this service goes through an explicit company_id, resolved once per request
// by the auth middleware and passed down as a parameter; nothing caches a
// tenant globally.
func Scope(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}
