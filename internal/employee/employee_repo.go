package employee

import (
	"context"

	"go-timeoff/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Directory is the lookup surface the leave workflow consumes. Employee CRUD
// lives in the HR master-data service, not here.
//
//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Directory interface {
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Employee, error)
	ResolveManager(ctx context.Context, companyID, employeeID string) (*uuid.UUID, error)
}

type directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) Directory {
	return &directory{db: db}
}

func (r *directory) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ResolveManager returns the employee's current manager assignment, nil when
// the employee reports to nobody.
func (r *directory) ResolveManager(ctx context.Context, companyID, employeeID string) (*uuid.UUID, error) {
	e, err := r.FindByIDAndCompany(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	return e.ManagerID, nil
}
