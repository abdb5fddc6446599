package balance

import (
	"context"

	"go-timeoff/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	// CreateIfAbsent inserts the row unless one already exists for the same
	// owner columns; it reports whether the insert happened.
	CreateIfAbsent(ctx context.Context, b *LeaveBalance) (bool, error)
	Save(ctx context.Context, b *LeaveBalance) error
	Find(ctx context.Context, companyID, employeeID, periodID, typeConfigID string) (*LeaveBalance, error)
	// FindForUpdate takes a row lock; only valid inside a transaction.
	FindForUpdate(ctx context.Context, companyID, employeeID, periodID, typeConfigID string) (*LeaveBalance, error)
	ListByEmployee(ctx context.Context, companyID, employeeID, periodID string) ([]LeaveBalance, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) CreateIfAbsent(ctx context.Context, b *LeaveBalance) (bool, error) {
	// ON CONFLICT DO NOTHING instead of a plain insert: a unique violation
	// would abort the enclosing transaction, leaving no way to re-read the
	// winner's row.
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(b)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) Save(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *repository) Find(ctx context.Context, companyID, employeeID, periodID, typeConfigID string) (*LeaveBalance, error) {
	return r.find(ctx, r.db, companyID, employeeID, periodID, typeConfigID)
}

func (r *repository) FindForUpdate(ctx context.Context, companyID, employeeID, periodID, typeConfigID string) (*LeaveBalance, error) {
	db := r.db.Clauses(clause.Locking{Strength: "UPDATE"})
	return r.find(ctx, db, companyID, employeeID, periodID, typeConfigID)
}

func (r *repository) find(ctx context.Context, db *gorm.DB, companyID, employeeID, periodID, typeConfigID string) (*LeaveBalance, error) {
	var b LeaveBalance
	err := db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("leave_period_id = ?", periodID).
		Where("leave_type_config_id = ?", typeConfigID).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) ListByEmployee(ctx context.Context, companyID, employeeID, periodID string) ([]LeaveBalance, error) {
	db := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID)

	if periodID != "" {
		db = db.Where("leave_period_id = ?", periodID)
	}

	var balances []LeaveBalance
	err := db.Order("leave_type_config_id ASC").Find(&balances).Error
	return balances, err
}
