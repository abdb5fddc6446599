package period

import (
	"context"
	"time"

	"go-timeoff/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=period_repo.go -destination=mock/period_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreatePeriod(ctx context.Context, p *LeavePeriod) error
	FindPeriodByIDAndCompany(ctx context.Context, companyID, id string) (*LeavePeriod, error)
	FindActivePeriod(ctx context.Context, companyID string) (*LeavePeriod, error)
	ListPeriodsByCompany(ctx context.Context, companyID string) ([]LeavePeriod, error)
	HasOverlappingPeriod(ctx context.Context, companyID string, startDate, endDate time.Time) (bool, error)

	CreateTypeConfig(ctx context.Context, cfg *LeaveTypeConfig) error
	FindTypeConfigByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveTypeConfig, error)
	ListTypeConfigsByPeriod(ctx context.Context, companyID, periodID string) ([]LeaveTypeConfig, error)
	UpdateTypeConfig(ctx context.Context, cfg *LeaveTypeConfig) error
	TypeConfigExists(ctx context.Context, companyID, periodID, leaveType string) (bool, error)
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

func (r *repository) CreatePeriod(ctx context.Context, p *LeavePeriod) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindPeriodByIDAndCompany(ctx context.Context, companyID, id string) (*LeavePeriod, error) {
	var p LeavePeriod
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindActivePeriod(ctx context.Context, companyID string) (*LeavePeriod, error) {
	var p LeavePeriod
	// More than one active period is tolerated in storage; the most recent
	// one wins the lookup.
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("is_active = ?", true).
		Order("start_date DESC").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) ListPeriodsByCompany(ctx context.Context, companyID string) ([]LeavePeriod, error) {
	var periods []LeavePeriod
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("start_date DESC").
		Find(&periods).Error
	return periods, err
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, companyID string, startDate, endDate time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeavePeriod{}).
		Scopes(tenant.Scope(companyID)).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CreateTypeConfig(ctx context.Context, cfg *LeaveTypeConfig) error {
	return r.db.WithContext(ctx).Create(cfg).Error
}

func (r *repository) FindTypeConfigByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveTypeConfig, error) {
	var cfg LeaveTypeConfig
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&cfg, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *repository) ListTypeConfigsByPeriod(ctx context.Context, companyID, periodID string) ([]LeaveTypeConfig, error) {
	var configs []LeaveTypeConfig
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("leave_period_id = ?", periodID).
		Order("type ASC").
		Find(&configs).Error
	return configs, err
}

func (r *repository) UpdateTypeConfig(ctx context.Context, cfg *LeaveTypeConfig) error {
	return r.db.WithContext(ctx).Save(cfg).Error
}

func (r *repository) TypeConfigExists(ctx context.Context, companyID, periodID, leaveType string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeaveTypeConfig{}).
		Scopes(tenant.Scope(companyID)).
		Where("leave_period_id = ?", periodID).
		Where("type = ?", leaveType).
		Count(&count).Error
	return count > 0, err
}
