package leaverequest

import (
	"context"

	"go-timeoff/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leaverequest_repo.go -destination=mock/leaverequest_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, req *LeaveRequest) error
	Save(ctx context.Context, req *LeaveRequest) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error)
	// FindByIDAndCompanyForUpdate takes a row lock; only valid inside a transaction.
	FindByIDAndCompanyForUpdate(ctx context.Context, companyID, id string) (*LeaveRequest, error)
	ListOpenByEmployee(ctx context.Context, companyID, employeeID string) ([]LeaveRequest, error)
	ListByEmployee(ctx context.Context, companyID, employeeID string, limit, offset int) ([]LeaveRequest, int64, error)
	ListPendingForManager(ctx context.Context, companyID, managerID string) ([]LeaveRequest, error)
	ListPendingForHR(ctx context.Context, companyID string) ([]LeaveRequest, error)

	CreateApproval(ctx context.Context, a *LeaveApproval) error
	ListApprovals(ctx context.Context, companyID, requestID string) ([]LeaveApproval, error)
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

func (r *repository) Create(ctx context.Context, req *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) Save(ctx context.Context, req *LeaveRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error) {
	return r.findByID(ctx, r.db, companyID, id)
}

func (r *repository) FindByIDAndCompanyForUpdate(ctx context.Context, companyID, id string) (*LeaveRequest, error) {
	db := r.db.Clauses(clause.Locking{Strength: "UPDATE"})
	return r.findByID(ctx, db, companyID, id)
}

func (r *repository) findByID(ctx context.Context, db *gorm.DB, companyID, id string) (*LeaveRequest, error) {
	var req LeaveRequest
	err := db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ListOpenByEmployee returns the requests still holding a quota reservation,
// used for the overlap check at submission.
func (r *repository) ListOpenByEmployee(ctx context.Context, companyID, employeeID string) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", nonTerminalStatuses).
		Find(&requests).Error
	return requests, err
}

func (r *repository) ListByEmployee(ctx context.Context, companyID, employeeID string, limit, offset int) ([]LeaveRequest, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []LeaveRequest
	err := base.
		Order("submitted_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&requests).Error
	return requests, total, err
}

// ListPendingForManager returns the PENDING requests of employees reporting
// to the given manager.
func (r *repository) ListPendingForManager(ctx context.Context, companyID, managerID string) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("status = ?", StatusPending).
		Where("requires_manager_approval = ?", true).
		Where("employee_id IN (?)", r.db.
			Table("employees").
			Select("id").
			Where("company_id = ?", companyID).
			Where("manager_id = ?", managerID)).
		Order("submitted_at ASC").
		Find(&requests).Error
	return requests, err
}

// ListPendingForHR returns everything waiting on an HR decision: requests
// the manager already cleared plus requests routed straight to HR.
func (r *repository) ListPendingForHR(ctx context.Context, companyID string) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("status = ? OR (status = ? AND requires_manager_approval = ?)",
			StatusManagerApproved, StatusPending, false).
		Order("submitted_at ASC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) CreateApproval(ctx context.Context, a *LeaveApproval) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) ListApprovals(ctx context.Context, companyID, requestID string) ([]LeaveApproval, error) {
	var approvals []LeaveApproval
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("leave_request_id = ?", requestID).
		Order("approved_at ASC").
		Find(&approvals).Error
	return approvals, err
}
