package balance

import (
	"context"
	"errors"

	balanceerrors "go-timeoff/internal/balance/errors"
	"go-timeoff/internal/period"
	perioderrors "go-timeoff/internal/period/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Ledger owns the quota arithmetic. Reserve and Release must run on a
// tx-bound Ledger (WithTx) so the row lock taken by FindForUpdate actually
// serializes concurrent callers.
//
//go:generate mockgen -source=balance_ledger.go -destination=mock/balance_ledger_mock.go -package=mock
type Ledger interface {
	WithTx(tx *gorm.DB) Ledger
	GetOrInitialize(ctx context.Context, companyID, employeeID, typeConfigID, periodID string) (*LeaveBalance, error)
	Reserve(ctx context.Context, companyID, employeeID, periodID, typeConfigID string, days int) (*LeaveBalance, error)
	Release(ctx context.Context, companyID, employeeID, periodID, typeConfigID string, days int) (*LeaveBalance, error)
	Query(ctx context.Context, companyID, employeeID, periodID string) ([]BalanceResponse, error)
}

type ledger struct {
	repo    Repository
	periods period.Repository
	logger  *zap.Logger
}

func NewLedger(repo Repository, periods period.Repository, logger ...*zap.Logger) Ledger {
	l := zap.L().Named("balance.ledger")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.ledger")
	}
	return &ledger{repo: repo, periods: periods, logger: l}
}

func (l *ledger) WithTx(tx *gorm.DB) Ledger {
	return &ledger{
		repo:    l.repo.WithTx(tx),
		periods: l.periods.WithTx(tx),
		logger:  l.logger,
	}
}

func (l *ledger) GetOrInitialize(ctx context.Context, companyID, employeeID, typeConfigID, periodID string) (*LeaveBalance, error) {
	if periodID == "" {
		active, err := l.periods.FindActivePeriod(ctx, companyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, perioderrors.ErrNoActivePeriod
			}
			return nil, err
		}
		periodID = active.ID.String()
	}

	b, err := l.repo.Find(ctx, companyID, employeeID, periodID, typeConfigID)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	b, inserted, err := l.initialize(ctx, companyID, employeeID, periodID, typeConfigID)
	if err != nil {
		return nil, err
	}
	if inserted {
		return b, nil
	}
	// A concurrent first-time caller inserted first; read its row.
	return l.repo.Find(ctx, companyID, employeeID, periodID, typeConfigID)
}

func (l *ledger) Reserve(ctx context.Context, companyID, employeeID, periodID, typeConfigID string, days int) (*LeaveBalance, error) {
	cfg, err := l.periods.FindTypeConfigByIDAndCompany(ctx, companyID, typeConfigID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, perioderrors.ErrTypeConfigNotFound
		}
		return nil, err
	}

	b, err := l.lockOrInitialize(ctx, companyID, employeeID, periodID, typeConfigID)
	if err != nil {
		return nil, err
	}

	if b.RemainingQuota() < days && !cfg.AllowNegativeBalance {
		return nil, balanceerrors.InsufficientBalance(b.RemainingQuota(), days)
	}

	b.UsedQuota += days
	if err := l.repo.Save(ctx, b); err != nil {
		return nil, err
	}

	l.logger.Debug("quota reserved",
		zap.String("employee_id", employeeID),
		zap.String("type_config_id", typeConfigID),
		zap.Int("days", days),
		zap.Int("used_quota", b.UsedQuota),
	)

	return b, nil
}

func (l *ledger) Release(ctx context.Context, companyID, employeeID, periodID, typeConfigID string, days int) (*LeaveBalance, error) {
	b, err := l.repo.FindForUpdate(ctx, companyID, employeeID, periodID, typeConfigID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, balanceerrors.ErrBalanceNotFound
		}
		return nil, err
	}

	// Clamp instead of failing: an underflow means caller drift, and a
	// release must never block a rejection or cancellation.
	if days > b.UsedQuota {
		l.logger.Warn("release exceeds used quota, clamping to zero",
			zap.String("employee_id", employeeID),
			zap.String("type_config_id", typeConfigID),
			zap.Int("days", days),
			zap.Int("used_quota", b.UsedQuota),
		)
		days = b.UsedQuota
	}

	b.UsedQuota -= days
	if err := l.repo.Save(ctx, b); err != nil {
		return nil, err
	}

	l.logger.Debug("quota released",
		zap.String("employee_id", employeeID),
		zap.String("type_config_id", typeConfigID),
		zap.Int("days", days),
		zap.Int("used_quota", b.UsedQuota),
	)

	return b, nil
}

func (l *ledger) Query(ctx context.Context, companyID, employeeID, periodID string) ([]BalanceResponse, error) {
	balances, err := l.repo.ListByEmployee(ctx, companyID, employeeID, periodID)
	if err != nil {
		return nil, err
	}

	resp := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = mapToResponse(b)
	}
	return resp, nil
}

func (l *ledger) lockOrInitialize(ctx context.Context, companyID, employeeID, periodID, typeConfigID string) (*LeaveBalance, error) {
	b, err := l.repo.FindForUpdate(ctx, companyID, employeeID, periodID, typeConfigID)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	b, inserted, err := l.initialize(ctx, companyID, employeeID, periodID, typeConfigID)
	if err != nil {
		return nil, err
	}
	if inserted {
		return b, nil
	}
	// Two first-time submissions can race the insert; the loser re-reads the
	// winner's row under lock.
	return l.repo.FindForUpdate(ctx, companyID, employeeID, periodID, typeConfigID)
}

// initialize seeds a fresh balance from the type config's default quota.
// inserted is false when another caller's row already exists.
func (l *ledger) initialize(ctx context.Context, companyID, employeeID, periodID, typeConfigID string) (b *LeaveBalance, inserted bool, err error) {
	cfg, err := l.periods.FindTypeConfigByIDAndCompany(ctx, companyID, typeConfigID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, perioderrors.ErrTypeConfigNotFound
		}
		return nil, false, err
	}

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, false, balanceerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, false, balanceerrors.ErrInvalidEmployeeID
	}
	periodUUID, err := uuid.Parse(periodID)
	if err != nil {
		return nil, false, perioderrors.ErrInvalidPeriodID
	}

	b = &LeaveBalance{
		ID:                uuid.New(),
		CompanyID:         companyUUID,
		EmployeeID:        employeeUUID,
		LeavePeriodID:     periodUUID,
		LeaveTypeConfigID: cfg.ID,
		TotalQuota:        cfg.DefaultQuota,
		UsedQuota:         0,
	}

	inserted, err = l.repo.CreateIfAbsent(ctx, b)
	if err != nil {
		return nil, false, err
	}
	if !inserted {
		return nil, false, nil
	}

	l.logger.Info("leave balance initialized",
		zap.String("employee_id", employeeID),
		zap.String("type_config_id", typeConfigID),
		zap.Int("total_quota", b.TotalQuota),
	)

	return b, true, nil
}
