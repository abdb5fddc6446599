package leaverequest_test

import (
	"context"
	"testing"
	"time"

	"go-timeoff/internal/balance"
	balanceerrors "go-timeoff/internal/balance/errors"
	"go-timeoff/internal/employee"
	"go-timeoff/internal/events"
	"go-timeoff/internal/leaverequest"
	leaverequesterrors "go-timeoff/internal/leaverequest/errors"
	"go-timeoff/internal/notification"
	"go-timeoff/internal/period"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakeRequestRepository struct {
	createFn                func(ctx context.Context, req *leaverequest.LeaveRequest) error
	saveFn                  func(ctx context.Context, req *leaverequest.LeaveRequest) error
	findByIDFn              func(ctx context.Context, companyID, id string) (*leaverequest.LeaveRequest, error)
	findByIDForUpdateFn     func(ctx context.Context, companyID, id string) (*leaverequest.LeaveRequest, error)
	listOpenByEmployeeFn    func(ctx context.Context, companyID, employeeID string) ([]leaverequest.LeaveRequest, error)
	listByEmployeeFn        func(ctx context.Context, companyID, employeeID string, limit, offset int) ([]leaverequest.LeaveRequest, int64, error)
	listPendingForManagerFn func(ctx context.Context, companyID, managerID string) ([]leaverequest.LeaveRequest, error)
	listPendingForHRFn      func(ctx context.Context, companyID string) ([]leaverequest.LeaveRequest, error)
	createApprovalFn        func(ctx context.Context, a *leaverequest.LeaveApproval) error
	listApprovalsFn         func(ctx context.Context, companyID, requestID string) ([]leaverequest.LeaveApproval, error)
}

func (f *fakeRequestRepository) WithTx(tx *gorm.DB) leaverequest.Repository { return f }

func (f *fakeRequestRepository) Create(ctx context.Context, req *leaverequest.LeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return nil
}

func (f *fakeRequestRepository) Save(ctx context.Context, req *leaverequest.LeaveRequest) error {
	if f.saveFn != nil {
		return f.saveFn(ctx, req)
	}
	return nil
}

func (f *fakeRequestRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*leaverequest.LeaveRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRequestRepository) FindByIDAndCompanyForUpdate(ctx context.Context, companyID, id string) (*leaverequest.LeaveRequest, error) {
	if f.findByIDForUpdateFn != nil {
		return f.findByIDForUpdateFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRequestRepository) ListOpenByEmployee(ctx context.Context, companyID, employeeID string) ([]leaverequest.LeaveRequest, error) {
	if f.listOpenByEmployeeFn != nil {
		return f.listOpenByEmployeeFn(ctx, companyID, employeeID)
	}
	return nil, nil
}

func (f *fakeRequestRepository) ListByEmployee(ctx context.Context, companyID, employeeID string, limit, offset int) ([]leaverequest.LeaveRequest, int64, error) {
	if f.listByEmployeeFn != nil {
		return f.listByEmployeeFn(ctx, companyID, employeeID, limit, offset)
	}
	return nil, 0, nil
}

func (f *fakeRequestRepository) ListPendingForManager(ctx context.Context, companyID, managerID string) ([]leaverequest.LeaveRequest, error) {
	if f.listPendingForManagerFn != nil {
		return f.listPendingForManagerFn(ctx, companyID, managerID)
	}
	return nil, nil
}

func (f *fakeRequestRepository) ListPendingForHR(ctx context.Context, companyID string) ([]leaverequest.LeaveRequest, error) {
	if f.listPendingForHRFn != nil {
		return f.listPendingForHRFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeRequestRepository) CreateApproval(ctx context.Context, a *leaverequest.LeaveApproval) error {
	if f.createApprovalFn != nil {
		return f.createApprovalFn(ctx, a)
	}
	return nil
}

func (f *fakeRequestRepository) ListApprovals(ctx context.Context, companyID, requestID string) ([]leaverequest.LeaveApproval, error) {
	if f.listApprovalsFn != nil {
		return f.listApprovalsFn(ctx, companyID, requestID)
	}
	return nil, nil
}

type fakeLedger struct {
	getOrInitializeFn func(ctx context.Context, companyID, employeeID, typeConfigID, periodID string) (*balance.LeaveBalance, error)
	reserveFn         func(ctx context.Context, companyID, employeeID, periodID, typeConfigID string, days int) (*balance.LeaveBalance, error)
	releaseFn         func(ctx context.Context, companyID, employeeID, periodID, typeConfigID string, days int) (*balance.LeaveBalance, error)
}

func (f *fakeLedger) WithTx(tx *gorm.DB) balance.Ledger { return f }

func (f *fakeLedger) GetOrInitialize(ctx context.Context, companyID, employeeID, typeConfigID, periodID string) (*balance.LeaveBalance, error) {
	if f.getOrInitializeFn != nil {
		return f.getOrInitializeFn(ctx, companyID, employeeID, typeConfigID, periodID)
	}
	return &balance.LeaveBalance{TotalQuota: 12}, nil
}

func (f *fakeLedger) Reserve(ctx context.Context, companyID, employeeID, periodID, typeConfigID string, days int) (*balance.LeaveBalance, error) {
	if f.reserveFn != nil {
		return f.reserveFn(ctx, companyID, employeeID, periodID, typeConfigID, days)
	}
	return &balance.LeaveBalance{TotalQuota: 12, UsedQuota: days}, nil
}

func (f *fakeLedger) Release(ctx context.Context, companyID, employeeID, periodID, typeConfigID string, days int) (*balance.LeaveBalance, error) {
	if f.releaseFn != nil {
		return f.releaseFn(ctx, companyID, employeeID, periodID, typeConfigID, days)
	}
	return &balance.LeaveBalance{TotalQuota: 12}, nil
}

func (f *fakeLedger) Query(ctx context.Context, companyID, employeeID, periodID string) ([]balance.BalanceResponse, error) {
	return nil, nil
}

type fakePeriodRepository struct {
	findActivePeriodFn func(ctx context.Context, companyID string) (*period.LeavePeriod, error)
	findTypeConfigFn   func(ctx context.Context, companyID, id string) (*period.LeaveTypeConfig, error)
}

func (f *fakePeriodRepository) WithTx(tx *gorm.DB) period.Repository { return f }

func (f *fakePeriodRepository) CreatePeriod(ctx context.Context, p *period.LeavePeriod) error {
	return nil
}

func (f *fakePeriodRepository) FindPeriodByIDAndCompany(ctx context.Context, companyID, id string) (*period.LeavePeriod, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePeriodRepository) FindActivePeriod(ctx context.Context, companyID string) (*period.LeavePeriod, error) {
	if f.findActivePeriodFn != nil {
		return f.findActivePeriodFn(ctx, companyID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePeriodRepository) ListPeriodsByCompany(ctx context.Context, companyID string) ([]period.LeavePeriod, error) {
	return nil, nil
}

func (f *fakePeriodRepository) HasOverlappingPeriod(ctx context.Context, companyID string, startDate, endDate time.Time) (bool, error) {
	return false, nil
}

func (f *fakePeriodRepository) CreateTypeConfig(ctx context.Context, cfg *period.LeaveTypeConfig) error {
	return nil
}

func (f *fakePeriodRepository) FindTypeConfigByIDAndCompany(ctx context.Context, companyID, id string) (*period.LeaveTypeConfig, error) {
	if f.findTypeConfigFn != nil {
		return f.findTypeConfigFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePeriodRepository) ListTypeConfigsByPeriod(ctx context.Context, companyID, periodID string) ([]period.LeaveTypeConfig, error) {
	return nil, nil
}

func (f *fakePeriodRepository) UpdateTypeConfig(ctx context.Context, cfg *period.LeaveTypeConfig) error {
	return nil
}

func (f *fakePeriodRepository) TypeConfigExists(ctx context.Context, companyID, periodID, leaveType string) (bool, error) {
	return false, nil
}

type fakeDirectory struct {
	findByIDFn       func(ctx context.Context, companyID, id string) (*employee.Employee, error)
	resolveManagerFn func(ctx context.Context, companyID, employeeID string) (*uuid.UUID, error)
}

func (f *fakeDirectory) FindByIDAndCompany(ctx context.Context, companyID, id string) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDirectory) ResolveManager(ctx context.Context, companyID, employeeID string) (*uuid.UUID, error) {
	if f.resolveManagerFn != nil {
		return f.resolveManagerFn(ctx, companyID, employeeID)
	}
	return nil, nil
}

type fakeCounterRepository struct {
	getNextValueFn func(ctx context.Context, companyID, counterType string) (int64, error)
}

func (f *fakeCounterRepository) GetNextValue(ctx context.Context, companyID, counterType string) (int64, error) {
	if f.getNextValueFn != nil {
		return f.getNextValueFn(ctx, companyID, counterType)
	}
	return 1, nil
}

type fakeNotifier struct {
	events []events.LeaveRequestEvent
}

func (f *fakeNotifier) WithTx(tx *gorm.DB) notification.Notifier { return f }

func (f *fakeNotifier) NotifyLeaveRequest(ctx context.Context, event events.LeaveRequestEvent) error {
	f.events = append(f.events, event)
	return nil
}

type serviceDeps struct {
	sqlMock  sqlmock.Sqlmock
	service  leaverequest.Service
	repo     *fakeRequestRepository
	ledger   *fakeLedger
	periods  *fakePeriodRepository
	dir      *fakeDirectory
	counters *fakeCounterRepository
	notifier *fakeNotifier
	closeFn  func()
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db}), &gorm.Config{
		DisableAutomaticPing: true,
	})
	assert.NoError(t, err)

	repo := &fakeRequestRepository{}
	ledger := &fakeLedger{}
	periods := &fakePeriodRepository{}
	dir := &fakeDirectory{}
	counters := &fakeCounterRepository{}
	notifier := &fakeNotifier{}

	svc := leaverequest.NewService(gormDB, repo, ledger, periods, dir, counters, notifier)

	return &serviceDeps{
		sqlMock:  sqlMock,
		service:  svc,
		repo:     repo,
		ledger:   ledger,
		periods:  periods,
		dir:      dir,
		counters: counters,
		notifier: notifier,
		closeFn:  func() { db.Close() },
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

func typeConfig(periodID uuid.UUID) *period.LeaveTypeConfig {
	return &period.LeaveTypeConfig{
		ID:               uuid.New(),
		LeavePeriodID:    periodID,
		Type:             period.TypeAnnual,
		Name:             "Annual Leave",
		DefaultQuota:     12,
		RequiresApproval: true,
		IsActive:         true,
	}
}

func TestLeaveRequestService_Submit(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	periodID := uuid.New()
	managerID := uuid.New()

	t.Run("success with manager routing", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.closeFn()

		cfg := typeConfig(periodID)
		expectTx(t, deps.sqlMock, true)

		deps.periods.findTypeConfigFn = func(ctx context.Context, cid, id string) (*period.LeaveTypeConfig, error) {
			assert.Equal(t, companyID, cid)
			assert.Equal(t, cfg.ID.String(), id)
			return cfg, nil
		}
		deps.ledger.getOrInitializeFn = func(ctx context.Context, cid, eid, tcid, pid string) (*balance.LeaveBalance, error) {
			return &balance.LeaveBalance{TotalQuota: 12, UsedQuota: 2}, nil
		}

		var reservedDays int
		deps.ledger.reserveFn = func(ctx context.Context, cid, eid, pid, tcid string, days int) (*balance.LeaveBalance, error) {
			reservedDays = days
			return &balance.LeaveBalance{TotalQuota: 12, UsedQuota: 2 + days}, nil
		}
		deps.dir.resolveManagerFn = func(ctx context.Context, cid, eid string) (*uuid.UUID, error) {
			return &managerID, nil
		}
		deps.counters.getNextValueFn = func(ctx context.Context, cid, counterType string) (int64, error) {
			assert.Equal(t, "leave_request", counterType)
			return 42, nil
		}
		deps.repo.createFn = func(ctx context.Context, lr *leaverequest.LeaveRequest) error {
			assert.Equal(t, leaverequest.StatusPending, lr.Status)
			assert.True(t, lr.RequiresManagerApproval)
			return nil
		}

		resp, err := deps.service.Submit(ctx, companyID, employeeID, leaverequest.SubmitLeaveRequest{
			LeaveTypeConfigID: cfg.ID.String(),
			LeavePeriodID:     periodID.String(),
			StartDate:         futureDate(10),
			EndDate:           futureDate(12),
			Reason:            "Family trip",
		})

		assert.NoError(t, err)
		assert.Equal(t, "LR-00042", resp.RequestNumber)
		assert.Equal(t, 3, resp.TotalDays)
		assert.Equal(t, leaverequest.StatusPending, resp.Status)
		assert.True(t, resp.RequiresManagerApproval)
		assert.Equal(t, 3, reservedDays)

		assert.Len(t, deps.notifier.events, 1)
		assert.Equal(t, events.LeaveRequestSubmitted, deps.notifier.events[0].EventType)
		assert.Equal(t, managerID.String(), deps.notifier.events[0].RecipientID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("routed to hr when employee has no manager", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.closeFn()

		cfg := typeConfig(periodID)
		expectTx(t, deps.sqlMock, true)

		deps.periods.findTypeConfigFn = func(ctx context.Context, cid, id string) (*period.LeaveTypeConfig, error) {
			return cfg, nil
		}
		deps.dir.resolveManagerFn = func(ctx context.Context, cid, eid string) (*uuid.UUID, error) {
			return nil, nil
		}

		resp, err := deps.service.Submit(ctx, companyID, employeeID, leaverequest.SubmitLeaveRequest{
			LeaveTypeConfigID: cfg.ID.String(),
			LeavePeriodID:     periodID.String(),
			StartDate:         futureDate(10),
			EndDate:           futureDate(10),
			Reason:            "Appointment",
		})

		assert.NoError(t, err)
		assert.False(t, resp.RequiresManagerApproval)
		assert.Len(t, deps.notifier.events, 1)
		assert.Empty(t, deps.notifier.events[0].RecipientID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("approval-exempt type skips the manager level", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.closeFn()

		cfg := typeConfig(periodID)
		cfg.RequiresApproval = false
		expectTx(t, deps.sqlMock, true)

		deps.periods.findTypeConfigFn = func(ctx context.Context, cid, id string) (*period.LeaveTypeConfig, error) {
			return cfg, nil
		}
		// The employee does have a manager; the config routes past them
		// straight to the HR queue anyway.
		deps.dir.resolveManagerFn = func(ctx context.Context, cid, eid string) (*uuid.UUID, error) {
			return &managerID, nil
		}

		resp, err := deps.service.Submit(ctx, companyID, employeeID, leaverequest.SubmitLeaveRequest{
			LeaveTypeConfigID: cfg.ID.String(),
			LeavePeriodID:     periodID.String(),
			StartDate:         futureDate(10),
			EndDate:           futureDate(10),
			Reason:            "Blood donation",
		})

		assert.NoError(t, err)
		assert.False(t, resp.RequiresManagerApproval)
		assert.Len(t, deps.notifier.events, 1)
		assert.Empty(t, deps.notifier.events[0].RecipientID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("uses active period when none given", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.closeFn()

		cfg := typeConfig(periodID)
		expectTx(t, deps.sqlMock, true)

		deps.periods.findActivePeriodFn = func(ctx context.Context, cid string) (*period.LeavePeriod, error) {
			return &period.LeavePeriod{ID: periodID, IsActive: true}, nil
		}
		deps.periods.findTypeConfigFn = func(ctx context.Context, cid, id string) (*period.LeaveTypeConfig, error) {
			return cfg, nil
		}

		resp, err := deps.service.Submit(ctx, companyID, employeeID, leaverequest.SubmitLeaveRequest{
			LeaveTypeConfigID: cfg.ID.String(),
			StartDate:         futureDate(5),
			EndDate:           futureDate(6),
			Reason:            "Short break",
		})

		assert.NoError(t, err)
		assert.Equal(t, periodID.String(), resp.LeavePeriodID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("insufficient balance rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.closeFn()

		cfg := typeConfig(periodID)
		expectTx(t, deps.sqlMock, false)

		deps.periods.findTypeConfigFn = func(ctx context.Context, cid, id string) (*period.LeaveTypeConfig, error) {
			return cfg, nil
		}
		deps.ledger.getOrInitializeFn = func(ctx context.Context, cid, eid, tcid, pid string) (*balance.LeaveBalance, error) {
			return &balance.LeaveBalance{TotalQuota: 12, UsedQuota: 11}, nil
		}

		reserveCalled := false
		deps.ledger.reserveFn = func(ctx context.Context, cid, eid, pid, tcid string, days int) (*balance.LeaveBalance, error) {
			reserveCalled = true
			return nil, nil
		}

		_, err := deps.service.Submit(ctx, companyID, employeeID, leaverequest.SubmitLeaveRequest{
			LeaveTypeConfigID: cfg.ID.String(),
			LeavePeriodID:     periodID.String(),
			StartDate:         futureDate(10),
			EndDate:           futureDate(14),
			Reason:            "Long trip",
		})

		assert.ErrorIs(t, err, balanceerrors.ErrInsufficientBalance)
		assert.False(t, reserveCalled)
		assert.Empty(t, deps.notifier.events)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("inactive leave type is refused", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.closeFn()

		cfg := typeConfig(periodID)
		cfg.IsActive = false
		expectTx(t, deps.sqlMock, false)

		deps.periods.findTypeConfigFn = func(ctx context.Context, cid, id string) (*period.LeaveTypeConfig, error) {
			return cfg, nil
		}

		_, err := deps.service.Submit(ctx, companyID, employeeID, leaverequest.SubmitLeaveRequest{
			LeaveTypeConfigID: cfg.ID.String(),
			LeavePeriodID:     periodID.String(),
			StartDate:         futureDate(10),
			EndDate:           futureDate(11),
			Reason:            "Trip",
		})

		assert.ErrorIs(t, err, leaverequesterrors.ErrTypeConfigInactive)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveRequestService_Decisions(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	managerID := uuid.New()

	newPending := func() *leaverequest.LeaveRequest {
		companyUUID := uuid.MustParse(companyID)
		return &leaverequest.LeaveRequest{
			ID:                      uuid.New(),
			CompanyID:               companyUUID,
			EmployeeID:              uuid.New(),
			LeavePeriodID:           uuid.New(),
			LeaveTypeConfigID:       uuid.New(),
			RequestNumber:           "LR-00007",
			TotalDays:               3,
			Status:                  leaverequest.StatusPending,
			RequiresManagerApproval: true,
		}
	}

	t.Run("manager approval moves to manager_approved", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.closeFn()

		lr := newPending()
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, cid, id string) (*leaverequest.LeaveRequest, error) {
			return lr, nil
		}
		deps.dir.resolveManagerFn = func(ctx context.Context, cid, eid string) (*uuid.UUID, error) {
			return &managerID, nil
		}

		var savedStatus string
		deps.repo.saveFn = func(ctx context.Context, saved *leaverequest.LeaveRequest) error {
			savedStatus = saved.Status
			return nil
		}

		releaseCalled := false
		deps.ledger.releaseFn = func(ctx context.Context, cid, eid, pid, tcid string, days int) (*balance.LeaveBalance, error) {
			releaseCalled = true
			return nil, nil
		}

		resp, err := deps.service.Approve(ctx, companyID, lr.ID.String(), managerID.String(), "manager",
			leaverequest.DecisionRequest{Comments: "enjoy"})

		assert.NoError(t, err)
		assert.Equal(t, leaverequest.StatusManagerApproved, resp.Status)
		assert.Equal(t, leaverequest.StatusManagerApproved, savedStatus)
		assert.False(t, releaseCalled)
		assert.Len(t, deps.notifier.events, 1)
		assert.Equal(t, events.LeaveRequestManagerApproved, deps.notifier.events[0].EventType)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("non direct manager is rejected", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.closeFn()

		lr := newPending()
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, cid, id string) (*leaverequest.LeaveRequest, error) {
			return lr, nil
		}
		deps.dir.resolveManagerFn = func(ctx context.Context, cid, eid string) (*uuid.UUID, error) {
			other := uuid.New()
			return &other, nil
		}

		_, err := deps.service.Approve(ctx, companyID, lr.ID.String(), managerID.String(), "manager",
			leaverequest.DecisionRequest{})

		assert.ErrorIs(t, err, leaverequesterrors.ErrUnauthorizedApprover)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("hr rejection releases reservation", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.closeFn()

		lr := newPending()
		lr.Status = leaverequest.StatusManagerApproved
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, cid, id string) (*leaverequest.LeaveRequest, error) {
			return lr, nil
		}

		var releasedDays int
		deps.ledger.releaseFn = func(ctx context.Context, cid, eid, pid, tcid string, days int) (*balance.LeaveBalance, error) {
			releasedDays = days
			return nil, nil
		}

		resp, err := deps.service.Reject(ctx, companyID, lr.ID.String(), uuid.New().String(), "hr",
			leaverequest.RejectRequest{RejectionReason: "coverage gap"})

		assert.NoError(t, err)
		assert.Equal(t, leaverequest.StatusRejected, resp.Status)
		assert.Equal(t, 3, releasedDays)
		assert.Len(t, deps.notifier.events, 1)
		assert.Equal(t, events.LeaveRequestRejected, deps.notifier.events[0].EventType)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("duplicate approval is surfaced", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.closeFn()

		lr := newPending()
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, cid, id string) (*leaverequest.LeaveRequest, error) {
			return lr, nil
		}
		deps.dir.resolveManagerFn = func(ctx context.Context, cid, eid string) (*uuid.UUID, error) {
			return &managerID, nil
		}
		deps.repo.createApprovalFn = func(ctx context.Context, a *leaverequest.LeaveApproval) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_leave_approval_action"}
		}

		_, err := deps.service.Approve(ctx, companyID, lr.ID.String(), managerID.String(), "manager",
			leaverequest.DecisionRequest{})

		assert.ErrorIs(t, err, leaverequesterrors.ErrDuplicateApproval)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown role", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.closeFn()

		_, err := deps.service.Approve(ctx, companyID, uuid.NewString(), uuid.NewString(), "intern",
			leaverequest.DecisionRequest{})

		assert.ErrorIs(t, err, leaverequesterrors.ErrUnknownApproverRole)
	})
}

func TestLeaveRequestService_Cancel(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("owner cancel releases reservation", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.closeFn()

		lr := &leaverequest.LeaveRequest{
			ID:                      uuid.New(),
			CompanyID:               uuid.MustParse(companyID),
			EmployeeID:              uuid.New(),
			LeavePeriodID:           uuid.New(),
			LeaveTypeConfigID:       uuid.New(),
			RequestNumber:           "LR-00009",
			TotalDays:               2,
			Status:                  leaverequest.StatusPending,
			RequiresManagerApproval: true,
		}
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, cid, id string) (*leaverequest.LeaveRequest, error) {
			return lr, nil
		}

		var releasedDays int
		deps.ledger.releaseFn = func(ctx context.Context, cid, eid, pid, tcid string, days int) (*balance.LeaveBalance, error) {
			releasedDays = days
			return nil, nil
		}

		resp, err := deps.service.Cancel(ctx, companyID, lr.ID.String(), lr.EmployeeID.String())

		assert.NoError(t, err)
		assert.Equal(t, leaverequest.StatusCancelled, resp.Status)
		assert.Equal(t, 2, releasedDays)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.closeFn()

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Cancel(ctx, companyID, uuid.NewString(), uuid.NewString())

		assert.ErrorIs(t, err, leaverequesterrors.ErrRequestNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveRequestService_ListPendingApprovals(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	managerID := uuid.New().String()

	t.Run("manager sees direct reports only", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.closeFn()

		deps.repo.listPendingForManagerFn = func(ctx context.Context, cid, mid string) ([]leaverequest.LeaveRequest, error) {
			assert.Equal(t, managerID, mid)
			return []leaverequest.LeaveRequest{{
				ID:        uuid.New(),
				CompanyID: uuid.MustParse(companyID),
				Status:    leaverequest.StatusPending,
			}}, nil
		}

		resp, err := deps.service.ListPendingApprovals(ctx, companyID, managerID, "manager")

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
	})

	t.Run("hr queue", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.closeFn()

		deps.repo.listPendingForHRFn = func(ctx context.Context, cid string) ([]leaverequest.LeaveRequest, error) {
			return []leaverequest.LeaveRequest{
				{ID: uuid.New(), Status: leaverequest.StatusManagerApproved},
				{ID: uuid.New(), Status: leaverequest.StatusPending},
			}, nil
		}

		resp, err := deps.service.ListPendingApprovals(ctx, companyID, uuid.NewString(), "hr")

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
	})
}
