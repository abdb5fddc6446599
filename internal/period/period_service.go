package period

import (
	"context"
	"errors"
	"time"

	perioderrors "go-timeoff/internal/period/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

//go:generate mockgen -source=period_service.go -destination=mock/period_service_mock.go -package=mock
type Service interface {
	CreatePeriod(ctx context.Context, companyID string, req CreatePeriodRequest) (PeriodResponse, error)
	ListPeriods(ctx context.Context, companyID string) ([]PeriodResponse, error)
	GetPeriod(ctx context.Context, companyID, id string) (PeriodResponse, error)
	ActivePeriod(ctx context.Context, companyID string) (PeriodResponse, error)

	CreateTypeConfig(ctx context.Context, companyID string, req CreateTypeConfigRequest) (TypeConfigResponse, error)
	ListTypeConfigs(ctx context.Context, companyID, periodID string) ([]TypeConfigResponse, error)
	UpdateTypeConfig(ctx context.Context, companyID, id string, req UpdateTypeConfigRequest) (TypeConfigResponse, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	sf     singleflight.Group
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("period.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("period.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) CreatePeriod(ctx context.Context, companyID string, req CreatePeriodRequest) (PeriodResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return PeriodResponse{}, perioderrors.ErrInvalidCompanyID
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return PeriodResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return PeriodResponse{}, err
	}
	if startDate.After(endDate) {
		return PeriodResponse{}, perioderrors.ErrInvalidDateRange
	}

	p := &LeavePeriod{
		ID:          uuid.New(),
		CompanyID:   companyUUID,
		Name:        req.Name,
		StartDate:   startDate,
		EndDate:     endDate,
		IsActive:    req.IsActive,
		Description: req.Description,
	}

	// Overlap check and insert share one transaction so two racing creates
	// cannot both pass the check.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		overlap, err := qtx.HasOverlappingPeriod(ctx, companyID, startDate, endDate)
		if err != nil {
			return err
		}
		if overlap {
			return perioderrors.ErrPeriodOverlap
		}

		return qtx.CreatePeriod(ctx, p)
	})
	if err != nil {
		s.logger.Warn("create period failed",
			zap.String("company_id", companyID),
			zap.Error(err),
		)
		return PeriodResponse{}, err
	}

	s.logger.Info("leave period created",
		zap.String("period_id", p.ID.String()),
		zap.String("company_id", companyID),
	)

	return mapPeriodToResponse(*p), nil
}

func (s *service) ListPeriods(ctx context.Context, companyID string) ([]PeriodResponse, error) {
	periods, err := s.repo.ListPeriodsByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	resp := make([]PeriodResponse, len(periods))
	for i, p := range periods {
		resp[i] = mapPeriodToResponse(p)
	}
	return resp, nil
}

func (s *service) GetPeriod(ctx context.Context, companyID, id string) (PeriodResponse, error) {
	p, err := s.repo.FindPeriodByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PeriodResponse{}, perioderrors.ErrPeriodNotFound
		}
		return PeriodResponse{}, err
	}
	return mapPeriodToResponse(*p), nil
}

func (s *service) ActivePeriod(ctx context.Context, companyID string) (PeriodResponse, error) {
	// Hot lookup on every submission; singleflight collapses concurrent
	// duplicates per tenant.
	v, err, _ := s.sf.Do("active:"+companyID, func() (interface{}, error) {
		p, err := s.repo.FindActivePeriod(ctx, companyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, perioderrors.ErrNoActivePeriod
			}
			return nil, err
		}
		return p, nil
	})
	if err != nil {
		return PeriodResponse{}, err
	}

	return mapPeriodToResponse(*v.(*LeavePeriod)), nil
}

func (s *service) CreateTypeConfig(ctx context.Context, companyID string, req CreateTypeConfigRequest) (TypeConfigResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return TypeConfigResponse{}, perioderrors.ErrInvalidCompanyID
	}
	periodUUID, err := uuid.Parse(req.LeavePeriodID)
	if err != nil {
		return TypeConfigResponse{}, perioderrors.ErrInvalidPeriodID
	}

	requiresApproval := true
	if req.RequiresApproval != nil {
		requiresApproval = *req.RequiresApproval
	}

	cfg := &LeaveTypeConfig{
		ID:                   uuid.New(),
		CompanyID:            companyUUID,
		LeavePeriodID:        periodUUID,
		Type:                 req.Type,
		Name:                 req.Name,
		DefaultQuota:         req.DefaultQuota,
		MaxConsecutiveDays:   req.MaxConsecutiveDays,
		AdvanceNoticeDays:    req.AdvanceNoticeDays,
		IsCarryForward:       req.IsCarryForward,
		MaxCarryForward:      req.MaxCarryForward,
		RequiresApproval:     requiresApproval,
		AllowNegativeBalance: req.AllowNegativeBalance,
		IsActive:             true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		if _, err := qtx.FindPeriodByIDAndCompany(ctx, companyID, req.LeavePeriodID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return perioderrors.ErrPeriodNotFound
			}
			return err
		}

		exists, err := qtx.TypeConfigExists(ctx, companyID, req.LeavePeriodID, req.Type)
		if err != nil {
			return err
		}
		if exists {
			return perioderrors.ErrTypeConfigExists
		}

		return qtx.CreateTypeConfig(ctx, cfg)
	})
	if err != nil {
		s.logger.Warn("create type config failed",
			zap.String("company_id", companyID),
			zap.String("type", req.Type),
			zap.Error(err),
		)
		return TypeConfigResponse{}, err
	}

	s.logger.Info("leave type config created",
		zap.String("type_config_id", cfg.ID.String()),
		zap.String("company_id", companyID),
		zap.String("type", cfg.Type),
	)

	return mapTypeConfigToResponse(*cfg), nil
}

func (s *service) ListTypeConfigs(ctx context.Context, companyID, periodID string) ([]TypeConfigResponse, error) {
	configs, err := s.repo.ListTypeConfigsByPeriod(ctx, companyID, periodID)
	if err != nil {
		return nil, err
	}

	resp := make([]TypeConfigResponse, len(configs))
	for i, cfg := range configs {
		resp[i] = mapTypeConfigToResponse(cfg)
	}
	return resp, nil
}

func (s *service) UpdateTypeConfig(ctx context.Context, companyID, id string, req UpdateTypeConfigRequest) (TypeConfigResponse, error) {
	cfg, err := s.repo.FindTypeConfigByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TypeConfigResponse{}, perioderrors.ErrTypeConfigNotFound
		}
		return TypeConfigResponse{}, err
	}

	if req.Name != "" {
		cfg.Name = req.Name
	}
	if req.DefaultQuota != nil {
		cfg.DefaultQuota = *req.DefaultQuota
	}
	if req.MaxConsecutiveDays != nil {
		cfg.MaxConsecutiveDays = req.MaxConsecutiveDays
	}
	if req.AdvanceNoticeDays != nil {
		cfg.AdvanceNoticeDays = *req.AdvanceNoticeDays
	}
	if req.IsCarryForward != nil {
		cfg.IsCarryForward = *req.IsCarryForward
	}
	if req.MaxCarryForward != nil {
		cfg.MaxCarryForward = req.MaxCarryForward
	}
	if req.RequiresApproval != nil {
		cfg.RequiresApproval = *req.RequiresApproval
	}
	if req.AllowNegativeBalance != nil {
		cfg.AllowNegativeBalance = *req.AllowNegativeBalance
	}
	if req.IsActive != nil {
		cfg.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateTypeConfig(ctx, cfg); err != nil {
		return TypeConfigResponse{}, err
	}

	return mapTypeConfigToResponse(*cfg), nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, perioderrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapPeriodToResponse(p LeavePeriod) PeriodResponse {
	return PeriodResponse{
		ID:          p.ID.String(),
		CompanyID:   p.CompanyID.String(),
		Name:        p.Name,
		StartDate:   p.StartDate.Format("2006-01-02"),
		EndDate:     p.EndDate.Format("2006-01-02"),
		IsActive:    p.IsActive,
		Description: p.Description,
	}
}

func mapTypeConfigToResponse(cfg LeaveTypeConfig) TypeConfigResponse {
	return TypeConfigResponse{
		ID:                   cfg.ID.String(),
		CompanyID:            cfg.CompanyID.String(),
		LeavePeriodID:        cfg.LeavePeriodID.String(),
		Type:                 cfg.Type,
		Name:                 cfg.Name,
		DefaultQuota:         cfg.DefaultQuota,
		MaxConsecutiveDays:   cfg.MaxConsecutiveDays,
		AdvanceNoticeDays:    cfg.AdvanceNoticeDays,
		IsCarryForward:       cfg.IsCarryForward,
		MaxCarryForward:      cfg.MaxCarryForward,
		RequiresApproval:     cfg.RequiresApproval,
		AllowNegativeBalance: cfg.AllowNegativeBalance,
		IsActive:             cfg.IsActive,
	}
}
