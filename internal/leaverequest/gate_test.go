package leaverequest

import (
	"errors"
	"testing"
	"time"

	"go-timeoff/internal/balance"
	balanceerrors "go-timeoff/internal/balance/errors"
	leaverequesterrors "go-timeoff/internal/leaverequest/errors"
	"go-timeoff/internal/period"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func gateConfig() *period.LeaveTypeConfig {
	return &period.LeaveTypeConfig{
		ID:           uuid.New(),
		Type:         period.TypeAnnual,
		DefaultQuota: 12,
		IsActive:     true,
	}
}

func gateBalance(total, used int) *balance.LeaveBalance {
	return &balance.LeaveBalance{TotalQuota: total, UsedQuota: used}
}

func TestRunGate(t *testing.T) {
	today := day(2026, 9, 1)

	t.Run("success counts days inclusively", func(t *testing.T) {
		draft := submissionDraft{StartDate: day(2026, 9, 10), EndDate: day(2026, 9, 12)}

		days, err := runGate(draft, gateConfig(), gateBalance(12, 0), nil, today)

		assert.NoError(t, err)
		assert.Equal(t, 3, days)
	})

	t.Run("single day request", func(t *testing.T) {
		draft := submissionDraft{StartDate: day(2026, 9, 10), EndDate: day(2026, 9, 10)}

		days, err := runGate(draft, gateConfig(), gateBalance(12, 0), nil, today)

		assert.NoError(t, err)
		assert.Equal(t, 1, days)
	})

	t.Run("end before start", func(t *testing.T) {
		draft := submissionDraft{StartDate: day(2026, 9, 12), EndDate: day(2026, 9, 10)}

		_, err := runGate(draft, gateConfig(), gateBalance(12, 0), nil, today)

		assert.ErrorIs(t, err, leaverequesterrors.ErrInvalidDateRange)
	})

	t.Run("retroactive start", func(t *testing.T) {
		draft := submissionDraft{StartDate: day(2026, 8, 30), EndDate: day(2026, 9, 2)}

		_, err := runGate(draft, gateConfig(), gateBalance(12, 0), nil, today)

		assert.ErrorIs(t, err, leaverequesterrors.ErrRetroactiveStart)
	})

	t.Run("start today is allowed", func(t *testing.T) {
		draft := submissionDraft{StartDate: today, EndDate: day(2026, 9, 2)}

		days, err := runGate(draft, gateConfig(), gateBalance(12, 0), nil, today)

		assert.NoError(t, err)
		assert.Equal(t, 2, days)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		draft := submissionDraft{StartDate: day(2026, 9, 10), EndDate: day(2026, 9, 14)}

		_, err := runGate(draft, gateConfig(), gateBalance(12, 10), nil, today)

		assert.ErrorIs(t, err, balanceerrors.ErrInsufficientBalance)
	})

	t.Run("negative balance allowed by policy", func(t *testing.T) {
		cfg := gateConfig()
		cfg.AllowNegativeBalance = true
		draft := submissionDraft{StartDate: day(2026, 9, 10), EndDate: day(2026, 9, 14)}

		days, err := runGate(draft, cfg, gateBalance(12, 10), nil, today)

		assert.NoError(t, err)
		assert.Equal(t, 5, days)
	})

	t.Run("advance notice not met", func(t *testing.T) {
		cfg := gateConfig()
		cfg.AdvanceNoticeDays = 7
		draft := submissionDraft{StartDate: day(2026, 9, 5), EndDate: day(2026, 9, 6)}

		_, err := runGate(draft, cfg, gateBalance(12, 0), nil, today)

		assert.ErrorIs(t, err, leaverequesterrors.ErrAdvanceNotice)
	})

	t.Run("advance notice met exactly", func(t *testing.T) {
		cfg := gateConfig()
		cfg.AdvanceNoticeDays = 7
		draft := submissionDraft{StartDate: day(2026, 9, 8), EndDate: day(2026, 9, 9)}

		_, err := runGate(draft, cfg, gateBalance(12, 0), nil, today)

		assert.NoError(t, err)
	})

	t.Run("exceeds max consecutive days", func(t *testing.T) {
		maxDays := 5
		cfg := gateConfig()
		cfg.MaxConsecutiveDays = &maxDays
		draft := submissionDraft{StartDate: day(2026, 9, 10), EndDate: day(2026, 9, 16)}

		_, err := runGate(draft, cfg, gateBalance(12, 0), nil, today)

		assert.ErrorIs(t, err, leaverequesterrors.ErrMaxConsecutiveDays)
	})

	t.Run("overlap with open request", func(t *testing.T) {
		open := []LeaveRequest{
			{
				StartDate: day(2026, 9, 11),
				EndDate:   day(2026, 9, 13),
				Status:    StatusPending,
			},
		}
		draft := submissionDraft{StartDate: day(2026, 9, 13), EndDate: day(2026, 9, 15)}

		_, err := runGate(draft, gateConfig(), gateBalance(12, 0), open, today)

		assert.ErrorIs(t, err, leaverequesterrors.ErrOverlappingRequest)
	})

	t.Run("adjacent ranges do not overlap", func(t *testing.T) {
		open := []LeaveRequest{
			{
				StartDate: day(2026, 9, 11),
				EndDate:   day(2026, 9, 12),
				Status:    StatusManagerApproved,
			},
		}
		draft := submissionDraft{StartDate: day(2026, 9, 13), EndDate: day(2026, 9, 15)}

		days, err := runGate(draft, gateConfig(), gateBalance(12, 0), open, today)

		assert.NoError(t, err)
		assert.Equal(t, 3, days)
	})

	t.Run("checks run in order", func(t *testing.T) {
		// Both sufficiency and notice would fail; sufficiency wins.
		cfg := gateConfig()
		cfg.AdvanceNoticeDays = 30
		draft := submissionDraft{StartDate: day(2026, 9, 5), EndDate: day(2026, 9, 20)}

		_, err := runGate(draft, cfg, gateBalance(2, 0), nil, today)

		assert.ErrorIs(t, err, balanceerrors.ErrInsufficientBalance)
		assert.False(t, errors.Is(err, leaverequesterrors.ErrAdvanceNotice))
	})
}
