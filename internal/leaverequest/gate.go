package leaverequest

import (
	"time"

	"go-timeoff/internal/balance"
	balanceerrors "go-timeoff/internal/balance/errors"
	leaverequesterrors "go-timeoff/internal/leaverequest/errors"
	"go-timeoff/internal/period"
)

// submissionDraft is what the gate sees of a request before it exists.
type submissionDraft struct {
	StartDate time.Time
	EndDate   time.Time
}

// runGate evaluates every pre-submission check in order and short-circuits on
// the first failure. It is pure: the caller reads the config, balance and
// open requests inside the submitting transaction and passes them in, so the
// checks never see stale data.
func runGate(
	draft submissionDraft,
	cfg *period.LeaveTypeConfig,
	bal *balance.LeaveBalance,
	openRequests []LeaveRequest,
	today time.Time,
) (int, error) {
	if draft.StartDate.After(draft.EndDate) {
		return 0, leaverequesterrors.ErrInvalidDateRange
	}
	if draft.StartDate.Before(today) {
		return 0, leaverequesterrors.ErrRetroactiveStart
	}

	totalDays := dayCount(draft.StartDate, draft.EndDate)

	if bal.RemainingQuota() < totalDays && !cfg.AllowNegativeBalance {
		return 0, balanceerrors.InsufficientBalance(bal.RemainingQuota(), totalDays)
	}

	if cfg.AdvanceNoticeDays > 0 {
		earliestStart := today.AddDate(0, 0, cfg.AdvanceNoticeDays)
		if draft.StartDate.Before(earliestStart) {
			given := dayCount(today, draft.StartDate) - 1
			return 0, leaverequesterrors.AdvanceNotice(cfg.AdvanceNoticeDays, given)
		}
	}

	if cfg.MaxConsecutiveDays != nil && totalDays > *cfg.MaxConsecutiveDays {
		return 0, leaverequesterrors.MaxConsecutiveDays(*cfg.MaxConsecutiveDays, totalDays)
	}

	for _, open := range openRequests {
		if rangesOverlap(draft.StartDate, draft.EndDate, open.StartDate, open.EndDate) {
			return 0, leaverequesterrors.ErrOverlappingRequest
		}
	}

	return totalDays, nil
}

// dayCount is inclusive: Jan 10 to Jan 12 is 3 days.
func dayCount(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

func rangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aEnd.Before(bStart) && !bEnd.Before(aStart)
}

// truncateToDay drops the time-of-day component so "today" comparisons work
// on date granularity.
func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
