package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/berfenger/pvledger2mqtt/internal/core/domain"
)

// guard against a near-zero elapsed fraction on day one of a period
const quotaFractionEpsilon = 1.0 / 365.0

func CheckQuotaParams(quota domain.QuotaParams) error {
	if quota.YearlyQuotaKWh <= 0 {
		return errors.New("yearly quota must be > 0")
	}
	if quota.PeriodStart.IsZero() {
		return errors.New("quota period start date must be set")
	}
	if quota.MeterReadingAtStart < 0 {
		return errors.New("quota meter reading at start must be >= 0")
	}
	return nil
}

// QuotaPeriodEnd returns the end of the billing period anchored at start.
// The period is one calendar year, so it spans 365 or 366 days depending on
// whether a leap day falls within it.
func QuotaPeriodEnd(start time.Time) time.Time {
	return start.AddDate(1, 0, 0)
}

func QuotaPeriodDays(start time.Time) int {
	return daysBetween(start, QuotaPeriodEnd(start))
}

// QuotaRolloverDue reports whether today has reached the end of the period
// anchored at start. The caller owns the rollover itself: the new baseline
// meter reading redefines the budget, so it has to be explicit and logged,
// never silently inferred.
func QuotaRolloverDue(start, today time.Time) bool {
	return !today.Before(QuotaPeriodEnd(start))
}

// ComputeQuotaState derives the budget view for the current period from the
// current raw import reading and the period bookkeeping. Pure function,
// recomputed fully each cycle.
func ComputeQuotaState(importReading float64, quota domain.QuotaParams, today time.Time) domain.QuotaState {
	consumed := math.Max(0, importReading-quota.MeterReadingAtStart)

	totalDays := QuotaPeriodDays(quota.PeriodStart)
	elapsedDays := daysBetween(quota.PeriodStart, today)
	if elapsedDays < 0 {
		elapsedDays = 0
	}
	if elapsedDays > totalDays {
		elapsedDays = totalDays
	}

	fraction := float64(elapsedDays) / float64(totalDays)
	linearBudget := quota.YearlyQuotaKWh * fraction
	reserve := linearBudget - consumed
	remaining := quota.YearlyQuotaKWh - consumed
	percent := consumed / quota.YearlyQuotaKWh * 100
	daysRemaining := totalDays - elapsedDays

	dailyBudget := remaining / math.Max(1, float64(daysRemaining))
	projected := consumed / math.Max(fraction, quotaFractionEpsilon)

	var status string
	if reserve >= 0 {
		status = fmt.Sprintf("Im Budget (+%.0fkwh)", reserve)
	} else {
		status = fmt.Sprintf("Ueber Budget (-%.0fkwh)", math.Abs(reserve))
	}

	return domain.QuotaState{
		ConsumedKWh:        consumed,
		RemainingKWh:       remaining,
		PercentConsumed:    percent,
		ReserveKWh:         reserve,
		DailyBudgetKWh:     dailyBudget,
		ProjectedAnnualKWh: projected,
		DaysRemaining:      daysRemaining,
		StatusText:         status,
	}
}
