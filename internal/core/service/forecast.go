package service

import (
	"math"
	"time"

	"github.com/berfenger/pvledger2mqtt/internal/core/domain"
)

// ComputeForecast derives savings rates, the payback extrapolation, CO2
// savings and the consumption ratios. Pure function of the accumulated
// totals plus the tariff snapshot.
//
// The historical pre-tracking amount is treated as amortized up front: it
// counts towards the base amount but not towards the daily rate, so a
// freshly installed setup does not report an absurd day-one savings rate.
// The rate divides by the days this ledger actually tracked (firstSeen),
// not the days since install: the historical amount covers the gap, and
// dividing tracked savings by untracked days would understate the rate.
func ComputeForecast(amortization domain.AmortizationState, totals domain.EnergyTotals,
	tariff domain.TariffParams, emissionFactorKgPerKWh float64, hasConsumption bool,
	firstSeen, today time.Time) domain.ForecastState {

	elapsed := daysBetween(tariff.InstallDate, today)
	if elapsed < 1 {
		elapsed = 1
	}

	tracked := elapsed
	if !firstSeen.IsZero() {
		tracked = daysBetween(firstSeen, today)
		if tracked < 1 {
			tracked = 1
		}
	}

	trackedAmortized := amortization.AmortizedAmount - tariff.HistoricalAmortizedAmount
	rate := trackedAmortized / float64(tracked)

	st := domain.ForecastState{
		ElapsedDays:         elapsed,
		AverageDailySavings: rate,
		SavingsPerMonth:     rate * 30,
		SavingsPerYear:      rate * 365,
		CO2SavedKg:          (totals.SelfConsumption + totals.Export) * emissionFactorKgPerKWh,
	}

	if rate > 0 {
		remainingDays := amortization.RemainingAmount / rate
		payback := today.AddDate(0, 0, int(math.Ceil(remainingDays)))
		st.RemainingDays = &remainingDays
		st.EstimatedPaybackDate = &payback
	}

	if totals.Production > 0 {
		ratio := totals.SelfConsumption / totals.Production * 100
		st.SelfConsumptionRatio = &ratio
	}
	if hasConsumption && totals.Consumption > 0 {
		ratio := totals.SelfConsumption / totals.Consumption * 100
		st.AutarkyRatio = &ratio
	}

	return st
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
