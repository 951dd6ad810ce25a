package service

import (
	"time"

	"github.com/berfenger/pvledger2mqtt/internal/core/domain"
)

// rollImportCostWindows zeroes the daily and monthly cost windows when
// their calendar period has passed. Runs every cycle, so the windows also
// reset on the midnight tick without fresh imports. A restored snapshot
// whose markers still match the current day/month keeps its window values;
// a stale one starts the window fresh.
func rollImportCostWindows(s *domain.ImportCostSnapshot, now time.Time) bool {
	changed := false

	today := now.Format(time.DateOnly)
	if s.DailyDate != today {
		s.DailyKWh = 0
		s.DailyCost = 0
		s.DailyDate = today
		changed = true
	}

	if s.MonthlyMonth != int(now.Month()) || s.MonthlyYear != now.Year() {
		s.MonthlyKWh = 0
		s.MonthlyCost = 0
		s.MonthlyMonth = int(now.Month())
		s.MonthlyYear = now.Year()
		changed = true
	}

	return changed
}

// trackImportCost charges a grid-import delta at the spot price when one is
// known, at the fixed tariff otherwise, and accumulates energy and cost
// into the lifetime total and the current daily/monthly windows.
func trackImportCost(s *domain.ImportCostSnapshot, deltaImportKWh float64,
	spotPricePerKWh *float64, tariff domain.TariffParams) {

	if deltaImportKWh <= 0 {
		return
	}

	price := tariff.FixedPricePerKWh
	if spotPricePerKWh != nil {
		price = *spotPricePerKWh
	}
	cost := deltaImportKWh * price

	s.TrackedKWh += deltaImportKWh
	s.TotalCost += cost
	s.DailyKWh += deltaImportKWh
	s.DailyCost += cost
	s.MonthlyKWh += deltaImportKWh
	s.MonthlyCost += cost
}

// ComputeImportCostState derives the average-price view over the tracked
// import cost. Pure function of the persisted tracking state.
func ComputeImportCostState(s domain.ImportCostSnapshot) domain.ImportCostState {
	st := domain.ImportCostState{
		TotalKWh:    s.TrackedKWh,
		TotalCost:   s.TotalCost,
		DailyKWh:    s.DailyKWh,
		DailyCost:   s.DailyCost,
		MonthlyKWh:  s.MonthlyKWh,
		MonthlyCost: s.MonthlyCost,
	}
	st.AveragePriceCt = weightedPriceCt(s.TotalCost, s.TrackedKWh)
	st.DailyAveragePriceCt = weightedPriceCt(s.DailyCost, s.DailyKWh)
	st.MonthlyAveragePriceCt = weightedPriceCt(s.MonthlyCost, s.MonthlyKWh)
	return st
}

func weightedPriceCt(cost, kwh float64) *float64 {
	if kwh <= 0 {
		return nil
	}
	ct := cost / kwh * 100
	return &ct
}
