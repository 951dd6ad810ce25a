package service

import (
	"testing"
	"time"

	"github.com/berfenger/pvledger2mqtt/internal/core/domain"

	"github.com/stretchr/testify/require"
)

func TestForecastRemainingDays(t *testing.T) {

	require := require.New(t)

	today := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tariff := domain.TariffParams{
		FixedPricePerKWh: 0.25,
		InvestmentCost:   1000,
		InstallDate:      today.AddDate(0, 0, -200),
	}

	amortization := domain.AmortizationState{
		AmortizedAmount: 500,
		RemainingAmount: 500,
	}
	st := ComputeForecast(amortization, domain.EnergyTotals{}, tariff, 0.4, false, tariff.InstallDate, today)

	require.Equal(200, st.ElapsedDays)
	require.InDelta(2.5, st.AverageDailySavings, 1e-9)
	require.NotNil(st.RemainingDays)
	require.InDelta(200.0, *st.RemainingDays, 1e-9)
	require.NotNil(st.EstimatedPaybackDate)
	require.Equal(today.AddDate(0, 0, 200), *st.EstimatedPaybackDate)
}

func TestForecastElapsedDaysFlooredToOne(t *testing.T) {

	require := require.New(t)

	today := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	tariff := domain.TariffParams{
		InvestmentCost: 1000,
		InstallDate:    today, // installed today
	}

	st := ComputeForecast(domain.AmortizationState{AmortizedAmount: 3}, domain.EnergyTotals{}, tariff, 0.4, false, tariff.InstallDate, today)
	require.Equal(1, st.ElapsedDays)
	require.InDelta(3.0, st.AverageDailySavings, 1e-9)
	require.InDelta(90.0, st.SavingsPerMonth, 1e-9)
	require.InDelta(1095.0, st.SavingsPerYear, 1e-9)
}

func TestForecastHistoricalOffsetExcludedFromRate(t *testing.T) {

	require := require.New(t)

	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	tariff := domain.TariffParams{
		InvestmentCost:            10000,
		HistoricalAmortizedAmount: 5000,
		InstallDate:               today.AddDate(0, 0, -10),
	}

	// amortized 5100 of which 5000 is historical: the rate only sees 100
	amortization := domain.AmortizationState{AmortizedAmount: 5100, RemainingAmount: 4900}
	st := ComputeForecast(amortization, domain.EnergyTotals{}, tariff, 0.4, false, tariff.InstallDate, today)
	require.InDelta(10.0, st.AverageDailySavings, 1e-9)
}

func TestForecastRateCountsTrackedDaysOnly(t *testing.T) {

	require := require.New(t)

	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	tariff := domain.TariffParams{
		InvestmentCost:            10000,
		HistoricalAmortizedAmount: 5000,
		InstallDate:               today.AddDate(0, 0, -100),
	}

	// the plant is 100 days old but tracking only started 10 days ago;
	// the 100 tracked euros were earned in 10 days, not 100
	firstSeen := today.AddDate(0, 0, -10)
	amortization := domain.AmortizationState{AmortizedAmount: 5100, RemainingAmount: 4900}
	st := ComputeForecast(amortization, domain.EnergyTotals{}, tariff, 0.4, false, firstSeen, today)

	require.Equal(100, st.ElapsedDays)
	require.InDelta(10.0, st.AverageDailySavings, 1e-9)
}

func TestForecastNeverPaysBackWithZeroRate(t *testing.T) {

	require := require.New(t)

	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	tariff := domain.TariffParams{
		InvestmentCost: 1000,
		InstallDate:    today.AddDate(0, 0, -50),
	}

	st := ComputeForecast(domain.AmortizationState{RemainingAmount: 1000}, domain.EnergyTotals{}, tariff, 0.4, false, tariff.InstallDate, today)
	require.Nil(st.RemainingDays, "no forecast with a zero savings rate")
	require.Nil(st.EstimatedPaybackDate)
}

func TestForecastCO2AndRatios(t *testing.T) {

	require := require.New(t)

	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	tariff := domain.TariffParams{
		InvestmentCost: 1000,
		InstallDate:    today.AddDate(0, 0, -30),
	}
	totals := domain.EnergyTotals{
		Production:      1000,
		SelfConsumption: 400,
		Export:          600,
		Consumption:     800,
	}

	st := ComputeForecast(domain.AmortizationState{}, totals, tariff, 0.4, true, tariff.InstallDate, today)
	require.InDelta(400.0, st.CO2SavedKg, 1e-9)
	require.NotNil(st.SelfConsumptionRatio)
	require.InDelta(40.0, *st.SelfConsumptionRatio, 1e-9)
	require.NotNil(st.AutarkyRatio)
	require.InDelta(50.0, *st.AutarkyRatio, 1e-9)
}

func TestForecastRatiosAbsentWithoutInputs(t *testing.T) {

	require := require.New(t)

	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	tariff := domain.TariffParams{
		InvestmentCost: 1000,
		InstallDate:    today.AddDate(0, 0, -30),
	}

	// no production yet, no consumption sensor configured
	st := ComputeForecast(domain.AmortizationState{}, domain.EnergyTotals{}, tariff, 0.4, false, tariff.InstallDate, today)
	require.Nil(st.SelfConsumptionRatio)
	require.Nil(st.AutarkyRatio)
}
