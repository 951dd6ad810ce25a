package service

import (
	"testing"
	"time"

	"github.com/berfenger/pvledger2mqtt/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTariff() domain.TariffParams {
	return domain.TariffParams{
		FixedPricePerKWh:   0.30,
		FeedInTariffPerKWh: 0.08,
		InvestmentCost:     10000,
		InstallDate:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestAmortizationFormula(t *testing.T) {

	require := require.New(t)

	totals := domain.EnergyTotals{
		SelfConsumption: 1000,
		Export:          500,
	}
	st := ComputeAmortization(totals, testTariff())

	// 1000*0.30 + 500*0.08 = 340
	require.InDelta(340.0, st.AmortizedAmount, 1e-9)
	require.InDelta(9660.0, st.RemainingAmount, 1e-9)
	require.InDelta(3.4, st.Percentage, 1e-9)
	require.Equal("3.4% amortisiert", st.StatusText)
}

func TestAmortizationIncludesHistoricalAmount(t *testing.T) {

	require := require.New(t)

	tariff := testTariff()
	tariff.HistoricalAmortizedAmount = 2500

	st := ComputeAmortization(domain.EnergyTotals{}, tariff)
	require.InDelta(2500.0, st.AmortizedAmount, 1e-9)
	require.InDelta(25.0, st.Percentage, 1e-9)
}

func TestAmortizationBoundaryAtHundredPercent(t *testing.T) {

	require := require.New(t)

	tariff := domain.TariffParams{
		FixedPricePerKWh: 1.0,
		InvestmentCost:   1000,
		InstallDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	st := ComputeAmortization(domain.EnergyTotals{SelfConsumption: 1000}, tariff)
	require.InDelta(100.0, st.Percentage, 1e-9)
	require.Equal(0.0, st.RemainingAmount)

	// surplus shows above the investment cost, unclamped
	st = ComputeAmortization(domain.EnergyTotals{SelfConsumption: 1250}, tariff)
	require.Greater(st.Percentage, 100.0)
	require.Equal("Amortisiert! +250.00€ Gewinn", st.StatusText)
}

func TestAmortizationMonotonicity(t *testing.T) {

	require := require.New(t)

	tariff := testTariff()
	prev := -1.0
	for self := 0.0; self <= 5000; self += 250 {
		st := ComputeAmortization(domain.EnergyTotals{SelfConsumption: self, Export: self / 2}, tariff)
		require.Greater(st.AmortizedAmount, prev, "amortized amount must be non-decreasing")
		prev = st.AmortizedAmount
	}
}

func TestAmortizationIsIdempotent(t *testing.T) {

	totals := domain.EnergyTotals{SelfConsumption: 1234.5, Export: 678.9}
	a := ComputeAmortization(totals, testTariff())
	b := ComputeAmortization(totals, testTariff())
	assert.Equal(t, a, b)
}

func TestCheckTariffParamsRejectsInvalidInvestment(t *testing.T) {

	require := require.New(t)

	tariff := testTariff()
	require.NoError(CheckTariffParams(tariff))

	tariff.InvestmentCost = 0
	require.Error(CheckTariffParams(tariff), "zero investment cost is a configuration error")

	tariff = testTariff()
	tariff.FixedPricePerKWh = -0.1
	require.Error(CheckTariffParams(tariff))

	tariff = testTariff()
	tariff.InstallDate = time.Time{}
	require.Error(CheckTariffParams(tariff))
}
