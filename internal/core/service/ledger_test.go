package service

import (
	"testing"
	"time"

	"github.com/berfenger/pvledger2mqtt/internal/core/domain"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLedger(params LedgerParams, snapshot *domain.LedgerSnapshot, now time.Time) *EnergyLedger {
	tracker := &CounterDeltaTracker{
		MaxDeltaKWh: 50,
		Logger:      zap.NewNop(),
	}
	return NewEnergyLedger(params, snapshot, tracker, now, zap.NewNop())
}

func fullMeterParams() LedgerParams {
	return LedgerParams{
		Tariff: domain.TariffParams{
			FixedPricePerKWh:   0.30,
			FeedInTariffPerKWh: 0.08,
			InvestmentCost:     10000,
			InstallDate:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		GridEmissionFactor: 0.4,
		HasExport:          true,
		HasImport:          true,
	}
}

func rawSample(value float64, at time.Time) *domain.MonotonicCounterSample {
	return &domain.MonotonicCounterSample{Value: value, Timestamp: at}
}

func TestLedgerDerivesSelfConsumption(t *testing.T) {

	require := require.New(t)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ledger := newTestLedger(fullMeterParams(), nil, now)

	// baselines
	ledger.RunCycle(RawSamples{
		Production: rawSample(1000, now),
		Export:     rawSample(400, now),
		Import:     rawSample(200, now),
	}, now)

	// 10 kWh produced, 6 kWh exported: 4 kWh never left the house
	res := ledger.RunCycle(RawSamples{
		Production: rawSample(1010, now),
		Export:     rawSample(406, now),
		Import:     rawSample(202, now),
	}, now)

	require.True(res.Dirty)
	require.InDelta(10.0, res.AppliedDeltas[domain.METRIC_PRODUCTION], 1e-9)
	require.InDelta(6.0, res.AppliedDeltas[domain.METRIC_EXPORT], 1e-9)
	require.InDelta(4.0, res.AppliedDeltas[domain.METRIC_SELF_CONSUMPTION], 1e-9)
	require.InDelta(10.0, res.Totals.Production, 1e-9)
	require.InDelta(4.0, res.Totals.SelfConsumption, 1e-9)

	// amortized = 4 * 0.30 + 6 * 0.08 = 1.68
	require.InDelta(1.68, res.Amortization.AmortizedAmount, 1e-9)
}

func TestLedgerSelfConsumptionNeverNegative(t *testing.T) {

	require := require.New(t)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ledger := newTestLedger(fullMeterParams(), nil, now)

	ledger.RunCycle(RawSamples{
		Production: rawSample(1000, now),
		Export:     rawSample(400, now),
	}, now)

	// export grew faster than production (meter skew), clamp at zero
	res := ledger.RunCycle(RawSamples{
		Production: rawSample(1001, now),
		Export:     rawSample(403, now),
	}, now)

	_, ok := res.AppliedDeltas[domain.METRIC_SELF_CONSUMPTION]
	require.False(ok)
	require.Zero(res.Totals.SelfConsumption)
}

func TestLedgerAppliesPreTrackingOffsets(t *testing.T) {

	require := require.New(t)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	params := fullMeterParams()
	params.Offsets = map[string]float64{
		domain.METRIC_PRODUCTION: 500,
		domain.METRIC_EXPORT:     120,
	}
	ledger := newTestLedger(params, nil, now)

	res := ledger.RunCycle(RawSamples{Production: rawSample(1000, now)}, now)
	require.InDelta(500.0, res.Totals.Production, 1e-9)
	require.InDelta(120.0, res.Totals.Export, 1e-9)
}

func TestLedgerSpotComparison(t *testing.T) {

	require := require.New(t)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	params := fullMeterParams()
	params.HasSpotPrice = true
	ledger := newTestLedger(params, nil, now)

	ledger.RunCycle(RawSamples{
		Production: rawSample(1000, now),
		Export:     rawSample(400, now),
		Import:     rawSample(200, now),
	}, now)

	spot := 0.20
	res := ledger.RunCycle(RawSamples{
		Production:      rawSample(1010, now),
		Export:          rawSample(404, now),
		Import:          rawSample(210, now),
		SpotPricePerKWh: &spot,
	}, now)

	// spot: (10-4)*0.20 = 1.20, fixed: 10*0.30 - 4*0.08 = 2.68
	require.NotNil(res.SpotVsFixedSavings)
	require.InDelta(-1.48, *res.SpotVsFixedSavings, 1e-9)
	require.False(res.SpotSkipped)
}

func TestLedgerSpotSkippedWithoutPrice(t *testing.T) {

	require := require.New(t)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	params := fullMeterParams()
	params.HasSpotPrice = true
	ledger := newTestLedger(params, nil, now)

	ledger.RunCycle(RawSamples{Import: rawSample(200, now)}, now)

	// import moved but no price was known: the window is lost, not backfilled
	res := ledger.RunCycle(RawSamples{Import: rawSample(210, now)}, now)
	require.True(res.SpotSkipped)
	require.NotNil(res.SpotVsFixedSavings)
	require.Zero(*res.SpotVsFixedSavings)

	spot := 0.20
	res = ledger.RunCycle(RawSamples{Import: rawSample(215, now), SpotPricePerKWh: &spot}, now)
	require.False(res.SpotSkipped)
	// only the last 5 kWh count: 5*0.20 - 5*0.30 = -0.50
	require.InDelta(-0.50, *res.SpotVsFixedSavings, 1e-9)
}

func TestLedgerResetSpotComparison(t *testing.T) {

	require := require.New(t)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	params := fullMeterParams()
	params.HasSpotPrice = true
	ledger := newTestLedger(params, nil, now)

	spot := 0.50
	ledger.RunCycle(RawSamples{Import: rawSample(100, now)}, now)
	ledger.RunCycle(RawSamples{Import: rawSample(110, now), SpotPricePerKWh: &spot}, now)

	ledger.ResetSpotComparison()
	summary := ledger.Summary(now)
	require.NotNil(summary.SpotVsFixedSavings)
	require.Zero(*summary.SpotVsFixedSavings)
}

func TestLedgerQuotaRollover(t *testing.T) {

	require := require.New(t)

	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	params := fullMeterParams()
	params.Quota = &domain.QuotaParams{
		YearlyQuotaKWh:      4000,
		PeriodStart:         start,
		MeterReadingAtStart: 100,
	}

	now := start.AddDate(0, 0, 10)
	ledger := newTestLedger(params, nil, now)
	res := ledger.RunCycle(RawSamples{Import: rawSample(150, now)}, now)
	require.False(res.QuotaRolledOver)
	require.NotNil(res.Quota)
	require.InDelta(50.0, res.Quota.ConsumedKWh, 1e-9)

	// past the period end: new period, baseline rebased to the current reading
	later := start.AddDate(1, 0, 5)
	res = ledger.RunCycle(RawSamples{Import: rawSample(160, now)}, later)
	require.True(res.QuotaRolledOver)
	require.InDelta(0.0, res.Quota.ConsumedKWh, 1e-9)
	require.Equal(360, res.Quota.DaysRemaining)
}

func TestLedgerQuotaRolloverAcrossMultiplePeriods(t *testing.T) {

	require := require.New(t)

	start := time.Date(2022, 7, 1, 0, 0, 0, 0, time.UTC)
	params := fullMeterParams()
	params.Quota = &domain.QuotaParams{
		YearlyQuotaKWh: 4000,
		PeriodStart:    start,
	}

	// first contact two and a half years in: the loop catches up
	now := start.AddDate(2, 6, 0)
	ledger := newTestLedger(params, nil, now)
	res := ledger.RunCycle(RawSamples{Import: rawSample(9000, now)}, now)
	require.True(res.QuotaRolledOver)
	require.InDelta(0.0, res.Quota.ConsumedKWh, 1e-9)

	snapshot := ledger.Snapshot()
	require.Equal(start.AddDate(2, 0, 0), *snapshot.QuotaPeriodStart)
	require.InDelta(9000.0, snapshot.QuotaMeterReadingAtStart, 1e-9)
}

func TestLedgerSummaryIsIdempotent(t *testing.T) {

	require := require.New(t)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ledger := newTestLedger(fullMeterParams(), nil, now)

	ledger.RunCycle(RawSamples{
		Production: rawSample(1000, now),
		Export:     rawSample(400, now),
	}, now)
	ledger.RunCycle(RawSamples{
		Production: rawSample(1050, now),
		Export:     rawSample(420, now),
	}, now)

	first := ledger.Summary(now)
	second := ledger.Summary(now)
	require.Equal(first, second)
}

func TestLedgerRestoresFromSnapshot(t *testing.T) {

	require := require.New(t)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ledger := newTestLedger(fullMeterParams(), nil, now)

	ledger.RunCycle(RawSamples{
		Production: rawSample(1000, now),
		Export:     rawSample(400, now),
		Import:     rawSample(200, now),
	}, now)
	ledger.RunCycle(RawSamples{
		Production: rawSample(1030, now),
		Export:     rawSample(410, now),
		Import:     rawSample(205, now),
	}, now)

	saved := ledger.Snapshot()
	before := ledger.Summary(now)

	restored := newTestLedger(fullMeterParams(), &saved, now)
	require.Equal(before, restored.Summary(now))

	// deltas keep accumulating on the restored baselines
	res := restored.RunCycle(RawSamples{
		Production: rawSample(1040, now),
		Export:     rawSample(412, now),
		Import:     rawSample(206, now),
	}, now)
	require.InDelta(10.0, res.AppliedDeltas[domain.METRIC_PRODUCTION], 1e-9)
	require.InDelta(40.0, res.Totals.Production, 1e-9)
}

func TestLedgerCleanCycleIsNotDirty(t *testing.T) {

	require := require.New(t)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ledger := newTestLedger(fullMeterParams(), nil, now)

	res := ledger.RunCycle(RawSamples{}, now)
	require.False(res.Dirty)
	require.Empty(res.AppliedDeltas)
}
