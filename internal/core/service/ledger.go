package service

import (
	"math"
	"time"

	"github.com/berfenger/pvledger2mqtt/internal/core/domain"

	"go.uber.org/zap"
)

// LedgerParams is the immutable configuration snapshot a recomputation
// cycle runs against. Replacing it between cycles is how reconfiguration
// works; accumulated energy totals are never touched by a config change.
type LedgerParams struct {
	Tariff             domain.TariffParams
	Quota              *domain.QuotaParams
	GridEmissionFactor float64
	Offsets            map[string]float64
	HasExport          bool
	HasImport          bool
	HasConsumption     bool
	HasSpotPrice       bool
}

// RawSamples are the latest raw readings per metric. A nil entry means the
// sensor has not delivered a usable value yet (stale or unavailable); that
// metric's accumulator is left untouched this cycle.
type RawSamples struct {
	Production      *domain.MonotonicCounterSample
	Export          *domain.MonotonicCounterSample
	Import          *domain.MonotonicCounterSample
	Consumption     *domain.MonotonicCounterSample
	SpotPricePerKWh *float64
}

// CycleResult is everything one recomputation cycle produced: the applied
// deltas, whether the snapshot changed (and must be persisted), and the
// fully recomputed derived states.
type CycleResult struct {
	Dirty           bool
	AppliedDeltas   map[string]float64
	SpotSkipped     bool
	QuotaRolledOver bool

	Totals             domain.EnergyTotals
	Amortization       domain.AmortizationState
	Forecast           domain.ForecastState
	SpotVsFixedSavings *float64
	ImportCost         *domain.ImportCostState
	Quota              *domain.QuotaState
}

// EnergyLedger owns the accumulated state and runs the recomputation
// pipeline: delta tracking, accumulation, then the derived stages as pure
// functions over the updated accumulator. Not safe for concurrent use; the
// owning actor serializes cycles.
type EnergyLedger struct {
	params   LedgerParams
	tracker  *CounterDeltaTracker
	snapshot *domain.LedgerSnapshot
	logger   *zap.Logger
}

// NewEnergyLedger restores a ledger from a persisted snapshot, or starts a
// fresh one seeded with the configured pre-tracking offsets when snapshot
// is nil.
func NewEnergyLedger(params LedgerParams, snapshot *domain.LedgerSnapshot,
	tracker *CounterDeltaTracker, now time.Time, logger *zap.Logger) *EnergyLedger {

	if snapshot == nil {
		snapshot = domain.NewLedgerSnapshot(now)
		for metric, offset := range params.Offsets {
			if offset > 0 {
				snapshot.Meter(metric).PreTrackingOffset = offset
			}
		}
	}
	if params.Quota != nil && snapshot.QuotaPeriodStart == nil {
		start := params.Quota.PeriodStart
		snapshot.QuotaPeriodStart = &start
		snapshot.QuotaMeterReadingAtStart = params.Quota.MeterReadingAtStart
	}

	return &EnergyLedger{
		params:   params,
		tracker:  tracker,
		snapshot: snapshot,
		logger:   logger,
	}
}

// RunCycle applies the latest raw samples to the accumulator and recomputes
// every derived state. Each downstream stage sees the same accumulator
// snapshot; recomputing twice without new samples yields identical results.
func (l *EnergyLedger) RunCycle(samples RawSamples, now time.Time) CycleResult {
	res := CycleResult{
		AppliedDeltas: make(map[string]float64),
	}

	deltaProd := l.trackSample(domain.METRIC_PRODUCTION, samples.Production, &res)
	var deltaExp, deltaImp float64
	if l.params.HasExport {
		deltaExp = l.trackSample(domain.METRIC_EXPORT, samples.Export, &res)
	}
	if l.params.HasImport {
		deltaImp = l.trackSample(domain.METRIC_IMPORT, samples.Import, &res)
	}
	if l.params.HasConsumption {
		l.trackSample(domain.METRIC_CONSUMPTION, samples.Consumption, &res)
	}

	// self consumption is the PV energy that did not leave the house
	deltaSelf := math.Max(0, deltaProd-deltaExp)
	if deltaSelf > 0 {
		sc := l.snapshot.Meter(domain.METRIC_SELF_CONSUMPTION)
		sc.LifetimeTotal += deltaSelf
		sc.Initialized = true
		res.AppliedDeltas[domain.METRIC_SELF_CONSUMPTION] = deltaSelf
		res.Dirty = true
	}

	// electricity-price tracking: what the import actually cost, charged
	// at the spot price when one is known, at the fixed tariff otherwise
	if l.params.HasImport {
		if rollImportCostWindows(&l.snapshot.ImportCost, now) {
			res.Dirty = true
		}
		if deltaImp > 0 {
			trackImportCost(&l.snapshot.ImportCost, deltaImp, samples.SpotPricePerKWh, l.params.Tariff)
			res.Dirty = true
		}
	}

	// spot comparison needs the price in effect at sample time. If it is
	// not available the update is skipped, not backfilled later.
	if l.params.HasSpotPrice && (deltaImp != 0 || deltaExp != 0) {
		if samples.SpotPricePerKWh == nil {
			res.SpotSkipped = true
			l.logger.Debug("spot price unavailable, skipping spot comparison for this cycle")
		} else {
			l.snapshot.SpotVsFixedSavings += SpotComparisonDelta(deltaImp, deltaExp, *samples.SpotPricePerKWh, l.params.Tariff)
			res.Dirty = true
		}
	}

	if l.quotaEnabled() {
		res.QuotaRolledOver = l.rolloverQuotaIfDue(now)
		if res.QuotaRolledOver {
			res.Dirty = true
		}
	}

	l.derive(&res, now)
	return res
}

func (l *EnergyLedger) trackSample(metric string, sample *domain.MonotonicCounterSample, res *CycleResult) float64 {
	if sample == nil {
		return 0
	}
	state := l.snapshot.Meter(metric)
	delta, kind := l.tracker.Track(metric, state, *sample)
	switch kind {
	case DELTA_SPIKE_DROPPED:
		// baseline moved, the snapshot still changed
		res.Dirty = true
		return 0
	default:
		state.LifetimeTotal += delta
		res.AppliedDeltas[metric] = delta
		res.Dirty = true
		return delta
	}
}

func (l *EnergyLedger) quotaEnabled() bool {
	return l.params.Quota != nil && l.params.HasImport
}

// rolloverQuotaIfDue advances the quota period when its end has passed and
// rebases the consumption baseline on the current raw import reading. The
// loop covers the service having been down across more than one boundary.
func (l *EnergyLedger) rolloverQuotaIfDue(now time.Time) bool {
	rolled := false
	for QuotaRolloverDue(*l.snapshot.QuotaPeriodStart, now) {
		newStart := QuotaPeriodEnd(*l.snapshot.QuotaPeriodStart)
		newBaseline := l.snapshot.Meter(domain.METRIC_IMPORT).LastRawValue
		l.logger.Info("quota period rollover",
			zap.Time("old_period_start", *l.snapshot.QuotaPeriodStart),
			zap.Time("new_period_start", newStart),
			zap.Float64("meter_reading_at_start", newBaseline))
		l.snapshot.QuotaPeriodStart = &newStart
		l.snapshot.QuotaMeterReadingAtStart = newBaseline
		rolled = true
	}
	return rolled
}

func (l *EnergyLedger) derive(res *CycleResult, now time.Time) {
	totals := l.Totals()
	res.Totals = totals
	res.Amortization = ComputeAmortization(totals, l.params.Tariff)
	res.Forecast = ComputeForecast(res.Amortization, totals, l.params.Tariff,
		l.params.GridEmissionFactor, l.params.HasConsumption, l.snapshot.FirstSeen, now)
	if l.params.HasSpotPrice {
		v := l.snapshot.SpotVsFixedSavings
		res.SpotVsFixedSavings = &v
	}
	if l.params.HasImport {
		ic := ComputeImportCostState(l.snapshot.ImportCost)
		res.ImportCost = &ic
	}
	if l.quotaEnabled() {
		qs := ComputeQuotaState(l.snapshot.Meter(domain.METRIC_IMPORT).LastRawValue, l.currentQuotaParams(), now)
		res.Quota = &qs
	}
}

func (l *EnergyLedger) currentQuotaParams() domain.QuotaParams {
	q := *l.params.Quota
	q.PeriodStart = *l.snapshot.QuotaPeriodStart
	q.MeterReadingAtStart = l.snapshot.QuotaMeterReadingAtStart
	return q
}

func (l *EnergyLedger) Totals() domain.EnergyTotals {
	return domain.EnergyTotals{
		Production:      l.snapshot.Meter(domain.METRIC_PRODUCTION).Total(),
		SelfConsumption: l.snapshot.Meter(domain.METRIC_SELF_CONSUMPTION).Total(),
		Export:          l.snapshot.Meter(domain.METRIC_EXPORT).Total(),
		Import:          l.snapshot.Meter(domain.METRIC_IMPORT).Total(),
		Consumption:     l.snapshot.Meter(domain.METRIC_CONSUMPTION).Total(),
	}
}

// Summary recomputes the full derived view without mutating anything.
func (l *EnergyLedger) Summary(now time.Time) domain.LedgerSummary {
	totals := l.Totals()
	amortization := ComputeAmortization(totals, l.params.Tariff)
	summary := domain.LedgerSummary{
		Totals:       totals,
		Amortization: amortization,
		Forecast: ComputeForecast(amortization, totals, l.params.Tariff,
			l.params.GridEmissionFactor, l.params.HasConsumption, l.snapshot.FirstSeen, now),
	}
	if l.params.HasSpotPrice {
		v := l.snapshot.SpotVsFixedSavings
		summary.SpotVsFixedSavings = &v
	}
	if l.params.HasImport {
		ic := ComputeImportCostState(l.snapshot.ImportCost)
		summary.ImportCost = &ic
	}
	if l.quotaEnabled() {
		qs := ComputeQuotaState(l.snapshot.Meter(domain.METRIC_IMPORT).LastRawValue, l.currentQuotaParams(), now)
		summary.Quota = &qs
	}
	return summary
}

// Snapshot returns a deep copy for persistence, safe against concurrent
// mutation by later cycles.
func (l *EnergyLedger) Snapshot() domain.LedgerSnapshot {
	return l.snapshot.Copy()
}

func (l *EnergyLedger) ResetSpotComparison() {
	l.snapshot.SpotVsFixedSavings = 0
}

// ResetImportCost zeroes the electricity-price tracking. Energy
// accumulators and the delta baselines are untouched.
func (l *EnergyLedger) ResetImportCost() {
	l.snapshot.ImportCost = domain.ImportCostSnapshot{}
}

func (l *EnergyLedger) Params() LedgerParams {
	return l.params
}
