package service

import (
	"math"

	"github.com/berfenger/pvledger2mqtt/internal/core/domain"

	"go.uber.org/zap"
)

type DeltaKind int

const (
	DELTA_FIRST_SAMPLE DeltaKind = iota
	DELTA_NORMAL
	DELTA_RESET
	DELTA_SPIKE_DROPPED
)

func (k DeltaKind) String() string {
	switch k {
	case DELTA_FIRST_SAMPLE:
		return "first_sample"
	case DELTA_NORMAL:
		return "normal"
	case DELTA_RESET:
		return "reset"
	case DELTA_SPIKE_DROPPED:
		return "spike_dropped"
	}
	return "unknown"
}

// CounterDeltaTracker turns successive raw monotonic counter readings into
// non-negative energy increments.
//
// A reading below the previous one by more than ResetToleranceKWh is treated
// as a counter reset: the new reading is assumed to count from zero, so the
// delta is the full new value. Clamping to zero instead would silently lose
// the energy counted between the reset and this reading. Smaller downward
// jumps are sensor noise and clamp to zero.
//
// MaxDeltaKWh guards against implausible single jumps (a corrupted reading
// would otherwise poison the lifetime total forever). 0 disables the guard.
type CounterDeltaTracker struct {
	ResetToleranceKWh float64
	MaxDeltaKWh       float64
	Logger            *zap.Logger
}

// Track computes the delta for a new sample and advances LastRawValue.
// The lifetime total is not touched here; applying the delta is the
// accumulator's job.
func (t *CounterDeltaTracker) Track(metric string, state *domain.MeterEnergyState, sample domain.MonotonicCounterSample) (float64, DeltaKind) {
	if !state.Initialized {
		// first ever sample only initializes the baseline, no retroactive credit
		state.LastRawValue = sample.Value
		state.Initialized = true
		return 0, DELTA_FIRST_SAMPLE
	}

	var delta float64
	kind := DELTA_NORMAL
	if sample.Value < state.LastRawValue-t.ResetToleranceKWh {
		delta = sample.Value
		kind = DELTA_RESET
		t.Logger.Warn("counter reset detected",
			zap.String("metric", metric),
			zap.Float64("last_raw_value", state.LastRawValue),
			zap.Float64("new_value", sample.Value))
	} else {
		delta = math.Max(0, sample.Value-state.LastRawValue)
	}
	state.LastRawValue = sample.Value

	if t.MaxDeltaKWh > 0 && delta > t.MaxDeltaKWh {
		t.Logger.Warn("implausible counter jump dropped",
			zap.String("metric", metric),
			zap.Float64("delta", delta),
			zap.Float64("max_delta_kwh", t.MaxDeltaKWh))
		return 0, DELTA_SPIKE_DROPPED
	}

	return delta, kind
}
