package domain

import (
	"time"
)

const (
	METRIC_PRODUCTION       = "production"
	METRIC_SELF_CONSUMPTION = "self_consumption"
	METRIC_EXPORT           = "export"
	METRIC_IMPORT           = "import"
	METRIC_CONSUMPTION      = "consumption"
)

// MonotonicCounterSample is a raw reading from an energy counter that only
// ever counts upwards (except on device reset).
type MonotonicCounterSample struct {
	Value     float64
	Timestamp time.Time
}

// MeterEnergyState is the persisted accumulator for one metric.
// LifetimeTotal only grows; LastRawValue remembers the last counter reading
// so the next delta can be derived from it.
type MeterEnergyState struct {
	LifetimeTotal     float64 `json:"lifetime_total"`
	LastRawValue      float64 `json:"last_raw_value"`
	PreTrackingOffset float64 `json:"pre_tracking_offset"`
	Initialized       bool    `json:"initialized"`
}

func (s MeterEnergyState) Total() float64 {
	return s.LifetimeTotal + s.PreTrackingOffset
}

// ImportCostSnapshot is the persisted electricity-price tracking state:
// what the grid import actually cost, lifetime plus the current daily and
// monthly windows. The window markers record which day/month the window
// values belong to, so a restart inside the same period restores them and
// a restart after the boundary starts them fresh.
type ImportCostSnapshot struct {
	TrackedKWh   float64 `json:"tracked_kwh"`
	TotalCost    float64 `json:"total_cost"`
	DailyKWh     float64 `json:"daily_kwh"`
	DailyCost    float64 `json:"daily_cost"`
	DailyDate    string  `json:"daily_date,omitempty"`
	MonthlyKWh   float64 `json:"monthly_kwh"`
	MonthlyCost  float64 `json:"monthly_cost"`
	MonthlyMonth int     `json:"monthly_month,omitempty"`
	MonthlyYear  int     `json:"monthly_year,omitempty"`
}

// LedgerSnapshot is the unit of persistence: everything that must survive a
// restart with zero data loss.
type LedgerSnapshot struct {
	Meters                   map[string]*MeterEnergyState `json:"meters"`
	SpotVsFixedSavings       float64                      `json:"spot_vs_fixed_savings"`
	ImportCost               ImportCostSnapshot           `json:"import_cost"`
	QuotaPeriodStart         *time.Time                   `json:"quota_period_start,omitempty"`
	QuotaMeterReadingAtStart float64                      `json:"quota_meter_reading_at_start"`
	FirstSeen                time.Time                    `json:"first_seen"`
}

func NewLedgerSnapshot(now time.Time) *LedgerSnapshot {
	return &LedgerSnapshot{
		Meters:    make(map[string]*MeterEnergyState),
		FirstSeen: now,
	}
}

// Meter returns the accumulator state for a metric, creating it on first use.
func (s *LedgerSnapshot) Meter(metric string) *MeterEnergyState {
	if s.Meters == nil {
		s.Meters = make(map[string]*MeterEnergyState)
	}
	m, ok := s.Meters[metric]
	if !ok {
		m = &MeterEnergyState{}
		s.Meters[metric] = m
	}
	return m
}

// Copy returns a deep copy, safe to hand to a background persistence write
// while the original keeps being mutated.
func (s *LedgerSnapshot) Copy() LedgerSnapshot {
	cp := *s
	cp.Meters = make(map[string]*MeterEnergyState, len(s.Meters))
	for k, v := range s.Meters {
		mv := *v
		cp.Meters[k] = &mv
	}
	if s.QuotaPeriodStart != nil {
		t := *s.QuotaPeriodStart
		cp.QuotaPeriodStart = &t
	}
	return cp
}

// TariffParams is the immutable tariff configuration a recomputation cycle
// runs against. Prices are always in EUR/kWh at this point.
type TariffParams struct {
	FixedPricePerKWh          float64
	FeedInTariffPerKWh        float64
	InvestmentCost            float64
	InstallDate               time.Time
	HistoricalAmortizedAmount float64
}

type QuotaParams struct {
	YearlyQuotaKWh      float64
	PeriodStart         time.Time
	MeterReadingAtStart float64
	MonthlyPayment      float64
}

// EnergyTotals are the lifetime totals (tracked + pre-tracking offset) per
// metric, the single source of truth for all derived states.
type EnergyTotals struct {
	Production      float64 `json:"production_kwh"`
	SelfConsumption float64 `json:"self_consumption_kwh"`
	Export          float64 `json:"export_kwh"`
	Import          float64 `json:"import_kwh"`
	Consumption     float64 `json:"consumption_kwh"`
}

type AmortizationState struct {
	AmortizedAmount float64 `json:"amortized_amount"`
	RemainingAmount float64 `json:"remaining_amount"`
	Percentage      float64 `json:"percentage"`
	StatusText      string  `json:"status_text"`
}

type ForecastState struct {
	ElapsedDays          int        `json:"elapsed_days"`
	AverageDailySavings  float64    `json:"average_daily_savings"`
	SavingsPerMonth      float64    `json:"savings_per_month"`
	SavingsPerYear       float64    `json:"savings_per_year"`
	RemainingDays        *float64   `json:"remaining_days,omitempty"`
	EstimatedPaybackDate *time.Time `json:"estimated_payback_date,omitempty"`
	CO2SavedKg           float64    `json:"co2_saved_kg"`
	SelfConsumptionRatio *float64   `json:"self_consumption_ratio,omitempty"`
	AutarkyRatio         *float64   `json:"autarky_ratio,omitempty"`
}

// ImportCostState is the derived electricity-price view: tracked import
// energy and cost plus the weighted average price, lifetime and per
// daily/monthly window. Averages are nil until the window tracked any
// import.
type ImportCostState struct {
	TotalKWh              float64  `json:"total_kwh"`
	TotalCost             float64  `json:"total_cost"`
	AveragePriceCt        *float64 `json:"average_price_ct,omitempty"`
	DailyKWh              float64  `json:"daily_kwh"`
	DailyCost             float64  `json:"daily_cost"`
	DailyAveragePriceCt   *float64 `json:"daily_average_price_ct,omitempty"`
	MonthlyKWh            float64  `json:"monthly_kwh"`
	MonthlyCost           float64  `json:"monthly_cost"`
	MonthlyAveragePriceCt *float64 `json:"monthly_average_price_ct,omitempty"`
}

type QuotaState struct {
	ConsumedKWh        float64 `json:"consumed_kwh"`
	RemainingKWh       float64 `json:"remaining_kwh"`
	PercentConsumed    float64 `json:"percent_consumed"`
	ReserveKWh         float64 `json:"reserve_kwh"`
	DailyBudgetKWh     float64 `json:"daily_budget_kwh"`
	ProjectedAnnualKWh float64 `json:"projected_annual_kwh"`
	DaysRemaining      int     `json:"days_remaining"`
	StatusText         string  `json:"status_text"`
}

// LedgerSummary is the full derived view over the current accumulator,
// served side-effect free over HTTP.
type LedgerSummary struct {
	Totals             EnergyTotals      `json:"totals"`
	Amortization       AmortizationState `json:"amortization"`
	Forecast           ForecastState     `json:"forecast"`
	SpotVsFixedSavings *float64          `json:"spot_vs_fixed_savings,omitempty"`
	ImportCost         *ImportCostState  `json:"import_cost,omitempty"`
	Quota              *QuotaState       `json:"quota,omitempty"`
}
