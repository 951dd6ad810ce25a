package service

import (
	"errors"
	"fmt"
	"math"

	"github.com/berfenger/pvledger2mqtt/internal/core/domain"
)

// CheckTariffParams validates the tariff configuration before any
// computation runs. An investment cost <= 0 would make the amortization
// percentage a silent divide-by-zero.
func CheckTariffParams(tariff domain.TariffParams) error {
	if tariff.InvestmentCost <= 0 {
		return errors.New("investment cost must be > 0")
	}
	if tariff.FixedPricePerKWh < 0 || tariff.FeedInTariffPerKWh < 0 {
		return errors.New("tariff prices must be >= 0")
	}
	if tariff.InstallDate.IsZero() {
		return errors.New("install date must be set")
	}
	return nil
}

// ComputeAmortization derives the amortization state from the lifetime
// totals and the tariff. Pure function, recomputed fully each cycle.
// The percentage is unclamped above 100 so surplus stays visible.
func ComputeAmortization(totals domain.EnergyTotals, tariff domain.TariffParams) domain.AmortizationState {
	savingsSelf := totals.SelfConsumption * tariff.FixedPricePerKWh
	savingsFeed := totals.Export * tariff.FeedInTariffPerKWh

	amortized := tariff.HistoricalAmortizedAmount + savingsSelf + savingsFeed
	remaining := math.Max(0, tariff.InvestmentCost-amortized)
	percentage := amortized / tariff.InvestmentCost * 100

	var status string
	if percentage < 100 {
		status = fmt.Sprintf("%.1f%% amortisiert", percentage)
	} else {
		status = fmt.Sprintf("Amortisiert! +%.2f€ Gewinn", amortized-tariff.InvestmentCost)
	}

	return domain.AmortizationState{
		AmortizedAmount: amortized,
		RemainingAmount: remaining,
		Percentage:      percentage,
		StatusText:      status,
	}
}
