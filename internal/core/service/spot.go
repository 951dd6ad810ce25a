package service

import (
	"github.com/berfenger/pvledger2mqtt/internal/core/domain"
)

// SpotComparisonDelta computes how much a single delta event would have cost
// under the spot price versus under the fixed tariff. The running sum of
// these deltas is positive when the fixed tariff was the cheaper choice.
//
// The spot price must be the one in effect at sample time; an average price
// applied after the fact would smear cheap and expensive hours together.
func SpotComparisonDelta(deltaImportKWh, deltaExportKWh, spotPricePerKWh float64, tariff domain.TariffParams) float64 {
	costFixed := deltaImportKWh*tariff.FixedPricePerKWh - deltaExportKWh*tariff.FeedInTariffPerKWh
	costSpot := deltaImportKWh*spotPricePerKWh - deltaExportKWh*spotPricePerKWh
	return costSpot - costFixed
}
