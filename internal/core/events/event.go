package events

import (
	"time"

	. "github.com/berfenger/pvledger2mqtt/internal/core/domain"
)

// Lifetime totals are published retained so a broker restart does not wipe
// the last known value before the next cycle publishes a fresh one.
func EnergyTotalsToUpdateEvents(totals EnergyTotals, hasExport, hasImport, hasConsumption bool) []any {
	var events []any

	// PV production lifetime total
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_PV_ENERGY_TOTAL,
		},
		Value:    totals.Production,
		Decimals: 3,
		Retain:   true,
	})
	// Self consumption lifetime total
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_SELF_CONSUMPTION_ENERGY_TOTAL,
		},
		Value:    totals.SelfConsumption,
		Decimals: 3,
		Retain:   true,
	})
	if hasExport {
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: SENSOR_ID_GRID_EXPORT_ENERGY_TOTAL,
			},
			Value:    totals.Export,
			Decimals: 3,
			Retain:   true,
		})
	}
	if hasImport {
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: SENSOR_ID_GRID_IMPORT_ENERGY_TOTAL,
			},
			Value:    totals.Import,
			Decimals: 3,
			Retain:   true,
		})
	}
	if hasConsumption {
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: SENSOR_ID_HOUSE_CONSUMPTION_ENERGY_TOTAL,
			},
			Value:    totals.Consumption,
			Decimals: 3,
			Retain:   true,
		})
	}

	return events
}

func ImportCostToUpdateEvents(st ImportCostState) []any {
	var events []any

	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_GRID_IMPORT_COST_TOTAL,
		},
		Value:    st.TotalCost,
		Decimals: 2,
		Retain:   true,
	})
	if st.AveragePriceCt != nil {
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: SENSOR_ID_AVERAGE_IMPORT_PRICE,
			},
			Value:    *st.AveragePriceCt,
			Decimals: 2,
		})
	}
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_DAILY_GRID_IMPORT_ENERGY,
		},
		Value:    st.DailyKWh,
		Decimals: 3,
	})
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_DAILY_GRID_IMPORT_COST,
		},
		Value:    st.DailyCost,
		Decimals: 2,
	})
	if st.DailyAveragePriceCt != nil {
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: SENSOR_ID_DAILY_AVERAGE_IMPORT_PRICE,
			},
			Value:    *st.DailyAveragePriceCt,
			Decimals: 2,
		})
	}
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_MONTHLY_GRID_IMPORT_ENERGY,
		},
		Value:    st.MonthlyKWh,
		Decimals: 3,
	})
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_MONTHLY_GRID_IMPORT_COST,
		},
		Value:    st.MonthlyCost,
		Decimals: 2,
	})
	if st.MonthlyAveragePriceCt != nil {
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: SENSOR_ID_MONTHLY_AVERAGE_IMPORT_PRICE,
			},
			Value:    *st.MonthlyAveragePriceCt,
			Decimals: 2,
		})
	}

	return events
}

func AmortizationToUpdateEvents(st AmortizationState) []any {
	var events []any

	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_AMORTIZED_AMOUNT,
		},
		Value:    st.AmortizedAmount,
		Decimals: 2,
	})
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_AMORTIZATION_REMAINING,
		},
		Value:    st.RemainingAmount,
		Decimals: 2,
	})
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_AMORTIZATION_PERCENT,
		},
		Value:    st.Percentage,
		Decimals: 1,
	})
	events = append(events, TextSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_AMORTIZATION_STATUS,
		},
		Value: st.StatusText,
	})

	return events
}

func ForecastToUpdateEvents(st ForecastState, hasConsumption bool) []any {
	var events []any

	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_SAVINGS_PER_DAY,
		},
		Value:    st.AverageDailySavings,
		Decimals: 2,
	})
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_SAVINGS_PER_MONTH,
		},
		Value:    st.SavingsPerMonth,
		Decimals: 2,
	})
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_SAVINGS_PER_YEAR,
		},
		Value:    st.SavingsPerYear,
		Decimals: 2,
	})
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_DAYS_SINCE_INSTALL,
		},
		Value:    float64(st.ElapsedDays),
		Decimals: 0,
	})
	if st.RemainingDays != nil {
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: SENSOR_ID_PAYBACK_DAYS_REMAINING,
			},
			Value:    *st.RemainingDays,
			Decimals: 0,
		})
	}
	if st.EstimatedPaybackDate != nil {
		events = append(events, TextSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: SENSOR_ID_PAYBACK_DATE,
			},
			Value: st.EstimatedPaybackDate.Format(time.DateOnly),
		})
	}
	if st.SelfConsumptionRatio != nil {
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: SENSOR_ID_SELF_CONSUMPTION_RATIO,
			},
			Value:    *st.SelfConsumptionRatio,
			Decimals: 1,
		})
	}
	if hasConsumption && st.AutarkyRatio != nil {
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: SENSOR_ID_AUTARKY_RATIO,
			},
			Value:    *st.AutarkyRatio,
			Decimals: 1,
		})
	}
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_CO2_SAVED,
		},
		Value:    st.CO2SavedKg,
		Decimals: 1,
	})

	return events
}

func SpotComparisonToUpdateEvents(savings float64) []any {
	return []any{
		FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: SENSOR_ID_SPOT_VS_FIXED_SAVINGS,
			},
			Value:    savings,
			Decimals: 2,
		},
	}
}

func QuotaToUpdateEvents(st QuotaState, monthlyPayment float64) []any {
	var events []any

	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_QUOTA_CONSUMED,
		},
		Value:    st.ConsumedKWh,
		Decimals: 3,
	})
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_QUOTA_REMAINING,
		},
		Value:    st.RemainingKWh,
		Decimals: 3,
	})
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_QUOTA_PERCENT,
		},
		Value:    st.PercentConsumed,
		Decimals: 1,
	})
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_QUOTA_RESERVE,
		},
		Value:    st.ReserveKWh,
		Decimals: 1,
	})
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_QUOTA_DAILY_BUDGET,
		},
		Value:    st.DailyBudgetKWh,
		Decimals: 1,
	})
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_QUOTA_PROJECTED_ANNUAL,
		},
		Value:    st.ProjectedAnnualKWh,
		Decimals: 0,
	})
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_QUOTA_DAYS_REMAINING,
		},
		Value:    float64(st.DaysRemaining),
		Decimals: 0,
	})
	events = append(events, TextSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_QUOTA_STATUS,
		},
		Value: st.StatusText,
	})
	if monthlyPayment > 0 {
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: SENSOR_ID_QUOTA_MONTHLY_PAYMENT,
			},
			Value:    monthlyPayment,
			Decimals: 2,
		})
	}

	return events
}
