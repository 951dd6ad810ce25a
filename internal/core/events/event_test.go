package events

import (
	"testing"

	. "github.com/berfenger/pvledger2mqtt/internal/core/domain"

	"github.com/stretchr/testify/require"
)

func floatEventById(t *testing.T, evs []any, id string) (FloatSensorUpdateEvent, bool) {
	t.Helper()
	for _, ev := range evs {
		if fev, ok := ev.(FloatSensorUpdateEvent); ok && fev.Id == id {
			return fev, true
		}
	}
	return FloatSensorUpdateEvent{}, false
}

func TestEnergyTotalEventsAreRetained(t *testing.T) {

	require := require.New(t)

	evs := EnergyTotalsToUpdateEvents(EnergyTotals{
		Production:      100,
		SelfConsumption: 40,
		Export:          60,
		Import:          20,
	}, true, true, false)

	for _, id := range []string{
		SENSOR_ID_PV_ENERGY_TOTAL,
		SENSOR_ID_SELF_CONSUMPTION_ENERGY_TOTAL,
		SENSOR_ID_GRID_EXPORT_ENERGY_TOTAL,
		SENSOR_ID_GRID_IMPORT_ENERGY_TOTAL,
	} {
		ev, ok := floatEventById(t, evs, id)
		require.True(ok, id)
		require.True(ev.Retain, id)
	}
}

func TestImportCostEventsSkipUnknownAverages(t *testing.T) {

	require := require.New(t)

	avg := 28.5
	evs := ImportCostToUpdateEvents(ImportCostState{
		TotalKWh:       10,
		TotalCost:      2.85,
		AveragePriceCt: &avg,
		DailyKWh:       2,
		DailyCost:      0.6,
	})

	total, ok := floatEventById(t, evs, SENSOR_ID_GRID_IMPORT_COST_TOTAL)
	require.True(ok)
	require.InDelta(2.85, total.Value, 1e-9)
	require.True(total.Retain)

	avgEv, ok := floatEventById(t, evs, SENSOR_ID_AVERAGE_IMPORT_PRICE)
	require.True(ok)
	require.InDelta(28.5, avgEv.Value, 1e-9)

	// averages without tracked energy are not published
	_, ok = floatEventById(t, evs, SENSOR_ID_DAILY_AVERAGE_IMPORT_PRICE)
	require.False(ok)
	_, ok = floatEventById(t, evs, SENSOR_ID_MONTHLY_AVERAGE_IMPORT_PRICE)
	require.False(ok)
}
