package domain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/carlmjohnson/versioninfo"
)

const (
	SENSOR_ID_BRIDGE_STATE                   = "bridge"
	SENSOR_ID_PV_ENERGY_TOTAL                = "pv_energy_total"
	SENSOR_ID_GRID_EXPORT_ENERGY_TOTAL       = "grid_export_energy_total"
	SENSOR_ID_GRID_IMPORT_ENERGY_TOTAL       = "grid_import_energy_total"
	SENSOR_ID_HOUSE_CONSUMPTION_ENERGY_TOTAL = "house_consumption_energy_total"
	SENSOR_ID_SELF_CONSUMPTION_ENERGY_TOTAL  = "self_consumption_energy_total"
	SENSOR_ID_AMORTIZED_AMOUNT               = "amortized_amount"
	SENSOR_ID_AMORTIZATION_REMAINING         = "amortization_remaining"
	SENSOR_ID_AMORTIZATION_PERCENT           = "amortization_percent"
	SENSOR_ID_AMORTIZATION_STATUS            = "amortization_status"
	SENSOR_ID_SAVINGS_PER_DAY                = "savings_per_day"
	SENSOR_ID_SAVINGS_PER_MONTH              = "savings_per_month"
	SENSOR_ID_SAVINGS_PER_YEAR               = "savings_per_year"
	SENSOR_ID_DAYS_SINCE_INSTALL             = "days_since_install"
	SENSOR_ID_PAYBACK_DAYS_REMAINING         = "payback_days_remaining"
	SENSOR_ID_PAYBACK_DATE                   = "estimated_payback_date"
	SENSOR_ID_SELF_CONSUMPTION_RATIO         = "self_consumption_ratio"
	SENSOR_ID_AUTARKY_RATIO                  = "autarky_ratio"
	SENSOR_ID_CO2_SAVED                      = "co2_saved"
	SENSOR_ID_SPOT_VS_FIXED_SAVINGS          = "spot_vs_fixed_savings"
	SENSOR_ID_GRID_IMPORT_COST_TOTAL         = "grid_import_cost_total"
	SENSOR_ID_AVERAGE_IMPORT_PRICE           = "average_import_price"
	SENSOR_ID_DAILY_GRID_IMPORT_ENERGY       = "daily_grid_import_energy"
	SENSOR_ID_DAILY_GRID_IMPORT_COST         = "daily_grid_import_cost"
	SENSOR_ID_DAILY_AVERAGE_IMPORT_PRICE     = "daily_average_import_price"
	SENSOR_ID_MONTHLY_GRID_IMPORT_ENERGY     = "monthly_grid_import_energy"
	SENSOR_ID_MONTHLY_GRID_IMPORT_COST       = "monthly_grid_import_cost"
	SENSOR_ID_MONTHLY_AVERAGE_IMPORT_PRICE   = "monthly_average_import_price"
	SENSOR_ID_QUOTA_CONSUMED                 = "quota_consumed"
	SENSOR_ID_QUOTA_REMAINING                = "quota_remaining"
	SENSOR_ID_QUOTA_PERCENT                  = "quota_percent"
	SENSOR_ID_QUOTA_RESERVE                  = "quota_reserve"
	SENSOR_ID_QUOTA_DAILY_BUDGET             = "quota_daily_budget"
	SENSOR_ID_QUOTA_PROJECTED_ANNUAL         = "quota_projected_annual"
	SENSOR_ID_QUOTA_DAYS_REMAINING           = "quota_days_remaining"
	SENSOR_ID_QUOTA_STATUS                   = "quota_status"
	SENSOR_ID_QUOTA_MONTHLY_PAYMENT          = "quota_monthly_payment"
	BUTTON_ID_SPOT_RESET                     = "spot_reset"
	BUTTON_ID_IMPORT_COST_RESET              = "import_cost_reset"
	STATE_CLASS_MEASUREMENT                  = "measurement"
	STATE_CLASS_TOTAL                        = "total"
	STATE_CLASS_TOTAL_INCREASING             = "total_increasing"
	DEVICE_CLASS_ENERGY                      = "energy"
	DEVICE_CLASS_MONETARY                    = "monetary"
	DEVICE_CLASS_DURATION                    = "duration"
	DEVICE_CLASS_WEIGHT                      = "weight"
	DEVICE_CLASS_CONNECTIVITY                = "connectivity"
	ENTITY_CLASS_DIAGNOSTIC                  = "diagnostic"
	ENTITY_CLASS_CONFIG                      = "config"
	SENSOR_TYPE_SENSOR                       = "sensor"
	SENSOR_TYPE_BINARY                       = "binary_sensor"
)

func BridgeDevice(baseTopic string) Device {
	return Device{
		Id:           fmt.Sprintf("pvledger_bridge_%s", md5HashShort(baseTopic)),
		Manufacturer: "ACasal",
		Model:        "PVLedger",
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("PVLedger %s", md5HashShort(baseTopic)),
	}
}

func PlantDevice(baseTopic string) Device {
	return Device{
		Id:           fmt.Sprintf("pvledger_plant_%s", md5HashShort(baseTopic)),
		Manufacturer: "ACasal",
		Model:        "PVLedger plant",
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("PV Plant %s", md5HashShort(baseTopic)),
	}
}

func PricesDevice(baseTopic string) Device {
	return Device{
		Id:           fmt.Sprintf("pvledger_prices_%s", md5HashShort(baseTopic)),
		Manufacturer: "ACasal",
		Model:        "PVLedger prices",
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("Electricity prices %s", md5HashShort(baseTopic)),
	}
}

func IdDevice(device Device) Device {
	return Device{
		Id:   device.Id,
		Name: device.Name,
	}
}

func BridgeSensors(bridgeDevice Device) []GenericSensor {

	var sensors []GenericSensor

	// Bridge connection state
	sensors = append(sensors, GenericSensor{
		Device:         bridgeDevice,
		Id:             SENSOR_ID_BRIDGE_STATE,
		SensorType:     SENSOR_TYPE_BINARY,
		Name:           "Bridge state",
		DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
		EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
		UniqueId:       uniqueId(bridgeDevice.Id, SENSOR_ID_BRIDGE_STATE),
	})

	return sensors
}

func PlantEnergySensors(plantDevice Device, hasExport, hasImport, hasConsumption bool) []GenericSensor {

	var sensors []GenericSensor

	// PV production lifetime total
	sensors = append(sensors, GenericSensor{
		Device:            plantDevice,
		Id:                SENSOR_ID_PV_ENERGY_TOTAL,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "PV energy total",
		StateClass:        STATE_CLASS_TOTAL_INCREASING,
		DeviceClass:       DEVICE_CLASS_ENERGY,
		UnitOfMeasurement: "kWh",
		Icon:              "mdi:solar-power",
		UniqueId:          uniqueId(plantDevice.Id, SENSOR_ID_PV_ENERGY_TOTAL),
	})

	// Self consumption lifetime total
	sensors = append(sensors, GenericSensor{
		Device:            plantDevice,
		Id:                SENSOR_ID_SELF_CONSUMPTION_ENERGY_TOTAL,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Self consumption energy total",
		StateClass:        STATE_CLASS_TOTAL_INCREASING,
		DeviceClass:       DEVICE_CLASS_ENERGY,
		UnitOfMeasurement: "kWh",
		Icon:              "mdi:home-lightning-bolt",
		UniqueId:          uniqueId(plantDevice.Id, SENSOR_ID_SELF_CONSUMPTION_ENERGY_TOTAL),
	})

	if hasExport {
		// Grid export lifetime total
		sensors = append(sensors, GenericSensor{
			Device:            plantDevice,
			Id:                SENSOR_ID_GRID_EXPORT_ENERGY_TOTAL,
			SensorType:        SENSOR_TYPE_SENSOR,
			Name:              "Grid export energy total",
			StateClass:        STATE_CLASS_TOTAL_INCREASING,
			DeviceClass:       DEVICE_CLASS_ENERGY,
			UnitOfMeasurement: "kWh",
			Icon:              "mdi:transmission-tower-import",
			UniqueId:          uniqueId(plantDevice.Id, SENSOR_ID_GRID_EXPORT_ENERGY_TOTAL),
		})
	}

	if hasImport {
		// Grid import lifetime total
		sensors = append(sensors, GenericSensor{
			Device:            plantDevice,
			Id:                SENSOR_ID_GRID_IMPORT_ENERGY_TOTAL,
			SensorType:        SENSOR_TYPE_SENSOR,
			Name:              "Grid import energy total",
			StateClass:        STATE_CLASS_TOTAL_INCREASING,
			DeviceClass:       DEVICE_CLASS_ENERGY,
			UnitOfMeasurement: "kWh",
			Icon:              "mdi:transmission-tower-export",
			UniqueId:          uniqueId(plantDevice.Id, SENSOR_ID_GRID_IMPORT_ENERGY_TOTAL),
		})
	}

	if hasConsumption {
		// House consumption lifetime total
		sensors = append(sensors, GenericSensor{
			Device:            plantDevice,
			Id:                SENSOR_ID_HOUSE_CONSUMPTION_ENERGY_TOTAL,
			SensorType:        SENSOR_TYPE_SENSOR,
			Name:              "House consumption energy total",
			StateClass:        STATE_CLASS_TOTAL_INCREASING,
			DeviceClass:       DEVICE_CLASS_ENERGY,
			UnitOfMeasurement: "kWh",
			Icon:              "mdi:home-lightning-bolt-outline",
			UniqueId:          uniqueId(plantDevice.Id, SENSOR_ID_HOUSE_CONSUMPTION_ENERGY_TOTAL),
		})
	}

	return sensors
}

func AmortizationSensors(plantDevice Device) []GenericSensor {

	var sensors []GenericSensor

	// Amortized amount
	sensors = append(sensors, GenericSensor{
		Device:            plantDevice,
		Id:                SENSOR_ID_AMORTIZED_AMOUNT,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Amortized amount",
		StateClass:        STATE_CLASS_TOTAL,
		DeviceClass:       DEVICE_CLASS_MONETARY,
		UnitOfMeasurement: "€",
		Icon:              "mdi:cash-plus",
		UniqueId:          uniqueId(plantDevice.Id, SENSOR_ID_AMORTIZED_AMOUNT),
	})

	// Remaining amount
	sensors = append(sensors, GenericSensor{
		Device:            plantDevice,
		Id:                SENSOR_ID_AMORTIZATION_REMAINING,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Amortization remaining",
		StateClass:        STATE_CLASS_TOTAL,
		DeviceClass:       DEVICE_CLASS_MONETARY,
		UnitOfMeasurement: "€",
		Icon:              "mdi:cash-minus",
		UniqueId:          uniqueId(plantDevice.Id, SENSOR_ID_AMORTIZATION_REMAINING),
	})

	// Amortization percentage
	sensors = append(sensors, GenericSensor{
		Device:            plantDevice,
		Id:                SENSOR_ID_AMORTIZATION_PERCENT,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Amortization percent",
		StateClass:        STATE_CLASS_MEASUREMENT,
		UnitOfMeasurement: "%",
		Icon:              "mdi:percent",
		UniqueId:          uniqueId(plantDevice.Id, SENSOR_ID_AMORTIZATION_PERCENT),
	})

	// Amortization status text
	sensors = append(sensors, GenericSensor{
		Device:     plantDevice,
		Id:         SENSOR_ID_AMORTIZATION_STATUS,
		SensorType: SENSOR_TYPE_SENSOR,
		Name:       "Amortization status",
		Icon:       "mdi:progress-check",
		UniqueId:   uniqueId(plantDevice.Id, SENSOR_ID_AMORTIZATION_STATUS),
	})

	return sensors
}

func ForecastSensors(plantDevice Device, hasConsumption bool) []GenericSensor {

	var sensors []GenericSensor

	// Average savings per day
	sensors = append(sensors, GenericSensor{
		Device:            plantDevice,
		Id:                SENSOR_ID_SAVINGS_PER_DAY,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Savings per day",
		StateClass:        STATE_CLASS_MEASUREMENT,
		DeviceClass:       DEVICE_CLASS_MONETARY,
		UnitOfMeasurement: "€",
		UniqueId:          uniqueId(plantDevice.Id, SENSOR_ID_SAVINGS_PER_DAY),
	})

	// Average savings per month
	sensors = append(sensors, GenericSensor{
		Device:            plantDevice,
		Id:                SENSOR_ID_SAVINGS_PER_MONTH,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Savings per month",
		StateClass:        STATE_CLASS_MEASUREMENT,
		DeviceClass:       DEVICE_CLASS_MONETARY,
		UnitOfMeasurement: "€",
		UniqueId:          uniqueId(plantDevice.Id, SENSOR_ID_SAVINGS_PER_MONTH),
	})

	// Average savings per year
	sensors = append(sensors, GenericSensor{
		Device:            plantDevice,
		Id:                SENSOR_ID_SAVINGS_PER_YEAR,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Savings per year",
		StateClass:        STATE_CLASS_MEASUREMENT,
		DeviceClass:       DEVICE_CLASS_MONETARY,
		UnitOfMeasurement: "€",
		UniqueId:          uniqueId(plantDevice.Id, SENSOR_ID_SAVINGS_PER_YEAR),
	})

	// Days since install
	sensors = append(sensors, GenericSensor{
		Device:            plantDevice,
		Id:                SENSOR_ID_DAYS_SINCE_INSTALL,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Days since install",
		StateClass:        STATE_CLASS_MEASUREMENT,
		DeviceClass:       DEVICE_CLASS_DURATION,
		UnitOfMeasurement: "d",
		EntityCategory:    ENTITY_CLASS_DIAGNOSTIC,
		UniqueId:          uniqueId(plantDevice.Id, SENSOR_ID_DAYS_SINCE_INSTALL),
	})

	// Payback days remaining
	sensors = append(sensors, GenericSensor{
		Device:            plantDevice,
		Id:                SENSOR_ID_PAYBACK_DAYS_REMAINING,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Payback days remaining",
		StateClass:        STATE_CLASS_MEASUREMENT,
		DeviceClass:       DEVICE_CLASS_DURATION,
		UnitOfMeasurement: "d",
		Icon:              "mdi:calendar-clock",
		UniqueId:          uniqueId(plantDevice.Id, SENSOR_ID_PAYBACK_DAYS_REMAINING),
	})

	// Estimated payback date
	sensors = append(sensors, GenericSensor{
		Device:     plantDevice,
		Id:         SENSOR_ID_PAYBACK_DATE,
		SensorType: SENSOR_TYPE_SENSOR,
		Name:       "Estimated payback date",
		Icon:       "mdi:calendar-check",
		UniqueId:   uniqueId(plantDevice.Id, SENSOR_ID_PAYBACK_DATE),
	})

	// Self consumption ratio
	sensors = append(sensors, GenericSensor{
		Device:            plantDevice,
		Id:                SENSOR_ID_SELF_CONSUMPTION_RATIO,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Self consumption ratio",
		StateClass:        STATE_CLASS_MEASUREMENT,
		UnitOfMeasurement: "%",
		Icon:              "mdi:home-percent",
		UniqueId:          uniqueId(plantDevice.Id, SENSOR_ID_SELF_CONSUMPTION_RATIO),
	})

	if hasConsumption {
		// Autarky ratio
		sensors = append(sensors, GenericSensor{
			Device:            plantDevice,
			Id:                SENSOR_ID_AUTARKY_RATIO,
			SensorType:        SENSOR_TYPE_SENSOR,
			Name:              "Autarky ratio",
			StateClass:        STATE_CLASS_MEASUREMENT,
			UnitOfMeasurement: "%",
			Icon:              "mdi:home-battery",
			UniqueId:          uniqueId(plantDevice.Id, SENSOR_ID_AUTARKY_RATIO),
		})
	}

	// CO2 saved
	sensors = append(sensors, GenericSensor{
		Device:            plantDevice,
		Id:                SENSOR_ID_CO2_SAVED,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "CO2 saved",
		StateClass:        STATE_CLASS_TOTAL_INCREASING,
		DeviceClass:       DEVICE_CLASS_WEIGHT,
		UnitOfMeasurement: "kg",
		Icon:              "mdi:molecule-co2",
		UniqueId:          uniqueId(plantDevice.Id, SENSOR_ID_CO2_SAVED),
	})

	return sensors
}

func SpotComparisonSensors(plantDevice Device) []GenericSensor {

	var sensors []GenericSensor

	// Spot vs fixed running savings
	sensors = append(sensors, GenericSensor{
		Device:            plantDevice,
		Id:                SENSOR_ID_SPOT_VS_FIXED_SAVINGS,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Spot vs fixed savings",
		StateClass:        STATE_CLASS_TOTAL,
		DeviceClass:       DEVICE_CLASS_MONETARY,
		UnitOfMeasurement: "€",
		Icon:              "mdi:chart-line",
		UniqueId:          uniqueId(plantDevice.Id, SENSOR_ID_SPOT_VS_FIXED_SAVINGS),
	})

	return sensors
}

func QuotaSensors(plantDevice Device) []GenericSensor {

	var sensors []GenericSensor

	// Quota consumed
	sensors = append(sensors, GenericSensor{
		Device:            plantDevice,
		Id:                SENSOR_ID_QUOTA_CONSUMED,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Quota consumed",
		StateClass:        STATE_CLASS_TOTAL,
		DeviceClass:       DEVICE_CLASS_ENERGY,
		UnitOfMeasurement: "kWh",
		UniqueId:          uniqueId(plantDevice.Id, SENSOR_ID_QUOTA_CONSUMED),
	})

	// Quota remaining
	sensors = append(sensors, GenericSensor{
		Device:            plantDevice,
		Id:                SENSOR_ID_QUOTA_REMAINING,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Quota remaining",
		StateClass:        STATE_CLASS_TOTAL,
		DeviceClass:       DEVICE_CLASS_ENERGY,
		UnitOfMeasurement: "kWh",
		UniqueId:          uniqueId(plantDevice.Id, SENSOR_ID_QUOTA_REMAINING),
	})

	// Quota percent consumed
	sensors = append(sensors, GenericSensor{
		Device:            plantDevice,
		Id:                SENSOR_ID_QUOTA_PERCENT,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Quota percent consumed",
		StateClass:        STATE_CLASS_MEASUREMENT,
		UnitOfMeasurement: "%",
		Icon:              "mdi:percent",
		UniqueId:          uniqueId(plantDevice.Id, SENSOR_ID_QUOTA_PERCENT),
	})

	// Quota reserve vs linear budget
	sensors = append(sensors, GenericSensor{
		Device:            plantDevice,
		Id:                SENSOR_ID_QUOTA_RESERVE,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Quota reserve",
		StateClass:        STATE_CLASS_MEASUREMENT,
		UnitOfMeasurement: "kWh",
		Icon:              "mdi:scale-balance",
		UniqueId:          uniqueId(plantDevice.Id, SENSOR_ID_QUOTA_RESERVE),
	})

	// Quota daily budget
	sensors = append(sensors, GenericSensor{
		Device:            plantDevice,
		Id:                SENSOR_ID_QUOTA_DAILY_BUDGET,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Quota daily budget",
		StateClass:        STATE_CLASS_MEASUREMENT,
		UnitOfMeasurement: "kWh",
		UniqueId:          uniqueId(plantDevice.Id, SENSOR_ID_QUOTA_DAILY_BUDGET),
	})

	// Quota projected annual consumption
	sensors = append(sensors, GenericSensor{
		Device:            plantDevice,
		Id:                SENSOR_ID_QUOTA_PROJECTED_ANNUAL,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Quota projected annual",
		StateClass:        STATE_CLASS_MEASUREMENT,
		UnitOfMeasurement: "kWh",
		Icon:              "mdi:chart-bell-curve",
		UniqueId:          uniqueId(plantDevice.Id, SENSOR_ID_QUOTA_PROJECTED_ANNUAL),
	})

	// Quota days remaining
	sensors = append(sensors, GenericSensor{
		Device:            plantDevice,
		Id:                SENSOR_ID_QUOTA_DAYS_REMAINING,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Quota days remaining",
		StateClass:        STATE_CLASS_MEASUREMENT,
		DeviceClass:       DEVICE_CLASS_DURATION,
		UnitOfMeasurement: "d",
		UniqueId:          uniqueId(plantDevice.Id, SENSOR_ID_QUOTA_DAYS_REMAINING),
	})

	// Quota status text
	sensors = append(sensors, GenericSensor{
		Device:     plantDevice,
		Id:         SENSOR_ID_QUOTA_STATUS,
		SensorType: SENSOR_TYPE_SENSOR,
		Name:       "Quota status",
		Icon:       "mdi:gauge",
		UniqueId:   uniqueId(plantDevice.Id, SENSOR_ID_QUOTA_STATUS),
	})

	// Quota monthly payment (display only)
	sensors = append(sensors, GenericSensor{
		Device:            plantDevice,
		Id:                SENSOR_ID_QUOTA_MONTHLY_PAYMENT,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Quota monthly payment",
		DeviceClass:       DEVICE_CLASS_MONETARY,
		UnitOfMeasurement: "€",
		EntityCategory:    ENTITY_CLASS_DIAGNOSTIC,
		EnabledByDefault:  optionalBool(false),
		UniqueId:          uniqueId(plantDevice.Id, SENSOR_ID_QUOTA_MONTHLY_PAYMENT),
	})

	return sensors
}

func ImportCostSensors(pricesDevice Device) []GenericSensor {

	var sensors []GenericSensor

	// Grid import cost lifetime total
	sensors = append(sensors, GenericSensor{
		Device:            pricesDevice,
		Id:                SENSOR_ID_GRID_IMPORT_COST_TOTAL,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Grid import cost total",
		StateClass:        STATE_CLASS_TOTAL,
		DeviceClass:       DEVICE_CLASS_MONETARY,
		UnitOfMeasurement: "€",
		Icon:              "mdi:cash-minus",
		UniqueId:          uniqueId(pricesDevice.Id, SENSOR_ID_GRID_IMPORT_COST_TOTAL),
	})

	// Weighted average import price, lifetime
	sensors = append(sensors, GenericSensor{
		Device:            pricesDevice,
		Id:                SENSOR_ID_AVERAGE_IMPORT_PRICE,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Average import price",
		StateClass:        STATE_CLASS_MEASUREMENT,
		UnitOfMeasurement: "ct/kWh",
		Icon:              "mdi:cash-sync",
		UniqueId:          uniqueId(pricesDevice.Id, SENSOR_ID_AVERAGE_IMPORT_PRICE),
	})

	// Daily grid import energy
	sensors = append(sensors, GenericSensor{
		Device:            pricesDevice,
		Id:                SENSOR_ID_DAILY_GRID_IMPORT_ENERGY,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Daily grid import",
		StateClass:        STATE_CLASS_TOTAL,
		DeviceClass:       DEVICE_CLASS_ENERGY,
		UnitOfMeasurement: "kWh",
		UniqueId:          uniqueId(pricesDevice.Id, SENSOR_ID_DAILY_GRID_IMPORT_ENERGY),
	})

	// Daily grid import cost
	sensors = append(sensors, GenericSensor{
		Device:            pricesDevice,
		Id:                SENSOR_ID_DAILY_GRID_IMPORT_COST,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Daily grid import cost",
		StateClass:        STATE_CLASS_TOTAL,
		DeviceClass:       DEVICE_CLASS_MONETARY,
		UnitOfMeasurement: "€",
		UniqueId:          uniqueId(pricesDevice.Id, SENSOR_ID_DAILY_GRID_IMPORT_COST),
	})

	// Weighted average import price, today
	sensors = append(sensors, GenericSensor{
		Device:            pricesDevice,
		Id:                SENSOR_ID_DAILY_AVERAGE_IMPORT_PRICE,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Daily average import price",
		StateClass:        STATE_CLASS_MEASUREMENT,
		UnitOfMeasurement: "ct/kWh",
		UniqueId:          uniqueId(pricesDevice.Id, SENSOR_ID_DAILY_AVERAGE_IMPORT_PRICE),
	})

	// Monthly grid import energy
	sensors = append(sensors, GenericSensor{
		Device:            pricesDevice,
		Id:                SENSOR_ID_MONTHLY_GRID_IMPORT_ENERGY,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Monthly grid import",
		StateClass:        STATE_CLASS_TOTAL,
		DeviceClass:       DEVICE_CLASS_ENERGY,
		UnitOfMeasurement: "kWh",
		UniqueId:          uniqueId(pricesDevice.Id, SENSOR_ID_MONTHLY_GRID_IMPORT_ENERGY),
	})

	// Monthly grid import cost
	sensors = append(sensors, GenericSensor{
		Device:            pricesDevice,
		Id:                SENSOR_ID_MONTHLY_GRID_IMPORT_COST,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Monthly grid import cost",
		StateClass:        STATE_CLASS_TOTAL,
		DeviceClass:       DEVICE_CLASS_MONETARY,
		UnitOfMeasurement: "€",
		UniqueId:          uniqueId(pricesDevice.Id, SENSOR_ID_MONTHLY_GRID_IMPORT_COST),
	})

	// Weighted average import price, this month
	sensors = append(sensors, GenericSensor{
		Device:            pricesDevice,
		Id:                SENSOR_ID_MONTHLY_AVERAGE_IMPORT_PRICE,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Monthly average import price",
		StateClass:        STATE_CLASS_MEASUREMENT,
		UnitOfMeasurement: "ct/kWh",
		UniqueId:          uniqueId(pricesDevice.Id, SENSOR_ID_MONTHLY_AVERAGE_IMPORT_PRICE),
	})

	return sensors
}

func ImportCostResetButton(pricesDevice Device) GenericButton {
	return GenericButton{
		Device:         pricesDevice,
		Id:             BUTTON_ID_IMPORT_COST_RESET,
		Name:           "Reset import cost tracking",
		Icon:           "mdi:cash-remove",
		EntityCategory: ENTITY_CLASS_CONFIG,
		UniqueId:       uniqueId(pricesDevice.Id, BUTTON_ID_IMPORT_COST_RESET),
	}
}

func SpotResetButton(plantDevice Device) GenericButton {
	return GenericButton{
		Device:   plantDevice,
		Id:       BUTTON_ID_SPOT_RESET,
		Name:     "Reset spot comparison",
		Icon:     "mdi:restart",
		UniqueId: uniqueId(plantDevice.Id, BUTTON_ID_SPOT_RESET),
	}
}

func uniqueId(deviceId, sensorId string) string {
	return fmt.Sprintf("%s_%s", deviceId, sensorId)
}

func md5HashShort(value string) string {
	hash := md5.Sum([]byte(value))
	return hex.EncodeToString(hash[:])[:8]
}

func optionalBool(value bool) *bool {
	return &value
}
