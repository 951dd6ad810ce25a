package util

import (
	"github.com/berfenger/pvledger2mqtt/internal/config"

	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel: zap.DebugLevel,
		MQTT: config.MQTTConfig{
			Host:             "localhost",
			Port:             1883,
			BaseTopic:        "pvledger",
			HADiscoveryTopic: "homeassistant",
		},
		Meters: config.MetersConfig{
			ProductionTopic:  "meters/production/total",
			ExportTopic:      "meters/export/total",
			ImportTopic:      "meters/import/total",
			ConsumptionTopic: "meters/consumption/total",
			SpotPriceTopic:   "meters/spot/price",
			SpotPriceUnit:    config.PRICE_UNIT_EUR,
		},
		Tariff: config.TariffConfig{
			FixedPricePerKWh:   0.30,
			FeedInTariffPerKWh: 0.08,
			PriceUnit:          config.PRICE_UNIT_EUR,
			InvestmentCost:     10000,
			InstallDate:        "2024-03-01",
		},
		Quota: config.QuotaConfig{
			YearlyQuotaKWh:      4000,
			PeriodStartDate:     "2025-01-01",
			MeterReadingAtStart: 0,
			MonthlyPayment:      120,
		},
		Engine: config.EngineConfig{
			GridEmissionFactor:      0.4,
			MaxDeltaKWh:             50,
			RecomputeIntervalMillis: 1000,
		},
		Storage: config.StorageConfig{
			StateFile: "pvledger_state.json",
		},
		Port: 8080,
	}
}
