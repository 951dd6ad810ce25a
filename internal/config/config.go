package config

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

const (
	PRICE_UNIT_EUR  = "eur"
	PRICE_UNIT_CENT = "cent"
)

type Config struct {
	LogLevel zapcore.Level
	MQTT     MQTTConfig `mapstructure:"mqtt"`

	Meters  MetersConfig  `mapstructure:"meters"`
	Tariff  TariffConfig  `mapstructure:"tariff"`
	Quota   QuotaConfig   `mapstructure:"quota"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Storage StorageConfig `mapstructure:"storage"`
	Port    uint          `mapstructure:"port"`
	HttpLog bool          `mapstructure:"http_log"`
}

type MQTTConfig struct {
	Host              string
	Port              int
	Username          string
	Password          string
	BaseTopic         string `mapstructure:"base_topic"`
	HADiscoveryEnable bool   `mapstructure:"ha_discovery_enable"`
	HADiscoveryTopic  string `mapstructure:"ha_discovery_topic"`
}

// MetersConfig holds the MQTT topics the raw counter readings arrive on.
// Only the production counter is mandatory; the presence of the other
// topics enables the derived computations that depend on them.
type MetersConfig struct {
	ProductionTopic  string `mapstructure:"production_topic"`
	ExportTopic      string `mapstructure:"export_topic"`
	ImportTopic      string `mapstructure:"import_topic"`
	ConsumptionTopic string `mapstructure:"consumption_topic"`
	SpotPriceTopic   string `mapstructure:"spot_price_topic"`
	SpotPriceUnit    string `mapstructure:"spot_price_unit"`
}

func (m MetersConfig) HasExport() bool {
	return m.ExportTopic != ""
}

func (m MetersConfig) HasImport() bool {
	return m.ImportTopic != ""
}

func (m MetersConfig) HasConsumption() bool {
	return m.ConsumptionTopic != ""
}

func (m MetersConfig) HasSpotPrice() bool {
	return m.SpotPriceTopic != ""
}

type TariffConfig struct {
	FixedPricePerKWh          float64 `mapstructure:"fixed_price_per_kwh"`
	FeedInTariffPerKWh        float64 `mapstructure:"feed_in_tariff_per_kwh"`
	PriceUnit                 string  `mapstructure:"price_unit"`
	InvestmentCost            float64 `mapstructure:"investment_cost"`
	InstallDate               string  `mapstructure:"install_date"`
	HistoricalAmortizedAmount float64 `mapstructure:"historical_amortized_amount"`
}

type QuotaConfig struct {
	YearlyQuotaKWh      float64 `mapstructure:"yearly_quota_kwh"`
	PeriodStartDate     string  `mapstructure:"period_start_date"`
	MeterReadingAtStart float64 `mapstructure:"meter_reading_at_start"`
	MonthlyPayment      float64 `mapstructure:"monthly_payment"`
}

func (q QuotaConfig) Enabled() bool {
	return q.YearlyQuotaKWh > 0
}

type EngineConfig struct {
	GridEmissionFactor      float64       `mapstructure:"grid_emission_factor"`
	ResetToleranceKWh       float64       `mapstructure:"reset_tolerance_kwh"`
	MaxDeltaKWh             float64       `mapstructure:"max_delta_kwh"`
	RecomputeIntervalMillis uint32        `mapstructure:"recompute_interval_millis"`
	Offsets                 OffsetsConfig `mapstructure:"offsets"`
}

// OffsetsConfig seeds the accumulators with energy counted before this
// service started tracking, so lifetime totals do not restart from zero.
type OffsetsConfig struct {
	ProductionKWh      float64 `mapstructure:"production_kwh"`
	SelfConsumptionKWh float64 `mapstructure:"self_consumption_kwh"`
	ExportKWh          float64 `mapstructure:"export_kwh"`
	ImportKWh          float64 `mapstructure:"import_kwh"`
	ConsumptionKWh     float64 `mapstructure:"consumption_kwh"`
}

type StorageConfig struct {
	StateFile string `mapstructure:"state_file"`
}

func CheckMQTTTopic(baseTopic string) (string, error) {
	// check and fix base topic
	lowerBaseTopic := strings.ToLower(baseTopic)
	baseTopicRegexp := regexp.MustCompile("^[a-z0-9_]+$")
	matches := baseTopicRegexp.FindAllStringSubmatch(lowerBaseTopic, 1)
	if len(matches) <= 0 {
		return "", errors.New("invalid topic. can only contain letters, numbers and underscores")
	}
	return lowerBaseTopic, nil
}

func CheckPriceUnit(unit string) (string, error) {
	lower := strings.ToLower(unit)
	if lower != PRICE_UNIT_EUR && lower != PRICE_UNIT_CENT {
		return "", errors.New("invalid price unit. must be \"eur\" or \"cent\"")
	}
	return lower, nil
}

// ParseDate parses a YYYY-MM-DD config value.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(time.DateOnly, value)
}

func (t TariffConfig) ParsedInstallDate() (time.Time, error) {
	return ParseDate(t.InstallDate)
}

func (q QuotaConfig) ParsedPeriodStartDate() (time.Time, error) {
	return ParseDate(q.PeriodStartDate)
}
