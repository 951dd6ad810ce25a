package domain

import "time"

const (
	ACTOR_ID_MASTER       = "master"
	ACTOR_ID_LEDGER       = "ledger"
	ACTOR_ID_MQTT         = "mqtt"
	ACTOR_ID_HA_DISCOVERY = "hadiscovery"
)

// MeterSampleMessage carries a raw counter reading from the MQTT adapter to
// the ledger.
type MeterSampleMessage struct {
	Metric string
	Sample MonotonicCounterSample
}

// SpotPriceMessage carries the latest spot market price (EUR/kWh).
type SpotPriceMessage struct {
	PricePerKWh float64
	At          time.Time
}

type GetLedgerSummaryRequest struct {
	ActorRequestMixIn
}

type GetLedgerSummaryResponse struct {
	ActorResponseMixIn
	Summary *LedgerSummary
}

// RefreshSensorsRequest asks the ledger to republish every derived sensor
// value, e.g. after Home Assistant discovery.
type RefreshSensorsRequest struct {
	ActorRequestMixIn
}

type RefreshSensorsResponse struct {
	ActorResponseMixIn
}

// ResetSpotComparisonRequest zeroes the spot-vs-fixed running total without
// touching energy accumulators.
type ResetSpotComparisonRequest struct {
	ActorRequestMixIn
}

type ResetSpotComparisonResponse struct {
	ActorResponseMixIn
}

// ResetImportCostRequest zeroes the electricity-price tracking (total,
// daily and monthly import cost windows) without touching energy
// accumulators.
type ResetImportCostRequest struct {
	ActorRequestMixIn
}

type ResetImportCostResponse struct {
	ActorResponseMixIn
}

type PublishMessageRequest struct {
	ActorRequestMixIn
	Topic   string
	Payload string
	Retain  bool
}

type PublishMessageResponse struct {
	ActorResponseMixIn
}

type PublishSensorUpdateRequest struct {
	ActorRequestMixIn
	Retain bool
	Event  SensorUpdateEvent
}

type PublishSensorUpdateResponse struct {
	ActorResponseMixIn
}

type PublishDiscoveryRequest struct {
	ActorRequestMixIn
	Sensors []GenericSensor
	Buttons []GenericButton
}

type PublishDiscoveryResponse struct {
	ActorResponseMixIn
}

type ActorHealthRequest struct {
	ActorRequestMixIn
}

type ActorHealthResponse struct {
	ActorResponseMixIn
	Id      string
	Healthy bool
	State   string
}
