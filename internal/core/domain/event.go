package domain

import "fmt"

type SensorUpdateEventMixIn struct {
	Id string
}

type SensorUpdateEvent interface {
	SensorUpdateEvent() string
	SensorId() string
}

func (e SensorUpdateEventMixIn) SensorUpdateEvent() string {
	return fmt.Sprintf("%T", e)
}

func (e SensorUpdateEventMixIn) SensorId() string {
	return e.Id
}

type FloatSensorUpdateEvent struct {
	SensorUpdateEventMixIn
	Value    float64
	Decimals uint
	// Retain marks values a broker restart must not lose, e.g. lifetime
	// totals.
	Retain bool
}

type BinarySensorUpdateEvent struct {
	SensorUpdateEventMixIn
	Value bool
}

type TextSensorUpdateEvent struct {
	SensorUpdateEventMixIn
	Value string
}

type BridgeStateUpdateEvent struct {
	SensorUpdateEventMixIn
	Value bool
}
