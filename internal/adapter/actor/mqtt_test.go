package actor

import (
	"testing"
	"time"

	"github.com/berfenger/pvledger2mqtt/internal/core/domain"
	"github.com/berfenger/pvledger2mqtt/internal/util"
	"github.com/berfenger/pvledger2mqtt/internal/util/actorutil"

	"github.com/berfenger/pvledger2mqtt/internal/mqtt"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMQTTActor(t *testing.T) {

	cfg := util.LoadTestConfig()

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)

	context := as.Root

	es := eventstream.EventStream{}

	props := actor.PropsFromProducer(func() actor.Actor { return NewTestMQTTActor(&cfg, &es, logger) })
	pid := context.Spawn(props)

	time.Sleep(2 * time.Second)

	msg := domain.ActorHealthRequest{}
	result, err := context.RequestFuture(pid, msg, 2*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp, ok := result.(domain.ActorHealthResponse)
	assert.True(t, ok)
	assert.NotNil(t, resp)

	es.Publish(domain.FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{
			Id: domain.SENSOR_ID_AMORTIZED_AMOUNT,
		},
		Value:    245,
		Decimals: 2,
	})
	es.Publish(domain.FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{
			Id: domain.SENSOR_ID_PV_ENERGY_TOTAL,
		},
		Value:    345.32,
		Decimals: 3,
	})

	time.Sleep(1 * time.Second)

	context.Stop(pid)

	time.Sleep(1 * time.Second)

	as.Shutdown()
}

func TestFloatSensorEventRetainFlag(t *testing.T) {

	cfg := util.LoadTestConfig()
	logger := zap.Must(zap.NewDevelopment())

	state := NewMQTTActor(&cfg, &eventstream.EventStream{}, logger)
	state.client = mqtt.CreateMQTTClient(&cfg, mqtt.OptsFromConfig(&cfg), nil, nil)

	retained := state.event2MQTTMessage(domain.FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{
			Id: domain.SENSOR_ID_PV_ENERGY_TOTAL,
		},
		Value:    345.321,
		Decimals: 3,
		Retain:   true,
	})
	assert.NotNil(t, retained)
	assert.True(t, retained.retain)
	assert.Equal(t, "345.321", retained.message)

	volatile := state.event2MQTTMessage(domain.FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{
			Id: domain.SENSOR_ID_SAVINGS_PER_DAY,
		},
		Value:    1.5,
		Decimals: 2,
	})
	assert.NotNil(t, volatile)
	assert.False(t, volatile.retain)
}
