package actor

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/berfenger/pvledger2mqtt/internal/config"
	"github.com/berfenger/pvledger2mqtt/internal/core/domain"
	"github.com/berfenger/pvledger2mqtt/internal/mqtt"
	"github.com/berfenger/pvledger2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

type MQTTActor struct {
	config         *config.Config
	behavior       actor.Behavior
	stash          *actorutil.Stash
	client         *mqtt.MQTTClient
	eventStream    *eventstream.EventStream
	eventStreamSub *eventstream.Subscription
	subsWanted     int
	subsAcked      int
	logger         *zap.Logger
}

type MQTTConnected struct {
}

type MQTTSubscribed struct {
}

type MQTTConnectionLost struct {
	Error error
}

type topicSubscribed struct {
}

type OnEventStreamMessage struct {
	message any
}

type publishResult struct {
	ReplyTo *actor.PID
	Error   error
}

type ParsedCommand struct {
	Command *mqtt.ParsedMQTTCommand
}

type rawMessage struct {
	topic   string
	message string
	retain  bool
}

func NewMQTTActor(config *config.Config, eventStream *eventstream.EventStream, logger *zap.Logger) *MQTTActor {
	act := &MQTTActor{
		config:      config,
		behavior:    actor.NewBehavior(),
		stash:       &actorutil.Stash{},
		eventStream: eventStream,
		logger:      actorutil.ActorLogger(domain.ACTOR_ID_MQTT, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *MQTTActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *MQTTActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("mqtt@starting started")

		// create MQTT client
		state.client = mqtt.CreateMQTTClient(state.config, mqtt.OptsFromConfig(state.config), func(_ pahomqtt.Client) {
		}, func(_ pahomqtt.Client, err error) {
			ctx.Send(ctx.Self(), MQTTConnectionLost{Error: err})
		})

		// connect to MQTT server
		state.client.Connect(func(err error) {
			if err != nil {
				ctx.Send(ctx.Self(), MQTTConnectionLost{Error: err})
			} else {
				ctx.Send(ctx.Self(), MQTTConnected{})
			}
		}, 10*time.Second)

	case MQTTConnected:
		state.logger.Debug("mqtt@starting connected")

		state.client.Publish(state.client.BridgeStateTopic(), mqtt.MQTT_PAYLOAD_ONLINE, 0, true, func(error) {}, 500*time.Millisecond)

		// subscribe to eventStream
		state.eventStreamSub = state.eventStream.Subscribe(func(value any) {
			ctx.Send(ctx.Self(), OnEventStreamMessage{
				message: value,
			})
		})

		state.subsWanted = 0
		state.subsAcked = 0

		// subscribe to MQTT command topic
		state.subsWanted++
		state.client.SubscribeToCommandTopic(func(c pahomqtt.Client, m pahomqtt.Message) {
			cmd, err := state.client.ParseMQTTCommand(m)
			if err == nil && cmd != nil {
				ctx.Send(ctx.Self(), ParsedCommand{Command: cmd})
			}
		}, state.subscribeContinuation(ctx), 1*time.Second)

		// subscribe to every configured upstream meter topic
		state.subscribeMeterTopic(ctx, state.config.Meters.ProductionTopic, domain.METRIC_PRODUCTION)
		state.subscribeMeterTopic(ctx, state.config.Meters.ExportTopic, domain.METRIC_EXPORT)
		state.subscribeMeterTopic(ctx, state.config.Meters.ImportTopic, domain.METRIC_IMPORT)
		state.subscribeMeterTopic(ctx, state.config.Meters.ConsumptionTopic, domain.METRIC_CONSUMPTION)
		state.subscribeSpotPriceTopic(ctx, state.config.Meters.SpotPriceTopic)
	case topicSubscribed:
		state.subsAcked++
		if state.subsAcked == state.subsWanted {
			ctx.Send(ctx.Self(), MQTTSubscribed{})
		}
	case MQTTSubscribed:
		// init completed, transition to default state
		state.logger.Debug("mqtt@starting subscribed")
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	case MQTTConnectionLost:
		// if connection lost, stop actor and let supervisor decide
		state.logger.Error("mqtt@starting connection lost", zap.Error(msg.Error))
		panic(msg.Error)
	case *actor.Restarting:
		state.stop()
	default:
		state.logger.Debug("mqtt@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MQTTActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Restarting:
		state.stop()
	case *actor.Stopping:
		state.stop()
	case domain.ActorHealthRequest:
		state.logger.Debug("mqtt@default ActorHealthRequest")
		// respond health check request
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_MQTT,
			Healthy: true,
			State:   "idle",
		})
	case ParsedCommand:
		// route command to parent
		state.logger.Debug("mqtt@default parsedCommand", zap.Any("command", msg.Command))
		ctx.Send(ctx.Parent(), msg)
	case domain.MeterSampleMessage:
		// route meter reading to parent
		state.logger.Debug("mqtt@default meterSample", zap.String("metric", msg.Metric), zap.Float64("value", msg.Sample.Value))
		ctx.Send(ctx.Parent(), msg)
	case domain.SpotPriceMessage:
		state.logger.Debug("mqtt@default spotPrice", zap.Float64("price", msg.PricePerKWh))
		ctx.Send(ctx.Parent(), msg)
	case OnEventStreamMessage:
		// receive message from event bus and publish to MQTT if needed
		state.logger.Debug("mqtt@default OnEventStreamMessage", zap.String("type", fmt.Sprintf("%T", msg.message)))
		if ev, ok := msg.message.(domain.SensorUpdateEvent); ok {
			state.publishSensorValue(ctx, ev, false)
		}
	case domain.PublishMessageRequest:
		state.logger.Debug("mqtt@default PublishMessageRequest", zap.Any("message", msg))
		state.publishMessage(ctx, msg.Topic, msg.Payload, msg.Retain, actorutil.ForRequest(msg).ReplyTo(ctx))
	case domain.PublishSensorUpdateRequest:
		state.logger.Debug("mqtt@default PublishSensorUpdateRequest", zap.String("type", fmt.Sprintf("%T", msg.Event)))
		state.publishSensorValue(ctx, msg.Event, msg.Retain)
	case domain.PublishDiscoveryRequest:
		state.logger.Debug("mqtt@default PublishHADiscovery")
		err := state.PublishHomeAssistantDiscovery(ctx, msg.Sensors, msg.Buttons)
		if err != nil {
			state.logger.Error("mqtt@default PublishHADiscovery error", zap.Error(err))
		}
	case MQTTConnectionLost:
		// if connection lost, stop actor and let supervisor decide
		state.logger.Error("mqtt@default connection lost", zap.Error(msg.Error))
		panic(msg.Error)
	default:
		state.logger.Debug("mqtt@default stash", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *MQTTActor) subscribeContinuation(ctx actor.Context) func(error) {
	return func(err error) {
		if err != nil {
			ctx.Send(ctx.Self(), MQTTConnectionLost{Error: err})
		} else {
			ctx.Send(ctx.Self(), topicSubscribed{})
		}
	}
}

func (state *MQTTActor) subscribeMeterTopic(ctx actor.Context, topic, metric string) {
	if topic == "" {
		return
	}
	state.subsWanted++
	state.client.Subscribe(topic, 0, func(c pahomqtt.Client, m pahomqtt.Message) {
		value, err := mqtt.ParseMeterPayload(m.Payload())
		if err != nil {
			state.logger.Debug("mqtt: discarded meter payload", zap.String("metric", metric), zap.Error(err))
			return
		}
		ctx.Send(ctx.Self(), domain.MeterSampleMessage{
			Metric: metric,
			Sample: domain.MonotonicCounterSample{
				Value:     value,
				Timestamp: time.Now(),
			},
		})
	}, state.subscribeContinuation(ctx), 1*time.Second)
}

func (state *MQTTActor) subscribeSpotPriceTopic(ctx actor.Context, topic string) {
	if topic == "" {
		return
	}
	state.subsWanted++
	state.client.Subscribe(topic, 0, func(c pahomqtt.Client, m pahomqtt.Message) {
		value, err := mqtt.ParseMeterPayload(m.Payload())
		if err != nil {
			state.logger.Debug("mqtt: discarded spot price payload", zap.Error(err))
			return
		}
		if state.config.Meters.SpotPriceUnit == config.PRICE_UNIT_CENT {
			value = value / 100
		}
		ctx.Send(ctx.Self(), domain.SpotPriceMessage{
			PricePerKWh: value,
			At:          time.Now(),
		})
	}, state.subscribeContinuation(ctx), 1*time.Second)
}

func (state *MQTTActor) event2MQTTMessage(event any) *rawMessage {
	switch msg := event.(type) {
	case domain.FloatSensorUpdateEvent:
		return &rawMessage{
			topic:   state.client.SensorStateTopic(msg.Id),
			message: fmt.Sprintf(fmt.Sprintf("%%.%df", msg.Decimals), msg.Value),
			retain:  msg.Retain,
		}
	case domain.BinarySensorUpdateEvent:
		return &rawMessage{
			topic:   state.client.BinarySensorStateTopic(msg.Id),
			message: bool2MQTTPayload(msg.Value),
		}
	case domain.TextSensorUpdateEvent:
		return &rawMessage{
			topic:   state.client.SensorStateTopic(msg.Id),
			message: msg.Value,
		}
	case domain.BridgeStateUpdateEvent:
		var stringMessage string
		if msg.Value {
			stringMessage = mqtt.MQTT_PAYLOAD_ONLINE
		} else {
			stringMessage = mqtt.MQTT_PAYLOAD_OFFLINE
		}
		return &rawMessage{
			topic:   state.client.BridgeStateTopic(),
			message: stringMessage,
		}
	default:
		return nil
	}
}

func (state *MQTTActor) publishSensorValue(ctx actor.Context, event domain.SensorUpdateEvent, retain bool) {
	msg := state.event2MQTTMessage(event)
	if msg != nil {
		state.logger.Sugar().Debugf("mqtt@publish: sensor publish %s => %s", msg.topic, msg.message)
		state.client.Publish(msg.topic, msg.message, 1, msg.retain || retain, func(err error) {
			ctx.Send(ctx.Self(), publishResult{Error: err})
		}, 5*time.Second)
		state.behavior.BecomeStacked(state.EventPublishResultReceive)
	}
}

func (state *MQTTActor) publishMessage(ctx actor.Context, topic, payload string, retain bool, replyTo *actor.PID) {
	state.logger.Sugar().Debugf("mqtt@publish: message publish %s => %s", topic, payload)
	state.client.Publish(topic, payload, 1, retain, func(err error) {
		ctx.Send(ctx.Self(), publishResult{ReplyTo: replyTo, Error: err})
	}, 5*time.Second)
	state.behavior.BecomeStacked(state.MessagePublishResultReceive)
}

func (state *MQTTActor) MessagePublishResultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case publishResult:
		// log error and return to default state
		if msg.Error != nil {
			state.logger.Error("mqtt@publishing could not publish a message", zap.Error(msg.Error))
		}
		if msg.ReplyTo != nil {
			ctx.Send(msg.ReplyTo, domain.PublishMessageResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: msg.Error,
				},
			})
		}
		state.behavior.UnbecomeStacked()
		state.stash.UnstashOldest(ctx)
	default:
		state.logger.Debug("mqtt@publishing stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MQTTActor) EventPublishResultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case publishResult:
		// log error and return to default state
		if msg.Error != nil {
			state.logger.Error("mqtt@publishing could not publish a message", zap.Error(msg.Error))
		}
		if msg.ReplyTo != nil {
			ctx.Send(msg.ReplyTo, domain.PublishSensorUpdateResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: msg.Error,
				},
			})
		}
		state.behavior.UnbecomeStacked()
		state.stash.UnstashOldest(ctx)
	default:
		state.logger.Debug("mqtt@publishing stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MQTTActor) PublishHomeAssistantDiscovery(ctx actor.Context, sensors []domain.GenericSensor,
	buttons []domain.GenericButton) error {
	discoveryTopic := state.config.MQTT.HADiscoveryTopic
	for i := range sensors {
		msg := mqtt.GenericSensorToHADiscoveryMessage(state.client, sensors[i])
		payload, err := json.Marshal(msg)
		if err != nil {
			return err
		}
		topic := mqtt.HADiscoverySensorTopic(discoveryTopic, sensors[i])
		state.client.Publish(topic, payload, 0, true, func(error) {}, 1*time.Second)
	}
	for i := range buttons {
		msg := mqtt.GenericButtonToHADiscoveryMessage(state.client, buttons[i])
		payload, err := json.Marshal(msg)
		if err != nil {
			return err
		}
		topic := mqtt.HADiscoveryButtonTopic(discoveryTopic, buttons[i])
		state.client.Publish(topic, payload, 0, true, func(error) {}, 1*time.Second)
	}
	return nil
}

func (state *MQTTActor) stop() {
	state.logger.Debug("mqtt: disconnect")
	if state.eventStreamSub != nil {
		state.eventStream.Unsubscribe(state.eventStreamSub)
		state.eventStreamSub = nil
	}
	if state.client != nil {
		state.client.Publish(state.client.BridgeStateTopic(), mqtt.MQTT_PAYLOAD_OFFLINE, 0, true, func(error) {}, 500*time.Millisecond)
		state.client.Disconnect(500 * time.Millisecond)
	}
}

func bool2MQTTPayload(value bool) string {
	if value {
		return mqtt.MQTT_PAYLOAD_ON
	} else {
		return mqtt.MQTT_PAYLOAD_OFF
	}
}

// Dummy actor
func NewTestMQTTActor(config *config.Config, eventStream *eventstream.EventStream, logger *zap.Logger) *MQTTActor {
	act := &MQTTActor{
		config:      config,
		behavior:    actor.NewBehavior(),
		stash:       &actorutil.Stash{},
		eventStream: eventStream,
		logger:      actorutil.ActorLogger("mqtt", logger),
	}
	act.behavior.Become(act.DummyReceive)
	return act
}

func (state *MQTTActor) DummyReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.client = mqtt.CreateMQTTClient(state.config, mqtt.OptsFromConfig(state.config), nil, nil)
	case domain.ActorHealthRequest:
		state.logger.Debug("mqtt@default ActorHealthRequest")
		// respond health check request
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_MQTT,
			Healthy: true,
			State:   "idle",
		})
	case domain.PublishSensorUpdateRequest:
		if msg.ReplyToRef != nil {
			ctx.Respond(domain.PublishSensorUpdateResponse{})
		}
	case domain.PublishMessageRequest:
		if msg.ReplyToRef != nil {
			ctx.Respond(domain.PublishMessageResponse{})
		}
	}
}
