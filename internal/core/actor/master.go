package actor

import (
	"fmt"
	"log"
	"time"

	adactor "github.com/berfenger/pvledger2mqtt/internal/adapter/actor"
	"github.com/berfenger/pvledger2mqtt/internal/config"
	"github.com/berfenger/pvledger2mqtt/internal/core/domain"
	. "github.com/berfenger/pvledger2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"go.uber.org/zap"
)

type MQTTActorProvider func(*eventstream.EventStream) *adactor.MQTTActor

type LedgerActorProvider func(*eventstream.EventStream) *LedgerActor

// MasterOfPuppetsActor supervises the ledger and transport actors and
// routes messages between them.
type MasterOfPuppetsActor struct {
	config   config.Config
	behavior actor.Behavior
	stash    *Stash

	currentHealthCheck  healthCheckResult
	eventStream         *eventstream.EventStream
	ledgerActor         *actor.PID
	mqttActor           *actor.PID
	ledgerActorProvider LedgerActorProvider
	mqttActorProvider   MQTTActorProvider
	logger              *zap.Logger
}

type healthCheckResult struct {
	ledgerActorHealthy bool
	mqttActorHealthy   bool
	checksReceived     int
	respondTo          *actor.PID
}

func NewMasterOfPuppetsActor(config config.Config, ledgerActorProvider LedgerActorProvider,
	mqttActorProvider MQTTActorProvider, logger *zap.Logger) *MasterOfPuppetsActor {
	act := &MasterOfPuppetsActor{
		config:              config,
		behavior:            actor.NewBehavior(),
		stash:               &Stash{},
		logger:              ActorLogger(domain.ACTOR_ID_MASTER, logger),
		eventStream:         &eventstream.EventStream{},
		ledgerActorProvider: ledgerActorProvider,
		mqttActorProvider:   mqttActorProvider,
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *MasterOfPuppetsActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *MasterOfPuppetsActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("master@starting started")

		state.currentHealthCheck = healthCheckResult{}
		state.currentHealthCheck.reset()

		// start MQTT child
		mqttActorPID, err := state.startMQTTActor(ctx)
		if err != nil {
			panic(err)
		}
		state.mqttActor = mqttActorPID

		// start ledger child
		ledgerActorPID, err := state.startLedgerActor(ctx)
		if err != nil {
			panic(err)
		}
		state.ledgerActor = ledgerActorPID

		// start HA Discovery
		if state.config.MQTT.HADiscoveryEnable {
			_, err := state.startHADiscoveryActor(ctx)
			if err != nil {
				panic(err)
			}
		}

		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("master@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MasterOfPuppetsActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("master@default ActorHealthRequest")
		state.currentHealthCheck.reset()
		state.currentHealthCheck.respondTo = ctx.Sender()
		// MQTT Actor Request
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.mqttActor, domain.ActorHealthRequest{}, 500*time.Millisecond), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_MQTT,
				Healthy: false,
			}
		})
		// Ledger Actor Request
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.ledgerActor, domain.ActorHealthRequest{}, 500*time.Millisecond), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_LEDGER,
				Healthy: false,
			}
		})

		ctx.SetReceiveTimeout(1 * time.Second)

		state.behavior.BecomeStacked(state.HealthCheckReceive)
	case domain.GetLedgerSummaryRequest:
		// route summary request to the ledger
		state.logger.Debug("master@default GetLedgerSummaryRequest")
		ctx.Forward(state.ledgerActor)
	case domain.MeterSampleMessage:
		state.logger.Debug("master@default meterSample", zap.String("metric", msg.Metric))
		ctx.Send(state.ledgerActor, msg)
	case domain.SpotPriceMessage:
		state.logger.Debug("master@default spotPrice")
		ctx.Send(state.ledgerActor, msg)
	case adactor.ParsedCommand:
		// redirect parsedCommand to actor
		state.logger.Debug("master@default parsedCommand", zap.Any("command", msg.Command))
		if msg.Command != nil {
			cmd, err := ParsedMQTTCommandToCommand(*msg.Command)
			if err == nil && cmd != nil {
				switch pcmd := cmd.(type) {
				case domain.ResetSpotComparisonRequest:
					ctx.Send(state.ledgerActor, pcmd)
				case domain.ResetImportCostRequest:
					ctx.Send(state.ledgerActor, pcmd)
				}
			}
		}
	case *actor.Terminated:
		// if some actor fails on boot, terminate
		if msg.Who.Id == fmt.Sprintf("%s/%s", domain.ACTOR_ID_MASTER, domain.ACTOR_ID_LEDGER) {
			state.logger.Error("master@default ledger terminated")
			panic(fmt.Errorf("ledger terminated"))
		}
	default:
		state.logger.Debug("master@default stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MasterOfPuppetsActor) HealthCheckReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.ReceiveTimeout:
		// if some actor does not respond to healthCheck, assume not healthy
		state.currentHealthCheck.respond(ctx)
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	case domain.ActorHealthResponse:
		state.logger.Debug("master@healthcheck ActorHealthResponse", zap.String("sender", msg.Id), zap.Bool("healthy", msg.Healthy))
		state.currentHealthCheck.checksReceived++
		if msg.Healthy {
			if msg.Id == domain.ACTOR_ID_LEDGER {
				state.currentHealthCheck.ledgerActorHealthy = true
			} else if msg.Id == domain.ACTOR_ID_MQTT {
				state.currentHealthCheck.mqttActorHealthy = true
			}
		}
		if state.currentHealthCheck.allReceived() {

			state.currentHealthCheck.respond(ctx)

			state.behavior.UnbecomeStacked()
			state.stash.UnstashAll(ctx)
		} else {
			ctx.SetReceiveTimeout(1 * time.Second)
		}
	default:
		state.logger.Debug("master@healthcheck stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MasterOfPuppetsActor) startMQTTActor(ctx actor.Context) (*actor.PID, error) {

	supervisor := actor.NewExponentialBackoffStrategy(10*time.Second, 1*time.Second)

	mqttProps := actor.PropsFromProducer(func() actor.Actor {
		return state.mqttActorProvider(state.eventStream)
	}, actor.WithSupervisor(supervisor))
	mqttActorPID, err := ctx.SpawnNamed(mqttProps, domain.ACTOR_ID_MQTT)
	if err != nil {
		return nil, err
	}

	return mqttActorPID, nil
}

func (state *MasterOfPuppetsActor) startLedgerActor(ctx actor.Context) (*actor.PID, error) {

	decider := func(reason interface{}) actor.Directive {
		log.Printf("handling failure for child. reason: %v", reason)
		return actor.RestartDirective
	}
	supervisor := actor.NewOneForOneStrategy(1, 10*time.Second, decider)

	ledgerProps := actor.PropsFromProducer(func() actor.Actor {
		return state.ledgerActorProvider(state.eventStream)
	}, actor.WithSupervisor(supervisor))
	ledgerActorPID, err := ctx.SpawnNamed(ledgerProps, domain.ACTOR_ID_LEDGER)
	if err != nil {
		return nil, err
	}

	return ledgerActorPID, nil
}

func (state *MasterOfPuppetsActor) startHADiscoveryActor(ctx actor.Context) (*actor.PID, error) {

	decider := func(reason interface{}) actor.Directive {
		log.Printf("handling failure for child. reason: %v", reason)
		return actor.RestartDirective
	}
	supervisor := actor.NewOneForOneStrategy(1, 10*time.Second, decider)

	haDiscProps := actor.PropsFromProducer(func() actor.Actor {
		return NewHADiscoveryActor(&state.config, state.ledgerActor, state.mqttActor, state.logger)
	}, actor.WithSupervisor(supervisor))
	haDiscPID, err := ctx.SpawnNamed(haDiscProps, domain.ACTOR_ID_HA_DISCOVERY)
	if err != nil {
		return nil, err
	}

	return haDiscPID, nil
}

func (state *healthCheckResult) reset() {
	state.ledgerActorHealthy = false
	state.mqttActorHealthy = false
	state.checksReceived = 0
}

func (state *healthCheckResult) allReceived() bool {
	return state.checksReceived == 2
}

func (state *healthCheckResult) allHealthy() bool {
	return state.ledgerActorHealthy && state.mqttActorHealthy
}

func (state *healthCheckResult) respond(ctx actor.Context) {
	resp := domain.ActorHealthResponse{
		Id:      domain.ACTOR_ID_MASTER,
		Healthy: state.allHealthy(),
	}
	if state.respondTo != nil {
		ctx.Send(state.respondTo, resp)
	}
}
