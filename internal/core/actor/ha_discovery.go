package actor

import (
	"errors"
	"fmt"
	"time"

	"github.com/berfenger/pvledger2mqtt/internal/config"
	"github.com/berfenger/pvledger2mqtt/internal/core/domain"
	"github.com/berfenger/pvledger2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

// HADiscoveryActor announces every sensor and button to Home Assistant
// once the transport and the ledger are up, then asks the ledger to
// republish current values so the fresh entities are populated.
type HADiscoveryActor struct {
	config             *config.Config
	behavior           actor.Behavior
	stash              *actorutil.Stash
	ledgerActor        *actor.PID
	mqttActor          *actor.PID
	ledgerActorHealthy bool
	mqttActorHealthy   bool
	healthyRecv        int

	logger *zap.Logger
}

func NewHADiscoveryActor(config *config.Config, ledgerActor *actor.PID, mqttActor *actor.PID, logger *zap.Logger) *HADiscoveryActor {
	act := &HADiscoveryActor{
		config:      config,
		ledgerActor: ledgerActor,
		mqttActor:   mqttActor,
		behavior:    actor.NewBehavior(),
		stash:       &actorutil.Stash{},
		logger:      actorutil.ActorLogger(domain.ACTOR_ID_HA_DISCOVERY, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *HADiscoveryActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *HADiscoveryActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("hadiscovery@starting started")

		// Check ledger and MQTT actor healthy
		state.healthyRecv = 0
		state.ledgerActorHealthy = false
		state.mqttActorHealthy = false
		// Ledger Actor Request
		actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.ledgerActor, domain.ActorHealthRequest{}, 2*time.Second), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_LEDGER,
				Healthy: false,
			}
		})
		// MQTT Actor Request
		actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.mqttActor, domain.ActorHealthRequest{}, 2*time.Second), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_MQTT,
				Healthy: false,
			}
		})
		state.behavior.Become(state.WaitingHealthyReceive)
	case *actor.Restarting:
	default:
		state.logger.Debug("hadiscovery@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) WaitingHealthyReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthResponse:
		state.logger.Debug("hadiscovery@healthcheck ActorHealthResponse", zap.String("sender", msg.Id), zap.Bool("healthy", msg.Healthy))
		state.healthyRecv++
		if msg.Healthy {
			switch msg.Id {
			case domain.ACTOR_ID_LEDGER:
				state.ledgerActorHealthy = true
			case domain.ACTOR_ID_MQTT:
				state.mqttActorHealthy = true
			}
		}
		if state.healthyRecv == 2 {

			if state.ledgerActorHealthy && state.mqttActorHealthy {
				state.publishDiscovery(ctx)
				state.behavior.Become(state.Done)
			} else {
				panic(errors.New("MQTT Actor or Ledger Actor are not healthy"))
			}
		}
	default:
		state.logger.Debug("hadiscovery@healthcheck: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) Done(ctx actor.Context) {

}

func (state *HADiscoveryActor) publishDiscovery(ctx actor.Context) {
	var sensors []domain.GenericSensor
	var buttons []domain.GenericButton

	bridgeDevice := domain.BridgeDevice(state.config.MQTT.BaseTopic)
	sensors = append(sensors, domain.BridgeSensors(bridgeDevice)...)

	plantDevice := domain.PlantDevice(state.config.MQTT.BaseTopic)
	plantDevice.ViaDevice = bridgeDevice.Id

	meters := state.config.Meters
	plantSensors := domain.PlantEnergySensors(plantDevice, meters.HasExport(), meters.HasImport(), meters.HasConsumption())
	plantSensors = append(plantSensors, domain.AmortizationSensors(domain.IdDevice(plantDevice))...)
	plantSensors = append(plantSensors, domain.ForecastSensors(domain.IdDevice(plantDevice), meters.HasConsumption())...)
	if meters.HasSpotPrice() && meters.HasImport() {
		plantSensors = append(plantSensors, domain.SpotComparisonSensors(domain.IdDevice(plantDevice))...)
		buttons = append(buttons, domain.SpotResetButton(domain.IdDevice(plantDevice)))
	}
	if state.config.Quota.Enabled() && meters.HasImport() {
		plantSensors = append(plantSensors, domain.QuotaSensors(domain.IdDevice(plantDevice))...)
	}
	for i := range plantSensors {
		if i > 0 {
			plantSensors[i].Device = domain.IdDevice(plantDevice)
		}
		sensors = append(sensors, plantSensors[i])
	}

	if meters.HasImport() {
		pricesDevice := domain.PricesDevice(state.config.MQTT.BaseTopic)
		pricesDevice.ViaDevice = bridgeDevice.Id
		priceSensors := domain.ImportCostSensors(pricesDevice)
		for i := range priceSensors {
			if i > 0 {
				priceSensors[i].Device = domain.IdDevice(pricesDevice)
			}
			sensors = append(sensors, priceSensors[i])
		}
		buttons = append(buttons, domain.ImportCostResetButton(domain.IdDevice(pricesDevice)))
	}

	ctx.Send(state.mqttActor, domain.PublishDiscoveryRequest{
		Sensors: sensors,
		Buttons: buttons,
	})

	// repopulate the freshly announced entities
	ctx.Send(state.ledgerActor, domain.RefreshSensorsRequest{})
}
