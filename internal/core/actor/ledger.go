package actor

import (
	"context"
	"fmt"
	"time"

	"github.com/berfenger/pvledger2mqtt/internal/config"
	"github.com/berfenger/pvledger2mqtt/internal/core/domain"
	"github.com/berfenger/pvledger2mqtt/internal/core/events"
	"github.com/berfenger/pvledger2mqtt/internal/core/port"
	"github.com/berfenger/pvledger2mqtt/internal/core/service"
	. "github.com/berfenger/pvledger2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/asynkron/protoactor-go/scheduler"
	"github.com/reugn/go-quartz/job"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/zap"
)

// LedgerActor owns the energy ledger. It buffers the latest raw samples
// between recomputation ticks, runs the cycle, publishes the derived sensor
// values on the event stream and persists the snapshot whenever it changed.
// The in-memory ledger is authoritative; persistence failures are retried
// on the next dirty cycle.
type LedgerActor struct {
	behavior  actor.Behavior
	stash     *Stash
	scheduler *scheduler.TimerScheduler
	cron      quartz.Scheduler
	cronStop  context.CancelFunc

	config      *config.Config
	params      service.LedgerParams
	store       port.SnapshotStore
	ledger      *service.EnergyLedger
	eventStream *eventstream.EventStream

	pending        service.RawSamples
	persistPending bool

	logger *zap.Logger
}

type ledgerTick struct {
}

type midnightTick struct {
}

type snapshotLoaded struct {
	Snapshot *domain.LedgerSnapshot
	Error    error
}

type persistResult struct {
	Error error
}

func NewLedgerActor(cfg *config.Config, params service.LedgerParams, store port.SnapshotStore,
	eventStream *eventstream.EventStream, logger *zap.Logger) *LedgerActor {
	act := &LedgerActor{
		config:      cfg,
		params:      params,
		store:       store,
		eventStream: eventStream,
		behavior:    actor.NewBehavior(),
		stash:       &Stash{},
		logger:      ActorLogger(domain.ACTOR_ID_LEDGER, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *LedgerActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *LedgerActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("ledger@starting started")

		state.pending = service.RawSamples{}

		// restore the persisted snapshot off the actor goroutine
		NewBackgroundTask(ctx, func() (*snapshotLoaded, error) {
			snapshot, err := state.store.Load()
			return &snapshotLoaded{Snapshot: snapshot, Error: err}, nil
		}).WithTimeout(10 * time.Second).OnError(func(err error) {
			ctx.Send(ctx.Self(), snapshotLoaded{Error: err})
		}).PipeTo(ctx.Self())
	case snapshotLoaded:
		if msg.Error != nil {
			// a present but unreadable snapshot must not be silently
			// replaced with a fresh one
			state.logger.Error("ledger@starting snapshot load failed", zap.Error(msg.Error))
			panic(msg.Error)
		}
		if msg.Snapshot != nil {
			state.logger.Info("ledger@starting snapshot restored")
		} else {
			state.logger.Info("ledger@starting no snapshot, starting fresh")
		}

		tracker := &service.CounterDeltaTracker{
			ResetToleranceKWh: state.config.Engine.ResetToleranceKWh,
			MaxDeltaKWh:       state.config.Engine.MaxDeltaKWh,
			Logger:            state.logger,
		}
		state.ledger = service.NewEnergyLedger(state.params, msg.Snapshot, tracker, time.Now(), state.logger)

		state.scheduler = scheduler.NewTimerScheduler(ctx)
		state.scheduler.RequestOnce(state.recomputeInterval(), ctx.Self(), ledgerTick{})

		state.startMidnightCron(ctx)

		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	case *actor.Restarting:
		state.stopCron()
	default:
		state.logger.Debug("ledger@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *LedgerActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("ledger@default ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_LEDGER,
			Healthy: true,
			State:   "idle",
		})
	case domain.MeterSampleMessage:
		state.logger.Debug("ledger@default meterSample",
			zap.String("metric", msg.Metric), zap.Float64("value", msg.Sample.Value))
		state.bufferSample(msg)
	case domain.SpotPriceMessage:
		state.logger.Debug("ledger@default spotPrice", zap.Float64("price", msg.PricePerKWh))
		price := msg.PricePerKWh
		state.pending.SpotPricePerKWh = &price
	case ledgerTick:
		state.logger.Debug("ledger@default tick")
		state.runCycle(ctx, time.Now())
		state.scheduler.RequestOnce(state.recomputeInterval(), ctx.Self(), ledgerTick{})
	case midnightTick:
		// day boundary: elapsed days and the quota period advance even
		// without fresh samples
		state.logger.Debug("ledger@default midnightTick")
		state.runCycle(ctx, time.Now())
	case domain.GetLedgerSummaryRequest:
		state.logger.Debug("ledger@default GetLedgerSummaryRequest")
		summary := state.ledger.Summary(time.Now())
		ForRequest(msg).Respond(ctx, domain.GetLedgerSummaryResponse{
			Summary: &summary,
		})
	case domain.RefreshSensorsRequest:
		state.logger.Debug("ledger@default RefreshSensorsRequest")
		state.publishSummary(time.Now())
		if ForRequest(msg).ReplyTo(ctx) != nil {
			ForRequest(msg).Respond(ctx, domain.RefreshSensorsResponse{})
		}
	case domain.ResetSpotComparisonRequest:
		state.logger.Info("ledger@default spot comparison reset")
		state.ledger.ResetSpotComparison()
		state.publishSummary(time.Now())
		state.persistSnapshot(ctx)
		if ForRequest(msg).ReplyTo(ctx) != nil {
			ForRequest(msg).Respond(ctx, domain.ResetSpotComparisonResponse{})
		}
	case domain.ResetImportCostRequest:
		state.logger.Info("ledger@default import cost reset")
		state.ledger.ResetImportCost()
		state.publishSummary(time.Now())
		state.persistSnapshot(ctx)
		if ForRequest(msg).ReplyTo(ctx) != nil {
			ForRequest(msg).Respond(ctx, domain.ResetImportCostResponse{})
		}
	case *actor.Restarting:
		state.stopCron()
	case *actor.Stopping:
		state.stopCron()
		state.saveOnStop()
	default:
		// terminal state, nothing will ever unstash these
		state.logger.Debug("ledger@default ignore", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

// PersistingReceive holds the actor while a snapshot write is in flight so
// a later cycle cannot mutate state the write still refers to.
func (state *LedgerActor) PersistingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case persistResult:
		if msg.Error != nil {
			state.logger.Error("ledger@persisting snapshot save failed", zap.Error(msg.Error))
			state.persistPending = true
		} else {
			state.persistPending = false
		}
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	case *actor.Stopping:
		state.stopCron()
		state.saveOnStop()
	default:
		state.logger.Debug("ledger@persisting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *LedgerActor) bufferSample(msg domain.MeterSampleMessage) {
	sample := msg.Sample
	switch msg.Metric {
	case domain.METRIC_PRODUCTION:
		state.pending.Production = &sample
	case domain.METRIC_EXPORT:
		state.pending.Export = &sample
	case domain.METRIC_IMPORT:
		state.pending.Import = &sample
	case domain.METRIC_CONSUMPTION:
		state.pending.Consumption = &sample
	default:
		state.logger.Warn("ledger: sample for unknown metric", zap.String("metric", msg.Metric))
	}
}

func (state *LedgerActor) runCycle(ctx actor.Context, now time.Time) {
	samples := state.pending
	// spot price stays in effect until replaced, meter samples are consumed
	state.pending = service.RawSamples{SpotPricePerKWh: state.pending.SpotPricePerKWh}

	res := state.ledger.RunCycle(samples, now)
	state.publishCycle(res)

	if res.Dirty || state.persistPending {
		state.persistSnapshot(ctx)
	}
}

func (state *LedgerActor) publishCycle(res service.CycleResult) {
	state.publishEvents(events.EnergyTotalsToUpdateEvents(res.Totals,
		state.params.HasExport, state.params.HasImport, state.params.HasConsumption))
	state.publishEvents(events.AmortizationToUpdateEvents(res.Amortization))
	state.publishEvents(events.ForecastToUpdateEvents(res.Forecast, state.params.HasConsumption))
	if res.SpotVsFixedSavings != nil {
		state.publishEvents(events.SpotComparisonToUpdateEvents(*res.SpotVsFixedSavings))
	}
	if res.ImportCost != nil {
		state.publishEvents(events.ImportCostToUpdateEvents(*res.ImportCost))
	}
	if res.Quota != nil {
		state.publishEvents(events.QuotaToUpdateEvents(*res.Quota, state.quotaMonthlyPayment()))
	}
}

func (state *LedgerActor) publishSummary(now time.Time) {
	summary := state.ledger.Summary(now)
	state.publishEvents(events.EnergyTotalsToUpdateEvents(summary.Totals,
		state.params.HasExport, state.params.HasImport, state.params.HasConsumption))
	state.publishEvents(events.AmortizationToUpdateEvents(summary.Amortization))
	state.publishEvents(events.ForecastToUpdateEvents(summary.Forecast, state.params.HasConsumption))
	if summary.SpotVsFixedSavings != nil {
		state.publishEvents(events.SpotComparisonToUpdateEvents(*summary.SpotVsFixedSavings))
	}
	if summary.ImportCost != nil {
		state.publishEvents(events.ImportCostToUpdateEvents(*summary.ImportCost))
	}
	if summary.Quota != nil {
		state.publishEvents(events.QuotaToUpdateEvents(*summary.Quota, state.quotaMonthlyPayment()))
	}
}

func (state *LedgerActor) publishEvents(evs []any) {
	for _, ev := range evs {
		state.eventStream.Publish(ev)
	}
}

func (state *LedgerActor) persistSnapshot(ctx actor.Context) {
	snapshot := state.ledger.Snapshot()
	NewBackgroundTask(ctx, func() (*persistResult, error) {
		return &persistResult{Error: state.store.Save(snapshot)}, nil
	}).WithTimeout(10 * time.Second).OnError(func(err error) {
		ctx.Send(ctx.Self(), persistResult{Error: err})
	}).PipeTo(ctx.Self())
	state.behavior.BecomeStacked(state.PersistingReceive)
}

// saveOnStop writes the snapshot synchronously; on shutdown there is no
// mailbox left to retry from.
func (state *LedgerActor) saveOnStop() {
	if state.ledger == nil {
		return
	}
	if err := state.store.Save(state.ledger.Snapshot()); err != nil {
		state.logger.Error("ledger: final snapshot save failed", zap.Error(err))
	}
}

func (state *LedgerActor) startMidnightCron(ctx actor.Context) {
	trigger, err := quartz.NewCronTrigger("0 0 0 * * *")
	if err != nil {
		panic(err)
	}
	self := ctx.Self()
	root := ctx.ActorSystem().Root
	midnightJob := job.NewFunctionJob(func(_ context.Context) (bool, error) {
		root.Send(self, midnightTick{})
		return true, nil
	})

	cronCtx, cancel := context.WithCancel(context.Background())
	state.cron = quartz.NewStdScheduler()
	state.cron.Start(cronCtx)
	state.cronStop = cancel
	err = state.cron.ScheduleJob(quartz.NewJobDetail(midnightJob, quartz.NewJobKey("midnight")), trigger)
	if err != nil {
		panic(err)
	}
}

func (state *LedgerActor) stopCron() {
	if state.cron != nil {
		state.cron.Stop()
		state.cronStop()
		state.cron = nil
	}
}

func (state *LedgerActor) recomputeInterval() time.Duration {
	return time.Duration(state.config.Engine.RecomputeIntervalMillis) * time.Millisecond
}

func (state *LedgerActor) quotaMonthlyPayment() float64 {
	if state.params.Quota != nil {
		return state.params.Quota.MonthlyPayment
	}
	return 0
}

// LedgerParamsFromConfig derives the immutable cycle parameters from the
// validated configuration. Cent-based tariffs are normalized to EUR here,
// downstream everything is EUR/kWh.
func LedgerParamsFromConfig(cfg *config.Config) (service.LedgerParams, error) {
	installDate, err := cfg.Tariff.ParsedInstallDate()
	if err != nil {
		return service.LedgerParams{}, fmt.Errorf("invalid tariff install date: %w", err)
	}

	priceDiv := 1.0
	if cfg.Tariff.PriceUnit == config.PRICE_UNIT_CENT {
		priceDiv = 100.0
	}

	params := service.LedgerParams{
		Tariff: domain.TariffParams{
			FixedPricePerKWh:          cfg.Tariff.FixedPricePerKWh / priceDiv,
			FeedInTariffPerKWh:        cfg.Tariff.FeedInTariffPerKWh / priceDiv,
			InvestmentCost:            cfg.Tariff.InvestmentCost,
			InstallDate:               installDate,
			HistoricalAmortizedAmount: cfg.Tariff.HistoricalAmortizedAmount,
		},
		GridEmissionFactor: cfg.Engine.GridEmissionFactor,
		Offsets: map[string]float64{
			domain.METRIC_PRODUCTION:       cfg.Engine.Offsets.ProductionKWh,
			domain.METRIC_SELF_CONSUMPTION: cfg.Engine.Offsets.SelfConsumptionKWh,
			domain.METRIC_EXPORT:           cfg.Engine.Offsets.ExportKWh,
			domain.METRIC_IMPORT:           cfg.Engine.Offsets.ImportKWh,
			domain.METRIC_CONSUMPTION:      cfg.Engine.Offsets.ConsumptionKWh,
		},
		HasExport:      cfg.Meters.HasExport(),
		HasImport:      cfg.Meters.HasImport(),
		HasConsumption: cfg.Meters.HasConsumption(),
		HasSpotPrice:   cfg.Meters.HasSpotPrice(),
	}

	if cfg.Quota.Enabled() {
		if !params.HasImport {
			return service.LedgerParams{}, fmt.Errorf("quota tracking requires meters.import_topic")
		}
		periodStart, err := cfg.Quota.ParsedPeriodStartDate()
		if err != nil {
			return service.LedgerParams{}, fmt.Errorf("invalid quota period start date: %w", err)
		}
		params.Quota = &domain.QuotaParams{
			YearlyQuotaKWh:      cfg.Quota.YearlyQuotaKWh,
			PeriodStart:         periodStart,
			MeterReadingAtStart: cfg.Quota.MeterReadingAtStart,
			MonthlyPayment:      cfg.Quota.MonthlyPayment,
		}
	}

	// validate derived params the same way the services will see them
	if err := service.CheckTariffParams(params.Tariff); err != nil {
		return service.LedgerParams{}, err
	}
	if params.Quota != nil {
		if err := service.CheckQuotaParams(*params.Quota); err != nil {
			return service.LedgerParams{}, err
		}
	}

	return params, nil
}
