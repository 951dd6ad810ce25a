package actor

import (
	"testing"
	"time"

	"github.com/berfenger/pvledger2mqtt/internal/adapter/storage"
	"github.com/berfenger/pvledger2mqtt/internal/core/domain"
	"github.com/berfenger/pvledger2mqtt/internal/util"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLedgerActorAccumulatesAndServesSummary(t *testing.T) {

	require := require.New(t)

	as := actor.NewActorSystem()
	context := as.Root

	cfg := util.LoadTestConfig()
	logCfg := zap.NewDevelopmentConfig()
	logCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger := zap.Must(logCfg.Build())

	params, err := LedgerParamsFromConfig(&cfg)
	require.NoError(err)

	fs := afero.NewMemMapFs()
	store := storage.NewSnapshotStore(fs, cfg.Storage.StateFile)
	es := &eventstream.EventStream{}

	var published []any
	sub := es.Subscribe(func(value any) {
		published = append(published, value)
	})
	defer es.Unsubscribe(sub)

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewLedgerActor(&cfg, params, store, es, logger)
	})
	pid := context.Spawn(props)

	now := time.Now()
	context.Send(pid, domain.MeterSampleMessage{
		Metric: domain.METRIC_PRODUCTION,
		Sample: domain.MonotonicCounterSample{Value: 1000, Timestamp: now},
	})
	context.Send(pid, domain.MeterSampleMessage{
		Metric: domain.METRIC_EXPORT,
		Sample: domain.MonotonicCounterSample{Value: 400, Timestamp: now},
	})

	// first tick initializes the baselines
	time.Sleep(1500 * time.Millisecond)

	context.Send(pid, domain.MeterSampleMessage{
		Metric: domain.METRIC_PRODUCTION,
		Sample: domain.MonotonicCounterSample{Value: 1010, Timestamp: now},
	})
	context.Send(pid, domain.MeterSampleMessage{
		Metric: domain.METRIC_EXPORT,
		Sample: domain.MonotonicCounterSample{Value: 406, Timestamp: now},
	})

	// second tick applies the deltas
	time.Sleep(1500 * time.Millisecond)

	res, err := context.RequestFuture(pid, domain.GetLedgerSummaryRequest{}, 5*time.Second).Result()
	require.NoError(err)
	summary, ok := res.(domain.GetLedgerSummaryResponse)
	require.True(ok)
	require.NotNil(summary.Summary)
	require.InDelta(10.0, summary.Summary.Totals.Production, 1e-9)
	require.InDelta(6.0, summary.Summary.Totals.Export, 1e-9)
	require.InDelta(4.0, summary.Summary.Totals.SelfConsumption, 1e-9)

	// sensor updates went out on the event stream
	assert.NotEmpty(t, published)

	// the snapshot hit the store
	exists, err := afero.Exists(fs, cfg.Storage.StateFile)
	require.NoError(err)
	require.True(exists)

	context.Stop(pid)
	as.Shutdown()
}

func TestLedgerActorSpotComparisonReset(t *testing.T) {

	require := require.New(t)

	as := actor.NewActorSystem()
	context := as.Root

	cfg := util.LoadTestConfig()
	logger := zap.NewNop()

	params, err := LedgerParamsFromConfig(&cfg)
	require.NoError(err)

	store := storage.NewSnapshotStore(afero.NewMemMapFs(), cfg.Storage.StateFile)
	es := &eventstream.EventStream{}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewLedgerActor(&cfg, params, store, es, logger)
	})
	pid := context.Spawn(props)

	now := time.Now()
	context.Send(pid, domain.MeterSampleMessage{
		Metric: domain.METRIC_IMPORT,
		Sample: domain.MonotonicCounterSample{Value: 200, Timestamp: now},
	})
	context.Send(pid, domain.SpotPriceMessage{PricePerKWh: 0.50, At: now})

	time.Sleep(1500 * time.Millisecond)

	context.Send(pid, domain.MeterSampleMessage{
		Metric: domain.METRIC_IMPORT,
		Sample: domain.MonotonicCounterSample{Value: 210, Timestamp: now},
	})

	time.Sleep(1500 * time.Millisecond)

	res, err := context.RequestFuture(pid, domain.GetLedgerSummaryRequest{}, 5*time.Second).Result()
	require.NoError(err)
	summary := res.(domain.GetLedgerSummaryResponse)
	require.NotNil(summary.Summary.SpotVsFixedSavings)
	// spot 10*0.50 vs fixed 10*0.30: fixed was 2.00 cheaper
	require.InDelta(2.0, *summary.Summary.SpotVsFixedSavings, 1e-9)

	resetRes, err := context.RequestFuture(pid, domain.ResetSpotComparisonRequest{}, 5*time.Second).Result()
	require.NoError(err)
	_, ok := resetRes.(domain.ResetSpotComparisonResponse)
	require.True(ok)

	res, err = context.RequestFuture(pid, domain.GetLedgerSummaryRequest{}, 5*time.Second).Result()
	require.NoError(err)
	summary = res.(domain.GetLedgerSummaryResponse)
	require.NotNil(summary.Summary.SpotVsFixedSavings)
	require.Zero(*summary.Summary.SpotVsFixedSavings)

	context.Stop(pid)
	as.Shutdown()
}

func TestLedgerActorImportCostReset(t *testing.T) {

	require := require.New(t)

	as := actor.NewActorSystem()
	context := as.Root

	cfg := util.LoadTestConfig()
	logger := zap.NewNop()

	params, err := LedgerParamsFromConfig(&cfg)
	require.NoError(err)

	store := storage.NewSnapshotStore(afero.NewMemMapFs(), cfg.Storage.StateFile)
	es := &eventstream.EventStream{}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewLedgerActor(&cfg, params, store, es, logger)
	})
	pid := context.Spawn(props)

	now := time.Now()
	context.Send(pid, domain.MeterSampleMessage{
		Metric: domain.METRIC_IMPORT,
		Sample: domain.MonotonicCounterSample{Value: 200, Timestamp: now},
	})

	time.Sleep(1500 * time.Millisecond)

	context.Send(pid, domain.MeterSampleMessage{
		Metric: domain.METRIC_IMPORT,
		Sample: domain.MonotonicCounterSample{Value: 210, Timestamp: now},
	})

	time.Sleep(1500 * time.Millisecond)

	res, err := context.RequestFuture(pid, domain.GetLedgerSummaryRequest{}, 5*time.Second).Result()
	require.NoError(err)
	summary := res.(domain.GetLedgerSummaryResponse)
	require.NotNil(summary.Summary.ImportCost)
	// 10 kWh at the fixed 0.30 EUR/kWh
	require.InDelta(3.0, summary.Summary.ImportCost.TotalCost, 1e-9)

	resetRes, err := context.RequestFuture(pid, domain.ResetImportCostRequest{}, 5*time.Second).Result()
	require.NoError(err)
	_, ok := resetRes.(domain.ResetImportCostResponse)
	require.True(ok)

	res, err = context.RequestFuture(pid, domain.GetLedgerSummaryRequest{}, 5*time.Second).Result()
	require.NoError(err)
	summary = res.(domain.GetLedgerSummaryResponse)
	require.NotNil(summary.Summary.ImportCost)
	require.Zero(summary.Summary.ImportCost.TotalCost)
	// the import accumulator itself is not reset
	require.InDelta(10.0, summary.Summary.Totals.Import, 1e-9)

	context.Stop(pid)
	as.Shutdown()
}

func TestLedgerActorDropsUnknownMessages(t *testing.T) {

	require := require.New(t)

	as := actor.NewActorSystem()
	context := as.Root

	cfg := util.LoadTestConfig()
	logger := zap.NewNop()

	params, err := LedgerParamsFromConfig(&cfg)
	require.NoError(err)

	store := storage.NewSnapshotStore(afero.NewMemMapFs(), cfg.Storage.StateFile)
	es := &eventstream.EventStream{}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewLedgerActor(&cfg, params, store, es, logger)
	})
	pid := context.Spawn(props)

	time.Sleep(500 * time.Millisecond)

	// must be discarded, not stashed and replayed forever
	context.Send(pid, "bogus")
	context.Send(pid, "bogus")

	time.Sleep(1500 * time.Millisecond)

	res, err := context.RequestFuture(pid, domain.ActorHealthRequest{}, 5*time.Second).Result()
	require.NoError(err)
	health, ok := res.(domain.ActorHealthResponse)
	require.True(ok)
	require.True(health.Healthy)

	context.Stop(pid)
	as.Shutdown()
}

func TestLedgerParamsFromConfigRejectsQuotaWithoutImport(t *testing.T) {

	require := require.New(t)

	cfg := util.LoadTestConfig()
	cfg.Meters.ImportTopic = ""

	_, err := LedgerParamsFromConfig(&cfg)
	require.Error(err)
	require.Contains(err.Error(), "import_topic")
}
