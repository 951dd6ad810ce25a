package actor

import (
	"fmt"
	"testing"
	"time"

	adactor "github.com/berfenger/pvledger2mqtt/internal/adapter/actor"
	"github.com/berfenger/pvledger2mqtt/internal/adapter/storage"
	"github.com/berfenger/pvledger2mqtt/internal/core/domain"
	"github.com/berfenger/pvledger2mqtt/internal/util"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMasterActor(t *testing.T) {

	as := actor.NewActorSystem()
	context := as.Root

	cfg := util.LoadTestConfig()
	logCfg := zap.NewDevelopmentConfig()
	logCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger := zap.Must(logCfg.Build())

	params, err := LedgerParamsFromConfig(&cfg)
	if err != nil {
		t.Error(err)
		return
	}
	store := storage.NewSnapshotStore(afero.NewMemMapFs(), cfg.Storage.StateFile)

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewMasterOfPuppetsActor(cfg, func(es *eventstream.EventStream) *LedgerActor {
			return NewLedgerActor(&cfg, params, store, es, logger)
		}, func(es *eventstream.EventStream) *adactor.MQTTActor {
			return adactor.NewTestMQTTActor(&cfg, es, logger)
		}, logger)
	})
	pid, err := context.SpawnNamed(props, "master")
	if err != nil {
		t.Error(err)
		return
	}

	time.Sleep(2 * time.Second)

	res, err := context.RequestFuture(pid, domain.ActorHealthRequest{}, 10*time.Second).Result()
	if err != nil {
		t.Error(err)
	}
	healthResp, ok := res.(domain.ActorHealthResponse)
	assert.True(t, ok)
	fmt.Printf("Health response: %+v\n", healthResp)
	assert.NotNil(t, healthResp)

	assert.True(t, healthResp.Healthy, "healthy is true")

	context.Stop(pid)

	as.Shutdown()
}

func TestMasterRoutesSummaryRequestToLedger(t *testing.T) {

	as := actor.NewActorSystem()
	context := as.Root

	cfg := util.LoadTestConfig()
	logCfg := zap.NewDevelopmentConfig()
	logCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger := zap.Must(logCfg.Build())

	params, err := LedgerParamsFromConfig(&cfg)
	if err != nil {
		t.Error(err)
		return
	}
	store := storage.NewSnapshotStore(afero.NewMemMapFs(), cfg.Storage.StateFile)

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewMasterOfPuppetsActor(cfg, func(es *eventstream.EventStream) *LedgerActor {
			return NewLedgerActor(&cfg, params, store, es, logger)
		}, func(es *eventstream.EventStream) *adactor.MQTTActor {
			return adactor.NewTestMQTTActor(&cfg, es, logger)
		}, logger)
	})
	pid, err := context.SpawnNamed(props, "master")
	if err != nil {
		t.Error(err)
		return
	}

	time.Sleep(1 * time.Second)

	res, err := context.RequestFuture(pid, domain.GetLedgerSummaryRequest{}, 10*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	summaryResp, ok := res.(domain.GetLedgerSummaryResponse)
	assert.True(t, ok)
	assert.NotNil(t, summaryResp.Summary)
	assert.NotNil(t, summaryResp.Summary.Quota, "quota is configured in the test config")

	context.Stop(pid)

	as.Shutdown()
}
