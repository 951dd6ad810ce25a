package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adactor "github.com/berfenger/pvledger2mqtt/internal/adapter/actor"
	"github.com/berfenger/pvledger2mqtt/internal/adapter/storage"
	"github.com/berfenger/pvledger2mqtt/internal/config"
	"github.com/berfenger/pvledger2mqtt/internal/core/actor"
	"github.com/berfenger/pvledger2mqtt/internal/core/service"
	"github.com/berfenger/pvledger2mqtt/internal/server"
	"github.com/berfenger/pvledger2mqtt/internal/util/actorutil"

	pactor "github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *http.Server, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Println("shutting down gracefully, press Ctrl+C again to force")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	log.Println("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

func main() {

	// load and print config
	cfg, params, err := initConfig()
	if err != nil {
		slog.Error("config errors", "error", err)
		return
	}
	safePrintConfig(*cfg)

	// zap logger
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)

	logger := zap.Must(zapCfg.Build())

	// init actor system
	as := actorutil.NewActorSystemWithZapLogger(logger)
	ctx := as.Root

	defer logger.Sync()

	store := storage.NewSnapshotStore(afero.NewOsFs(), cfg.Storage.StateFile)

	props := pactor.PropsFromProducer(func() pactor.Actor {
		return actor.NewMasterOfPuppetsActor(*cfg,
			ledgerActorProvider(cfg, params, store, logger),
			mqttActorProvider(cfg, logger), logger)
	})
	pid, err := ctx.SpawnNamed(props, "master")
	if err != nil {
		return
	}

	server := server.NewServer(*cfg, ctx, pid)
	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(server, done)

	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		panic(fmt.Sprintf("http server error: %s", err))
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Println("Graceful shutdown complete.")

	ctx.Stop(pid)
	as.Shutdown()
}

func initConfig() (*config.Config, service.LedgerParams, error) {

	// alias PORT => PVLEDGER_PORT
	if port := os.Getenv("PORT"); port != "" {
		os.Setenv("PVLEDGER_PORT", port)
	}

	setConfigDefaults()

	viper.SetEnvPrefix("pvledger")
	viper.AutomaticEnv()

	// if defined, try to load config from yaml file
	if cfgFile := os.Getenv("CONFIG_FILE"); cfgFile != "" {
		if _, err := os.Stat(cfgFile); err == nil {
			slog.Info("Using config", "file", cfgFile)
			viper.SetConfigFile(cfgFile)

			err = viper.ReadInConfig()
			if err != nil {
				slog.Error("Error reading config file", "error", err)
			}
		}
	}

	var cfg config.Config
	var params service.LedgerParams

	err := viper.Unmarshal(&cfg)
	if err != nil {
		return nil, params, err
	}

	// parse log level
	switch viper.GetString("log_level") {
	case "trace":
		cfg.LogLevel = zap.DebugLevel
	case "debug":
		cfg.LogLevel = zap.DebugLevel
	case "info":
		cfg.LogLevel = zap.InfoLevel
	case "error":
		cfg.LogLevel = zap.ErrorLevel
	case "warn":
		cfg.LogLevel = zap.WarnLevel
	case "fatal":
		cfg.LogLevel = zap.FatalLevel
	default:
		cfg.LogLevel = zap.InfoLevel
	}

	// check and fix base topic
	baseTopic, err := config.CheckMQTTTopic(cfg.MQTT.BaseTopic)
	if err != nil {
		return nil, params, errors.New("invalid base topic. can only contain letters, numbers and underscores")
	}
	cfg.MQTT.BaseTopic = baseTopic

	// check and fix homeassistant discovery topic
	hadBaseTopic, err := config.CheckMQTTTopic(cfg.MQTT.HADiscoveryTopic)
	if err != nil {
		return nil, params, errors.New("invalid homeassistant discovery topic. can only contain letters, numbers and underscores")
	}
	cfg.MQTT.HADiscoveryTopic = hadBaseTopic

	// check bounds
	if cfg.Meters.ProductionTopic == "" {
		return nil, params, errors.New("config param meters.production_topic is required")
	}
	if _, err := config.CheckPriceUnit(cfg.Tariff.PriceUnit); err != nil {
		return nil, params, fmt.Errorf("config param tariff.price_unit: %w", err)
	}
	if _, err := config.CheckPriceUnit(cfg.Meters.SpotPriceUnit); err != nil {
		return nil, params, fmt.Errorf("config param meters.spot_price_unit: %w", err)
	}
	if cfg.Engine.RecomputeIntervalMillis < 1000 {
		return nil, params, errors.New("config param engine.recompute_interval_millis should be >= 1000")
	}

	// derive and validate tariff and quota parameters
	params, err = actor.LedgerParamsFromConfig(&cfg)
	if err != nil {
		return nil, params, err
	}

	return &cfg, params, nil
}

func ledgerActorProvider(cfg *config.Config, params service.LedgerParams,
	store *storage.AferoSnapshotStore, logger *zap.Logger) actor.LedgerActorProvider {
	return func(es *eventstream.EventStream) *actor.LedgerActor {
		return actor.NewLedgerActor(cfg, params, store, es, logger)
	}
}

func mqttActorProvider(cfg *config.Config, logger *zap.Logger) actor.MQTTActorProvider {
	return func(es *eventstream.EventStream) *adactor.MQTTActor {
		return adactor.NewMQTTActor(cfg, es, logger)
	}
}

func setConfigDefaults() {
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("mqtt.ha_discovery_enable", false)
	viper.SetDefault("mqtt.base_topic", "pvledger")
	viper.SetDefault("mqtt.ha_discovery_topic", "homeassistant")
	viper.SetDefault("meters.spot_price_unit", "eur")
	viper.SetDefault("tariff.price_unit", "eur")
	viper.SetDefault("engine.grid_emission_factor", 0.4)
	viper.SetDefault("engine.reset_tolerance_kwh", 0)
	viper.SetDefault("engine.max_delta_kwh", 50)
	viper.SetDefault("engine.recompute_interval_millis", 60000)
	viper.SetDefault("storage.state_file", "pvledger_state.json")
	viper.SetDefault("port", 8080)
}

func safePrintConfig(cfg config.Config) {
	cfg.MQTT.Username = "*redacted*"
	cfg.MQTT.Password = "*redacted*"
	slog.Info("Using", "config", cfg)
}
