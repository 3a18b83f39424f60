// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package app

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/axonweb3/axon-bridge/api"
	"github.com/axonweb3/axon-bridge/config"
	"github.com/axonweb3/axon-bridge/flags"
	"github.com/axonweb3/axon-bridge/health"
	"github.com/axonweb3/axon-bridge/jobs"
	"github.com/axonweb3/axon-bridge/logger"
	"github.com/axonweb3/axon-bridge/lvldb"
	"github.com/axonweb3/axon-bridge/metrics"
	"github.com/axonweb3/axon-bridge/store"
	"github.com/axonweb3/axon-bridge/token"
)

func Run() error {
	var err error

	configFlag := viper.GetString(flags.ConfigFlagName)
	configuration := &config.Config{}
	if strings.ToLower(configFlag) == "env" {
		configuration, err = config.GetConfigFromENV(configuration)
		panicOnError(err)
	} else {
		configuration, err = config.GetConfigFromFile(configFlag, configuration)
		panicOnError(err)
	}
	nodeConfig := configuration.NodeConfig

	var fileOut []io.Writer
	if nodeConfig.LogFile != "" {
		logFile := logger.NewRotatingFile(nodeConfig.LogFile, 100)
		defer logFile.Close()
		fileOut = append(fileOut, logFile)
	}
	logger.ConfigureLogger(nodeConfig.LogLevel, os.Stdout, fileOut...)

	log.Info().Msg("Successfully loaded configuration")

	dbPath := nodeConfig.DBPath
	if path := viper.GetString(flags.DBFlagName); path != "" {
		dbPath = path
	}
	// the previous instance may still hold the database lock during a
	// rolling restart
	var db *lvldb.LVLDB
	for {
		db, err = lvldb.NewLvlDB(dbPath)
		if err != nil {
			log.Error().Err(err).Msg("Unable to connect to state database, retry in 10 seconds")
			time.Sleep(10 * time.Second)
		} else {
			log.Info().Msg("Successfully connected to state database")
			break
		}
	}
	defer db.Close()
	stateStore := store.NewStateStore(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	meter, shutdownMeter, err := metrics.DefaultMeter(ctx, nodeConfig.OpenTelemetryCollectorURL, nodeConfig.MetricsInterval)
	panicOnError(err)
	defer func() {
		_ = shutdownMeter(context.Background())
	}()
	_, err = metrics.NewHostMetrics(ctx, meter, metric.WithAttributes(
		attribute.String("env", nodeConfig.Env),
		attribute.String("bridge", nodeConfig.Id),
	))
	panicOnError(err)
	bridgeMetrics, err := metrics.NewBridgeMetrics(meter, nodeConfig.Env, nodeConfig.Id)
	panicOnError(err)

	tokenConfigs := make([]*token.Config, len(configuration.TokenConfigs))
	for i, raw := range configuration.TokenConfigs {
		tokenConfigs[i], err = token.NewConfig(raw)
		panicOnError(err)
	}
	checkpoints, err := decodeCheckpoints(configuration.Checkpoints)
	panicOnError(err)

	node, err := NewNode(nodeConfig, tokenConfigs, checkpoints, stateStore, bridgeMetrics)
	panicOnError(err)

	handler, err := api.NewHandler(api.NewService(node.Bridge, node.Registry, node.Recorder))
	panicOnError(err)

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		return api.Serve(ctx, nodeConfig.RPCPort, handler)
	})
	p.Go(func(ctx context.Context) error {
		return health.StartHealthEndpoint(ctx, nodeConfig.HealthPort, func() error {
			_, _, err := stateStore.BridgeSnapshot()
			return err
		})
	})
	p.Go(func(ctx context.Context) error {
		jobs.StartLimitQueueReportJob(ctx, node.Bridge, nodeConfig.LimitReportInterval)
		return nil
	})

	errChn := make(chan error, 1)
	go func() {
		errChn <- p.Wait()
	}()

	sysErr := make(chan os.Signal, 1)
	signal.Notify(sysErr,
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGHUP,
		syscall.SIGQUIT)

	nodeName := viper.GetString(flags.NameFlagName)
	log.Info().Msgf("Started bridge node: %s with bridge address: %s", nodeName, node.Bridge.Address().Hex())

	select {
	case err := <-errChn:
		log.Error().Err(err).Msg("failed to listen and serve")
		return err
	case sig := <-sysErr:
		log.Info().Msgf("terminating got ` [%v] signal", sig)
		cancel()
		<-errChn
		return nil
	}
}

func panicOnError(err error) {
	if err != nil {
		panic(err)
	}
}
