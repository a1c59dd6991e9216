// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package main contains distribution main function to start the observation
// distribution service.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/absmach/recdist"
	jaegerclient "github.com/absmach/recdist/internal/clients/jaeger"
	redisclient "github.com/absmach/recdist/internal/clients/redis"
	mglog "github.com/absmach/recdist/logger"
	"github.com/absmach/recdist/observations"
	"github.com/absmach/recdist/observations/api"
	"github.com/absmach/recdist/observations/middleware"
	obsredis "github.com/absmach/recdist/observations/redis"
	obstracing "github.com/absmach/recdist/observations/tracing"
	"github.com/absmach/recdist/pkg/messaging"
	"github.com/absmach/recdist/pkg/messaging/brokers"
	msgtracing "github.com/absmach/recdist/pkg/messaging/tracing"
	"github.com/absmach/recdist/pkg/prometheus"
	"github.com/absmach/recdist/pkg/server"
	"github.com/absmach/recdist/pkg/server/http"
	"github.com/absmach/recdist/pkg/ulid"
	"github.com/absmach/recdist/pkg/uuid"
	"github.com/caarlos0/env/v11"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	svcName         = "distribution"
	envPrefix       = "MG_DISTRIBUTION_"
	envPrefixBroker = "MG_DISTRIBUTION_BROKER_"
	envPrefixHTTP   = "MG_DISTRIBUTION_HTTP_"
	defSvcHTTPPort  = "9030"
	ulidProvider    = "ulid"
)

type config struct {
	LogLevel     string        `env:"MG_DISTRIBUTION_LOG_LEVEL"      envDefault:"info"`
	InstanceID   string        `env:"MG_DISTRIBUTION_INSTANCE_ID"    envDefault:""`
	IDProvider   string        `env:"MG_DISTRIBUTION_ID_PROVIDER"    envDefault:"uuid"`
	RedisURL     string        `env:"MG_DISTRIBUTION_REDIS_URL"      envDefault:""`
	LastValueTTL time.Duration `env:"MG_DISTRIBUTION_LAST_VALUE_TTL" envDefault:"24h"`
	JaegerURL    url.URL       `env:"MG_JAEGER_URL"                  envDefault:"http://localhost:4318/v1/traces"`
	TraceRatio   float64       `env:"MG_JAEGER_TRACE_RATIO"          envDefault:"1.0"`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load %s configuration : %s", svcName, err)
	}

	logger, err := mglog.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %s", err)
	}

	var exitCode int
	defer mglog.ExitWithError(&exitCode)

	if cfg.InstanceID == "" {
		if cfg.InstanceID, err = uuid.New().ID(); err != nil {
			logger.Error(fmt.Sprintf("failed to generate instanceID: %s", err))
			exitCode = 1
			return
		}
	}

	svcCfg := observations.DefaultConfig()
	if err := env.ParseWithOptions(&svcCfg, env.Options{Prefix: envPrefix}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s service configuration : %s", svcName, err))
		exitCode = 1
		return
	}

	brokerCfg := brokers.Config{}
	if err := env.ParseWithOptions(&brokerCfg, env.Options{Prefix: envPrefixBroker}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s broker configuration : %s", svcName, err))
		exitCode = 1
		return
	}

	tp, err := jaegerclient.NewProvider(ctx, svcName, cfg.JaegerURL, cfg.InstanceID, cfg.TraceRatio)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to init Jaeger: %s", err))
		exitCode = 1
		return
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("error shutting down tracer provider: %s", err))
		}
	}()
	tracer := tp.Tracer(svcName)

	conn, err := brokers.New(brokerCfg)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to create broker connection: %s", err))
		exitCode = 1
		return
	}
	conn = msgtracing.New(brokerCfg.Topic, tracer, conn)

	var repo observations.LastValueRepository
	if cfg.RedisURL != "" {
		client, err := redisclient.Connect(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(fmt.Sprintf("failed to connect to last value cache: %s", err))
			exitCode = 1
			return
		}
		defer client.Close()
		repo = obsredis.NewLastValueRepository(client, cfg.LastValueTTL)
	}

	svc, err := newService(svcCfg, conn, newIDProvider(cfg.IDProvider), repo, logger, tracer)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to create %s service: %s", svcName, err))
		exitCode = 1
		return
	}
	stdprometheus.MustRegister(api.NewCollector("recdist", svcName, svc))

	// The HTTP API stays up without a broker; POST /connection reopens it.
	if err := svc.Initialize(ctx); err != nil {
		logger.Warn(fmt.Sprintf("failed to connect to broker at %s: %s", brokerCfg.URL, err))
	}
	defer func() {
		if err := svc.CloseConnection(); err != nil {
			logger.Error(fmt.Sprintf("failed to close broker connection: %s", err))
		}
	}()

	httpServerConfig := server.Config{Port: defSvcHTTPPort}
	if err := env.ParseWithOptions(&httpServerConfig, env.Options{Prefix: envPrefixHTTP}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s HTTP server configuration : %s", svcName, err))
		exitCode = 1
		return
	}
	hs := http.NewServer(ctx, cancel, svcName, httpServerConfig, api.MakeHandler(svc, repo, logger, svcName, cfg.InstanceID), logger)

	g.Go(func() error {
		return hs.Start()
	})

	g.Go(func() error {
		return server.StopSignalHandler(ctx, cancel, logger, svcName, hs)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("%s service terminated: %s", svcName, err))
	}
}

func newService(cfg observations.Config, conn messaging.Connection, idp recdist.IDProvider, repo observations.LastValueRepository, logger *slog.Logger, tracer trace.Tracer) (observations.Service, error) {
	msgCounter, ackLatency := prometheus.MakeDeliveryMetrics(svcName, "broker")
	observers := []observations.Observer{
		middleware.MetricsObserver(msgCounter, ackLatency),
		obstracing.NewObserver(tracer),
	}
	if repo != nil {
		observers = append(observers, observations.NewLastValueObserver(repo, logger))
	}

	svc, err := observations.New(cfg, conn, idp, logger, observers...)
	if err != nil {
		return nil, err
	}
	svc = middleware.LoggingMiddleware(svc, logger)
	counter, latency := prometheus.MakeMetrics(svcName, "api")
	svc = middleware.MetricsMiddleware(svc, counter, latency)
	svc = obstracing.New(svc, tracer)

	return svc, nil
}

func newIDProvider(kind string) recdist.IDProvider {
	if kind == ulidProvider {
		return ulid.New()
	}

	return uuid.New()
}
