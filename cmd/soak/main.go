// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package main contains the soak command used to check broker connection
// stability over long runs.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	mglog "github.com/absmach/recdist/logger"
	"github.com/absmach/recdist/observations"
	"github.com/absmach/recdist/observations/soak"
	"github.com/absmach/recdist/pkg/messaging/brokers"
	"github.com/absmach/recdist/pkg/uuid"
	"github.com/caarlos0/env/v11"
	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"
)

const (
	envPrefix       = "MG_SOAK_"
	envPrefixBroker = "MG_DISTRIBUTION_BROKER_"
)

func main() {
	cfg := soak.Config{}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		log.Fatalf("failed to load soak configuration : %s", err)
	}
	brokerCfg := brokers.Config{}
	if err := env.ParseWithOptions(&brokerCfg, env.Options{Prefix: envPrefixBroker}); err != nil {
		log.Fatalf("failed to load broker configuration : %s", err)
	}
	logLevel := "info"

	rootCmd := &cobra.Command{
		Use:   "recdist-soak",
		Short: "Broker connection stability test",
		Long: "Publishes synthetic observations at a fixed interval, reopens dropped\n" +
			"connections and reports statistics every report interval.\n" +
			"usage:\n" +
			"\trecdist-soak --broker-url tcp://localhost:1883 --duration 2h --interval 10s",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, cfg, brokerCfg, logLevel)
		},
	}

	flags := rootCmd.Flags()
	flags.DurationVarP(&cfg.Duration, "duration", "d", cfg.Duration, "Test duration")
	flags.DurationVarP(&cfg.Interval, "interval", "i", cfg.Interval, "Time between messages")
	flags.DurationVar(&cfg.ReportInterval, "report-interval", cfg.ReportInterval, "Time between statistics reports")
	flags.DurationVar(&cfg.ReconnectWait, "reconnect-wait", cfg.ReconnectWait, "Pause after a reconnection")
	flags.Uint64Var(&cfg.ReconnectAttempts, "reconnect-attempts", cfg.ReconnectAttempts, "Reconnection attempts per lost connection")
	flags.IntVar(&cfg.Sensors, "sensors", cfg.Sensors, "Number of synthetic sensors")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Log every sent message")
	flags.StringVarP(&brokerCfg.URL, "broker-url", "b", brokerCfg.URL, "Broker URL")
	flags.StringVarP(&brokerCfg.Topic, "topic", "t", brokerCfg.Topic, "Topic, subject or routing key")
	flags.DurationVar(&brokerCfg.Timeout, "timeout", brokerCfg.Timeout, "Broker operation timeout")
	flags.StringVarP(&logLevel, "log-level", "l", logLevel, "Log level")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, cfg soak.Config, brokerCfg brokers.Config, logLevel string) error {
	logger, err := mglog.New(cmd.ErrOrStderr(), logLevel)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := brokers.New(brokerCfg)
	if err != nil {
		return err
	}
	svcCfg := observations.DefaultConfig()
	svc, err := observations.New(svcCfg, conn, uuid.New(), logger)
	if err != nil {
		return err
	}
	if err := svc.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to establish initial connection: %w", err)
	}
	defer func() {
		if err := svc.CloseConnection(); err != nil {
			logger.Error(fmt.Sprintf("failed to close broker connection: %s", err))
		}
	}()

	runner, err := soak.New(svc, cfg, logger)
	if err != nil {
		return err
	}
	report := runner.Run(ctx)

	return printReport(cmd, report)
}

func printReport(cmd *cobra.Command, rep soak.Report) error {
	m, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	pj, err := prettyjson.Format(m)
	if err != nil {
		return err
	}

	rule := strings.Repeat("=", 50)
	fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n%s\n%s\n", rule, color.New(color.Bold).Sprint("         FINAL TEST REPORT"), rule)
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", string(pj))

	rate := color.GreenString("%.2f%%", rep.SuccessRate)
	if rep.Failed > 0 {
		rate = color.RedString("%.2f%%", rep.SuccessRate)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Success rate: %s\nUptime: %.1f%%\n%s\n\n", rate, rep.Uptime, rule)

	return nil
}
