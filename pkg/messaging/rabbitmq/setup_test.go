// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package rabbitmq

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
)

const (
	port          = "5672/tcp"
	brokerName    = "rabbitmq"
	brokerVersion = "3.9.20"
	brokerTimeout = 5 * time.Second
	poolMaxWait   = 120 * time.Second
)

var (
	pool      *dockertest.Pool
	container *dockertest.Resource
	address   string
)

func TestMain(m *testing.M) {
	var err error
	pool, err = dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not connect to docker: %s", err)
	}

	container, err = pool.Run(brokerName, brokerVersion, []string{})
	if err != nil {
		log.Fatalf("Could not start container: %s", err)
	}
	handleInterrupt(pool, container)

	address = fmt.Sprintf("amqp://%s:%s", "localhost", container.GetPort(port))
	pool.MaxWait = poolMaxWait
	if err := pool.Retry(func() error {
		conn, err := New(address, "health", brokerTimeout)
		if err != nil {
			return err
		}
		if err := conn.Open(context.Background()); err != nil {
			return err
		}
		return conn.Close()
	}); err != nil {
		log.Fatalf("Could not connect to docker: %s", err)
	}

	code := m.Run()
	if err := pool.Purge(container); err != nil {
		log.Fatalf("Could not purge container: %s", err)
	}

	os.Exit(code)
}

func handleInterrupt(pool *dockertest.Pool, container *dockertest.Resource) {
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		if err := pool.Purge(container); err != nil {
			log.Fatalf("Could not purge container: %s", err)
		}
		os.Exit(0)
	}()
}
