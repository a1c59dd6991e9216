// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package brokers creates the broker connection matching the scheme of the
// broker URL.
package brokers

import (
	"net/url"
	"time"

	"github.com/absmach/recdist/pkg/errors"
	"github.com/absmach/recdist/pkg/messaging"
	"github.com/absmach/recdist/pkg/messaging/mqtt"
	"github.com/absmach/recdist/pkg/messaging/nats"
	"github.com/absmach/recdist/pkg/messaging/rabbitmq"
)

// ErrUnsupportedScheme indicates a broker URL with a scheme no adapter handles.
var ErrUnsupportedScheme = errors.New("unsupported broker URL scheme")

// Config holds the settings shared by all broker adapters. Fields that an
// adapter does not understand are ignored.
type Config struct {
	URL        string        `env:"URL"         envDefault:"nats://localhost:4222"`
	Topic      string        `env:"TOPIC"       envDefault:"rec.observations"`
	Timeout    time.Duration `env:"TIMEOUT"     envDefault:"10s"`
	ClientID   string        `env:"CLIENT_ID"   envDefault:"recdist-publisher"`
	Username   string        `env:"USERNAME"    envDefault:""`
	Password   string        `env:"PASSWORD"    envDefault:""`
	Properties bool          `env:"PROPERTIES"  envDefault:"false"`
	Stream     string        `env:"STREAM"      envDefault:""`
	Exchange   string        `env:"EXCHANGE"    envDefault:"recdist"`
}

// New returns the connection for cfg.URL:
// nats and tls select NATS JetStream, amqp and amqps select RabbitMQ,
// tcp, ssl, mqtt, mqtts, ws and wss select MQTT.
func New(cfg Config) (messaging.Connection, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, errors.Wrap(ErrUnsupportedScheme, err)
	}

	switch u.Scheme {
	case "nats", "tls":
		var opts []messaging.Option
		if cfg.Stream != "" {
			opts = append(opts, nats.Stream(cfg.Stream))
		}
		return nats.New(cfg.URL, cfg.Topic, cfg.Timeout, opts...)
	case "amqp", "amqps":
		return rabbitmq.New(cfg.URL, cfg.Topic, cfg.Timeout, rabbitmq.Exchange(cfg.Exchange))
	case "tcp", "ssl", "mqtt", "mqtts", "ws", "wss":
		opts := []messaging.Option{
			mqtt.ClientID(cfg.ClientID),
			mqtt.Credentials(cfg.Username, cfg.Password),
		}
		if cfg.Properties {
			opts = append(opts, mqtt.Properties())
		}
		return mqtt.New(cfg.URL, cfg.Topic, cfg.Timeout, opts...)
	default:
		return nil, errors.Wrap(ErrUnsupportedScheme, errors.New(u.Scheme))
	}
}
