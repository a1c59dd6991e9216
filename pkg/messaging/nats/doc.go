// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package nats holds the implementation of the messaging.Connection
// interface backed by NATS JetStream. Publishing is asynchronous: the
// completion handler runs once the stream acknowledges the message or the
// acknowledgment times out. Message ids are sent as Nats-Msg-Id so the
// stream deduplicates resends of the same message.
package nats
