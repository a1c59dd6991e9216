// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/absmach/recdist/observations"
	"github.com/absmach/recdist/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "recdist:sensor"

var (
	errSave     = errors.New("failed to save last value")
	errRetrieve = errors.New("failed to retrieve last value")
)

var _ observations.LastValueRepository = (*lastValueRepository)(nil)

type lastValueRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLastValueRepository returns a Redis backed last value store. Values
// expire after ttl; a zero ttl keeps them forever.
func NewLastValueRepository(client *redis.Client, ttl time.Duration) observations.LastValueRepository {
	return &lastValueRepository{
		client: client,
		ttl:    ttl,
	}
}

func (repo *lastValueRepository) Save(ctx context.Context, lv observations.LastValue) error {
	if lv.Observation.SensorID == "" {
		return errors.Wrap(errSave, errors.ErrMalformedEntity)
	}
	data, err := json.Marshal(lv)
	if err != nil {
		return errors.Wrap(errSave, err)
	}
	if err := repo.client.Set(ctx, key(lv.Observation.SensorID), data, repo.ttl).Err(); err != nil {
		return errors.Wrap(errSave, err)
	}

	return nil
}

func (repo *lastValueRepository) Retrieve(ctx context.Context, sensorID string) (observations.LastValue, error) {
	data, err := repo.client.Get(ctx, key(sensorID)).Bytes()
	switch {
	case err == redis.Nil:
		return observations.LastValue{}, errors.ErrNotFound
	case err != nil:
		return observations.LastValue{}, errors.Wrap(errRetrieve, err)
	}

	var lv observations.LastValue
	if err := json.Unmarshal(data, &lv); err != nil {
		return observations.LastValue{}, errors.Wrap(errRetrieve, err)
	}

	return lv, nil
}

func key(sensorID string) string {
	return fmt.Sprintf("%s:%s", keyPrefix, sensorID)
}
