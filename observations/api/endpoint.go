// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"

	"github.com/absmach/recdist/observations"
	"github.com/absmach/recdist/pkg/apiutil"
	"github.com/absmach/recdist/pkg/errors"
	"github.com/go-kit/kit/endpoint"
)

func publishEndpoint(svc observations.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(publishReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		for i := range req.observations {
			if err := svc.Publish(ctx, &req.observations[i]); err != nil {
				return nil, err
			}
		}

		return publishRes{Accepted: len(req.observations)}, nil
	}
}

func listObservationsEndpoint(svc observations.Service) endpoint.Endpoint {
	return func(_ context.Context, request interface{}) (interface{}, error) {
		req := request.(listObservationsReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		history := svc.ObservedMessages()
		ret := make([]observations.Observation, 0, len(history))
		// Newest first.
		for i := len(history) - 1; i >= 0 && uint64(len(ret)) < req.limit; i-- {
			if req.sensorID != "" && history[i].SensorID != req.sensorID {
				continue
			}
			ret = append(ret, history[i])
		}

		return listObservationsRes{
			Total:        len(history),
			Observations: ret,
		}, nil
	}
}

func listPendingEndpoint(svc observations.Service) endpoint.Endpoint {
	return func(_ context.Context, request interface{}) (interface{}, error) {
		req := request.(listObservationsReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		pending := svc.PendingMessages()
		ret := make([]observations.Observation, 0, len(pending))
		for _, obs := range pending {
			if uint64(len(ret)) >= req.limit {
				break
			}
			if req.sensorID != "" && obs.SensorID != req.sensorID {
				continue
			}
			ret = append(ret, obs)
		}

		return listObservationsRes{
			Total:        len(pending),
			Observations: ret,
		}, nil
	}
}

func statsEndpoint(svc observations.Service) endpoint.Endpoint {
	return func(_ context.Context, _ interface{}) (interface{}, error) {
		return statsRes{Stats: svc.Stats()}, nil
	}
}

func connectionEndpoint(svc observations.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(connectionReq)

		switch req.open {
		case true:
			if !svc.IsConnectionEstablished() {
				if err := svc.OpenConnection(ctx); err != nil {
					return nil, err
				}
			}
		default:
			if err := svc.CloseConnection(); err != nil {
				return nil, err
			}
		}

		return connectionRes{Connected: svc.IsConnectionEstablished()}, nil
	}
}

func lastValueEndpoint(repo observations.LastValueRepository) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(lastValueReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		lv, err := repo.Retrieve(ctx, req.sensorID)
		if err != nil {
			return nil, err
		}

		return lastValueRes{LastValue: lv}, nil
	}
}
