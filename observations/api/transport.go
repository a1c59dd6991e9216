// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/absmach/recdist"
	"github.com/absmach/recdist/internal/api"
	"github.com/absmach/recdist/observations"
	"github.com/absmach/recdist/pkg/apiutil"
	"github.com/absmach/recdist/pkg/errors"
	"github.com/go-chi/chi/v5"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	sensorIDKey   = "sensorID"
	sensorTypeKey = "sensor_type"
	maxBodySize   = 1 << 20
)

// MakeHandler returns a HTTP API handler with health check and metrics.
// The last value route is registered only when repo is not nil.
func MakeHandler(svc observations.Service, repo observations.LastValueRepository, logger *slog.Logger, svcName, instanceID string) http.Handler {
	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(apiutil.LoggingErrorEncoder(logger, api.EncodeError)),
	}

	mux := chi.NewRouter()

	mux.Route("/observations", func(r chi.Router) {
		r.Post("/", otelhttp.NewHandler(kithttp.NewServer(
			publishEndpoint(svc),
			decodePublishReq,
			api.EncodeResponse,
			opts...,
		), "publish_observations").ServeHTTP)

		r.Get("/", otelhttp.NewHandler(kithttp.NewServer(
			listObservationsEndpoint(svc),
			decodeListObservationsReq,
			api.EncodeResponse,
			opts...,
		), "list_observations").ServeHTTP)

		r.Get("/pending", otelhttp.NewHandler(kithttp.NewServer(
			listPendingEndpoint(svc),
			decodeListObservationsReq,
			api.EncodeResponse,
			opts...,
		), "list_pending_observations").ServeHTTP)
	})

	mux.Get("/stats", otelhttp.NewHandler(kithttp.NewServer(
		statsEndpoint(svc),
		decodeEmptyReq,
		api.EncodeResponse,
		opts...,
	), "view_stats").ServeHTTP)

	mux.Route("/connection", func(r chi.Router) {
		r.Post("/", otelhttp.NewHandler(kithttp.NewServer(
			connectionEndpoint(svc),
			decodeConnectionReq(true),
			api.EncodeResponse,
			opts...,
		), "open_connection").ServeHTTP)

		r.Delete("/", otelhttp.NewHandler(kithttp.NewServer(
			connectionEndpoint(svc),
			decodeConnectionReq(false),
			api.EncodeResponse,
			opts...,
		), "close_connection").ServeHTTP)
	})

	if repo != nil {
		mux.Get("/sensors/{sensorID}", otelhttp.NewHandler(kithttp.NewServer(
			lastValueEndpoint(repo),
			decodeLastValueReq,
			api.EncodeResponse,
			opts...,
		), "view_last_value").ServeHTTP)
	}

	mux.Get("/health", recdist.Health(svcName, instanceID))
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

func decodePublishReq(_ context.Context, r *http.Request) (interface{}, error) {
	ct := r.Header.Get("Content-Type")
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrap(apiutil.ErrMalformedRequest, err)
	}

	switch {
	case strings.Contains(ct, api.SenMLContentType):
		obs, err := decodeSenML(body, r.URL.Query().Get(sensorTypeKey))
		if err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}
		return publishReq{observations: obs}, nil
	case strings.Contains(ct, api.ContentType):
		obs, err := decodeObservations(body)
		if err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}
		return publishReq{observations: obs}, nil
	default:
		return nil, errors.Wrap(apiutil.ErrValidation, apiutil.ErrUnsupportedContentType)
	}
}

// decodeObservations accepts a single observation or a list of them.
func decodeObservations(body []byte) ([]observations.Observation, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var obs []observations.Observation
		if err := json.Unmarshal(body, &obs); err != nil {
			return nil, errors.Wrap(apiutil.ErrMalformedRequest, err)
		}
		return obs, nil
	}

	var obs observations.Observation
	if err := json.Unmarshal(body, &obs); err != nil {
		return nil, errors.Wrap(apiutil.ErrMalformedRequest, err)
	}

	return []observations.Observation{obs}, nil
}

func decodeListObservationsReq(_ context.Context, r *http.Request) (interface{}, error) {
	limit, err := apiutil.ReadNumQuery[uint64](r, api.LimitKey, api.DefLimit)
	if err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, err)
	}
	sensorID, err := apiutil.ReadStringQuery(r, api.SensorIDKey, "")
	if err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, err)
	}

	return listObservationsReq{
		limit:    limit,
		sensorID: sensorID,
	}, nil
}

func decodeConnectionReq(open bool) kithttp.DecodeRequestFunc {
	return func(_ context.Context, _ *http.Request) (interface{}, error) {
		return connectionReq{open: open}, nil
	}
}

func decodeLastValueReq(_ context.Context, r *http.Request) (interface{}, error) {
	return lastValueReq{sensorID: chi.URLParam(r, sensorIDKey)}, nil
}

func decodeEmptyReq(_ context.Context, _ *http.Request) (interface{}, error) {
	return nil, nil
}
