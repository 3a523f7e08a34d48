package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"bizimport/internal/config"
	"bizimport/internal/metrics"
	"bizimport/internal/metrics/datadog"
	"bizimport/internal/metrics/prompush"
)

const (
	defaultPushgatewayURL = "http://localhost:9091"
	defaultDatadogAddr    = "127.0.0.1:8125"
)

// setupMetrics installs the configured backend and returns the flush to run
// at exit. A backend that fails to initialise is logged and left disabled.
func setupMetrics(p config.Pipeline, log zerolog.Logger) (func(), error) {
	var (
		b   metrics.Backend
		err error
	)

	switch p.Metrics.Backend {
	case "", "none":
		log.Debug().Msg("metrics: disabled")
		return func() {}, nil

	case "pushgateway":
		url := p.Metrics.PushgatewayURL
		if url == "" {
			url = defaultPushgatewayURL
		}
		b, err = prompush.NewBackend(p.Job, url)
		log.Debug().Str("url", url).Str("job", p.Job).Msg("metrics: pushgateway")

	case "datadog":
		addr := p.Metrics.DatadogAddr
		if addr == "" {
			addr = defaultDatadogAddr
		}
		b, err = datadog.NewBackend(datadog.Config{
			Addr:       addr,
			Namespace:  "bizimport.",
			GlobalTags: []string{"job:" + p.Job},
		})
		log.Debug().Str("addr", addr).Msg("metrics: datadog")

	default:
		return nil, fmt.Errorf("metrics: unknown backend %q", p.Metrics.Backend)
	}

	if err != nil {
		log.Warn().Err(err).Msg("metrics: backend init failed; metrics disabled")
		return func() {}, nil
	}

	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Warn().Err(err).Msg("metrics: flush failed")
		}
		metrics.Reset()
	}, nil
}
