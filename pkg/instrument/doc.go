// Package instrument provides reactive.Hooks implementations for
// Prometheus metrics, OpenTelemetry tracing and structured logging.
//
// Hooks compose with reactive.ChainHooks:
//
//	m := instrument.NewMetrics(instrument.WithNamespace("myapp"))
//	hooks := reactive.ChainHooks(
//	    m.Hooks(),
//	    instrument.OpenTelemetry(instrument.WithTracerName("myapp")),
//	    instrument.Logging(logger, slog.LevelDebug),
//	)
//	vm, err := vbind.New(doc, vbind.Options{Data: data, Hooks: hooks})
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
package instrument
