// Package observability wires OpenTelemetry tracing and metrics into
// sequence passes.
//
// Providers:
//
//	cfg := observability.Config{Enabled: true}
//	cfg.ApplyDefaults("seqdemo")
//	shutdown, err := observability.Init(ctx, cfg)
//	defer shutdown(ctx)
//
// Instrumenting a sequence:
//
//	metrics, err := observability.NewMetrics(observability.Meter("seqdemo"))
//	obs := observability.NewObserver(metrics, observability.Tracer("seqdemo"), logger.GetGlobalLogger())
//	orders := observability.Instrument(source, "orders", obs)
//
// Every pass over orders then gets its own span, a pass_id in the logs, and
// pull and duration metrics tagged with the sequence name.
package observability
