// Package observability provides OpenTelemetry tracing and metrics for the
// banking service, plus lightweight health reporting.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("simbank"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "oauth.handle_callback")
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("simbank"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("simbank"))
//	metrics.RecordLogin(ctx, "ok", duration)
//
// Health:
//
//	health := observability.NewServiceHealth("simbank", version.Version)
//	health.AddComponent(redisClient.CheckHealth(ctx))
package observability
