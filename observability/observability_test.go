package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewMetrics(t *testing.T) {
	mp := sdkmetric.NewMeterProvider()
	defer mp.Shutdown(context.Background())

	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	ctx := context.Background()
	metrics.RecordLogin(ctx, "ok", 120*time.Millisecond)
	metrics.RecordTransfer(ctx, "ok")
	metrics.RecordTransferBlocked(ctx)
	metrics.RecordSimSwapLookup(ctx, "error", 50*time.Millisecond)
	metrics.RecordError(ctx, "UPSTREAM_ERROR", "oauth")
}

func TestStartSpan(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())
	otel.SetTracerProvider(tp)

	ctx, span := StartSpan(context.Background(), SpanHandleCallback)
	defer span.End()

	if !span.IsRecording() {
		t.Fatal("expected recording span")
	}

	SetSpanAttribute(ctx, "login.subject_fallback", true)
	SetSpanAttribute(ctx, AttrStatus, "ok")
	SetSpanError(ctx, errors.New("boom"))
}

func TestSetSpanAttributeWithoutSpan(t *testing.T) {
	// Must be a no-op when no span is in the context.
	ctx := context.Background()
	SetSpanAttribute(ctx, "key", "value")
	SetSpanError(ctx, errors.New("ignored"))
}

func TestServiceHealthAggregation(t *testing.T) {
	sh := NewServiceHealth("simbank", "1.2.3")
	if sh.Status != HealthStatusUp {
		t.Fatalf("initial status = %s, want up", sh.Status)
	}

	sh.AddComponent(Health{Name: "redis", Status: HealthStatusUp})
	if sh.Status != HealthStatusUp {
		t.Fatalf("status after up component = %s, want up", sh.Status)
	}

	sh.AddComponent(Health{Name: "idp", Status: HealthStatusDegraded})
	if sh.Status != HealthStatusDegraded {
		t.Fatalf("status after degraded component = %s, want degraded", sh.Status)
	}

	sh.AddComponent(Health{Name: "redis", Status: HealthStatusDown, Message: "connection refused"})
	if sh.Status != HealthStatusDown {
		t.Fatalf("status after down component = %s, want down", sh.Status)
	}

	// Down is sticky; a later degraded component must not upgrade it.
	sh.AddComponent(Health{Name: "other", Status: HealthStatusDegraded})
	if sh.Status != HealthStatusDown {
		t.Fatalf("status = %s, want down to remain", sh.Status)
	}

	if len(sh.Components) != 4 {
		t.Fatalf("components = %d, want 4", len(sh.Components))
	}
}
