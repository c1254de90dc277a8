package async

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPoolMetricsRecordOperations(t *testing.T) {
	registry := prometheus.NewRegistry()
	p, err := New(Options{Registerer: registry})
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}

	ctx := context.Background()
	if _, err := Await(ctx, p.Hash(ctx, []byte("abc"), "$2b$04$UIdbgxKHq5Q5n6jtFvHVpe")); err != nil {
		t.Fatalf("unexpected hash error: %v", err)
	}
	if _, err := Await(ctx, p.ExtractCost(ctx, "garbage")); err == nil {
		t.Fatalf("expected extract cost error")
	}
	p.Close()
	_, _ = Await(ctx, p.Hash(ctx, []byte("abc"), "$2b$04$UIdbgxKHq5Q5n6jtFvHVpe"))

	if got := testutil.ToFloat64(p.metrics.operations.WithLabelValues(opHash, resultOK)); got != 1 {
		t.Fatalf("expected hash ok counter 1, got %f", got)
	}
	if got := testutil.ToFloat64(p.metrics.operations.WithLabelValues(opExtractCost, resultError)); got != 1 {
		t.Fatalf("expected extract_cost error counter 1, got %f", got)
	}
	if got := testutil.ToFloat64(p.metrics.operations.WithLabelValues(opHash, resultRejected)); got != 1 {
		t.Fatalf("expected hash rejected counter 1, got %f", got)
	}
	if inflight := testutil.ToFloat64(p.metrics.inFlight); inflight != 0 {
		t.Fatalf("expected in-flight gauge 0, got %f", inflight)
	}
	if samples := testutil.CollectAndCount(p.metrics.duration); samples != 2 {
		t.Fatalf("expected histogram series for hash and extract_cost, got %d", samples)
	}
}

func TestPoolMetricsCanceledAreNotTimed(t *testing.T) {
	registry := prometheus.NewRegistry()
	p, err := New(Options{Registerer: registry})
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _ = Await(context.Background(), p.Verify(ctx, []byte("abc"), "$2b$04$UIdbgxKHq5Q5n6jtFvHVpe"))

	if got := testutil.ToFloat64(p.metrics.operations.WithLabelValues(opVerify, resultCanceled)); got != 1 {
		t.Fatalf("expected verify canceled counter 1, got %f", got)
	}
	if samples := testutil.CollectAndCount(p.metrics.duration); samples != 0 {
		t.Fatalf("expected no histogram observations, got %d", samples)
	}
}

func TestPoolMetricsShareRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()
	first, err := New(Options{Registerer: registry})
	if err != nil {
		t.Fatalf("failed to create first pool: %v", err)
	}
	second, err := New(Options{Registerer: registry})
	if err != nil {
		t.Fatalf("failed to create second pool: %v", err)
	}

	if first.metrics.operations != second.metrics.operations {
		t.Fatalf("expected pools on one registry to share the operations collector")
	}
	if first.metrics.inFlight != second.metrics.inFlight {
		t.Fatalf("expected pools on one registry to share the in-flight gauge")
	}
}

func TestPoolMetricsNamespace(t *testing.T) {
	registry := prometheus.NewRegistry()
	p, err := New(Options{Registerer: registry, Namespace: "auth"})
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	ctx := context.Background()
	_, _ = Await(ctx, p.ExtractCost(ctx, "$2b$04$UIdbgxKHq5Q5n6jtFvHVpe"))
	p.Close()

	count, err := testutil.GatherAndCount(registry, "auth_pool_operations_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one auth_pool_operations_total series, got %d", count)
	}
}

func TestPoolMetricsWrongExistingType(t *testing.T) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "bcrypt",
		Subsystem: "pool",
		Name:      "operations_total",
		Help:      "Total number of bcrypt pool operations partitioned by operation and result.",
	}, []string{"op", "result"}))

	if _, err := New(Options{Registerer: registry}); err == nil {
		t.Fatalf("expected an error for a collector of the wrong type")
	}
}
