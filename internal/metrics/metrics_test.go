package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	IncUpdate("Callback", "ok")
	IncUpdate("callback", "ok")
	if got := testutil.ToFloat64(updatesTotal.WithLabelValues("callback", "ok")); got != 2 {
		t.Fatalf("updates = %v, want 2", got)
	}

	IncMutation("price", "")
	if got := testutil.ToFloat64(mutationsTotal.WithLabelValues("price", "unknown")); got != 1 {
		t.Fatalf("mutations = %v, want 1", got)
	}

	IncPageRender("ca")
	if got := testutil.ToFloat64(pageRenders.WithLabelValues("ca")); got != 1 {
		t.Fatalf("renders = %v, want 1", got)
	}
}

func TestObserveStorage(t *testing.T) {
	ObserveStorage("file", "fetch", time.Now().Add(-10*time.Millisecond))
	if n := testutil.CollectAndCount(storageSeconds); n != 1 {
		t.Fatalf("series = %d, want 1", n)
	}
}

func TestMustRegisterIdempotent(t *testing.T) {
	MustRegister()
	MustRegister()
}
