package filtmetrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/bloomd/filtmgr/pkg/filtmgr"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestCollector_TracksCreateAndDrop(t *testing.T) {
	dir := t.TempDir()
	m, err := filtmgr.Init(filtmgr.DefaultConfig(dir))
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	defer m.Destroy()

	coll := New("test")
	coll.Attach(m)

	if err := m.Create("widgets", nil); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if got := counterValue(t, coll.createTotal.WithLabelValues("ok")); got != 1 {
		t.Fatalf("expected 1 ok create, got %v", got)
	}

	if err := m.Drop("widgets"); err != nil {
		t.Fatalf("drop failed: %v", err)
	}
	if got := counterValue(t, coll.dropTotal.WithLabelValues("ok")); got != 1 {
		t.Fatalf("expected 1 ok drop, got %v", got)
	}

	if err := m.Drop("widgets"); err == nil {
		t.Fatal("expected second drop to fail")
	}
	if got := counterValue(t, coll.dropTotal.WithLabelValues("error")); got != 1 {
		t.Fatalf("expected 1 errored drop, got %v", got)
	}
}

func TestCollector_TracksVacuumCycles(t *testing.T) {
	dir := t.TempDir()
	m, err := filtmgr.Init(filtmgr.DefaultConfig(dir))
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	defer m.Destroy()

	coll := New("test2")
	coll.Attach(m)

	if err := m.Create("a", nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := m.Drop("a"); err != nil {
		t.Fatalf("drop: %v", err)
	}
	m.Vacuum()

	if got := counterValue(t, coll.vacuumCyclesTotal); got != 1 {
		t.Fatalf("expected 1 vacuum cycle recorded, got %v", got)
	}
}
