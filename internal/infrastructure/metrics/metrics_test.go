package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewWithRegistryRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := NewWithRegistry(registry)

	if m.ExpensesRecorded == nil || m.HTTPRequests == nil || m.SyncRuns == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.ExpensesRecorded.Inc()
	m.TradesRecorded.WithLabelValues("buy").Inc()

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}

	found := map[string]bool{}
	for _, mf := range metricFamilies {
		found[mf.GetName()] = true
	}
	for _, name := range []string{"moneta_expenses_recorded_total", "moneta_trades_recorded_total"} {
		if !found[name] {
			t.Fatalf("expected %s to be registered, got %v", name, found)
		}
	}
}
