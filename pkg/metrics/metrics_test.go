package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestHTTPMetricsExportsCounterAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	httpMetrics := NewHTTPMetrics(reg)
	httpMetrics.ObserveRequest("GET", "/api/v1/products", 200, 40*time.Millisecond)
	httpMetrics.ObserveRequest("GET", "/api/v1/products", 200, 15*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "http_requests_total", "route", "/api/v1/products"); err != nil {
		t.Fatalf("fetch requests: %v", err)
	} else if got != 2 {
		t.Fatalf("expected requests=2, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "http_request_duration_seconds", "route", "/api/v1/products"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestHTTPMetricsNormalizesEmptyRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	httpMetrics := NewHTTPMetrics(reg)
	httpMetrics.ObserveRequest("GET", "", 404, time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if _, err := fetchCounterValue(mfs, "http_requests_total", "route", "unknown"); err != nil {
		t.Fatalf("fetch requests: %v", err)
	}
}

func TestCacheMetricsCountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	cacheMetrics := NewCacheMetrics(reg)
	cacheMetrics.ObserveLookup(true)
	cacheMetrics.ObserveLookup(false)
	cacheMetrics.ObserveLookup(false)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got := counterValue(mfs, "page_cache_hits_total"); got != 1 {
		t.Fatalf("expected hits=1, got %f", got)
	}
	if got := counterValue(mfs, "page_cache_misses_total"); got != 2 {
		t.Fatalf("expected misses=2, got %f", got)
	}
}

func TestNilRegistererIsNoOp(t *testing.T) {
	NewHTTPMetrics(nil).ObserveRequest("GET", "/", 200, time.Millisecond)
	NewCacheMetrics(nil).ObserveLookup(true)

	var nilHTTP *HTTPMetrics
	var nilCache *CacheMetrics
	nilHTTP.ObserveRequest("GET", "/", 200, time.Millisecond)
	nilCache.ObserveLookup(false)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func counterValue(mfs []*dto.MetricFamily, name string) float64 {
	mf := findMetricFamily(mfs, name)
	if mf == nil || len(mf.GetMetric()) == 0 {
		return -1
	}
	return mf.GetMetric()[0].GetCounter().GetValue()
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
