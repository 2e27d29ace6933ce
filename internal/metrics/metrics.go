package metrics

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"reelquery/internal/cache"
)

const namespace = "reelquery"

// Registry holds the counters recorded while answering questions.
type Registry struct {
	reg             *prometheus.Registry
	routeTotal      *prometheus.CounterVec
	guardRejections *prometheus.CounterVec

	mu     sync.Mutex
	caches map[string]func() cache.Stats
}

// New builds a Registry with the route and gate counters registered.
func New() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	r := &Registry{
		reg: reg,
		routeTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_total",
			Help:      "Route evaluations by route and outcome",
		}, []string{"route", "outcome"}),
		guardRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guard_rejections_total",
			Help:      "Generated queries rejected by the safety gate, by reason",
		}, []string{"reason"}),
		caches: make(map[string]func() cache.Stats),
	}

	for _, def := range []struct {
		name, help string
		pick       func(cache.Stats) uint64
	}{
		{"cache_hits_total", "Cache lookups that returned a live entry", func(s cache.Stats) uint64 { return s.Hits }},
		{"cache_misses_total", "Cache lookups that found nothing or an expired entry", func(s cache.Stats) uint64 { return s.Misses }},
		{"cache_evictions_total", "Entries removed to respect cache capacity", func(s cache.Stats) uint64 { return s.Evictions }},
		{"cache_expirations_total", "Entries removed after their TTL elapsed", func(s cache.Stats) uint64 { return s.Expirations }},
	} {
		reg.MustRegister(&cacheCollector{
			owner: r,
			desc: prometheus.NewDesc(prometheus.BuildFQName(namespace, "", def.name),
				def.help, []string{"cache"}, nil),
			pick: def.pick,
		})
	}
	return r
}

// Prometheus returns the underlying registry for exposition.
func (r *Registry) Prometheus() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

// ObserveRoute counts one evaluation of route with outcome.
func (r *Registry) ObserveRoute(route, outcome string) {
	if r == nil {
		return
	}
	r.routeTotal.WithLabelValues(route, outcome).Inc()
}

// ObserveRejection counts one gate rejection.
func (r *Registry) ObserveRejection(reason string) {
	if r == nil {
		return
	}
	r.guardRejections.WithLabelValues(reason).Inc()
}

// TrackCache exposes stats for the cache registered under name.
func (r *Registry) TrackCache(name string, stats func() cache.Stats) {
	if r == nil || stats == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.caches[name] = stats
}

func (r *Registry) cacheSnapshot() map[string]cache.Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]cache.Stats, len(r.caches))
	for name, fn := range r.caches {
		out[name] = fn()
	}
	return out
}

// cacheCollector reads cache stats at scrape time.
type cacheCollector struct {
	owner *Registry
	desc  *prometheus.Desc
	pick  func(cache.Stats) uint64
}

func (c *cacheCollector) Describe(ch chan<- *prometheus.Desc) { ch <- c.desc }

func (c *cacheCollector) Collect(ch chan<- prometheus.Metric) {
	for name, stats := range c.owner.cacheSnapshot() {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.CounterValue, float64(c.pick(stats)), name)
	}
}

// Sample is one gathered metric value.
type Sample struct {
	Name   string
	Labels string
	Value  float64
}

// Snapshot gathers every non-zero series, sorted by name then labels.
func (r *Registry) Snapshot() ([]Sample, error) {
	if r == nil {
		return nil, nil
	}
	families, err := r.reg.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}
	var samples []Sample
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			value := metric.GetCounter().GetValue()
			if value == 0 {
				continue
			}
			pairs := make([]string, 0, len(metric.GetLabel()))
			for _, label := range metric.GetLabel() {
				pairs = append(pairs, label.GetName()+"="+label.GetValue())
			}
			samples = append(samples, Sample{
				Name:   family.GetName(),
				Labels: strings.Join(pairs, ","),
				Value:  value,
			})
		}
	}
	sort.Slice(samples, func(i, j int) bool {
		if samples[i].Name != samples[j].Name {
			return samples[i].Name < samples[j].Name
		}
		return samples[i].Labels < samples[j].Labels
	})
	return samples, nil
}

// WriteText writes the registry in the Prometheus text exposition format.
func (r *Registry) WriteText(w io.Writer) error {
	if r == nil {
		return nil
	}
	families, err := r.reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	encoder := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, family := range families {
		if err := encoder.Encode(family); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return nil
}
