// Package metrics exposes Prometheus counters for routing outcomes, cache
// behaviour and query gate rejections. Each Registry owns its own
// prometheus.Registry so tests and CLI invocations never share state.
package metrics
