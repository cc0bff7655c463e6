// Package metrics defines the events emitted by sizing runs and the sinks that
// record them. Concrete sinks (Prometheus, InfluxDB) live in infra/metrics and
// register themselves with the factory below; NewMetricsSink combines several
// configured sinks into one.
package metrics
