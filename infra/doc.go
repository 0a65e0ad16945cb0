// Package infra groups the adapter implementations behind the core
// interfaces: zerolog logging, Prometheus and InfluxDB metrics sinks, the
// MQTT notifier and the SQLite fleet store.
package infra
