// Package e2e holds end-to-end tests running the sizing service against real
// InfluxDB and Mosquitto containers. They are skipped when docker is missing.
package e2e
