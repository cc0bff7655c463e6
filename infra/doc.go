// Package infra contains technical adapters: SQL catalog sources, the MQTT
// result publisher, metrics sinks, Sentry monitoring and the zerolog logger.
// These packages depend only on the interfaces defined in the core packages.
package infra
