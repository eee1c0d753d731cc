// Package infra holds the adapters around the simulation kernel: input
// loading, the trace writer, the notification journal, the MQTT feed,
// metric exporters and crash reporting. They depend on the core packages,
// never the other way around.
package infra
