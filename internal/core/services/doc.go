// Package services implements the driving ports: chunk building, offline
// indexing, runtime loading, retrieval, tool dispatch and settings.
//
// Services depend only on domain and the driven ports, so every adapter
// (embedding provider, artifact backend, metrics) is swapped at wiring time.
package services
