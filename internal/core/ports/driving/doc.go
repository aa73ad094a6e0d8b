// Package driving provides interfaces for application entry points (primary/inbound ports).
//
// Driving ports are implemented by core services and consumed by adapters in
// internal/adapters/driving (CLI, MCP).
package driving
