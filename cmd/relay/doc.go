// Package main runs the development relay used by aethos during local testing.
// It accepts websocket upgrades on /ws, reads one hello per connection and
// answers with hello_ack, or hello_error when the hello is malformed.
//
// HTTP API
//
//	GET /ws
//	    Websocket upgrade. When --token is set the request must carry
//	    "Authorization: Bearer <token>", otherwise it is refused with 401
//	    before the upgrade.
//
//	GET /healthz
//	    Liveness probe, always 200.
//
//	GET /metrics
//	    Prometheus metrics, including hellos served by result.
//
// Behaviour
//
//   - No state survives the process; the relay only counts and logs hellos.
//   - Logs are JSON on stderr.
//   - The default listen address is :8082.
//
// This relay is meant for a private network. It never sees key material.
package main
