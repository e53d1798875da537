// Package devrelay is a minimal websocket relay that answers hello messages.
//
// It backs cmd/relay for local development and serves as the peer in
// transport and coordinator tests. It keeps no state beyond the hellos it has
// seen and is not meant to face the internet.
package devrelay
