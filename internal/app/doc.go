// Package app wires application dependencies for the CLI.
//
// Config is assembled from defaults, an optional TOML file and the
// environment, in that order. NewWire builds the stores, the identity service,
// the relay session manager, the transport, the connect coordinator and the
// metrics registry from it.
package app
