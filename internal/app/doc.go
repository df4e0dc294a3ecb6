// Package app loads configuration and wires the server's dependencies.
//
// Config is layered with koanf: built-in defaults, then conlang.yaml, then
// CONLANG_* environment variables, then explicitly set command-line flags.
// NewWire builds the store selected by storage.driver, the services on top of
// it and the HTTP server, exposing them via the Wire struct.
package app
