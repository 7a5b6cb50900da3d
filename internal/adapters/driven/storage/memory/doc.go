// Package memory provides in-memory implementations of driven port interfaces.
//
// The record store backs the "memory" store driver for dry runs and is the
// store used by service tests. It can simulate a store that does not echo
// upserts and records a per-document revision that only changes when the
// stored content changes. The config store stands in for the TOML file in
// settings tests.
package memory
