// Package file provides the TOML-backed configuration store.
//
// Nested tables are flattened to dot-notation keys on load
// ("github.repo", "paths.characters") and nested again on save.
package file
