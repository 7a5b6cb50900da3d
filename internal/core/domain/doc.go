// Package domain defines the core business entities for catalogsync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Record: A locally authored entry keyed by a business key
//   - Document: The store's view of a record, carrying the store-assigned ID
//   - Character, Weapon, Avatar: Catalog entities as persisted in catalog files
//   - Settings: Resolved runtime configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
