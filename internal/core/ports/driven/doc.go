// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - RecordStore: Keyed document store used by the reconciler
//   - Database: Scoped handle that hands out RecordStores per collection
//   - CatalogSource: Fetches character, weapon and avatar metadata
//   - ImageFetcher: Downloads image assets
//   - ImageConverter: Re-encodes image assets
//   - ImagePublisher: Uploads image assets to the CDN repository
//   - CatalogFiles: Catalog file persistence
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
