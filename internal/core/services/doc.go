// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go and never open connections themselves;
// every store, source and publisher is handed in by the caller.
package services
