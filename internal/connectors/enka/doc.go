// Package enka implements a catalog source over Enka-style JSON stores.
//
// The source reads four documents relative to a base URL:
//
//   - characters.json: character ID -> element, icon, quality, weapon type, name hash
//   - weapons.json: weapon ID -> rank level, weapon type, awaken icon, name hash
//   - pfps.json: profile picture ID -> icon path
//   - loc.json: locale -> name hash -> localised text
//
// Entries are returned sorted by numeric ID. Character entries whose ID is not
// a plain integer (per-element traveler variants) are skipped so that catalog
// keys stay unique.
package enka
