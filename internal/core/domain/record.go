package domain

import (
	"maps"
	"strconv"
)

// IDField is the field name under which stores and catalog files keep
// the store-assigned identifier.
const IDField = "_id"

// ID is an opaque store-assigned identifier.
// Its encoding belongs to the store adapter; callers only compare it.
type ID string

// IsZero reports whether the identifier has not been assigned yet.
func (id ID) IsZero() bool {
	return id == ""
}

// String returns the string representation.
func (id ID) String() string {
	return string(id)
}

// Key is a stable business key supplied by the upstream data source.
type Key string

// String returns the string representation.
func (k Key) String() string {
	return string(k)
}

// Int returns the key as an integer when it is purely numeric.
func (k Key) Int() (int64, bool) {
	n, err := strconv.ParseInt(string(k), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// KeyFromInt builds a key from a numeric catalog ID.
func KeyFromInt(n int) Key {
	return Key(strconv.Itoa(n))
}

// Fields maps attribute names to values.
type Fields map[string]any

// Clone returns a shallow copy of the fields.
func (f Fields) Clone() Fields {
	if f == nil {
		return Fields{}
	}
	return maps.Clone(f)
}

// Record is a locally authored entry reconciled against a keyed store.
type Record struct {
	// Key is the business key; unique within a collection.
	Key Key

	// ID is the store-assigned identifier. Empty until first reconciled.
	ID ID

	// Fields are replaced wholesale in the store on every sync.
	Fields Fields
}

// Document is a record as held by the store.
type Document struct {
	// Key is the business key the document is stored under.
	Key Key

	// ID is the identifier assigned by the store on first insert.
	ID ID

	// Fields are the stored attributes, excluding the key and ID.
	Fields Fields
}
