// Package mongo provides a MongoDB implementation of the record store ports.
//
// Upserts use FindOneAndReplace with upsert enabled and the post-write
// document returned, which is atomic per key on the server. Store-assigned
// ObjectIDs surface as their hex encoding. Numeric business keys are stored
// as integers so documents written by earlier tooling keep matching.
package mongo
