// Package storage provides durable storage for NavKeep.
//
// The engine persists two kinds of data through one flat key-value
// contract: the single navigation state record and the append-only
// decision journal. Two engines implement the contract:
//
//   - BadgerEngine: embedded, durable, survives process restarts
//   - MemoryEngine: ephemeral, for tests and throwaway sessions
//
// On top of the KV contract the package defines the record codec
// (JSON, optionally sealed with an AEAD cipher), the journal store,
// and the checksummed export bundle format used by support tooling.
package storage
