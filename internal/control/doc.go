// Package control advances designated node fields between runs so that two
// consecutive identical submissions are never collapsed by the backend's
// execution cache. Eligible slots are advanced under one of four modes
// (fixed, increment, decrement, randomize) with bounded, deterministic
// rules; randomness comes from an injectable source so tests can pin it.
//
// The engine never mutates nodes in place: it returns a new collection in
// which only changed nodes are rebuilt, and every unchanged node keeps its
// identity.
package control
