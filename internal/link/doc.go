// Package link decides whether a proposed connection between two node slots
// is legal: well-formed endpoints, known nodes and slots, exact declared-type
// match, and no cycle in the resulting edge set. Validation is pure and
// side-effect free, cheap enough to run on every drag of a connection.
package link
