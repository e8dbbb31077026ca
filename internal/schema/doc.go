// Package schema defines the node-type catalog consumed by the rest of the
// system: per node type, an ordered list of input slot specs and output slot
// specs. The catalog is read-only; every other package treats it as an
// immutable lookup.
package schema
