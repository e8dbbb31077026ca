// Package graph holds the editable workflow snapshot: flat ordered
// collections of nodes and edges, with name-keyed lookups built on demand.
// The editing surface owns and mutates nodes; every package here treats a
// Graph as an immutable snapshot for the duration of one call.
package graph
