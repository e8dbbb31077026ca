// Package catalog loads node-type manifests from HCL files into the
// read-only schema catalog. Manifests declare, per node type, the ordered
// input and output slots with their declared types, widget kinds, groups,
// defaults, numeric bounds and control flags.
package catalog
