// Package workflow loads a workflow document — node and connect blocks in
// HCL — into the graph snapshot consumed by the compiler. Unlike the
// interactive editing surface, authored documents are strict: a malformed
// connection reference is a load error, not a silently dropped edge.
package workflow
