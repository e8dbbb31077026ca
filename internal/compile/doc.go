// Package compile turns a workflow snapshot plus the schema catalog into the
// execution request graph handed to the backend. Compilation runs in three
// passes: per-node field resolution, per-edge wiring, then required-input
// validation. Anomalies never abort the pass; they accumulate as blocking
// errors or deduplicated advisory warnings on the result.
package compile
