// Package dispatch submits a compiled execution request to the generation
// backend. It is the only package that performs network I/O; the compiler
// hands it a finished result and never learns the wire format. Submission
// refuses results that carry blocking errors, and warnings must be
// explicitly acknowledged before a request leaves the process.
package dispatch
