// Package app wires the loaders, the compiler, the control-field engine and
// the dispatch client into the run pipeline behind the CLI: load catalog,
// load workflow, advance control fields, compile, report diagnostics, then
// dispatch or print the request.
package app
