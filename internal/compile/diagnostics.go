package compile

import "fmt"

// WarningKind identifies the class of an advisory warning. Together with a
// node id it forms the deduplication key, so repeated references to the same
// broken node produce a single message.
type WarningKind string

const (
	WarnMissingType   WarningKind = "missing_type"
	WarnMissingSchema WarningKind = "missing_schema"
	WarnUnknownOutput WarningKind = "unknown_output"
)

// Warning is an advisory diagnostic. Warnings do not block submission but
// require explicit confirmation downstream.
type Warning struct {
	Kind    WarningKind
	NodeID  string
	Message string
}

// Key is the caller-visible deduplication key.
func (w Warning) Key() string {
	return string(w.Kind) + "/" + w.NodeID
}

// diagnostics accumulates errors and deduplicated warnings during a compile
// pass.
type diagnostics struct {
	errors   []string
	warnings []Warning
	seen     map[string]bool
}

func newDiagnostics() *diagnostics {
	return &diagnostics{seen: make(map[string]bool)}
}

func (d *diagnostics) errorf(format string, args ...any) {
	d.errors = append(d.errors, fmt.Sprintf(format, args...))
}

// warn records a warning unless one with the same (kind, node) key was
// already recorded.
func (d *diagnostics) warn(kind WarningKind, nodeID, format string, args ...any) {
	w := Warning{Kind: kind, NodeID: nodeID, Message: fmt.Sprintf(format, args...)}
	if d.seen[w.Key()] {
		return
	}
	d.seen[w.Key()] = true
	d.warnings = append(d.warnings, w)
}
