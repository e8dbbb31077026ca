package compile

import (
	"context"

	"github.com/vk/gridware/internal/ctxlog"
	"github.com/vk/gridware/internal/graph"
	"github.com/vk/gridware/internal/schema"
	"github.com/vk/gridware/internal/widget"
)

// ConnectionRef points a request input at another node's output by position.
type ConnectionRef struct {
	NodeID      string
	OutputIndex int
}

// RequestNode is the compiled, backend-facing form of one workflow node.
// Inputs maps slot names to literal values, a single ConnectionRef, or an
// ordered []ConnectionRef when several edges target the same slot.
type RequestNode struct {
	Type   string
	Inputs map[string]any
}

// Result is the output of one compile pass. Errors block submission;
// Warnings are advisory, deduplicated per (kind, node).
type Result struct {
	Graph    map[string]*RequestNode
	Errors   []string
	Warnings []Warning
}

// OK reports whether the result carries no blocking errors.
func (r *Result) OK() bool {
	return len(r.Errors) == 0
}

// Compile builds a fresh execution request graph from the snapshot. The
// snapshot and catalog are never mutated; every call returns a new Result.
func Compile(ctx context.Context, g *graph.Graph, cat schema.Catalog) *Result {
	logger := ctxlog.FromContext(ctx)
	diags := newDiagnostics()
	request := make(map[string]*RequestNode, len(g.Nodes))

	// Pass 1: resolve direct-entry field values per node.
	for _, node := range g.Nodes {
		request[node.ID] = compileFields(node, cat, diags)
	}
	logger.Debug("Field resolution pass complete.", "node_count", len(request))

	// Pass 2: wire edges into connection references.
	nodes := g.NodeIndex()
	for _, edge := range g.Edges {
		wireEdge(edge, nodes, cat, request, diags)
	}
	logger.Debug("Edge wiring pass complete.", "edge_count", len(g.Edges))

	// Pass 3: required inputs must be satisfied by a field or a connection.
	// Runs last so connections can satisfy what field resolution could not.
	for _, node := range g.Nodes {
		sch, ok := cat.Lookup(node.Type)
		if !ok {
			continue
		}
		compiled := request[node.ID]
		for _, in := range sch.Inputs {
			if in.Group != schema.GroupRequired {
				continue
			}
			if _, ok := compiled.Inputs[in.Name]; !ok {
				diags.errorf("Missing required input %s on %s (%s).", in.Name, node.DisplayName(), node.ID)
			}
		}
	}

	if len(diags.errors) > 0 || len(diags.warnings) > 0 {
		logger.Debug("Compile finished with diagnostics.",
			"errors", len(diags.errors), "warnings", len(diags.warnings))
	}

	return &Result{Graph: request, Errors: diags.errors, Warnings: diags.warnings}
}

// compileFields builds the initial request node from stored field values.
// Nodes without a known schema fall back to a lossy verbatim copy of their
// non-nil fields and a single missing-schema warning.
func compileFields(node *graph.Node, cat schema.Catalog, diags *diagnostics) *RequestNode {
	compiled := &RequestNode{Type: node.Type, Inputs: make(map[string]any)}

	if node.Type == "" {
		diags.warn(WarnMissingType, node.ID, "Node %s has no type.", node.ID)
	}
	sch, ok := cat.Lookup(node.Type)
	if !ok {
		diags.warn(WarnMissingSchema, node.ID,
			"No schema for type %q on node %s; copying fields verbatim.", node.Type, node.ID)
		for name, value := range node.Fields {
			if value != nil {
				compiled.Inputs[name] = value
			}
		}
		return compiled
	}

	for _, in := range sch.Inputs {
		if in.Group == schema.GroupHidden {
			continue
		}
		if in.NoWidget || in.ConnectionOnly {
			continue
		}
		raw, present := node.Field(in.Name)
		if value, ok := widget.Resolve(in, raw, present); ok {
			compiled.Inputs[in.Name] = value
		}
	}
	return compiled
}

// wireEdge merges one edge into the target's input map. Malformed or
// dangling edges are dropped silently: they are transient states of
// interactive editing, not submission failures.
func wireEdge(edge *graph.Edge, nodes map[string]*graph.Node, cat schema.Catalog, request map[string]*RequestNode, diags *diagnostics) {
	outName, ok := graph.DecodeOutputSlot(edge.FromSlot)
	if !ok {
		return
	}
	inName, ok := graph.DecodeInputSlot(edge.ToSlot)
	if !ok {
		return
	}
	source, ok := nodes[edge.FromNode]
	if !ok {
		return
	}
	if _, ok := nodes[edge.ToNode]; !ok {
		return
	}

	sourceSchema, ok := cat.Lookup(source.Type)
	if !ok {
		diags.warn(WarnMissingSchema, source.ID,
			"No schema for type %q on node %s; copying fields verbatim.", source.Type, source.ID)
		return
	}
	index, ok := sourceSchema.OutputIndex(outName)
	if !ok {
		diags.warn(WarnUnknownOutput, source.ID,
			"Node %s (%s) has no output named %q.", source.DisplayName(), source.ID, outName)
		return
	}

	target := request[edge.ToNode]
	ref := ConnectionRef{NodeID: edge.FromNode, OutputIndex: index}
	switch existing := target.Inputs[inName].(type) {
	case nil:
		target.Inputs[inName] = ref
	case ConnectionRef:
		target.Inputs[inName] = []ConnectionRef{existing, ref}
	case []ConnectionRef:
		target.Inputs[inName] = append(existing, ref)
	default:
		// A literal loses to a connection; last edge wins.
		target.Inputs[inName] = ref
	}
}
