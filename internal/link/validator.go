package link

import (
	"context"

	"github.com/vk/gridware/internal/ctxlog"
	"github.com/vk/gridware/internal/graph"
	"github.com/vk/gridware/internal/schema"
)

// Validate reports whether the candidate edge may be added to the snapshot.
// It rejects malformed endpoint encodings, unknown nodes, types or slots,
// declared-type mismatches, self-loops, and any edge that would close a
// cycle over the existing edge set. It never mutates its inputs.
func Validate(ctx context.Context, g *graph.Graph, cat schema.Catalog, candidate *graph.Edge) bool {
	logger := ctxlog.FromContext(ctx)

	outName, ok := graph.DecodeOutputSlot(candidate.FromSlot)
	if !ok {
		return false
	}
	inName, ok := graph.DecodeInputSlot(candidate.ToSlot)
	if !ok {
		return false
	}

	nodes := g.NodeIndex()
	source, ok := nodes[candidate.FromNode]
	if !ok {
		return false
	}
	target, ok := nodes[candidate.ToNode]
	if !ok {
		return false
	}

	sourceSchema, ok := cat.Lookup(source.Type)
	if !ok {
		return false
	}
	targetSchema, ok := cat.Lookup(target.Type)
	if !ok {
		return false
	}

	outSpec := sourceSchema.Output(outName)
	if outSpec == nil {
		return false
	}
	inSpec := targetSchema.Input(inName)
	if inSpec == nil {
		return false
	}

	// Exact declared-type match only; no coercion across connection types.
	if !outSpec.Type.Equals(inSpec.Type) {
		logger.Debug("Rejecting connection: type mismatch.",
			"from", candidate.FromNode, "output", outName, "output_type", outSpec.Type.FriendlyName(),
			"to", candidate.ToNode, "input", inName, "input_type", inSpec.Type.FriendlyName(),
		)
		return false
	}

	if candidate.FromNode == candidate.ToNode {
		return false
	}
	if reachable(g.Edges, candidate.ToNode, candidate.FromNode) {
		logger.Debug("Rejecting connection: would create a cycle.",
			"from", candidate.FromNode, "to", candidate.ToNode)
		return false
	}

	return true
}

// reachable reports whether a directed path from start to goal exists over
// the given edge set. Depth-first over an adjacency map built per call; the
// graph is a per-call snapshot, so there is nothing worth caching.
func reachable(edges []*graph.Edge, start, goal string) bool {
	next := make(map[string][]string, len(edges))
	for _, e := range edges {
		next[e.FromNode] = append(next[e.FromNode], e.ToNode)
	}

	seen := map[string]bool{start: true}
	stack := []string{start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == goal {
			return true
		}
		for _, succ := range next[id] {
			if !seen[succ] {
				seen[succ] = true
				stack = append(stack, succ)
			}
		}
	}
	return false
}
