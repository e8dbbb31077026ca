package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/gridware/internal/ctxlog"
	"github.com/vk/gridware/internal/graph"
	"github.com/vk/gridware/internal/widget"
)

// documentFile is the top-level structure of a workflow document.
type documentFile struct {
	Nodes    []*nodeBlock    `hcl:"node,block"`
	Connects []*connectBlock `hcl:"connect,block"`
}

// nodeBlock is one `node "id" { ... }` declaration. An empty label gets a
// generated id.
type nodeBlock struct {
	Name  string    `hcl:"name,label"`
	Type  string    `hcl:"type"`
	Title string    `hcl:"title,optional"`
	Set   *setBlock `hcl:"set,block"`
}

// setBlock holds the literal field values entered for a node.
type setBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// connectBlock is one `connect { from = "a.out:X" to = "b.in:y" }` edge.
type connectBlock struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
}

// Load reads one workflow document and returns the graph snapshot.
func Load(ctx context.Context, path string) (*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading workflow document.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse workflow %s: %s", path, diags.Error())
	}

	var doc documentFile
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode workflow %s: %s", path, diags.Error())
	}

	g := &graph.Graph{}
	ids := make(map[string]bool, len(doc.Nodes))
	for _, block := range doc.Nodes {
		node, err := translateNode(block)
		if err != nil {
			return nil, fmt.Errorf("in workflow %s: %w", path, err)
		}
		if ids[node.ID] {
			return nil, fmt.Errorf("in workflow %s: node id %q declared more than once", path, node.ID)
		}
		ids[node.ID] = true
		g.Nodes = append(g.Nodes, node)
	}

	for _, block := range doc.Connects {
		edge, err := translateConnect(block)
		if err != nil {
			return nil, fmt.Errorf("in workflow %s: %w", path, err)
		}
		g.Edges = append(g.Edges, edge)
	}

	logger.Debug("Workflow document loaded.", "nodes", len(g.Nodes), "edges", len(g.Edges))
	return g, nil
}

func translateNode(block *nodeBlock) (*graph.Node, error) {
	id := block.Name
	if id == "" {
		id = uuid.NewString()
	}

	node := &graph.Node{
		ID:     id,
		Type:   block.Type,
		Title:  block.Title,
		Fields: make(map[string]any),
	}

	if block.Set == nil {
		return node, nil
	}
	attrs, diags := block.Set.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("node %q: %s", id, diags.Error())
	}
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("node %q, field %q: %s", id, name, diags.Error())
		}
		native, err := widget.Native(val)
		if err != nil {
			return nil, fmt.Errorf("node %q, field %q: %w", id, name, err)
		}
		if native == nil {
			continue // null literals mean absent
		}
		node.Fields[name] = native
	}
	return node, nil
}

// translateConnect splits the "<nodeId>.<marker><slot>" references of a
// connect block into an edge carrying the endpoint encoding.
func translateConnect(block *connectBlock) (*graph.Edge, error) {
	fromNode, fromSlot, err := splitRef(block.From, graph.OutputMarker)
	if err != nil {
		return nil, fmt.Errorf("connect from %q: %w", block.From, err)
	}
	toNode, toSlot, err := splitRef(block.To, graph.InputMarker)
	if err != nil {
		return nil, fmt.Errorf("connect to %q: %w", block.To, err)
	}
	return &graph.Edge{FromNode: fromNode, FromSlot: fromSlot, ToNode: toNode, ToSlot: toSlot}, nil
}

// splitRef cuts a reference on the first "." whose suffix begins with the
// direction marker, so node ids containing dots keep working.
func splitRef(ref, marker string) (node, slot string, err error) {
	sep := "." + marker
	idx := strings.Index(ref, sep)
	if idx <= 0 {
		return "", "", fmt.Errorf("expected \"<nodeId>.%s<slotName>\"", marker)
	}
	node = ref[:idx]
	slot = ref[idx+1:]
	if slot == marker {
		return "", "", fmt.Errorf("empty slot name")
	}
	return node, slot, nil
}
