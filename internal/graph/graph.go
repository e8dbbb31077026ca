package graph

// Node is one processing node in the editable workflow. Fields maps input
// slot names to stored literal values (string, float64, int64 or bool); an
// absent key means the field was never entered.
type Node struct {
	ID     string
	Type   string
	Title  string
	Fields map[string]any
}

// DisplayName returns the human-facing name used in diagnostics: the title
// when set, otherwise the type name, otherwise the id.
func (n *Node) DisplayName() string {
	if n.Title != "" {
		return n.Title
	}
	if n.Type != "" {
		return n.Type
	}
	return n.ID
}

// Field returns the stored field value for a slot and whether it is present.
func (n *Node) Field(name string) (any, bool) {
	v, ok := n.Fields[name]
	return v, ok
}

// Clone returns a deep copy of the node with its own field map. Used by the
// copy-on-write contract of the control-field engine.
func (n *Node) Clone() *Node {
	fields := make(map[string]any, len(n.Fields))
	for k, v := range n.Fields {
		fields[k] = v
	}
	return &Node{ID: n.ID, Type: n.Type, Title: n.Title, Fields: fields}
}

// Edge is a directed connection between an output slot on one node and an
// input slot on another. Slot identifiers carry the endpoint encoding of
// this package; an edge has no identity beyond its endpoints.
type Edge struct {
	FromNode string
	FromSlot string
	ToNode   string
	ToSlot   string
}

// Graph is a snapshot of the workflow: two flat ordered collections.
type Graph struct {
	Nodes []*Node
	Edges []*Edge
}

// NodeIndex builds and returns a fresh id-keyed lookup over the node
// collection. Later duplicates win, mirroring how the editing surface
// resolves ids.
func (g *Graph) NodeIndex() map[string]*Node {
	idx := make(map[string]*Node, len(g.Nodes))
	for _, n := range g.Nodes {
		idx[n.ID] = n
	}
	return idx
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *Node {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}
