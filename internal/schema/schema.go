package schema

import "github.com/zclconf/go-cty/cty"

// Group classifies an input slot on a node type.
type Group string

const (
	GroupRequired Group = "required"
	GroupOptional Group = "optional"
	GroupHidden   Group = "hidden"
)

// Kind is the widget kind of an input slot. It governs how stored field
// values are coerced and which control-field mutations apply. It is
// orthogonal to the declared connection type.
type Kind string

const (
	KindString Kind = "string"
	KindEnum   Kind = "enum"
	KindBool   Kind = "bool"
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindAny    Kind = "any"
)

// InputSpec declares a single input slot on a node type.
type InputSpec struct {
	Name        string
	Group       Group
	Type        cty.Type
	Kind        Kind
	Description string

	// Options holds the allowed values for enum-kind slots, in declared order.
	Options []string

	// Default is the declared default value, or nil when the slot has none.
	Default *cty.Value

	// NoWidget marks a slot that cannot be filled by direct field entry.
	NoWidget bool

	// ConnectionOnly marks a slot that must be satisfied by a connection.
	ConnectionOnly bool

	// Min, Max and Step bound numeric slots; nil means undeclared.
	Min  *float64
	Max  *float64
	Step *float64

	// Control marks the slot as a control field, advanced between runs.
	Control bool
}

// DirectEntry reports whether the slot accepts a directly entered field value.
func (s *InputSpec) DirectEntry() bool {
	return !s.NoWidget && !s.ConnectionOnly
}

// OutputSpec declares a single output slot on a node type.
type OutputSpec struct {
	Name string
	Type cty.Type
}

// NodeSchema is the full declaration of one node type: its ordered input
// and output slot lists. Slot names are unique within each list.
type NodeSchema struct {
	Type        string
	Description string
	Inputs      []*InputSpec
	Outputs     []*OutputSpec
}

// Input returns the input slot spec with the given name, or nil.
func (n *NodeSchema) Input(name string) *InputSpec {
	for _, in := range n.Inputs {
		if in.Name == name {
			return in
		}
	}
	return nil
}

// Output returns the output slot spec with the given name, or nil.
func (n *NodeSchema) Output(name string) *OutputSpec {
	for _, out := range n.Outputs {
		if out.Name == name {
			return out
		}
	}
	return nil
}

// OutputIndex returns the positional index of the named output slot within
// the ordered output list. The index is what connection references carry.
func (n *NodeSchema) OutputIndex(name string) (int, bool) {
	for i, out := range n.Outputs {
		if out.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Catalog is a read-only mapping from node type name to its schema.
type Catalog interface {
	// Lookup returns the schema for the given node type name.
	Lookup(nodeType string) (*NodeSchema, bool)
}

// MapCatalog is the map-backed Catalog used by loaders and tests.
type MapCatalog map[string]*NodeSchema

// Lookup implements Catalog.
func (m MapCatalog) Lookup(nodeType string) (*NodeSchema, bool) {
	n, ok := m[nodeType]
	return n, ok
}
