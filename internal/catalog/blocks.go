package catalog

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// manifestFile is the top-level structure of one manifest file. A file may
// declare any number of node types.
type manifestFile struct {
	Nodes []*nodeBlock `hcl:"node,block"`
}

// nodeBlock is one `node "TYPE" { ... }` declaration.
type nodeBlock struct {
	Type        string         `hcl:"type,label"`
	Description string         `hcl:"description,optional"`
	Inputs      []*inputBlock  `hcl:"input,block"`
	Outputs     []*outputBlock `hcl:"output,block"`
}

// inputBlock is one `input "name" { ... }` declaration within a node block.
type inputBlock struct {
	Name           string         `hcl:"name,label"`
	Type           hcl.Expression `hcl:"type"`
	Kind           string         `hcl:"kind,optional"`
	Group          string         `hcl:"group,optional"`
	Description    string         `hcl:"description,optional"`
	Options        []string       `hcl:"options,optional"`
	Default        *cty.Value     `hcl:"default,optional"`
	Widget         *bool          `hcl:"widget,optional"`
	ConnectionOnly bool           `hcl:"connection_only,optional"`
	Min            *float64       `hcl:"min,optional"`
	Max            *float64       `hcl:"max,optional"`
	Step           *float64       `hcl:"step,optional"`
	Control        bool           `hcl:"control,optional"`
}

// outputBlock is one `output "NAME" { ... }` declaration within a node block.
type outputBlock struct {
	Name string         `hcl:"name,label"`
	Type hcl.Expression `hcl:"type"`
}
