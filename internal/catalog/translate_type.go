// This file contains the logic for parsing manifest type expressions (e.g.
// `string`, `list(number)`, or a bare capitalized name like `IMAGE`) into
// their corresponding cty.Type objects.

package catalog

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/gridware/internal/ctxlog"
	"github.com/vk/gridware/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// typeExprToCtyType converts a manifest type expression into its cty.Type
// equivalent. Lowercase keywords name primitive types; any other bare name
// becomes a nominal named type, so `IMAGE` and `LATENT` are distinct,
// incompatible link types.
func typeExprToCtyType(ctx context.Context, expr hcl.Expression) (cty.Type, error) {
	logger := ctxlog.FromContext(ctx)

	if expr == nil {
		logger.Debug("Type expression is nil, defaulting to any.")
		return cty.DynamicPseudoType, nil
	}

	switch v := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return cty.DynamicPseudoType, fmt.Errorf("type reference must be a single name, got %q", traversalString(v.Traversal))
		}
		return nameToCtyType(v.Traversal.RootName()), nil

	case *hclsyntax.FunctionCallExpr:
		logger.Debug("Parsing type expression as a constructor call.", "call", v.Name)
		switch v.Name {
		case "list":
			if len(v.Args) != 1 {
				return cty.DynamicPseudoType, fmt.Errorf("the list() type constructor requires exactly one argument, got %d", len(v.Args))
			}
			elem, err := typeExprToCtyType(ctx, v.Args[0])
			if err != nil {
				return cty.DynamicPseudoType, err
			}
			return cty.List(elem), nil
		case "map":
			if len(v.Args) != 1 {
				return cty.DynamicPseudoType, fmt.Errorf("the map() type constructor requires exactly one argument, got %d", len(v.Args))
			}
			elem, err := typeExprToCtyType(ctx, v.Args[0])
			if err != nil {
				return cty.DynamicPseudoType, err
			}
			return cty.Map(elem), nil
		default:
			return cty.DynamicPseudoType, fmt.Errorf("unsupported type constructor %q", v.Name)
		}

	default:
		return cty.DynamicPseudoType, fmt.Errorf("unsupported type expression of kind %T", expr)
	}
}

// nameToCtyType maps a bare type name to a cty.Type. The primitive keywords
// are reserved; everything else is nominal.
func nameToCtyType(name string) cty.Type {
	switch name {
	case "string":
		return cty.String
	case "number":
		return cty.Number
	case "bool":
		return cty.Bool
	case "any":
		return cty.DynamicPseudoType
	default:
		return schema.NamedType(name)
	}
}

func traversalString(t hcl.Traversal) string {
	out := ""
	for i, step := range t {
		if attr, ok := step.(hcl.TraverseAttr); ok {
			if i > 0 {
				out += "."
			}
			out += attr.Name
		} else if root, ok := step.(hcl.TraverseRoot); ok {
			out += root.Name
		}
	}
	return out
}
