package widget

import (
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"
)

// Native converts a cty.Value into its plain Go equivalent: string, bool,
// int64 or float64 for primitives, []any for lists and tuples, and
// map[string]any for maps and objects. Null and unknown values convert to
// nil.
func Native(val cty.Value) (any, error) {
	if !val.IsKnown() || val.IsNull() {
		return nil, nil
	}

	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Bool:
		return val.True(), nil
	case ty == cty.Number:
		bf := val.AsBigFloat()
		if i, acc := bf.Int64(); acc == big.Exact {
			return i, nil
		}
		f, _ := bf.Float64()
		return f, nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			nv, err := Native(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, nv)
		}
		return out, nil
	case ty.IsMapType() || ty.IsObjectType():
		out := make(map[string]any, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			kv, ev := it.Element()
			nv, err := Native(ev)
			if err != nil {
				return nil, err
			}
			out[kv.AsString()] = nv
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot convert value of type %s to a native Go value", ty.FriendlyName())
	}
}
