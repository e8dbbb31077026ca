package widget

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vk/gridware/internal/schema"
)

// Resolve coerces the stored raw value for a slot into its canonical typed
// value. present reports whether a raw value is stored at all; when it is
// false the slot's declared default is evaluated instead. The second return
// is false when the slot is unresolved.
//
// Canonical types by kind: string/enum -> string, bool -> bool,
// int -> int64, float -> float64. Any other kind passes the value through
// unchanged.
func Resolve(spec *schema.InputSpec, raw any, present bool) (any, bool) {
	var candidate any
	switch {
	case present:
		candidate = raw
	case spec.Default != nil:
		v, err := Native(*spec.Default)
		if err != nil || v == nil {
			return nil, false
		}
		candidate = v
	default:
		return nil, false
	}

	switch spec.Kind {
	case schema.KindString, schema.KindEnum:
		return stringify(candidate)
	case schema.KindBool:
		return toBool(candidate)
	case schema.KindInt:
		n, ok := toNumber(candidate)
		if !ok {
			return nil, false
		}
		return int64(math.Trunc(n)), true
	case schema.KindFloat:
		n, ok := toNumber(candidate)
		if !ok {
			return nil, false
		}
		return n, true
	default:
		return candidate, true
	}
}

// stringify renders any present value as a string.
func stringify(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case int:
		return strconv.Itoa(t), true
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), true
	default:
		return fmt.Sprint(t), true
	}
}

// toBool accepts booleans and the strings "true"/"false" (case-insensitive).
func toBool(v any) (any, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToLower(t) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return nil, false
}

// toNumber accepts finite numeric values and numeric strings. The empty
// string is unresolved, not zero.
func toNumber(v any) (float64, bool) {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case float32:
		n = float64(t)
	case int:
		n = float64(t)
	case int64:
		n = float64(t)
	case string:
		if t == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
