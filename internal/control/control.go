package control

import (
	"context"
	"math"
	"math/rand"

	"github.com/vk/gridware/internal/ctxlog"
	"github.com/vk/gridware/internal/graph"
	"github.com/vk/gridware/internal/schema"
	"github.com/vk/gridware/internal/widget"
)

// Mode selects how an eligible slot advances between runs.
type Mode string

const (
	ModeFixed     Mode = "fixed"
	ModeIncrement Mode = "increment"
	ModeDecrement Mode = "decrement"
	ModeRandomize Mode = "randomize"
)

// boundLimit is the symmetric safety range applied to derived randomize
// bounds. It keeps step arithmetic inside the exactly-representable float64
// integer range even when a manifest declares an effectively unbounded max.
const boundLimit = 1e15

// fallbackNames are the conventional control-field names consulted when a
// schema omits the explicit control flag.
var fallbackNames = map[string]bool{
	"seed":       true,
	"noise_seed": true,
	"rand_seed":  true,
}

// Source supplies the pseudo-random draws for randomize mode. *rand.Rand
// satisfies it directly.
type Source interface {
	Float64() float64
}

// SlotKey identifies one control slot on one node. It is the key of the
// caller-owned idempotency set used by before-mode advancement.
type SlotKey struct {
	NodeID string
	Slot   string
}

// SeenSet is the durable idempotency record for before-mode advancement.
// The engine only ever adds keys; the caller owns the set's lifetime, one
// per editing session.
type SeenSet map[SlotKey]struct{}

// ModeSet maps slots to their configured advancement mode. Missing or
// invalid entries default to randomize.
type ModeSet map[SlotKey]Mode

// Get returns the configured mode for a slot, defaulting to randomize.
func (m ModeSet) Get(nodeID, slot string) Mode {
	switch mode := m[SlotKey{NodeID: nodeID, Slot: slot}]; mode {
	case ModeFixed, ModeIncrement, ModeDecrement, ModeRandomize:
		return mode
	default:
		return ModeRandomize
	}
}

// Engine advances control fields across a node collection.
type Engine struct {
	cat schema.Catalog
	rng Source
}

// New returns an engine drawing randomness from src. A nil src falls back
// to the shared process-wide generator.
func New(cat schema.Catalog, src Source) *Engine {
	if src == nil {
		src = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Engine{cat: cat, rng: src}
}

// AdvanceAfter advances every eligible slot unconditionally. It is meant to
// run once per dispatch, after the request has been submitted. The returned
// collection shares every unchanged node with the input; the flag reports
// whether anything changed.
func (e *Engine) AdvanceAfter(ctx context.Context, nodes []*graph.Node, modes ModeSet) ([]*graph.Node, bool) {
	return e.advance(ctx, nodes, modes, nil)
}

// AdvanceBefore advances eligible slots just prior to compiling, gated by
// the idempotency set: the first time a (node, slot) key is observed the
// value is left untouched and the key is recorded, so the very first
// dispatch uses the author's original value. Subsequent observations of the
// same key advance normally.
func (e *Engine) AdvanceBefore(ctx context.Context, nodes []*graph.Node, modes ModeSet, seen SeenSet) ([]*graph.Node, bool) {
	return e.advance(ctx, nodes, modes, seen)
}

func (e *Engine) advance(ctx context.Context, nodes []*graph.Node, modes ModeSet, seen SeenSet) ([]*graph.Node, bool) {
	logger := ctxlog.FromContext(ctx)
	out := make([]*graph.Node, len(nodes))
	changed := false

	for i, node := range nodes {
		out[i] = node
		sch, ok := e.cat.Lookup(node.Type)
		if !ok {
			continue
		}

		var updated *graph.Node
		for _, in := range sch.Inputs {
			if !eligible(in) {
				continue
			}
			if seen != nil {
				key := SlotKey{NodeID: node.ID, Slot: in.Name}
				if _, ok := seen[key]; !ok {
					seen[key] = struct{}{}
					continue
				}
			}

			mode := modes.Get(node.ID, in.Name)
			if mode == ModeFixed {
				continue
			}

			raw, present := node.Field(in.Name)
			current, ok := widget.Resolve(in, raw, present)
			if !ok {
				continue
			}

			next, ok := e.next(in, mode, current)
			if !ok || next == current {
				continue
			}

			if updated == nil {
				updated = node.Clone()
				out[i] = updated
				changed = true
			}
			updated.Fields[in.Name] = next
			logger.Debug("Advanced control field.",
				"node", node.ID, "slot", in.Name, "mode", string(mode), "value", next)
		}
	}

	return out, changed
}

// eligible reports whether a slot participates in control-field
// advancement: direct entry, not connection-only, and either the explicit
// control flag or a conventional seed-like name. Only numeric and enum
// kinds are ever advanced.
func eligible(in *schema.InputSpec) bool {
	if in.NoWidget || in.ConnectionOnly {
		return false
	}
	if !in.Control && !fallbackNames[in.Name] {
		return false
	}
	switch in.Kind {
	case schema.KindInt, schema.KindFloat, schema.KindEnum:
		return true
	default:
		return false
	}
}

// next computes the advanced value for a slot. ok is false when the current
// value cannot be advanced (for example an enum with no options).
func (e *Engine) next(in *schema.InputSpec, mode Mode, current any) (any, bool) {
	if in.Kind == schema.KindEnum {
		return e.nextEnum(in, mode, current)
	}
	return e.nextNumber(in, mode, current)
}

func (e *Engine) nextNumber(in *schema.InputSpec, mode Mode, current any) (any, bool) {
	cur, ok := asFloat(current)
	if !ok {
		return nil, false
	}
	step := 1.0
	if in.Step != nil && *in.Step != 0 {
		step = math.Abs(*in.Step)
	}

	var next float64
	switch mode {
	case ModeIncrement:
		next = cur + step
	case ModeDecrement:
		next = cur - step
	case ModeRandomize:
		min := 0.0
		if in.Min != nil {
			min = *in.Min
		}
		max := min + step
		if in.Max != nil {
			max = *in.Max
		}
		if max < min {
			min, max = max, min
		}
		min = math.Max(min, -boundLimit)
		max = math.Min(max, boundLimit)
		roll := math.Floor(e.rng.Float64() * (max - min) / step)
		next = roll*step + min
	default:
		return nil, false
	}

	if in.Kind == schema.KindInt {
		next = math.Trunc(next)
	}
	if in.Min != nil {
		next = math.Max(next, *in.Min)
	}
	if in.Max != nil {
		next = math.Min(next, *in.Max)
	}

	if in.Kind == schema.KindInt {
		return int64(next), true
	}
	return next, true
}

func (e *Engine) nextEnum(in *schema.InputSpec, mode Mode, current any) (any, bool) {
	if len(in.Options) == 0 {
		return nil, false
	}
	index := 0
	if s, ok := current.(string); ok {
		for i, opt := range in.Options {
			if opt == s {
				index = i
				break
			}
		}
	}

	switch mode {
	case ModeIncrement:
		index++
	case ModeDecrement:
		index--
	case ModeRandomize:
		index = int(math.Floor(e.rng.Float64() * float64(len(in.Options))))
	default:
		return nil, false
	}

	// Clamp at the ends; no wraparound.
	if index < 0 {
		index = 0
	}
	if index > len(in.Options)-1 {
		index = len(in.Options) - 1
	}
	return in.Options[index], true
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int64:
		return float64(t), true
	case int:
		return float64(t), true
	default:
		return 0, false
	}
}
