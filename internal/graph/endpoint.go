package graph

import "strings"

// Edge endpoints carry slot names in a direction-marked encoding:
// "out:<name>" on the source side and "in:<name>" on the target side. The
// markers are distinct so a reversed or partially-edited edge can never be
// mistaken for a valid one. Changing either marker is a breaking change for
// the editing surface.
const (
	OutputMarker = "out:"
	InputMarker  = "in:"
)

// EncodeOutputSlot encodes an output slot name for use on the source side
// of an edge.
func EncodeOutputSlot(name string) string {
	return OutputMarker + name
}

// EncodeInputSlot encodes an input slot name for use on the target side of
// an edge.
func EncodeInputSlot(name string) string {
	return InputMarker + name
}

// DecodeOutputSlot extracts the slot name from a source-side endpoint.
// It reports false when the marker is missing, wrong-direction, or the
// remainder is empty.
func DecodeOutputSlot(encoded string) (string, bool) {
	return decode(encoded, OutputMarker)
}

// DecodeInputSlot extracts the slot name from a target-side endpoint.
func DecodeInputSlot(encoded string) (string, bool) {
	return decode(encoded, InputMarker)
}

func decode(encoded, marker string) (string, bool) {
	if !strings.HasPrefix(encoded, marker) {
		return "", false
	}
	name := encoded[len(marker):]
	if name == "" {
		return "", false
	}
	return name, true
}
