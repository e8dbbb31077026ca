package schema

import (
	"reflect"
	"sync"

	"github.com/zclconf/go-cty/cty"
)

// opaque is the Go payload type backing named capsule types. The payload is
// never instantiated; named types exist only to be compared.
type opaque struct{}

var (
	namedMu    sync.Mutex
	namedTypes = map[string]cty.Type{}
)

// NamedType returns the nominal type for the given name, such as "IMAGE" or
// "LATENT". Calls with the same name return the same cty.Type, so Equals
// gives exact by-name matching; distinct names are never compatible, and a
// named type never equals a primitive type.
func NamedType(name string) cty.Type {
	namedMu.Lock()
	defer namedMu.Unlock()

	if t, ok := namedTypes[name]; ok {
		return t
	}
	t := cty.Capsule(name, reflect.TypeOf(opaque{}))
	namedTypes[name] = t
	return t
}
