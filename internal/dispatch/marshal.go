package dispatch

import (
	"encoding/json"

	"github.com/vk/gridware/internal/compile"
)

// MarshalPrompt renders the wire-format JSON of a compiled result without
// submitting it. Used by compile-only runs to show exactly what the backend
// would receive.
func MarshalPrompt(result *compile.Result) ([]byte, error) {
	return json.MarshalIndent(wirePrompt(result), "", "  ")
}
