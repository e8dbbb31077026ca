package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testManifest = `
node "Source" {
  input "seed" {
    type    = number
    kind    = "int"
    default = 10
    min     = 0
    max     = 100
    step    = 1
    control = true
  }

  output "IMAGE" {
    type = IMAGE
  }
}

node "Sink" {
  input "image" {
    type            = IMAGE
    connection_only = true
  }
}
`

const testWorkflow = `
node "src" {
  type = "Source"

  set {
    seed = 10
  }
}

node "dst" {
  type = "Sink"
}

connect {
  from = "src.out:IMAGE"
  to   = "dst.in:image"
}
`

func writeFixture(t *testing.T, manifest, doc string) *Config {
	t.Helper()
	dir := t.TempDir()
	catalogDir := filepath.Join(dir, "catalog")
	require.NoError(t, os.Mkdir(catalogDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(catalogDir, "types.hcl"), []byte(manifest), 0o644))

	workflowPath := filepath.Join(dir, "flow.hcl")
	require.NoError(t, os.WriteFile(workflowPath, []byte(doc), 0o644))

	return &Config{
		WorkflowPath: workflowPath,
		CatalogPath:  catalogDir,
		Advance:      AdvanceOff,
		LogFormat:    "text",
		LogLevel:     "error",
		Seed:         1,
	}
}

func TestRunCompileOnly(t *testing.T) {
	cfg := writeFixture(t, testManifest, testWorkflow)

	var out, errOut bytes.Buffer
	a, err := New(&out, &errOut, cfg)
	require.NoError(t, err)

	require.NoError(t, a.Run(context.Background(), cfg))

	var rendered map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &rendered))

	src := rendered["src"].(map[string]any)
	assert.Equal(t, "Source", src["class_type"])
	assert.Equal(t, float64(10), src["inputs"].(map[string]any)["seed"])

	dst := rendered["dst"].(map[string]any)
	assert.Equal(t, []any{"src", float64(0)}, dst["inputs"].(map[string]any)["image"])
}

func TestRunReportsBlockingErrors(t *testing.T) {
	brokenWorkflow := `
node "dst" {
  type = "Sink"
}
`
	cfg := writeFixture(t, testManifest, brokenWorkflow)

	var out, errOut bytes.Buffer
	a, err := New(&out, &errOut, cfg)
	require.NoError(t, err)

	err = a.Run(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocking error")
	assert.Contains(t, out.String(), "Missing required input image")
}

func TestRunDispatches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"prompt_id": "p-42"}`))
	}))
	defer server.Close()

	cfg := writeFixture(t, testManifest, testWorkflow)
	cfg.BackendURL = server.URL

	var out, errOut bytes.Buffer
	a, err := New(&out, &errOut, cfg)
	require.NoError(t, err)

	require.NoError(t, a.Run(context.Background(), cfg))
	assert.Equal(t, "p-42\n", out.String())
}

func TestRunAdvanceBeforeIsGated(t *testing.T) {
	cfg := writeFixture(t, testManifest, testWorkflow)
	cfg.Advance = AdvanceBefore

	var out, errOut bytes.Buffer
	a, err := New(&out, &errOut, cfg)
	require.NoError(t, err)

	seedOf := func(raw []byte) float64 {
		var rendered map[string]any
		require.NoError(t, json.Unmarshal(raw, &rendered))
		return rendered["src"].(map[string]any)["inputs"].(map[string]any)["seed"].(float64)
	}

	// First run keeps the authored seed; later runs advance it.
	require.NoError(t, a.Run(context.Background(), cfg))
	assert.Equal(t, float64(10), seedOf(out.Bytes()))

	out.Reset()
	require.NoError(t, a.Run(context.Background(), cfg))
	second := seedOf(out.Bytes())
	assert.GreaterOrEqual(t, second, float64(0))
	assert.LessOrEqual(t, second, float64(100))
}
