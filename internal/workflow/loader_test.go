package workflow

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDocument(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workflow.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	path := writeDocument(t, `
node "ckpt" {
  type = "CheckpointLoader"

  set {
    ckpt_name = "model.safetensors"
  }
}

node "sampler" {
  type  = "KSampler"
  title = "Main sampler"

  set {
    seed    = 42
    cfg     = 7.5
    enabled = true
    skipped = null
  }
}

connect {
  from = "ckpt.out:MODEL"
  to   = "sampler.in:model"
}
`)

	g, err := Load(ctx, path)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 2)
	require.Len(t, g.Edges, 1)

	t.Run("nodes carry ids, types and titles", func(t *testing.T) {
		ckpt := g.Node("ckpt")
		require.NotNil(t, ckpt)
		assert.Equal(t, "CheckpointLoader", ckpt.Type)

		sampler := g.Node("sampler")
		require.NotNil(t, sampler)
		assert.Equal(t, "Main sampler", sampler.Title)
	})

	t.Run("set blocks decode to native literals", func(t *testing.T) {
		sampler := g.Node("sampler")
		assert.Equal(t, int64(42), sampler.Fields["seed"])
		assert.Equal(t, 7.5, sampler.Fields["cfg"])
		assert.Equal(t, true, sampler.Fields["enabled"])
		assert.NotContains(t, sampler.Fields, "skipped", "null literals mean absent")
	})

	t.Run("connect blocks carry the endpoint encoding", func(t *testing.T) {
		e := g.Edges[0]
		assert.Equal(t, "ckpt", e.FromNode)
		assert.Equal(t, "out:MODEL", e.FromSlot)
		assert.Equal(t, "sampler", e.ToNode)
		assert.Equal(t, "in:model", e.ToSlot)
	})
}

func TestLoadGeneratesMissingIDs(t *testing.T) {
	ctx := context.Background()
	path := writeDocument(t, `
node "" {
  type = "SaveImage"
}
`)

	g, err := Load(ctx, path)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 1)

	_, parseErr := uuid.Parse(g.Nodes[0].ID)
	assert.NoError(t, parseErr, "empty label gets a generated uuid")
}

func TestLoadErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate node ids", func(t *testing.T) {
		path := writeDocument(t, `
node "a" { type = "X" }
node "a" { type = "Y" }
`)
		_, err := Load(ctx, path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "declared more than once")
	})

	t.Run("malformed connection reference", func(t *testing.T) {
		path := writeDocument(t, `
node "a" { type = "X" }
connect {
  from = "a.MODEL"
  to   = "a.in:model"
}
`)
		_, err := Load(ctx, path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connect from")
	})

	t.Run("wrong direction marker", func(t *testing.T) {
		path := writeDocument(t, `
node "a" { type = "X" }
connect {
  from = "a.in:model"
  to   = "a.out:MODEL"
}
`)
		_, err := Load(ctx, path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(ctx, filepath.Join(t.TempDir(), "nope.hcl"))
		assert.Error(t, err)
	})
}
