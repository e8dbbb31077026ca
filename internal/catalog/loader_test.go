package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/gridware/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

func writeManifest(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

const samplerManifest = `
node "Sampler" {
  description = "test sampler"

  input "seed" {
    type    = number
    kind    = "int"
    default = 0
    min     = 0
    max     = 100
    step    = 1
    control = true
  }

  input "sampler_name" {
    type    = string
    options = ["euler", "ddim"]
    default = "euler"
  }

  input "latent" {
    type            = LATENT
    connection_only = true
  }

  input "denoise" {
    type  = number
    group = "optional"
  }

  input "meta" {
    type  = string
    group = "hidden"
  }

  output "LATENT" {
    type = LATENT
  }

  output "INFO" {
    type = string
  }
}
`

func TestLoad(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeManifest(t, dir, "sampler.hcl", samplerManifest)

	cat, err := Load(ctx, dir)
	require.NoError(t, err)

	node, ok := cat.Lookup("Sampler")
	require.True(t, ok)
	assert.Equal(t, "test sampler", node.Description)

	t.Run("inputs keep declared order", func(t *testing.T) {
		require.Len(t, node.Inputs, 5)
		names := make([]string, len(node.Inputs))
		for i, in := range node.Inputs {
			names[i] = in.Name
		}
		assert.Equal(t, []string{"seed", "sampler_name", "latent", "denoise", "meta"}, names)
	})

	t.Run("numeric config and control flag", func(t *testing.T) {
		seed := node.Input("seed")
		require.NotNil(t, seed)
		assert.Equal(t, schema.KindInt, seed.Kind)
		assert.Equal(t, schema.GroupRequired, seed.Group)
		assert.True(t, seed.Control)
		require.NotNil(t, seed.Min)
		assert.Equal(t, 0.0, *seed.Min)
		require.NotNil(t, seed.Max)
		assert.Equal(t, 100.0, *seed.Max)
		require.NotNil(t, seed.Default)
		assert.True(t, seed.Default.RawEquals(cty.NumberIntVal(0)))
	})

	t.Run("options imply enum kind", func(t *testing.T) {
		name := node.Input("sampler_name")
		require.NotNil(t, name)
		assert.Equal(t, schema.KindEnum, name.Kind)
		assert.Equal(t, []string{"euler", "ddim"}, name.Options)
	})

	t.Run("bare names become nominal types", func(t *testing.T) {
		latent := node.Input("latent")
		require.NotNil(t, latent)
		assert.True(t, latent.ConnectionOnly)
		assert.True(t, latent.Type.Equals(schema.NamedType("LATENT")))
		assert.False(t, latent.Type.Equals(schema.NamedType("IMAGE")))
	})

	t.Run("kind derived from type when omitted", func(t *testing.T) {
		denoise := node.Input("denoise")
		require.NotNil(t, denoise)
		assert.Equal(t, schema.KindFloat, denoise.Kind)
		assert.Equal(t, schema.GroupOptional, denoise.Group)
	})

	t.Run("outputs keep declared order", func(t *testing.T) {
		require.Len(t, node.Outputs, 2)
		assert.Equal(t, "LATENT", node.Outputs[0].Name)
		i, ok := node.OutputIndex("INFO")
		require.True(t, ok)
		assert.Equal(t, 1, i)
		assert.True(t, node.Outputs[1].Type.Equals(cty.String))
	})
}

func TestLoadSingleFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeManifest(t, dir, "sampler.hcl", samplerManifest)

	cat, err := Load(ctx, filepath.Join(dir, "sampler.hcl"))
	require.NoError(t, err)
	_, ok := cat.Lookup("Sampler")
	assert.True(t, ok)
}

func TestLoadErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate node type across files", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, "a.hcl", `
node "Dup" {
  output "X" { type = string }
}
`)
		writeManifest(t, dir, "b.hcl", `
node "Dup" {
  output "X" { type = string }
}
`)

		_, err := Load(ctx, dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "declared more than once")
	})

	t.Run("duplicate input slot", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, "a.hcl", `
node "Bad" {
  input "x" { type = string }
  input "x" { type = string }
}
`)
		_, err := Load(ctx, dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `input "x"`)
	})

	t.Run("invalid group", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, "a.hcl", `
node "Bad" {
  input "x" {
    type  = string
    group = "sometimes"
  }
}
`)
		_, err := Load(ctx, dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid group")
	})

	t.Run("enum kind without options", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, "a.hcl", `
node "Bad" {
  input "x" {
    type = string
    kind = "enum"
  }
}
`)
		_, err := Load(ctx, dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "enum kind requires options")
	})

	t.Run("unparseable file", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, "a.hcl", `node "Broken" {`)
		_, err := Load(ctx, dir)
		assert.Error(t, err)
	})
}
