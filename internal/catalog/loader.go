package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/gridware/internal/ctxlog"
	"github.com/vk/gridware/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// Load reads every .hcl manifest under path (a file or a directory walked
// recursively) and builds the schema catalog. Duplicate node types across
// files and duplicate slot names within a node are load errors.
func Load(ctx context.Context, path string) (schema.Catalog, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Catalog loading manifests.", "path", path)

	files, err := findManifests(path)
	if err != nil {
		return nil, fmt.Errorf("failed to discover manifests in %s: %w", path, err)
	}
	if len(files) == 0 {
		logger.Warn("No .hcl manifest files found in path.", "path", path)
	}

	parser := hclparse.NewParser()
	cat := make(schema.MapCatalog)

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse manifest %s: %s", file, diags.Error())
		}

		var manifest manifestFile
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &manifest); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode manifest %s: %s", file, diags.Error())
		}

		for _, block := range manifest.Nodes {
			if _, exists := cat[block.Type]; exists {
				return nil, fmt.Errorf("node type %q declared more than once (second declaration in %s)", block.Type, file)
			}
			node, err := translateNode(ctx, block)
			if err != nil {
				return nil, fmt.Errorf("in manifest %s: %w", file, err)
			}
			cat[block.Type] = node
		}
		logger.Debug("Loaded manifest file.", "file", file, "types", len(manifest.Nodes))
	}

	logger.Info("Catalog loaded successfully.", "node_types", len(cat))
	return cat, nil
}

// translateNode converts a decoded node block into its NodeSchema,
// preserving declared slot order.
func translateNode(ctx context.Context, block *nodeBlock) (*schema.NodeSchema, error) {
	node := &schema.NodeSchema{Type: block.Type, Description: block.Description}

	inputNames := make(map[string]bool, len(block.Inputs))
	for _, in := range block.Inputs {
		if inputNames[in.Name] {
			return nil, fmt.Errorf("node %q declares input %q more than once", block.Type, in.Name)
		}
		inputNames[in.Name] = true

		spec, err := translateInput(ctx, block.Type, in)
		if err != nil {
			return nil, err
		}
		node.Inputs = append(node.Inputs, spec)
	}

	outputNames := make(map[string]bool, len(block.Outputs))
	for _, out := range block.Outputs {
		if outputNames[out.Name] {
			return nil, fmt.Errorf("node %q declares output %q more than once", block.Type, out.Name)
		}
		outputNames[out.Name] = true

		ty, err := typeExprToCtyType(ctx, out.Type)
		if err != nil {
			return nil, fmt.Errorf("node %q, output %q: %w", block.Type, out.Name, err)
		}
		node.Outputs = append(node.Outputs, &schema.OutputSpec{Name: out.Name, Type: ty})
	}

	return node, nil
}

// translateInput converts one input block, deriving the widget kind from
// the declared type when the manifest omits it.
func translateInput(ctx context.Context, nodeType string, in *inputBlock) (*schema.InputSpec, error) {
	ty, err := typeExprToCtyType(ctx, in.Type)
	if err != nil {
		return nil, fmt.Errorf("node %q, input %q: %w", nodeType, in.Name, err)
	}

	group, err := parseGroup(in.Group)
	if err != nil {
		return nil, fmt.Errorf("node %q, input %q: %w", nodeType, in.Name, err)
	}

	kind, err := parseKind(in.Kind, ty, len(in.Options) > 0)
	if err != nil {
		return nil, fmt.Errorf("node %q, input %q: %w", nodeType, in.Name, err)
	}
	if kind == schema.KindEnum && len(in.Options) == 0 {
		return nil, fmt.Errorf("node %q, input %q: enum kind requires options", nodeType, in.Name)
	}

	var def *cty.Value
	if in.Default != nil && !in.Default.IsNull() {
		def = in.Default
	}

	return &schema.InputSpec{
		Name:           in.Name,
		Group:          group,
		Type:           ty,
		Kind:           kind,
		Description:    in.Description,
		Options:        in.Options,
		Default:        def,
		NoWidget:       in.Widget != nil && !*in.Widget,
		ConnectionOnly: in.ConnectionOnly,
		Min:            in.Min,
		Max:            in.Max,
		Step:           in.Step,
		Control:        in.Control,
	}, nil
}

func parseGroup(s string) (schema.Group, error) {
	switch schema.Group(s) {
	case "":
		return schema.GroupRequired, nil
	case schema.GroupRequired, schema.GroupOptional, schema.GroupHidden:
		return schema.Group(s), nil
	default:
		return "", fmt.Errorf("invalid group %q: must be 'required', 'optional' or 'hidden'", s)
	}
}

// parseKind resolves the widget kind, falling back to a type-derived kind
// when the manifest omits the attribute.
func parseKind(s string, ty cty.Type, hasOptions bool) (schema.Kind, error) {
	switch schema.Kind(s) {
	case schema.KindString, schema.KindEnum, schema.KindBool, schema.KindInt, schema.KindFloat, schema.KindAny:
		return schema.Kind(s), nil
	case "":
	default:
		return "", fmt.Errorf("invalid kind %q", s)
	}

	switch {
	case hasOptions:
		return schema.KindEnum, nil
	case ty == cty.String:
		return schema.KindString, nil
	case ty == cty.Bool:
		return schema.KindBool, nil
	case ty == cty.Number:
		return schema.KindFloat, nil
	default:
		return schema.KindAny, nil
	}
}

// findManifests returns every .hcl file under root, which may itself be a
// single manifest file.
func findManifests(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".hcl") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
