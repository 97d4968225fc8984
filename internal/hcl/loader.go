package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/cmdbridgego/internal/ctxlog"
	"github.com/vk/cmdbridgego/internal/schema"
)

// Loader is the HCL-specific implementation of manifest loading.
type Loader struct{}

// NewLoader creates a new HCL manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot is a struct used to decode all top-level blocks from any file.
type fileRoot struct {
	Commands []*schema.CommandBlock `hcl:"command,block"`
	Remain   hcl.Body               `hcl:",remain"`
}

// Load discovers and parses every manifest under the given paths and
// returns the translated command definitions keyed by command name. It is
// an error for two manifests to declare the same command.
func (l *Loader) Load(ctx context.Context, paths ...string) (map[string]*schema.CommandDefinition, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL manifest loader started.", "path_count", len(paths))

	files, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered manifest files.", "count", len(files))

	parser := hclparse.NewParser()
	defs := make(map[string]*schema.CommandDefinition)

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse manifest file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode manifest file %s: %w", file, diags)
		}

		for _, block := range root.Commands {
			if _, exists := defs[block.Name]; exists {
				return nil, fmt.Errorf("command '%s' declared more than once (second declaration in %s)", block.Name, file)
			}
			def, err := l.translateCommand(ctx, block)
			if err != nil {
				return nil, fmt.Errorf("in manifest file %s: %w", file, err)
			}
			logger.Debug("Loaded command definition.", "command", def.Name, "params", len(def.Params), "async", def.Async)
			defs[def.Name] = def
		}
	}

	return defs, nil
}

// translateCommand converts a raw decoded command block into its
// definition, resolving every param's type expression.
func (l *Loader) translateCommand(ctx context.Context, block *schema.CommandBlock) (*schema.CommandDefinition, error) {
	def := &schema.CommandDefinition{
		Name:   block.Name,
		Async:  block.Async,
		Params: make([]*schema.ParamDefinition, 0, len(block.Params)),
	}

	seen := make(map[string]struct{})
	for i, p := range block.Params {
		if _, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("command '%s': param '%s' declared more than once", block.Name, p.Name)
		}
		seen[p.Name] = struct{}{}

		ty, err := typeExprToCtyType(ctx, p.Type)
		if err != nil {
			return nil, fmt.Errorf("command '%s', param '%s': %w", block.Name, p.Name, err)
		}
		def.Params = append(def.Params, &schema.ParamDefinition{
			Name:     p.Name,
			Position: i,
			Type:     ty,
			Optional: p.Optional,
		})
	}
	return def, nil
}

// findAllHCLFiles expands the given paths into a flat list of .hcl files.
// A path may be a single file or a directory searched recursively.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot access manifest path %s: %w", path, err)
		}

		if !info.IsDir() {
			if strings.HasSuffix(path, ".hcl") {
				files = append(files, path)
			}
			continue
		}

		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(p, ".hcl") {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk manifest directory %s: %w", path, err)
		}
	}
	return files, nil
}
