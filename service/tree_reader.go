package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/treedist/domain"
	"github.com/ludo-technologies/treedist/internal/parser"
	"github.com/ludo-technologies/treedist/internal/tree"
)

// TreeReaderImpl implements the TreeReader interface
type TreeReaderImpl struct {
	convert parser.ConvertOptions
}

// NewTreeReader creates a tree reader using the default Python conversion
func NewTreeReader() *TreeReaderImpl {
	return &TreeReaderImpl{convert: parser.DefaultConvertOptions()}
}

// WithConvertOptions sets how Python syntax trees are labeled
func (r *TreeReaderImpl) WithConvertOptions(opts parser.ConvertOptions) *TreeReaderImpl {
	r.convert = opts
	return r
}

// DetectFormat maps a file extension to a tree format
func DetectFormat(path string) (domain.TreeFormat, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tree", ".txt", ".bracket":
		return domain.TreeFormatBracket, true
	case ".json":
		return domain.TreeFormatJSON, true
	case ".yaml", ".yml":
		return domain.TreeFormatYAML, true
	case ".py", ".pyi":
		return domain.TreeFormatPython, true
	default:
		return "", false
	}
}

// CollectTreeFiles expands files, directories and doublestar globs into a
// sorted, de-duplicated list of readable tree files. Directories are searched
// with the default tree patterns; hidden entries are skipped.
func (r *TreeReaderImpl) CollectTreeFiles(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		clean := filepath.Clean(path)
		if seen[clean] {
			return
		}
		if _, ok := DetectFormat(clean); !ok {
			return
		}
		seen[clean] = true
		files = append(files, clean)
	}

	for _, pattern := range patterns {
		if info, err := os.Stat(pattern); err == nil {
			if !info.IsDir() {
				add(pattern)
				continue
			}
			dirFiles, err := r.collectFromDirectory(pattern)
			if err != nil {
				return nil, err
			}
			for _, f := range dirFiles {
				add(f)
			}
			continue
		}

		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid glob pattern: %s", pattern), nil)
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid glob pattern: %s", pattern), err)
		}
		if len(matches) == 0 && !hasMeta(pattern) {
			return nil, domain.NewFileNotFoundError(pattern, os.ErrNotExist)
		}
		for _, m := range matches {
			if info, err := os.Stat(m); err == nil && !info.IsDir() {
				add(m)
			}
		}
	}

	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no tree files found", nil)
	}
	sort.Strings(files)
	return files, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

func (r *TreeReaderImpl) collectFromDirectory(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		for _, p := range domain.DefaultTreePatterns {
			if matched, _ := doublestar.Match(p, rel); matched {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", dir, err)
	}
	return files, nil
}

// ReadTree loads one tree file, choosing the reader by extension
func (r *TreeReaderImpl) ReadTree(ctx context.Context, path string) (*domain.LoadedTree, error) {
	format, ok := DetectFormat(path)
	if !ok {
		return nil, domain.NewUnsupportedFormatError(filepath.Ext(path))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewFileNotFoundError(path, err)
		}
		return nil, domain.NewInvalidInputError(fmt.Sprintf("cannot access path: %s", path), err)
	}

	t, err := r.decode(ctx, format, content)
	if err != nil {
		return nil, domain.NewStructuralError(path, err)
	}

	return &domain.LoadedTree{Name: path, Format: format, Tree: t}, nil
}

// ParseInline reads a tree given in bracket notation
func (r *TreeReaderImpl) ParseInline(name, notation string) (*domain.LoadedTree, error) {
	t, err := tree.Parse(notation)
	if err != nil {
		return nil, domain.NewStructuralError(name, err)
	}
	return &domain.LoadedTree{Name: name, Format: domain.TreeFormatBracket, Tree: t}, nil
}

func (r *TreeReaderImpl) decode(ctx context.Context, format domain.TreeFormat, content []byte) (*tree.Tree, error) {
	switch format {
	case domain.TreeFormatBracket:
		return tree.Parse(string(content))

	case domain.TreeFormatJSON:
		if len(bytes.TrimSpace(content)) == 0 {
			return tree.Empty(), nil
		}
		var doc *tree.Document
		dec := json.NewDecoder(bytes.NewReader(content))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: invalid JSON tree document: %v", tree.ErrStructural, err)
		}
		return tree.FromDocument(doc)

	case domain.TreeFormatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(content, &node); err != nil {
			return nil, fmt.Errorf("%w: invalid YAML tree document: %v", tree.ErrStructural, err)
		}
		if err := rejectAliases(&node); err != nil {
			return nil, err
		}
		var doc *tree.Document
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return tree.Empty(), nil
			}
			return nil, fmt.Errorf("%w: invalid YAML tree document: %v", tree.ErrStructural, err)
		}
		return tree.FromDocument(doc)

	case domain.TreeFormatPython:
		// tree-sitter parsers are not safe for concurrent use
		t, err := parser.New().ParseTree(ctx, content, r.convert)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", tree.ErrStructural, err)
		}
		return t, nil
	}

	return nil, domain.NewUnsupportedFormatError(string(format))
}

// rejectAliases fails on YAML aliases: decoding copies the anchored node,
// which would turn a node shared by two parents into two nodes
func rejectAliases(n *yaml.Node) error {
	if n.Kind == yaml.AliasNode {
		return fmt.Errorf("%w: YAML alias at line %d reuses a node; every node needs exactly one parent", tree.ErrStructural, n.Line)
	}
	for _, c := range n.Content {
		if err := rejectAliases(c); err != nil {
			return err
		}
	}
	return nil
}

var _ domain.TreeReader = (*TreeReaderImpl)(nil)
