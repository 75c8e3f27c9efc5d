package gqlgen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scalar bindings for the custom scalars the emitter produces, in the order
// they are written.
var scalarBindings = []struct{ Scalar, GoType string }{
	{"Date", "github.com/99designs/gqlgen/graphql.Time"},
	{"DateTime", "github.com/99designs/gqlgen/graphql.Time"},
	{"DateTimeTz", "github.com/99designs/gqlgen/graphql.Time"},
	{"JSON", "github.com/99designs/gqlgen/graphql.Map"},
}

// Document is a gqlgen.yml edited in place. Keys, ordering and comments the
// transpiler does not touch are written back unchanged.
type Document struct {
	root *yaml.Node // the top-level mapping
	doc  *yaml.Node
}

// LoadDocument reads the gqlgen.yml at path. A missing or empty file yields
// an empty document.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading gqlgen config: %w", err)
	}

	var doc yaml.Node
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing gqlgen config: %w", err)
		}
	}
	if doc.Kind == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode}
	}
	if len(doc.Content) == 0 {
		doc.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parsing gqlgen config: line %d: top level is not a mapping", root.Line)
	}
	return &Document{root: root, doc: &doc}, nil
}

// Save writes the document, creating its directory.
func (d *Document) Save(path string) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.doc); err != nil {
		return fmt.Errorf("encoding gqlgen config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding gqlgen config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// AddSchemaPath adds a schema file or glob to `schema`. It reports whether
// the document changed.
func (d *Document) AddSchemaPath(path string) (bool, error) {
	return addToList(d.root, "schema", path, true)
}

// SetModel adds goType ("import/path.Type") to `models.<typeName>.model`.
// Other keys of the binding, such as fields, are kept. It reports whether
// the document changed.
func (d *Document) SetModel(typeName, goType string) (bool, error) {
	models, err := mapping(d.root, "models")
	if err != nil {
		return false, err
	}
	bind, err := mapping(models, typeName)
	if err != nil {
		return false, err
	}
	return addToList(bind, "model", goType, false)
}

// BindScalars binds the custom date and JSON scalars to gqlgen's runtime
// types unless they are bound already.
func (d *Document) BindScalars() (bool, error) {
	models, err := mapping(d.root, "models")
	if err != nil {
		return false, err
	}

	changed := false
	for _, b := range scalarBindings {
		if lookup(models, b.Scalar) != nil {
			continue
		}
		bind, err := mapping(models, b.Scalar)
		if err != nil {
			return false, err
		}
		if _, err := addToList(bind, "model", b.GoType, false); err != nil {
			return false, err
		}
		changed = true
	}
	return changed, nil
}

// RegisterModel records an emitted schema file and its Go model in the
// gqlgen.yml at path, saving only when something changed.
func RegisterModel(path, schemaFile, typeName, goType string) (bool, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return false, err
	}

	changed := false
	for _, edit := range []func() (bool, error){
		func() (bool, error) { return doc.AddSchemaPath(filepath.ToSlash(schemaFile)) },
		func() (bool, error) { return doc.SetModel(typeName, goType) },
		doc.BindScalars,
	} {
		c, err := edit()
		if err != nil {
			return false, fmt.Errorf("updating gqlgen config: %w", err)
		}
		changed = changed || c
	}

	if !changed {
		return false, nil
	}
	return true, doc.Save(path)
}

// lookup returns the value of key in the mapping m, or nil.
func lookup(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

// mapping returns the mapping under key in m, adding it when missing. An
// empty value (`models:`) is turned into a mapping.
func mapping(m *yaml.Node, key string) (*yaml.Node, error) {
	v := lookup(m, key)
	if v == nil {
		v = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		m.Content = append(m.Content, scalar(key), v)
		return v, nil
	}
	if isNull(v) {
		*v = yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Line: v.Line, Column: v.Column}
	}
	if v.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: %s is not a mapping", v.Line, key)
	}
	return v, nil
}

// addToList adds value to the string-or-list under key in m. A new key is
// written as a list when asList is set and as a plain string otherwise; a
// plain string that gains a second value becomes a list.
func addToList(m *yaml.Node, key, value string, asList bool) (bool, error) {
	v := lookup(m, key)
	switch {
	case v == nil:
		node := scalar(value)
		if asList {
			node = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: []*yaml.Node{node}}
		}
		m.Content = append(m.Content, scalar(key), node)
		return true, nil

	case isNull(v):
		*v = *scalar(value)
		if asList {
			*v = yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: []*yaml.Node{scalar(value)}}
		}
		return true, nil

	case v.Kind == yaml.ScalarNode:
		if v.Value == value {
			return false, nil
		}
		first := *v
		*v = yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: []*yaml.Node{&first, scalar(value)}}
		return true, nil

	case v.Kind == yaml.SequenceNode:
		for _, item := range v.Content {
			if item.Value == value {
				return false, nil
			}
		}
		v.Content = append(v.Content, scalar(value))
		return true, nil
	}
	return false, fmt.Errorf("line %d: %s is not a string or a list", v.Line, key)
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && (n.Tag == "!!null" || (n.Tag == "" && n.Value == ""))
}
