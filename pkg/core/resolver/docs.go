package resolver

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"strings"
)

// DocIndex holds method doc comments keyed by "package.Type" and method
// name, and remembers which methods each type declares.
type DocIndex struct {
	docs     map[string]string
	declared map[string]bool
}

// NewDocIndex creates an empty index.
func NewDocIndex() *DocIndex {
	return &DocIndex{
		docs:     make(map[string]string),
		declared: make(map[string]bool),
	}
}

// ParseDocs indexes the method doc comments of every non-test Go file in dirs.
func ParseDocs(dirs ...string) (*DocIndex, error) {
	idx := NewDocIndex()
	fset := token.NewFileSet()

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("reading model sources: %w", err)
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
				continue
			}
			file, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ParseComments)
			if err != nil {
				return nil, fmt.Errorf("parsing %s: %w", name, err)
			}
			idx.addFile(file)
		}
	}
	return idx, nil
}

func (d *DocIndex) addFile(file *ast.File) {
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv == nil || len(fn.Recv.List) == 0 {
			continue
		}
		recv := receiverName(fn.Recv.List[0].Type)
		if recv == "" {
			continue
		}
		typeName := file.Name.Name + "." + recv
		d.declared[typeName+"."+fn.Name.Name] = true
		if fn.Doc != nil {
			d.Add(typeName, fn.Name.Name, fn.Doc.Text())
		}
	}
}

// Add records the doc comment of typeName.method. typeName is qualified by
// the package name, as in "models.User".
func (d *DocIndex) Add(typeName, method, doc string) {
	d.docs[typeName+"."+method] = doc
	d.declared[typeName+"."+method] = true
}

// Lookup returns the doc comment of typeName.method, or "".
func (d *DocIndex) Lookup(typeName, method string) string {
	return d.docs[typeName+"."+method]
}

// Declares reports whether the parsed sources declare method with typeName
// as its receiver.
func (d *DocIndex) Declares(typeName, method string) bool {
	return d.declared[typeName+"."+method]
}

// TypeKey returns the index key of t: its package name and type name, with
// any type arguments dropped.
func TypeKey(t reflect.Type) string {
	name := t.String()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return name
}

// Len returns the number of indexed methods.
func (d *DocIndex) Len() int {
	return len(d.docs)
}

func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.IndexExpr:
		return receiverName(t.X)
	case *ast.IndexListExpr:
		return receiverName(t.X)
	}
	return ""
}
