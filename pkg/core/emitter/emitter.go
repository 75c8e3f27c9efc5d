// Package emitter renders GraphQL schema documents for models and writes them
// to the output directory.
package emitter

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"

	"github.com/nexus-db/transpiler/pkg/core/graphtype"
	"github.com/nexus-db/transpiler/pkg/errors"
)

//go:embed stubs/schema.graphql.stub
var defaultStub string

// Defaults for Emitter fields left empty.
const (
	DefaultDir       = "graphql/models"
	DefaultExtension = ".graphql"
)

// lineSeparator joins field and enum lines so they line up under the stub's
// four-space indentation.
const lineSeparator = "\n    "

// Placeholders recognised in a stub.
const (
	PlaceholderQueryNamePlural         = "{{modelQueryNamePlural}}"
	PlaceholderPrimaryKey              = "{{modelPrimaryKey}}"
	PlaceholderQueryName               = "{{modelQueryName}}"
	PlaceholderName                    = "{{modelName}}"
	PlaceholderColumnEnums             = "{{modelColumnEnums}}"
	PlaceholderFieldDefinitions        = "{{modelFieldDefinitions}}"
	PlaceholderRelationshipDefinitions = "{{modelRelationshipDefinitions}}"
)

// Document is everything substituted into a stub for one model.
type Document struct {
	ModelName     string
	PrimaryKey    string
	Fields        []graphtype.Field
	Relationships string
}

// Emitter renders documents from a stub and writes them under Dir.
type Emitter struct {
	Dir       string
	Extension string
	stub      string
}

// New creates an emitter. An empty stubPath selects the built-in stub.
func New(dir, extension, stubPath string) (*Emitter, error) {
	stub, err := LoadStub(stubPath)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		dir = DefaultDir
	}
	if extension == "" {
		extension = DefaultExtension
	}
	if !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}
	return &Emitter{Dir: dir, Extension: extension, stub: stub}, nil
}

// LoadStub reads a stub file, or returns the built-in stub when path is empty.
func LoadStub(path string) (string, error) {
	if path == "" {
		return defaultStub, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading stub: %w", err)
	}
	return string(data), nil
}

// DefaultStub returns the built-in stub.
func DefaultStub() string {
	return defaultStub
}

// Render substitutes doc into the stub.
func (e *Emitter) Render(doc Document) string {
	queryName := QueryName(doc.ModelName)

	r := strings.NewReplacer(
		PlaceholderQueryNamePlural, Plural(queryName),
		PlaceholderPrimaryKey, doc.PrimaryKey,
		PlaceholderQueryName, queryName,
		PlaceholderName, doc.ModelName,
		PlaceholderColumnEnums, ColumnEnums(doc.Fields),
		PlaceholderFieldDefinitions, FieldDefinitions(doc.Fields),
		PlaceholderRelationshipDefinitions, doc.Relationships,
	)
	return r.Replace(e.stub)
}

// FilePath returns where the document for typeName is written.
func (e *Emitter) FilePath(typeName string) string {
	return filepath.Join(e.Dir, typeName+e.Extension)
}

// Exists reports whether the document for typeName has been written before.
func (e *Emitter) Exists(typeName string) bool {
	_, err := os.Stat(e.FilePath(typeName))
	return err == nil
}

// Write stores content for typeName, creating the output directory.
// Unless overwrite is set an existing file is left untouched and an
// OUTPUT_EXISTS error is returned.
func (e *Emitter) Write(typeName, content string, overwrite bool) (string, error) {
	path := e.FilePath(typeName)
	if !overwrite && e.Exists(typeName) {
		return path, errors.Newf(errors.ErrOutputExists, "%s already exists", path).
			WithSuggestion(errors.Suggestions[errors.ErrOutputExists])
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return path, fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return path, fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// QueryName lowercases the leading run of capitals of a type name, keeping
// the capital that starts the next word: "BlogPost" -> "blogPost",
// "EDIRecord" -> "ediRecord", "ID" -> "id".
func QueryName(name string) string {
	runes := []rune(name)
	for i := range runes {
		last := i == len(runes)-1
		if i == 0 || last || unicode.IsUpper(runes[i+1]) {
			runes[i] = unicode.ToLower(runes[i])
			continue
		}
		break
	}
	return string(runes)
}

// Plural returns the English plural of word.
func Plural(word string) string {
	if word == "" {
		return ""
	}
	return inflect.Pluralize(word)
}

// FieldDefinitions renders one "name: Type" line per field.
func FieldDefinitions(fields []graphtype.Field) string {
	lines := make([]string, len(fields))
	for i, f := range fields {
		lines[i] = f.Name + ": " + f.Type
	}
	return strings.Join(lines, lineSeparator)
}

// ColumnEnums renders one enum value per field, mapping back to the column.
func ColumnEnums(fields []graphtype.Field) string {
	lines := make([]string, len(fields))
	for i, f := range fields {
		lines[i] = fmt.Sprintf("%s @enum(value: \"%s\")", strings.ToUpper(f.Name), f.Name)
	}
	return strings.Join(lines, lineSeparator)
}
