package resolver

import (
	"bytes"
	stderrors "errors"
	"log/slog"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexus-db/transpiler/pkg/core/metadata"
	"github.com/nexus-db/transpiler/pkg/errors"
)

type Author struct {
	posts   []*Post
	profile *Profile
}

type Post struct{ Title string }

type Profile struct{}

type Tag struct{}

type Avatar struct{}

type Imageable interface{ imageable() }

func (*Post) imageable() {}

func (a *Author) Posts() []*Post          { return a.posts }
func (a *Author) Profile() *Profile        { return a.profile }
func (a *Author) Avatar() Avatar           { return Avatar{} }
func (a *Author) Name() string             { return "ada" }
func (a *Author) Tags() []Tag              { return nil }
func (a *Author) Cover() Imageable         { return &Post{} }
func (a *Author) Drafts() []any            { return []any{&Post{}} }
func (a *Author) Empty() []any             { return nil }
func (a *Author) Broken() (any, error)     { return nil, stderrors.New("boom") }
func (a *Author) Explodes() any            { panic("boom") }
func (a *Author) Rename(name string) error { return nil }
func (a *Author) ResolveReturnType() any   { return nil }

type Base struct{}

func (Base) Owner() *Post        { return &Post{} }
func (*Base) Revisions() []*Post { return nil }

// Member gets Owner and Revisions from Base.
type Member struct{ Base }

func (m *Member) Team() *Profile { return nil }

type Sponsor struct{ *Base }

// Shadowing declares its own Owner over the embedded one.
type Shadowing struct{ Base }

func (s *Shadowing) Owner() *Post { return nil }

type Editor struct{}

func (e *Editor) Posts() []*Post { return nil }

func newTestResolver(docs map[string]string, opts ...Option) (*Resolver, *bytes.Buffer) {
	idx := NewDocIndex()
	for method, doc := range docs {
		idx.Add("resolver.Author", method, doc)
	}

	types := metadata.NewTypeRegistry()
	types.RegisterValue(Post{})
	types.RegisterValue(Profile{})
	types.RegisterValue(Avatar{})

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	opts = append([]Option{WithLogger(logger)}, opts...)

	return New(NewReflectInspector(idx), types, opts...), &buf
}

func method(t *testing.T, name string) Method {
	t.Helper()
	m, ok := MethodOf(&Author{}, name)
	require.True(t, ok, "method %s", name)
	return m
}

func typeOf(v any) reflect.Type {
	return metadata.Indirect(reflect.TypeOf(v))
}

func TestDocCommentNullable(t *testing.T) {
	r, _ := newTestResolver(map[string]string{"Name": "Name returns the pen name.\n@return Post|null\n"})

	sig, err := r.ResolveReturnType(&Author{}, method(t, "Name"))
	require.NoError(t, err)
	require.NotNil(t, sig)

	assert.Equal(t, []reflect.Type{typeOf(Post{})}, sig.Types)
	assert.True(t, sig.Nullable)
	assert.False(t, sig.IsIterable())
}

func TestDocCommentCollectionOfTwoTypes(t *testing.T) {
	r, _ := newTestResolver(map[string]string{"Name": "@return Post[]|Profile[]"})

	sig, err := r.ResolveReturnType(&Author{}, method(t, "Name"))
	require.NoError(t, err)
	require.NotNil(t, sig)

	assert.Equal(t, []string{"Post", "Profile"}, sig.TypeNames())
	assert.True(t, sig.IsIterable())
	assert.False(t, sig.Nullable)
}

func TestDocCommentGoStyleArrayMarker(t *testing.T) {
	r, _ := newTestResolver(map[string]string{"Name": "@return []Post | null"})

	sig, err := r.ResolveReturnType(&Author{}, method(t, "Name"))
	require.NoError(t, err)
	require.NotNil(t, sig)

	assert.Equal(t, "[Post!]", sig.String())
}

func TestDocCommentMixedIterabilityFallsThrough(t *testing.T) {
	r, logs := newTestResolver(map[string]string{"Posts": "@return Post|Profile[]"})
	m := method(t, "Posts")

	assert.Nil(t, r.fromDocComment(&Author{}, m))
	assert.Contains(t, logs.String(), "code=ITERABLE_CONFLICT")
	assert.Contains(t, logs.String(), "level=WARN")

	sig, err := r.ResolveReturnType(&Author{}, m)
	require.NoError(t, err)
	require.NotNil(t, sig)
	assert.Equal(t, []string{"Post"}, sig.TypeNames())
	assert.True(t, sig.IsIterable())
}

func TestDocCommentOnlyNullFallsThrough(t *testing.T) {
	r, _ := newTestResolver(map[string]string{"Profile": "@return null"})
	m := method(t, "Profile")

	docSig := r.fromDocComment(&Author{}, m)
	require.NotNil(t, docSig)
	assert.True(t, docSig.Nullable)
	assert.False(t, docSig.Resolved())

	sig, err := r.ResolveReturnType(&Author{}, m)
	require.NoError(t, err)
	assert.Equal(t, "Profile", sig.String())
}

func TestDocCommentUnknownTypeFallsThrough(t *testing.T) {
	r, logs := newTestResolver(map[string]string{"Posts": "@return Comment[]"})

	sig, err := r.ResolveReturnType(&Author{}, method(t, "Posts"))
	require.NoError(t, err)
	assert.Equal(t, "[Post!]!", sig.String())
	assert.Contains(t, logs.String(), "code=UNKNOWN_TYPE")
	assert.Contains(t, logs.String(), `source="@return Comment[]"`)
}

func TestDocCommentWithoutReturnTag(t *testing.T) {
	r, _ := newTestResolver(map[string]string{"Name": "Name returns the pen name."})

	sig, err := r.ResolveReturnType(&Author{}, method(t, "Name"))
	require.NoError(t, err)
	assert.Nil(t, sig)
}

func TestTypeHint(t *testing.T) {
	tests := []struct {
		method   string
		expected string
		iterable bool
		nullable bool
	}{
		{"Posts", "Post", true, false},
		{"Profile", "Profile", false, true},
		{"Avatar", "Avatar", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			r, _ := newTestResolver(nil)

			sig, err := r.ResolveReturnType(&Author{}, method(t, tt.method))
			require.NoError(t, err)
			require.NotNil(t, sig)

			assert.Equal(t, []string{tt.expected}, sig.TypeNames())
			assert.Equal(t, tt.iterable, sig.IsIterable())
			assert.Equal(t, tt.nullable, sig.Nullable)
		})
	}
}

func TestTypeHintSkipsBuiltinsAndUnknownTypes(t *testing.T) {
	for _, name := range []string{"Name", "Tags", "Cover", "Drafts"} {
		t.Run(name, func(t *testing.T) {
			r, _ := newTestResolver(nil)
			m := method(t, name)

			assert.Nil(t, r.fromTypeHint(&Author{}, m))

			sig, err := r.ResolveReturnType(&Author{}, m)
			require.NoError(t, err)
			assert.Nil(t, sig)
		})
	}
}

func TestInvocation(t *testing.T) {
	tests := []struct {
		method   string
		expected string
	}{
		{"Cover", "Post!"},
		{"Drafts", "[Post!]!"},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			r, _ := newTestResolver(nil, WithInvocation(true))

			sig, err := r.ResolveReturnType(&Author{}, method(t, tt.method))
			require.NoError(t, err)
			require.NotNil(t, sig)
			assert.Equal(t, tt.expected, sig.String())
		})
	}
}

func TestInvocationYieldsNothing(t *testing.T) {
	for _, name := range []string{"Empty", "Broken", "Explodes", "Name"} {
		t.Run(name, func(t *testing.T) {
			r, _ := newTestResolver(nil, WithInvocation(true))

			sig, err := r.ResolveReturnType(&Author{}, method(t, name))
			require.NoError(t, err)
			assert.Nil(t, sig)
		})
	}
}

func TestInvocationFailureIsLogged(t *testing.T) {
	r, logs := newTestResolver(nil, WithInvocation(true))

	_, err := r.ResolveReturnType(&Author{}, method(t, "Explodes"))
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "code=INVOKE_FAILED")
	assert.Contains(t, logs.String(), "panicked")
}

func TestPreconditions(t *testing.T) {
	editorPosts, ok := MethodOf(&Editor{}, "Posts")
	require.True(t, ok)

	tests := []struct {
		name  string
		model any
		m     Method
	}{
		{"other type", &Author{}, editorPosts},
		{"parameters", &Author{}, method(t, "Rename")},
		{"entry method", &Author{}, method(t, "ResolveReturnType")},
		{"missing method", &Author{}, Method{Owner: typeOf(Author{}), Name: "Nope"}},
		{"nil model", nil, method(t, "Posts")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestResolver(nil)

			sig, err := r.ResolveReturnType(tt.model, tt.m)
			assert.Nil(t, sig)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, errors.New(errors.ErrMethodMismatch, "")))
		})
	}
}

func TestRelationships(t *testing.T) {
	r, _ := newTestResolver(map[string]string{"Name": "@return Profile"})
	author := &Author{}

	rels, err := r.Relationships(author, NewReflectInspector(nil).Methods(author))
	require.NoError(t, err)

	got := make(map[string]string)
	for _, rel := range rels {
		got[rel.Method.Name] = rel.Signature.String()
	}
	assert.Equal(t, map[string]string{
		"Avatar":  "Avatar!",
		"Posts":   "[Post!]!",
		"Profile": "Profile",
		"Name":    "Profile!",
	}, got)
}

func TestMethods(t *testing.T) {
	var names []string
	for _, m := range NewReflectInspector(nil).Methods(&Author{}) {
		names = append(names, m.Name)
	}

	assert.Equal(t, []string{
		"Avatar", "Broken", "Cover", "Drafts", "Empty", "Explodes",
		"Name", "Posts", "Profile", "Tags",
	}, names)
}

func TestInspectorInvokeDirect(t *testing.T) {
	in := NewReflectInspector(nil)

	v, err := in.Invoke(&Author{}, method(t, "Name"))
	require.NoError(t, err)
	assert.Equal(t, "ada", v)

	_, err = in.Invoke(&Author{}, Method{Owner: typeOf(Author{}), Name: "Nope"})
	assert.True(t, errors.HasCode(err, errors.ErrInvokeFailed))

	_, err = in.Invoke(&Author{}, method(t, "Broken"))
	assert.True(t, errors.HasCode(err, errors.ErrInvokeFailed))
	assert.Contains(t, err.Error(), "boom")
}

func TestDeclaredReturnType(t *testing.T) {
	in := NewReflectInspector(nil)

	typ, ok := in.DeclaredReturnType(method(t, "Posts"))
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf([]*Post{}), typ)

	assert.True(t, in.HasZeroParameters(method(t, "Posts")))
	assert.False(t, in.HasZeroParameters(method(t, "Rename")))
}

func TestPromotedMethodsAreRejected(t *testing.T) {
	r, _ := newTestResolver(nil)

	for _, model := range []any{&Member{}, &Sponsor{}} {
		for _, name := range []string{"Owner", "Revisions"} {
			m, ok := MethodOf(model, name)
			require.True(t, ok, name)

			sig, err := r.ResolveReturnType(model, m)
			assert.Nil(t, sig)
			assert.True(t, errors.HasCode(err, errors.ErrMethodMismatch), "%s: %v", m, err)
			assert.Contains(t, err.Error(), "promoted from an embedded field")
		}
	}

	m, ok := MethodOf(&Member{}, "Team")
	require.True(t, ok)
	sig, err := r.ResolveReturnType(&Member{}, m)
	require.NoError(t, err)
	assert.Equal(t, "Profile", sig.String())
}

func TestMethodsSkipPromoted(t *testing.T) {
	in := NewReflectInspector(nil)

	var names []string
	for _, m := range in.Methods(&Member{}) {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"Team"}, names)
	assert.Empty(t, in.Methods(&Sponsor{}))
}

func TestShadowingMethodIsOwnWhenIndexed(t *testing.T) {
	m, ok := MethodOf(&Shadowing{}, "Owner")
	require.True(t, ok)

	assert.True(t, NewReflectInspector(nil).IsPromoted(m))

	idx := NewDocIndex()
	idx.Add("resolver.Shadowing", "Owner", "")
	in := NewReflectInspector(idx)
	assert.False(t, in.IsPromoted(m))
	assert.Len(t, in.Methods(&Shadowing{}), 1)
}
