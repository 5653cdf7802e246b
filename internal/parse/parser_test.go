package parse_test

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"letclone/internal/diagnostic"
	"letclone/internal/parse"
)

func TestParseSupportedShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		src   string
		shape parse.Shape
		bind  string
		mut   bool
	}{
		// Paths bind their last segment
		{"bare ident", "state", parse.ShapePath, "state", false},
		{"underscore ident", "_state", parse.ShapePath, "_state", false},
		{"module const", "module::CONST", parse.ShapePath, "CONST", false},
		{"deep path", "a::b::c", parse.ShapePath, "c", false},
		{"mut path", "mut counter", parse.ShapePath, "counter", true},

		// Field accesses bind the final field
		{"simple field", "self.data", parse.ShapeField, "data", false},
		{"chained field", "a.b.c", parse.ShapeField, "c", false},
		{"field off path", "crate::state.pool", parse.ShapeField, "pool", false},
		{"field after call", "registry.get().inner", parse.ShapeField, "inner", false},
		{"field after tuple index", "pair.0.name", parse.ShapeField, "name", false},
		{"mut field", "mut self.buf", parse.ShapeField, "buf", true},

		// Method calls bind the method name
		{"no-arg method", "state.clone_tx()", parse.ShapeMethod, "clone_tx", false},
		{"method with args", "cfg.get(key, fallback)", parse.ShapeMethod, "get", false},
		{"method off field", "self.db.pool()", parse.ShapeMethod, "pool", false},
		{"chained calls", "src.iter().collector()", parse.ShapeMethod, "collector", false},
		{"method after tuple index", "pair.0.extract()", parse.ShapeMethod, "extract", false},
		{"nested call in args", "cache.entry(key(a, b))", parse.ShapeMethod, "entry", false},
		{"mut method", "mut state.tx()", parse.ShapeMethod, "tx", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reqs, diags := parse.Parse(tt.src)
			require.NoError(t, diags.Error())
			require.Len(t, reqs, 1)

			req := reqs[0]
			assert.Equal(t, tt.shape, req.Expr.Shape)
			assert.Equal(t, tt.bind, req.Expr.Name)
			assert.Equal(t, tt.mut, req.Mut)
		})
	}
}

func TestParseKeepsExpressionVerbatim(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		text string
	}{
		{"state", "state"},
		{"mut state.tx()", "state.tx()"},
		{"cfg.get( key , fallback )", "cfg.get( key , fallback )"},
		{`log.with("a, b")`, `log.with("a, b")`},
	}

	for _, tt := range tests {
		reqs, diags := parse.Parse(tt.src)
		require.NoError(t, diags.Error())
		require.Len(t, reqs, 1)

		assert.Equal(t, tt.text, reqs[0].Expr.Text, "source %q", tt.src)
	}
}

func TestParseManyRequestsInOrder(t *testing.T) {
	t.Parallel()

	reqs, diags := parse.Parse("state, mut self.buf, registry.handle(id)")
	require.NoError(t, diags.Error())
	require.Len(t, reqs, 3)

	assert.Equal(t, "state", reqs[0].Expr.Name)
	assert.False(t, reqs[0].Mut)

	assert.Equal(t, "buf", reqs[1].Expr.Name)
	assert.True(t, reqs[1].Mut)

	assert.Equal(t, "handle", reqs[2].Expr.Name)
	assert.Equal(t, parse.ShapeMethod, reqs[2].Expr.Shape)

	spew.Dump(reqs)
}

func TestParseCommasInsideArgsDoNotSplit(t *testing.T) {
	t.Parallel()

	reqs, diags := parse.Parse(`log.ctx("a, b"), fm.build(x, y(z, w))`)
	require.NoError(t, diags.Error())
	require.Len(t, reqs, 2)

	assert.Equal(t, `log.ctx("a, b")`, reqs[0].Expr.Text)
	assert.Equal(t, "ctx", reqs[0].Expr.Name)
	assert.Equal(t, "fm.build(x, y(z, w))", reqs[1].Expr.Text)
	assert.Equal(t, "build", reqs[1].Expr.Name)
}

func TestParseRejectsTupleIndex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{"direct", "pair.0"},
		{"nested final", "t.0.1"},
		{"off path", "state.items.0"},
		{"call then index", "x.m().0"},
		{"index then call group", "x.0()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reqs, diags := parse.Parse(tt.src)
			assert.Empty(t, reqs)
			require.True(t, diags.HasErrors())
			assert.Equal(t, diagnostic.CodeTupleIndex, diags.Errors[0].Code)
			assert.Contains(t, diags.Errors[0].Message, "tuple index")
			assert.Contains(t, diags.Errors[0].Message, "named field or a method")
		})
	}
}

func TestParseRejectsReceiverlessCalls(t *testing.T) {
	t.Parallel()

	for _, src := range []string{"compute(x)", "a::b::make(x, y)", "f()", "x.m()()"} {
		reqs, diags := parse.Parse(src)
		assert.Empty(t, reqs, "source %q", src)
		require.True(t, diags.HasErrors(), "source %q", src)
		assert.Equal(t, diagnostic.CodeUnsupportedExpr, diags.Errors[0].Code)
		assert.Contains(t, diags.Errors[0].Message, "function call")
	}
}

func TestParseRejectsForeignConstructs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src     string
		mention string
	}{
		{"&shared", "reference"},
		{"*ptr", "dereference"},
		{"a + b", "operator"},
		{"|x| x", "closure"},
		{"move |x| x", "closure"},
		{"[a, b]", "index or array"},
		{"{ x }", "block"},
		{"42", "numeric literal"},
		{`"text"`, "string literal"},
		{"'c'", "char literal"},
		{"(a)", "parenthesized"},
		{"if cond { a } else { b }", "`if` expression"},
		{"match x { _ => y }", "`match` expression"},
		{"true", "boolean literal"},
		{"fut.await", "await expression"},
		{"x.await.y", "await expression"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()

			reqs, diags := parse.Parse(tt.src)
			assert.Empty(t, reqs)
			require.True(t, diags.HasErrors())
			assert.Equal(t, diagnostic.CodeUnsupportedExpr, diags.Errors[0].Code)
			assert.Contains(t, diags.Errors[0].Message, tt.mention)
		})
	}
}

func TestParseEmptyAndMalformedRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		code string
	}{
		{"empty content", "", diagnostic.CodeEmptyInvocation},
		{"blank content", "   \n\t", diagnostic.CodeEmptyInvocation},
		{"double comma", "a,,b", diagnostic.CodeEmptyRequest},
		{"leading comma", ",a", diagnostic.CodeEmptyRequest},
		{"trailing comma", "a,", diagnostic.CodeEmptyRequest},
		{"mut alone", "mut", diagnostic.CodeEmptyRequest},
		{"mut before comma", "mut, b", diagnostic.CodeEmptyRequest},
		{"unclosed args", "x.m(a", diagnostic.CodeUnbalanced},
		{"stray closer", "a)", diagnostic.CodeUnbalanced},
		{"unterminated string", `x.f("oops`, diagnostic.CodeUnterminated},
		{"dangling path sep", "a::", diagnostic.CodeUnsupportedExpr},
		{"dangling dot", "a.", diagnostic.CodeUnsupportedExpr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, diags := parse.Parse(tt.src)
			require.True(t, diags.HasErrors(), "source %q", tt.src)
			assert.Equal(t, tt.code, diags.Errors[0].Code)
		})
	}
}

func TestParseRecoversAcrossBadRequests(t *testing.T) {
	t.Parallel()

	reqs, diags := parse.Parse("good, t.0, also.fine, a + b")

	// Both rejections surface, and both clean requests still parse.
	require.Len(t, diags.Errors, 2)
	assert.Equal(t, diagnostic.CodeTupleIndex, diags.Errors[0].Code)
	assert.Equal(t, diagnostic.CodeUnsupportedExpr, diags.Errors[1].Code)

	require.Len(t, reqs, 2)
	assert.Equal(t, "good", reqs[0].Expr.Name)
	assert.Equal(t, "fine", reqs[1].Expr.Name)
}

func TestParseIsDeterministic(t *testing.T) {
	t.Parallel()

	src := "state, mut cfg.db_pool, registry.handle(id)"

	first, fdiags := parse.Parse(src)
	second, sdiags := parse.Parse(src)

	assert.Equal(t, first, second)
	assert.Equal(t, fdiags, sdiags)
}

func TestParseNameSpans(t *testing.T) {
	t.Parallel()

	src := "module::CONST"
	reqs, diags := parse.Parse(src)
	require.NoError(t, diags.Error())
	require.Len(t, reqs, 1)

	e := reqs[0].Expr
	assert.Equal(t, "CONST", src[e.NameSpan.Start:e.NameSpan.End])
	assert.Equal(t, src, src[e.Span.Start:e.Span.End])
}

func TestShapeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "path", parse.ShapePath.String())
	assert.Equal(t, "field", parse.ShapeField.String())
	assert.Equal(t, "method", parse.ShapeMethod.String())
	assert.Equal(t, "unknown", parse.Shape(42).String())
}
