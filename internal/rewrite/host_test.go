package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"letclone/internal/diagnostic"
	"letclone/internal/scan"
)

func TestScanFindsInvocations(t *testing.T) {
	src := "fn main() {\n    clone!(state);\n    clone!(mut cfg.db, registry.tx());\n}\n"

	invs, diags := Scan(src)
	require.NoError(t, diags.Error())
	require.Len(t, invs, 2)

	assert.Equal(t, "state", invs[0].Content)
	assert.Equal(t, "    ", invs[0].Indent)
	assert.Equal(t, "mut cfg.db, registry.tx()", invs[1].Content)

	// Spans cover the trailing semicolon.
	for _, inv := range invs {
		assert.Equal(t, byte(';'), src[inv.Span.End-1])
		assert.Equal(t, "clone", src[inv.Span.Start:inv.Span.Start+5])
	}
}

func TestScanSpanArithmetic(t *testing.T) {
	src := `x(); clone!(a);`

	invs, diags := Scan(src)
	require.NoError(t, diags.Error())
	require.Len(t, invs, 1)

	inv := invs[0]
	assert.Equal(t, scan.Span{Start: 5, End: 15}, inv.Span)
	assert.Equal(t, "a", inv.Content)
	assert.Equal(t, 12, inv.ContentStart)
	assert.Equal(t, "", inv.Indent, "code before the invocation leaves the line indent empty")
}

func TestScanSkipsNonCode(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{"line comment", "// clone!(a)\nclone!(b);", 1},
		{"block comment", "/* clone!(a) */ clone!(b);", 1},
		{"nested block comment", "/* outer /* clone!(a) */ */ clone!(b);", 1},
		{"string", `let s = "clone!(a)"; clone!(b);`, 1},
		{"string with escapes", `let s = "\" clone!(a)"; clone!(b);`, 1},
		{"raw string", `let s = r"clone!(a)"; clone!(b);`, 1},
		{"hashed raw string", `let s = r#"quote " clone!(a)"#; clone!(b);`, 1},
		{"byte string", `let s = b"clone!(a)"; clone!(b);`, 1},
		{"raw byte string", `let s = br#"clone!(a)"#; clone!(b);`, 1},
		{"char paren", `let c = '('; clone!(b);`, 1},
		{"ident boundary", "my_clone!(a); clone!(b);", 1},
		{"capitalized", "Clone!(a); clone!(b);", 1},
		{"macro path untouched", "clone::of(a); clone!(b);", 1},
		{"no invocations", "fn main() { let x = 1; }", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invs, diags := Scan(tt.src)
			require.NoError(t, diags.Error())
			require.Len(t, invs, tt.want)

			if tt.want == 1 {
				assert.Equal(t, "b", invs[0].Content)
			}
		})
	}
}

func TestScanStringArgsWithParens(t *testing.T) {
	src := `clone!(log.ctx("close ) paren"), fm.sep(')'));`

	invs, diags := Scan(src)
	require.NoError(t, diags.Error())
	require.Len(t, invs, 1)

	assert.Equal(t, `log.ctx("close ) paren"), fm.sep(')')`, invs[0].Content)
}

func TestScanBangSpacing(t *testing.T) {
	invs, diags := Scan("clone! (a);")
	require.NoError(t, diags.Error())
	require.Len(t, invs, 1)
	assert.Equal(t, "a", invs[0].Content)

	// A detached bang is some other expression, not an invocation.
	invs, diags = Scan("clone != a;")
	require.NoError(t, diags.Error())
	assert.Empty(t, invs)
}

func TestScanNestedInvocationStaysVerbatim(t *testing.T) {
	src := "clone!(x.m(clone!(y)));"

	invs, diags := Scan(src)
	require.NoError(t, diags.Error())
	require.Len(t, invs, 1, "the outer invocation consumes the inner one")

	assert.Equal(t, "x.m(clone!(y))", invs[0].Content)
}

func TestScanAltDelimiterWarns(t *testing.T) {
	invs, diags := Scan("clone![a]; clone!(b);")

	require.Len(t, invs, 1)
	assert.Equal(t, "b", invs[0].Content)
	assert.False(t, diags.HasErrors())
	require.Len(t, diags.Warnings, 1)
	assert.Contains(t, diags.Warnings[0].Message, "parentheses")
}

func TestScanUnbalancedInvocation(t *testing.T) {
	invs, diags := Scan("clone!(a.m(x);\n")

	assert.Empty(t, invs)
	require.True(t, diags.HasErrors())
	assert.Equal(t, diagnostic.CodeUnbalanced, diags.Errors[0].Code)
}

func TestScanUnterminatedLiterals(t *testing.T) {
	for _, src := range []string{
		`let s = "never closed`,
		`let s = r#"never closed"`,
		"/* never closed",
	} {
		_, diags := Scan(src)
		require.True(t, diags.HasErrors(), "source %q", src)
		assert.Equal(t, diagnostic.CodeUnterminated, diags.Errors[0].Code, "source %q", src)
	}
}

func TestLineIndent(t *testing.T) {
	tests := []struct {
		src  string
		at   int
		want string
	}{
		{"clone!(a)", 0, ""},
		{"    clone!(a)", 4, "    "},
		{"\t\tclone!(a)", 2, "\t\t"},
		{"x\n  clone!(a)", 4, "  "},
		{"x(); clone!(a)", 5, ""},
	}

	for _, tt := range tests {
		if got := lineIndent(tt.src, tt.at); got != tt.want {
			t.Errorf("lineIndent(%q, %d) = %q, want %q", tt.src, tt.at, got, tt.want)
		}
	}
}
