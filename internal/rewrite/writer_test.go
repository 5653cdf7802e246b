package rewrite

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for _, s := range []string{"stdout", "write", "suffix"} {
		m, err := ParseMode(s)
		require.NoError(t, err)
		assert.Equal(t, Mode(s), m)
	}

	_, err := ParseMode("append")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "append")
}

func TestWriterStdout(t *testing.T) {
	var buf bytes.Buffer

	w := &Writer{Mode: ModeStdout, Out: &buf}
	res := File("a.rs", "clone!(a);\n")
	require.NoError(t, res.Diags.Error())

	dest, err := w.Write("a.rs", res)
	require.NoError(t, err)
	assert.Empty(t, dest)
	assert.Equal(t, "let a = a.clone();\n", buf.String())
}

func TestWriterInPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.rs")
	src := "fn main() {\n    clone!(state);\n}\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	w := &Writer{Mode: ModeWrite}
	res := File(path, src)

	dest, err := w.Write(path, res)
	require.NoError(t, err)
	assert.Equal(t, path, dest)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fn main() {\n    let state = state.clone();\n}\n", string(got))
}

func TestWriterInPlaceSkipsUntouchedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.rs")
	src := "fn main() {}\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	w := &Writer{Mode: ModeWrite}

	dest, err := w.Write(path, File(path, src))
	require.NoError(t, err)
	assert.Empty(t, dest, "files without invocations are not rewritten")
}

func TestWriterSuffix(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.rs")
	src := "clone!(cfg.db);\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	w := &Writer{Mode: ModeSuffix, Suffix: ".gen.rs", Header: true}

	dest, err := w.Write(path, File(path, src))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "app.gen.rs"), dest)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)

	want := "// Code generated by letclone. DO NOT EDIT.\n" +
		"// Source: app.rs\n\n" +
		"let db = cfg.db.clone();\n"
	assert.Equal(t, want, string(got))

	// The source file stays as written.
	orig, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, src, string(orig))
}

func TestWriterSuffixWithoutHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.rs")
	src := "clone!(x);\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	w := &Writer{Mode: ModeSuffix, Suffix: ".out.rs", Header: false}

	dest, err := w.Write(path, File(path, src))
	require.NoError(t, err)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(got), "DO NOT EDIT"))
	assert.Equal(t, "let x = x.clone();\n", string(got))
}

func TestWriterUnknownMode(t *testing.T) {
	w := &Writer{Mode: Mode("sideways")}

	_, err := w.Write("a.rs", Result{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sideways")
}
