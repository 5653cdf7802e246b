package expand_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"letclone/internal/expand"
)

func TestStatements(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			"path",
			"state",
			[]string{"let state = state.clone();"},
		},
		{
			"module const",
			"module::LIMIT",
			[]string{"let LIMIT = module::LIMIT.clone();"},
		},
		{
			"field",
			"self.data",
			[]string{"let data = self.data.clone();"},
		},
		{
			"method keeps args verbatim",
			"cfg.get(key, fallback)",
			[]string{"let get = cfg.get(key, fallback).clone();"},
		},
		{
			"mut binding",
			"mut counter",
			[]string{"let mut counter = counter.clone();"},
		},
		{
			"several requests stay in writing order",
			"state, mut self.buf, registry.handle(id)",
			[]string{
				"let state = state.clone();",
				"let mut buf = self.buf.clone();",
				"let handle = registry.handle(id).clone();",
			},
		},
		{
			"interior spacing survives",
			"cfg.get( key , fallback )",
			[]string{"let get = cfg.get( key , fallback ).clone();"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stmts, diags := expand.Statements(tt.src)
			require.NoError(t, diags.Error())
			assert.Equal(t, tt.want, stmts)
		})
	}
}

func TestStatementsAllOrNothing(t *testing.T) {
	t.Parallel()

	// One bad request suppresses the whole invocation.
	stmts, diags := expand.Statements("good, pair.0")

	assert.Nil(t, stmts)
	require.True(t, diags.HasErrors())
}

func TestStatementsSameNameRebinds(t *testing.T) {
	t.Parallel()

	// Both requests bind `tx`; the second statement sees the first, the
	// way sequential lets do.
	stmts, diags := expand.Statements("tx, worker.tx")
	require.NoError(t, diags.Error())

	assert.Equal(t, []string{
		"let tx = tx.clone();",
		"let tx = worker.tx.clone();",
	}, stmts)
}
