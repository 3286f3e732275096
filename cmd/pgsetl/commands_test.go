package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommandTree(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, ec := range etlCommands {
		assert.True(t, names[ec.use], ec.use)
	}
	for _, extra := range []string{"run-all-etl", "serve", "migrate"} {
		assert.True(t, names[extra], extra)
	}
	assert.Len(t, etlCommands, 9)
}

func TestModelEvaluationFlagsAreExclusive(t *testing.T) {
	t.Setenv("PGS_ETL_CONFIG", "")
	_, err := execute(t, "run-model-evaluation-etl", "--start-after", "PPM000010", "--ids", "PPM000001")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none of the others can be")
}

func TestRunBroadAncestryCategoryCommand(t *testing.T) {
	catalog := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ancestry_categories" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"EUR":{"display_category":"European"}}`))
	}))
	defer catalog.Close()

	dir := t.TempDir()
	t.Setenv("PGS_ETL_CONFIG", "")
	t.Setenv("PGS_CATALOG_BASE_URL", catalog.URL)
	args := []string{
		"--log-mode=test",
		"--metrics=false",
		"--db-dsn=" + filepath.Join(dir, "etl.db"),
		"--audit-dir=" + filepath.Join(dir, "audit"),
	}

	out, err := execute(t, append([]string{"run-broad-ancestry-category-etl"}, args...)...)
	require.NoError(t, err)
	var report runReport
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &report))
	assert.Equal(t, "broad_ancestry_categories", report.Entity)
	assert.Equal(t, "succeeded", report.Status)
	assert.Equal(t, 1, report.Inserted)

	out, err = execute(t, append([]string{"run-trait-etl"}, args...)...)
	require.Error(t, err, "a 404 on the trait collection aborts the run")
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &report))
	assert.Equal(t, "failed", report.Status)
	assert.NotEmpty(t, report.Error)
}
