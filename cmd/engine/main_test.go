package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEngineEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ENGINE_LOG_LEVEL", "ENGINE_LOG_FORMAT", "ENGINE_POSTGRES_DSN",
		"ENGINE_POSTGRES_TABLE", "ENGINE_KAFKA_BROKERS", "ENGINE_KAFKA_TOPIC",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func fixture(name string) string {
	return filepath.Join("..", "..", "testdata", name)
}

func TestRun_Fixture(t *testing.T) {
	clearEngineEnv(t)
	want, err := os.ReadFile(fixture("accounts.csv"))
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{fixture("transactions.csv")}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, string(want), stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRun_DebugLogsShowRejections(t *testing.T) {
	clearEngineEnv(t)
	t.Setenv("ENGINE_LOG_LEVEL", "debug")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{fixture("transactions.csv")}, &stdout, &stderr)

	require.Equal(t, 0, code)
	assert.Contains(t, stderr.String(), "row skipped")
	assert.Contains(t, stderr.String(), "transaction ignored")
	assert.Contains(t, stderr.String(), "run finished")
	assert.NotContains(t, stdout.String(), "run finished")
}

func TestRun_MissingInput(t *testing.T) {
	clearEngineEnv(t)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{filepath.Join(t.TempDir(), "missing.csv")}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "cannot read transactions")
}

func TestRun_Usage(t *testing.T) {
	clearEngineEnv(t)

	for _, args := range [][]string{nil, {"a.csv", "b.csv"}, {"-nope"}} {
		var stdout, stderr bytes.Buffer
		assert.Equal(t, 2, run(context.Background(), args, &stdout, &stderr), "args %v", args)
		assert.Empty(t, stdout.String())
		assert.Contains(t, stderr.String(), "usage")
	}
}

func TestRun_EnvFile(t *testing.T) {
	clearEngineEnv(t)
	env := filepath.Join(t.TempDir(), "engine.env")
	require.NoError(t, os.WriteFile(env, []byte("ENGINE_LOG_LEVEL=info\nENGINE_LOG_FORMAT=json\n"), 0o600))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-env", env, fixture("transactions.csv")}, &stdout, &stderr)

	require.Equal(t, 0, code)
	assert.Contains(t, stderr.String(), `"msg":"run finished"`)
	assert.Contains(t, stderr.String(), `"processed":13`)
	assert.Contains(t, stderr.String(), `"skipped_rows":3`)
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	clearEngineEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	code := run(ctx, []string{fixture("transactions.csv")}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
}
