package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/c-bata/go-prompt"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cube2222/typewire/config"
	"github.com/cube2222/typewire/typecodec"
)

func testEnvironment(t *testing.T) *environment {
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.CatalogPath = filepath.Join(t.TempDir(), "catalog", "catalog.yml")
	e, err := newEnvironment(cfg)
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		input string
		want  []byte
		ok    bool
	}{
		{input: "1e01", want: []byte{0x1E, 0x01}, ok: true},
		{input: "0x1E01", want: []byte{0x1E, 0x01}, ok: true},
		{input: "0x1E 0x23 0x15", want: []byte{0x1E, 0x23, 0x15}, ok: true},
		{input: "1e 23 15", want: []byte{0x1E, 0x23, 0x15}, ok: true},
		{input: "UInt8"},
		{input: "Array(UInt8)"},
		{input: "abc"},
		{input: ""},
		{input: "   "},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseHex(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	e := testEnvironment(t)

	var buf bytes.Buffer
	require.NoError(t, e.encode(&buf, []string{"Nullable(String)", "IntervalYear", "UInt8"}, false))
	assert.Equal(t, "2315\n221a\n01\n", buf.String())

	buf.Reset()
	require.NoError(t, e.encode(&buf, []string{"Array(UInt8)"}, true))
	assert.Equal(t, []byte{0x1E, 0x01}, buf.Bytes())

	assert.Error(t, e.encode(&buf, []string{"Array("}, false))
}

func TestDecode(t *testing.T) {
	e := testEnvironment(t)

	var buf bytes.Buffer
	require.NoError(t, e.decodeAll(&buf, []string{"271515", "0x1E 0x01"}, config.OutputName, false))
	assert.Equal(t, "Map(String, String)\nArray(UInt8)\n", buf.String())

	buf.Reset()
	require.NoError(t, e.decodeAll(&buf, []string{"0x16 0x0A"}, config.OutputHex, false))
	assert.Equal(t, "160a\n", buf.String())

	buf.Reset()
	require.NoError(t, e.decodeAll(&buf, []string{"1e01"}, config.OutputJSON, false))
	assert.Contains(t, buf.String(), `"name":"Array"`)

	buf.Reset()
	require.NoError(t, e.decodeAll(&buf, []string{"1e01"}, config.OutputName, true))
	assert.Contains(t, buf.String(), "TypeID")

	err := e.decodeAll(&buf, []string{"30"}, config.OutputName, false)
	assert.True(t, errors.Is(err, typecodec.ErrUnknownTypeTag))
	err = e.decodeAll(&buf, []string{"2c"}, config.OutputName, false)
	assert.True(t, errors.Is(err, typecodec.ErrUnexpectedEndOfData))
	err = e.decodeAll(&buf, []string{"0101"}, config.OutputName, false)
	assert.True(t, errors.Is(err, typecodec.ErrTrailingData))
	assert.Error(t, e.decodeAll(&buf, []string{"UInt8"}, config.OutputName, false))
	assert.Error(t, e.decodeAll(&buf, []string{"01"}, "xml", false))
}

func TestDescribe(t *testing.T) {
	e := testEnvironment(t)

	var buf bytes.Buffer
	require.NoError(t, e.describe(&buf, "Map(String, Array(UInt8))", false))
	out := buf.String()
	assert.Contains(t, out, "$.value.element")
	assert.Contains(t, out, "0x27")
	assert.Contains(t, out, "UInt8")

	buf.Reset()
	require.NoError(t, e.describe(&buf, "1e01", true))
	assert.Equal(t, "Array\n  tag: 0x1E\n  element: UInt8\n    tag: 0x01\n", buf.String())

	buf.Reset()
	require.NoError(t, e.describe(&buf, "Decimal64(18, 4)", false))
	assert.Contains(t, buf.String(), "precision=18, scale=4")
}

func TestDiff(t *testing.T) {
	e := testEnvironment(t)

	var buf bytes.Buffer
	require.NoError(t, e.diff(&buf, "Array(UInt8)", "1e01"))
	assert.Equal(t, "Types are equal.\n", buf.String())

	buf.Reset()
	require.NoError(t, e.diff(&buf, "Array(UInt8)", "Array(UInt16)"))
	out := buf.String()
	assert.Contains(t, out, "--- Array(UInt8)")
	assert.Contains(t, out, "+++ Array(UInt16)")
	assert.Contains(t, out, "-  element: UInt8")
	assert.Contains(t, out, "+  element: UInt16")

	assert.Error(t, e.diff(&buf, "Array(", "UInt8"))
}

func TestGraph(t *testing.T) {
	e := testEnvironment(t)
	dot, err := e.graph("Map(String, UInt64)")
	require.NoError(t, err)
	assert.Contains(t, dot, "digraph")
	assert.Contains(t, dot, "Map_0")
	assert.Contains(t, dot, "String_0")
	assert.Contains(t, dot, "UInt64_0")
}

func TestEvaluate(t *testing.T) {
	e := testEnvironment(t)

	var buf bytes.Buffer
	e.evaluate(&buf, "  Array(UInt8) ")
	assert.Equal(t, "Array(UInt8)\n1e01\n", buf.String())

	buf.Reset()
	e.evaluate(&buf, "2315")
	assert.Equal(t, "Nullable(String)\n2315\n", buf.String())

	buf.Reset()
	e.evaluate(&buf, "")
	e.evaluate(&buf, "exit")
	assert.Empty(t, buf.String())

	e.evaluate(&buf, "Array(")
	assert.Contains(t, buf.String(), "error:")
}

func TestCompleteTypeName(t *testing.T) {
	suggestions := typeSuggestions()
	b := prompt.NewBuffer()
	b.InsertText("Array(Nul", false, true)

	got := completeTypeName(suggestions, *b.Document())
	require.Len(t, got, 1)
	assert.Equal(t, "Nullable", got[0].Text)

	b = prompt.NewBuffer()
	assert.Empty(t, completeTypeName(suggestions, *b.Document()))
}

func TestCatalogCommands(t *testing.T) {
	e := testEnvironment(t)

	require.NoError(t, e.catalogPut("users", []string{"id:UInt64", "name:LowCardinality(String)"}))
	require.NoError(t, e.catalogPut("events", []string{"at:DateTime64(3, 'UTC')", "kind:0x15"}))
	assert.Error(t, e.catalogPut("bad", []string{"nocolon"}))
	assert.Error(t, e.catalogPut("bad", []string{"a:Array("}))

	var buf bytes.Buffer
	require.NoError(t, e.catalogGet(&buf, "users"))
	assert.Contains(t, buf.String(), "LowCardinality(String)")
	assert.Contains(t, buf.String(), "2615")

	buf.Reset()
	require.NoError(t, e.catalogList(&buf))
	out := buf.String()
	assert.Contains(t, out, "Tuple(id UInt64, name LowCardinality(String))")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("events")), bytes.Index(buf.Bytes(), []byte("users")))

	require.NoError(t, e.catalogDelete("users"))
	assert.Error(t, e.catalogGet(&buf, "users"))
	assert.Error(t, e.catalogDelete("users"))
}

func TestRootCommand(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(configFile, []byte("logDirectory: "+dir+"\ncatalogPath: "+filepath.Join(dir, "catalog.yml")+"\n"), 0644))

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	defer rootCmd.SetOut(nil)

	rootCmd.SetArgs([]string{"--config", configFile, "encode", "Array(Nullable(String))"})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	teardown()
	assert.Equal(t, "1e2315\n", buf.String())

	logData, err := os.ReadFile(filepath.Join(dir, "logs.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "descriptor cache")

	buf.Reset()
	rootCmd.SetArgs([]string{"--config", configFile, "--max-depth", "1", "decode", "1e1e01"})
	err = rootCmd.ExecuteContext(context.Background())
	teardown()
	assert.True(t, errors.Is(err, typecodec.ErrMaxDepthExceeded), "got %v", err)
}
