package logs

import (
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	require.NoError(t, InitializeFileLogger(dir))
	log.Printf("decoded %d types", 3)
	CloseLogger()
	CloseLogger()

	data, err := os.ReadFile(filepath.Join(dir, "logs.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "decoded 3 types")
}
