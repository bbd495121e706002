package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/dana-cli/internal/utils"
)

func TestSafeWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	require.NoError(t, utils.EnsureDir(dir))

	path := filepath.Join(dir, "summary.md")
	require.NoError(t, utils.SafeWriteFile(path, []byte("first")))
	require.NoError(t, utils.SafeWriteFile(path, []byte("second")))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(b))
	assert.NoFileExists(t, path+".tmp")
}

func TestPrettyJSON(t *testing.T) {
	b, err := utils.PrettyJSON(map[string]int{"id": 1000000})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"id\": 1000000\n}", string(b))

	_, err = utils.PrettyJSON(make(chan int))
	assert.Error(t, err)
}
