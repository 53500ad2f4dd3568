package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSource_ReturnsFileContents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.malis")
	require.NoError(t, os.WriteFile(path, []byte(`print "hi";`), 0o644))

	src, err := ReadSource(path)
	require.NoError(t, err)
	assert.Equal(t, `print "hi";`, src)
}

func TestReadSource_MissingFileIsError(t *testing.T) {
	_, err := ReadSource("/no/such/path.malis")
	assert.Error(t, err)
}
