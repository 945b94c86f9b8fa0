package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesNested(t *testing.T) {
	base := t.TempDir()
	got, err := EnsureDir(filepath.Join(base, "downloads", "case-7"))
	require.NoError(t, err)

	fi, err := os.Stat(got)
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	again, err := EnsureDir(got)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "report.pdf", SafeName("report.pdf"))
	assert.Equal(t, "passwd", SafeName("../../etc/passwd"))
	assert.Equal(t, "x.txt", SafeName(`..\..\x.txt`))
	assert.Equal(t, "document", SafeName(""))
	assert.Equal(t, "document", SafeName(".."))
}

func TestCreateUnique_AvoidsOverwrite(t *testing.T) {
	dir := t.TempDir()

	f1, err := CreateUnique(dir, "contrato.pdf")
	require.NoError(t, err)
	require.NoError(t, f1.Close())

	f2, err := CreateUnique(dir, "contrato.pdf")
	require.NoError(t, err)
	require.NoError(t, f2.Close())

	assert.Equal(t, filepath.Join(dir, "contrato.pdf"), f1.Name())
	assert.Equal(t, filepath.Join(dir, "contrato (1).pdf"), f2.Name())
}

func TestCreateUnique_MissingDir(t *testing.T) {
	_, err := CreateUnique(filepath.Join(t.TempDir(), "absent"), "a.txt")
	require.Error(t, err)
}
