package utils

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/biogo/hts/bgzf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tinyVcf = "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\nchr7\t101\t.\tA\tG\t.\tPASS\t.\n"

func TestOpenInputPlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.vcf")
	require.Nil(t, os.WriteFile(path, []byte(tinyVcf), 0644))

	rc, err := OpenInput(path)
	require.Nil(t, err)
	defer rc.Close()

	content, err := io.ReadAll(rc)
	require.Nil(t, err)
	assert.Equal(t, tinyVcf, string(content))
}

func TestOpenInputBgzf(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.vcf.gz")
	f, err := os.Create(path)
	require.Nil(t, err)
	w := bgzf.NewWriter(f, 1)
	_, err = w.Write([]byte(tinyVcf))
	require.Nil(t, err)
	require.Nil(t, w.Close())
	require.Nil(t, f.Close())

	rc, err := OpenInput(path)
	require.Nil(t, err)
	defer rc.Close()

	content, err := io.ReadAll(rc)
	require.Nil(t, err)
	assert.Equal(t, tinyVcf, string(content))
}

func TestResolveVcfPath(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "a.vcf")

	_, ok := ResolveVcfPath(plain)
	assert.False(t, ok)

	require.Nil(t, os.WriteFile(plain+".gz", []byte{}, 0644))
	resolved, ok := ResolveVcfPath(plain)
	assert.True(t, ok)
	assert.Equal(t, plain+".gz", resolved)

	require.Nil(t, os.WriteFile(plain, []byte{}, 0644))
	resolved, _ = ResolveVcfPath(plain)
	assert.Equal(t, plain, resolved)
}

func TestUniqueStrings(t *testing.T) {
	assert.Equal(t, []string{"mutect", "vardict"}, UniqueStrings([]string{"mutect", "", "vardict", "mutect"}))
}
