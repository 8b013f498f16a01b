package utils

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/biogo/hts/bgzf"
	"github.com/pkg/errors"
)

type inputFile struct {
	io.Reader
	closers []io.Closer
}

func (f *inputFile) Close() error {
	var first error
	for i := len(f.closers) - 1; i >= 0; i-- {
		if err := f.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// OpenInput opens a plain or BGZF-compressed file (VCF, coverage table) for sequential reading.
func OpenInput(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(path, ".gz") && !strings.HasSuffix(path, ".bgz") {
		return &inputFile{Reader: bufio.NewReader(f), closers: []io.Closer{f}}, nil
	}

	bz, err := bgzf.NewReader(f, 1)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "opening bgzf stream %s", path)
	}
	return &inputFile{Reader: bz, closers: []io.Closer{f, bz}}, nil
}

// ResolveVcfPath returns the first of path or path+".gz" that exists.
func ResolveVcfPath(path string) (string, bool) {
	for _, candidate := range []string{path, path + ".gz"} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return path, false
}
