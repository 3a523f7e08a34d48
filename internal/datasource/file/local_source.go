// Package file implements a local filesystem-backed data source.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Local opens a CSV file from the local disk.
type Local struct{ path string }

// NewLocal returns a Local source bound to path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Open returns the file as an io.ReadCloser. A context that is already done
// short-circuits without touching the filesystem. Filesystem errors keep
// their cause, so errors.Is(err, os.ErrNotExist) holds for a missing file.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", l.path, err)
	}
	if st.IsDir() {
		f.Close()
		return nil, fmt.Errorf("open %s: is a directory", l.path)
	}
	return f, nil
}

func (l *Local) String() string { return l.path }
