package parser

import (
	"fmt"
	"io"
	"os"
)

// spoolTemp writes r to a temp file and returns its path, size, and a
// cleanup func. The pdf and docx libraries need a ReadSeeker plus size.
func spoolTemp(r io.Reader, pattern string) (string, int64, func(), error) {
	tmp, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", 0, nil, fmt.Errorf("create temp file: %w", err)
	}
	path := tmp.Name()
	cleanup := func() { os.Remove(path) }

	size, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		cleanup()
		return "", 0, nil, fmt.Errorf("write temp file: %w", err)
	}
	return path, size, cleanup, nil
}
