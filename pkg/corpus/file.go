package corpus

import (
	"bufio"
	"fmt"
	"os"
)

// File is a UTF-8 text file read one character at a time.
type File struct {
	f *os.File
	*bufio.Reader
}

// Open opens the file at path for reading as a corpus. The caller must Close it.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open corpus file: %w", err)
	}
	return &File{f: f, Reader: bufio.NewReader(f)}, nil
}

// Name returns the path the file was opened with.
func (c *File) Name() string {
	return c.f.Name()
}

// Close closes the underlying file.
func (c *File) Close() error {
	return c.f.Close()
}
