package csv

import "fmt"

// FileAccessError reports that the CSV source could not be opened or read.
// Err keeps the cause, so errors.Is(err, os.ErrNotExist) works through it.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("csv source %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

// ParseError reports malformed CSV content. Line is 1-based and counts the
// header line; zero when the position is unknown.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("csv parse %s line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("csv parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
