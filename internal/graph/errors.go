package graph

import "fmt"

// ReadError reports a module whose source could not be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// ResolutionError reports a specifier that does not name any module file.
// Importer is empty for the entry point.
type ResolutionError struct {
	Importer  string
	Specifier string
	Err       error
}

func (e *ResolutionError) Error() string {
	if e.Importer == "" {
		return fmt.Sprintf("cannot resolve entry %q: %v", e.Specifier, e.Err)
	}
	return fmt.Sprintf("cannot resolve %q from %s: %v", e.Specifier, e.Importer, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// LimitError reports a graph that grew past Options.MaxModules.
// Without Dedupe a circular import never stops producing modules.
type LimitError struct {
	Limit int
	Path  string
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("module limit of %d exceeded while adding %s (circular import without dedupe?)", e.Limit, e.Path)
}
