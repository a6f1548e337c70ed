// Package transform is the boundary to the source transformer that parses
// modules, lists their import specifiers and rewrites them into CommonJS
// code runnable by the bundle runtime.
package transform

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Transformer extracts import specifiers from module source and rewrites
// the source into code that calls require/module/exports.
type Transformer interface {
	// ExtractSpecifiers returns the raw import specifiers of source in
	// appearance order, duplicates preserved.
	ExtractSpecifiers(path, source string) ([]string, error)
	// Transform returns executable code for source. Failures are *ParseError.
	Transform(path, source string) (string, error)
}

// Message is a single diagnostic reported by the transformer.
type Message struct {
	Line   int
	Column int
	Text   string
}

// ParseError reports that the transformer rejected a module's source.
type ParseError struct {
	Path     string
	Messages []Message
}

func (e *ParseError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("parse error in %s", e.Path)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "parse error in %s", e.Path)
	for _, m := range e.Messages {
		fmt.Fprintf(&sb, "\n  %s:%d:%d: %s", filepath.Base(e.Path), m.Line, m.Column, m.Text)
	}
	return sb.String()
}
