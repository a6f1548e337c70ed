package transform

import (
	"encoding/json"
	"fmt"
)

// stdinInput is the metafile key esbuild uses for stdin contents.
const stdinInput = "<stdin>"

// metafile is the subset of the esbuild metafile JSON needed to list the
// import records of a single input.
type metafile struct {
	Inputs map[string]metafileInput `json:"inputs"`
}

type metafileInput struct {
	Bytes   int              `json:"bytes"`
	Imports []metafileImport `json:"imports"`
	Format  string           `json:"format,omitempty"` // "cjs" or "esm"
}

type metafileImport struct {
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	External bool   `json:"external,omitempty"`
	Original string `json:"original,omitempty"`
}

// specifier returns the import text as written in source.
func (i metafileImport) specifier() string {
	if i.Original != "" {
		return i.Original
	}
	return i.Path
}

// moduleKinds are the import record kinds a CommonJS require can satisfy.
var moduleKinds = map[string]bool{
	"import-statement": true,
	"require-call":     true,
	"dynamic-import":   true,
}

// parseSpecifiers decodes raw metafile JSON and returns the specifiers of
// the stdin input in record order.
func parseSpecifiers(raw string) ([]string, error) {
	var meta metafile
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil, fmt.Errorf("failed to decode metafile: %w", err)
	}

	input, ok := meta.Inputs[stdinInput]
	if !ok {
		// esbuild keys stdin by its source file name when one is given;
		// every import is external so stdin is the only input.
		if len(meta.Inputs) != 1 {
			return nil, fmt.Errorf("metafile has %d inputs, expected 1", len(meta.Inputs))
		}
		for _, in := range meta.Inputs {
			input = in
		}
	}

	specifiers := make([]string, 0, len(input.Imports))
	for _, imp := range input.Imports {
		if !moduleKinds[imp.Kind] {
			continue
		}
		specifiers = append(specifiers, imp.specifier())
	}
	return specifiers, nil
}
