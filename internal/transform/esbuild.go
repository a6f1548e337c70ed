package transform

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// DefaultTarget is the language level emitted when none is configured.
const DefaultTarget = "es2015"

var targets = map[string]api.Target{
	"es5":    api.ES5,
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
	"esnext": api.ESNext,
}

var loaders = map[string]api.Loader{
	".js":   api.LoaderJS,
	".mjs":  api.LoaderJS,
	".cjs":  api.LoaderJS,
	".jsx":  api.LoaderJSX,
	".ts":   api.LoaderTS,
	".mts":  api.LoaderTS,
	".cts":  api.LoaderTS,
	".tsx":  api.LoaderTSX,
	".json": api.LoaderJSON,
}

// Targets lists the accepted target names in sorted order.
func Targets() []string {
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidTarget reports whether name is an accepted target.
func ValidTarget(name string) bool {
	_, ok := targets[strings.ToLower(name)]
	return ok
}

// Esbuild implements Transformer on top of the esbuild Go API.
type Esbuild struct {
	target api.Target
}

// NewEsbuild creates an esbuild-backed transformer emitting code for target
// (for example "es2015" or "esnext").
func NewEsbuild(target string) (*Esbuild, error) {
	if target == "" {
		target = DefaultTarget
	}
	t, ok := targets[strings.ToLower(target)]
	if !ok {
		return nil, fmt.Errorf("unknown target %q (valid: %s)", target, strings.Join(Targets(), ", "))
	}
	return &Esbuild{target: t}, nil
}

// externalizeAll marks every import as external so esbuild records the
// specifier without resolving or loading it.
var externalizeAll = api.Plugin{
	Name: "leappack-externalize",
	Setup: func(build api.PluginBuild) {
		build.OnResolve(api.OnResolveOptions{Filter: ".*"}, func(args api.OnResolveArgs) (api.OnResolveResult, error) {
			return api.OnResolveResult{Path: args.Path, External: true}, nil
		})
	},
}

// lowered lists syntax esbuild must rewrite so that every module reference
// in transformed code goes through require.
var lowered = map[string]bool{
	"dynamic-import": false,
}

// ExtractSpecifiers lists the import specifiers of source using the import
// records esbuild reports in its metafile. ES imports come before require
// calls, matching the order the transformed code runs them in.
func (e *Esbuild) ExtractSpecifiers(path, source string) ([]string, error) {
	loader := loaderFor(path)
	if loader != api.LoaderJS && loader != api.LoaderJSON {
		// TypeScript and JSX drop imports used only as types; read the
		// records from the stripped output so they match Transform.
		stripped := api.Transform(source, api.TransformOptions{
			Loader:     loader,
			Format:     api.FormatESModule,
			Target:     api.ESNext,
			Sourcefile: path,
			LogLevel:   api.LogLevelSilent,
		})
		if len(stripped.Errors) > 0 {
			return nil, newParseError(path, stripped.Errors)
		}
		source = string(stripped.Code)
		loader = api.LoaderJS
	}

	result := api.Build(api.BuildOptions{
		Stdin: &api.StdinOptions{
			Contents:   source,
			ResolveDir: filepath.Dir(path),
			Loader:     loader,
		},
		Bundle:   true,
		Write:    false,
		Metafile: true,
		Platform: api.PlatformNeutral,
		Format:   api.FormatCommonJS,
		Plugins:  []api.Plugin{externalizeAll},
		LogLevel: api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		return nil, newParseError(path, result.Errors)
	}

	return parseSpecifiers(result.Metafile)
}

// Transform rewrites source into CommonJS code for the configured target.
func (e *Esbuild) Transform(path, source string) (string, error) {
	result := api.Transform(source, api.TransformOptions{
		Loader:     loaderFor(path),
		Format:     api.FormatCommonJS,
		Target:     e.target,
		Supported:  lowered,
		Sourcefile: path,
		LogLevel:   api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		return "", newParseError(path, result.Errors)
	}
	return string(result.Code), nil
}

func loaderFor(path string) api.Loader {
	if l, ok := loaders[strings.ToLower(filepath.Ext(path))]; ok {
		return l
	}
	return api.LoaderJS
}

func newParseError(path string, errs []api.Message) *ParseError {
	pe := &ParseError{Path: path, Messages: make([]Message, 0, len(errs))}
	for _, err := range errs {
		m := Message{Text: err.Text}
		if err.Location != nil {
			m.Line = err.Location.Line
			m.Column = err.Location.Column
		}
		pe.Messages = append(pe.Messages, m)
	}
	return pe
}
