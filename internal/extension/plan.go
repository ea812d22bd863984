// Package extension assembles the description of the native extension module
// and renders the compiler invocations that produce it.
package extension

import (
	"fmt"
	"path/filepath"
	"strings"

	"fastllm-build/internal/config"
	"fastllm-build/pkg/types"
)

// Plan is everything a build needs to know about one extension and its package.
type Plan struct {
	Extension types.Extension `json:"extension" yaml:"extension" toml:"extension"`
	Package   types.Package   `json:"package" yaml:"package" toml:"package"`
}

// New describes the extension built from sources. Include directories are
// resolved against projectRoot; m is expected to have defaults applied.
func New(projectRoot string, m config.Manifest, sources types.SourceSet) types.Extension {
	inc := make([]string, 0, len(m.IncludeDirs))
	for _, d := range m.IncludeDirs {
		if filepath.IsAbs(d) {
			inc = append(inc, d)
			continue
		}
		inc = append(inc, filepath.Join(projectRoot, d))
	}
	return types.Extension{
		Name:        m.Extension,
		Sources:     append(types.SourceSet(nil), sources...),
		IncludeDirs: inc,
		// the engine expects the quoted python literal, e.g. '0.1.2'
		DefineMacros:     []types.Macro{{Name: "VERSION_INFO", Value: "'" + m.Version + "'"}},
		ExtraCompileArgs: append([]string(nil), m.CompileArgs...),
		CXXStd:           m.CXXStd,
		Language:         "c++",
	}
}

// NewPackage describes the distribution declared around the extension.
func NewPackage(m config.Manifest) (types.Package, error) {
	pkg := types.Package{
		Name:           m.Package,
		Version:        m.Version,
		Description:    m.Summary,
		PythonRequires: m.PythonRequires,
		SetupRequires:  []string{"pybind11"},
	}
	for _, s := range m.ConsoleScripts {
		ep, err := ParseEntryPoint(s)
		if err != nil {
			return types.Package{}, err
		}
		pkg.ConsoleScripts = append(pkg.ConsoleScripts, ep)
	}
	return pkg, nil
}

// NewPlan combines New and NewPackage.
func NewPlan(projectRoot string, m config.Manifest, sources types.SourceSet) (Plan, error) {
	pkg, err := NewPackage(m)
	if err != nil {
		return Plan{}, err
	}
	return Plan{Extension: New(projectRoot, m, sources), Package: pkg}, nil
}

// ParseEntryPoint parses "name = module:func".
func ParseEntryPoint(s string) (types.EntryPoint, error) {
	name, target, ok := strings.Cut(s, "=")
	if !ok {
		return types.EntryPoint{}, fmt.Errorf("entry point %q: missing '='", s)
	}
	mod, fn, ok := strings.Cut(strings.TrimSpace(target), ":")
	ep := types.EntryPoint{
		Name:   strings.TrimSpace(name),
		Module: strings.TrimSpace(mod),
		Func:   strings.TrimSpace(fn),
	}
	if !ok || ep.Name == "" || ep.Module == "" || ep.Func == "" {
		return types.EntryPoint{}, fmt.Errorf("entry point %q: want 'name = module:func'", s)
	}
	return ep, nil
}
