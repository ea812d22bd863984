package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Manifest holds the build parameters of the extension and its package.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Manifest struct {
	Package   string `json:"package" yaml:"package" toml:"package"`
	Version   string `json:"version" yaml:"version" toml:"version"`
	Summary   string `json:"description" yaml:"description" toml:"description"`
	Extension string `json:"extension" yaml:"extension" toml:"extension"`
	// SourceDir and IncludeDirs are relative to the project root.
	SourceDir   string   `json:"source_dir" yaml:"source_dir" toml:"source_dir"`
	IncludeDirs []string `json:"include_dirs" yaml:"include_dirs" toml:"include_dirs"`

	SourceExtensions    []string `json:"source_extensions" yaml:"source_extensions" toml:"source_extensions"`
	AcceleratedSuffixes []string `json:"accelerated_suffixes" yaml:"accelerated_suffixes" toml:"accelerated_suffixes"`
	AcceleratedDirs     []string `json:"accelerated_dirs" yaml:"accelerated_dirs" toml:"accelerated_dirs"`

	CompileArgs    []string `json:"compile_args" yaml:"compile_args" toml:"compile_args"`
	CXXStd         int      `json:"cxx_std" yaml:"cxx_std" toml:"cxx_std"`
	PythonRequires string   `json:"python_requires" yaml:"python_requires" toml:"python_requires"`
	// ConsoleScripts use the "name = module:func" form.
	ConsoleScripts []string `json:"console_scripts" yaml:"console_scripts" toml:"console_scripts"`

	Toolchain Toolchain `json:"toolchain" yaml:"toolchain" toml:"toolchain"`
}

// Toolchain names the host programs used by the build command.
type Toolchain struct {
	CXX          string `json:"cxx" yaml:"cxx" toml:"cxx"`
	Python       string `json:"python" yaml:"python" toml:"python"`
	PythonConfig string `json:"python_config" yaml:"python_config" toml:"python_config"`
}

// Defaults describe the fastllm tree.
const (
	DefaultPackage        = "fastllm"
	DefaultVersion        = "0.1.2"
	DefaultSummary        = "python api for fastllm"
	DefaultExtension      = "pyfastllm"
	DefaultSourceDir      = "src"
	DefaultCXXStd         = 17
	DefaultPythonRequires = ">=3.6"
)

// DefaultIncludeDirs are searched for headers, relative to the project root.
var DefaultIncludeDirs = []string{"include/", "include/devices/cpu/", "include/models", "include/utils"}

// DefaultCompileArgs silence warnings and enable the python API surface of the engine.
var DefaultCompileArgs = []string{"-w", "-DPY_API"}

// DefaultConsoleScripts declares the converter; its implementation ships with the python package.
var DefaultConsoleScripts = []string{"fastllm-convert = fastllm.convert:convert_main"}

// WithDefaults returns a copy of m with every unspecified field filled in.
// Selector-related lists are left empty so the selector applies its own defaults.
func (m Manifest) WithDefaults() Manifest {
	if m.Package == "" {
		m.Package = DefaultPackage
	}
	if m.Version == "" {
		m.Version = DefaultVersion
	}
	if m.Summary == "" {
		m.Summary = DefaultSummary
	}
	if m.Extension == "" {
		m.Extension = DefaultExtension
	}
	if m.SourceDir == "" {
		m.SourceDir = DefaultSourceDir
	}
	if len(m.IncludeDirs) == 0 {
		m.IncludeDirs = append([]string(nil), DefaultIncludeDirs...)
	}
	if m.CompileArgs == nil {
		m.CompileArgs = append([]string(nil), DefaultCompileArgs...)
	}
	if m.CXXStd <= 0 {
		m.CXXStd = DefaultCXXStd
	}
	if m.PythonRequires == "" {
		m.PythonRequires = DefaultPythonRequires
	}
	if len(m.ConsoleScripts) == 0 {
		m.ConsoleScripts = append([]string(nil), DefaultConsoleScripts...)
	}
	if m.Toolchain.CXX == "" {
		m.Toolchain.CXX = "c++"
	}
	if m.Toolchain.Python == "" {
		m.Toolchain.Python = "python3"
	}
	if m.Toolchain.PythonConfig == "" {
		m.Toolchain.PythonConfig = "python3-config"
	}
	return m
}

// Load reads a manifest based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Manifest, error) {
	var m Manifest
	if path == "" {
		return m, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &m); err != nil {
			return m, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &m); err != nil {
			return m, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &m); err != nil {
			return m, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return m, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return m, nil
}

// Encode writes v to w as yaml, json or toml.
func Encode(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "toml":
		return toml.NewEncoder(w).Encode(v)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
