package types

// Extension describes the single native extension module produced by a build.
type Extension struct {
	// Import name of the module.
	// example: pyfastllm
	Name string `json:"name" yaml:"name" toml:"name"`
	// Translation units, absolute or relative to the project root.
	Sources SourceSet `json:"sources" yaml:"sources" toml:"sources"`
	// Header search directories.
	IncludeDirs []string `json:"include_dirs" yaml:"include_dirs" toml:"include_dirs"`
	// Preprocessor macros, rendered as -DNAME=VALUE (or -DNAME when value is empty).
	DefineMacros []Macro `json:"define_macros" yaml:"define_macros" toml:"define_macros"`
	// Flags appended verbatim to every compile command.
	// example: ["-w","-DPY_API"]
	ExtraCompileArgs   []string `json:"extra_compile_args" yaml:"extra_compile_args" toml:"extra_compile_args"`
	LibraryDirs        []string `json:"library_dirs,omitempty" yaml:"library_dirs,omitempty" toml:"library_dirs,omitempty"`
	RuntimeLibraryDirs []string `json:"runtime_library_dirs,omitempty" yaml:"runtime_library_dirs,omitempty" toml:"runtime_library_dirs,omitempty"`
	Libraries          []string `json:"libraries,omitempty" yaml:"libraries,omitempty" toml:"libraries,omitempty"`
	// C++ language standard, e.g. 17 for -std=c++17.
	CXXStd   int    `json:"cxx_std" yaml:"cxx_std" toml:"cxx_std"`
	Language string `json:"language" yaml:"language" toml:"language"`
}

// Macro is a single preprocessor definition.
type Macro struct {
	Name  string `json:"name" yaml:"name" toml:"name"`
	Value string `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
}

// Package is the distribution metadata declared alongside the extension.
type Package struct {
	Name               string       `json:"name" yaml:"name" toml:"name"`
	Version            string       `json:"version" yaml:"version" toml:"version"`
	Description        string       `json:"description" yaml:"description" toml:"description"`
	PythonRequires     string       `json:"python_requires" yaml:"python_requires" toml:"python_requires"`
	SetupRequires      []string     `json:"setup_requires,omitempty" yaml:"setup_requires,omitempty" toml:"setup_requires,omitempty"`
	ConsoleScripts     []EntryPoint `json:"console_scripts" yaml:"console_scripts" toml:"console_scripts"`
	IncludePackageData bool         `json:"include_package_data" yaml:"include_package_data" toml:"include_package_data"`
	ZipSafe            bool         `json:"zip_safe" yaml:"zip_safe" toml:"zip_safe"`
}

// EntryPoint declares an executable name and the callable implementing it.
// The implementation is not part of this module.
type EntryPoint struct {
	// example: fastllm-convert
	Name string `json:"name" yaml:"name" toml:"name"`
	// example: fastllm.convert
	Module string `json:"module" yaml:"module" toml:"module"`
	// example: convert_main
	Func string `json:"func" yaml:"func" toml:"func"`
}

// String renders the entry point in console_scripts form: "name = module:func".
func (e EntryPoint) String() string {
	return e.Name + " = " + e.Module + ":" + e.Func
}
