package extension

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"fastllm-build/internal/config"
	"fastllm-build/pkg/types"
)

func TestNew_DefaultManifest(t *testing.T) {
	root := filepath.FromSlash("/proj")
	srcs := types.SourceSet{filepath.Join(root, "src", "fastllm.cpp")}
	ext := New(root, config.Manifest{}.WithDefaults(), srcs)

	want := types.Extension{
		Name:    "pyfastllm",
		Sources: srcs,
		IncludeDirs: []string{
			filepath.Join(root, "include"),
			filepath.Join(root, "include", "devices", "cpu"),
			filepath.Join(root, "include", "models"),
			filepath.Join(root, "include", "utils"),
		},
		DefineMacros:     []types.Macro{{Name: "VERSION_INFO", Value: "'0.1.2'"}},
		ExtraCompileArgs: []string{"-w", "-DPY_API"},
		CXXStd:           17,
		Language:         "c++",
	}
	if diff := cmp.Diff(want, ext); diff != "" {
		t.Fatalf("extension mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_DoesNotAliasSources(t *testing.T) {
	srcs := types.SourceSet{"a.cpp"}
	ext := New("/p", config.Manifest{}.WithDefaults(), srcs)
	ext.Sources[0] = "b.cpp"
	if srcs[0] != "a.cpp" {
		t.Fatalf("source set mutated through extension")
	}
}

func TestNew_AbsoluteIncludeKept(t *testing.T) {
	abs := filepath.FromSlash("/opt/pybind/include")
	m := config.Manifest{IncludeDirs: []string{abs}}.WithDefaults()
	ext := New("/p", m, nil)
	if len(ext.IncludeDirs) != 1 || ext.IncludeDirs[0] != abs {
		t.Fatalf("unexpected include dirs: %v", ext.IncludeDirs)
	}
}

func TestNewPackage_Defaults(t *testing.T) {
	pkg, err := NewPackage(config.Manifest{}.WithDefaults())
	if err != nil {
		t.Fatalf("package: %v", err)
	}
	want := types.Package{
		Name:           "fastllm",
		Version:        "0.1.2",
		Description:    "python api for fastllm",
		PythonRequires: ">=3.6",
		SetupRequires:  []string{"pybind11"},
		ConsoleScripts: []types.EntryPoint{{Name: "fastllm-convert", Module: "fastllm.convert", Func: "convert_main"}},
	}
	if diff := cmp.Diff(want, pkg); diff != "" {
		t.Fatalf("package mismatch (-want +got):\n%s", diff)
	}
	if pkg.ZipSafe || pkg.IncludePackageData {
		t.Fatalf("zip_safe and include_package_data must be false")
	}
}

func TestNewPlan_BadEntryPoint(t *testing.T) {
	m := config.Manifest{ConsoleScripts: []string{"broken"}}.WithDefaults()
	if _, err := NewPlan("/p", m, nil); err == nil {
		t.Fatalf("expected entry point error")
	}
}

func TestParseEntryPoint(t *testing.T) {
	cases := []struct {
		in      string
		want    types.EntryPoint
		wantErr bool
	}{
		{in: "fastllm-convert = fastllm.convert:convert_main", want: types.EntryPoint{Name: "fastllm-convert", Module: "fastllm.convert", Func: "convert_main"}},
		{in: "x=a.b:c", want: types.EntryPoint{Name: "x", Module: "a.b", Func: "c"}},
		{in: "no-equals", wantErr: true},
		{in: "x = a.b", wantErr: true},
		{in: " = a:b", wantErr: true},
		{in: "x = :b", wantErr: true},
		{in: "x = a:", wantErr: true},
	}
	for _, c := range cases {
		got, err := ParseEntryPoint(c.in)
		if c.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error, got %+v", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("%q: got %+v want %+v", c.in, got, c.want)
		}
	}
}

func TestEntryPointString_RoundTrip(t *testing.T) {
	in := "fastllm-convert = fastllm.convert:convert_main"
	ep, err := ParseEntryPoint(in)
	if err != nil {
		t.Fatal(err)
	}
	if ep.String() != in {
		t.Fatalf("got %q want %q", ep.String(), in)
	}
	if !strings.Contains(ep.String(), ":convert_main") {
		t.Fatalf("unexpected rendering %q", ep.String())
	}
}
