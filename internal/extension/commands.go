package extension

import (
	"fmt"
	"hash/fnv"
	"path/filepath"
	"strconv"
	"strings"

	"fastllm-build/pkg/types"
)

// Toolchain is the host compiler plus what the python installation contributes.
type Toolchain struct {
	CXX string
	// IncludeFlags come from `python3 -m pybind11 --includes`.
	IncludeFlags []string
	// ExtSuffix comes from `python3-config --extension-suffix`, e.g. .cpython-311-x86_64-linux-gnu.so.
	ExtSuffix string
}

// Command is one compiler invocation.
type Command struct {
	Path string
	Args []string
	// Output is the file the command produces.
	Output string
}

// String renders the command for logs and dry runs.
func (c Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// ObjectPath maps a source to its object file under objDir. The layout below
// root is mirrored and the source file name is kept whole (a.cpp -> a.cpp.o),
// so distinct sources never share an object. Sources outside root go under
// objDir/external, named by base name plus a hash of the full path.
func ObjectPath(root, src, objDir string) string {
	rel, err := filepath.Rel(root, src)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		h := fnv.New32a()
		h.Write([]byte(filepath.ToSlash(src)))
		return filepath.Join(objDir, "external", fmt.Sprintf("%s-%08x.o", filepath.Base(src), h.Sum32()))
	}
	return filepath.Join(objDir, rel+".o")
}

// CompileCommand builds the invocation compiling src into obj.
func CompileCommand(ext types.Extension, tc Toolchain, src, obj string) Command {
	args := []string{"-c", src, "-o", obj, "-fPIC"}
	if ext.CXXStd > 0 {
		args = append(args, "-std=c++"+strconv.Itoa(ext.CXXStd))
	}
	for _, m := range ext.DefineMacros {
		if m.Value == "" {
			args = append(args, "-D"+m.Name)
			continue
		}
		args = append(args, "-D"+m.Name+"="+m.Value)
	}
	for _, d := range ext.IncludeDirs {
		args = append(args, "-I"+d)
	}
	args = append(args, tc.IncludeFlags...)
	args = append(args, ext.ExtraCompileArgs...)
	return Command{Path: tc.CXX, Args: args, Output: obj}
}

// LinkCommand builds the invocation linking objs into the extension module under outDir.
func LinkCommand(ext types.Extension, tc Toolchain, objs []string, outDir string) Command {
	suffix := tc.ExtSuffix
	if suffix == "" {
		suffix = ".so"
	}
	out := filepath.Join(outDir, ext.Name+suffix)
	args := []string{"-shared", "-o", out}
	args = append(args, objs...)
	for _, d := range ext.LibraryDirs {
		args = append(args, "-L"+d)
	}
	for _, d := range ext.RuntimeLibraryDirs {
		args = append(args, "-Wl,-rpath,"+d)
	}
	for _, l := range ext.Libraries {
		args = append(args, "-l"+l)
	}
	return Command{Path: tc.CXX, Args: args, Output: out}
}
