// Package selector discovers the native translation units of a source tree and
// drops the ones that belong to a backend the build did not ask for.
package selector

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"fastllm-build/pkg/types"
)

// Linkage lists what the accelerated backend needs at link and load time.
type Linkage struct {
	LibraryDirs        []string `json:"library_dirs,omitempty" yaml:"library_dirs,omitempty" toml:"library_dirs,omitempty"`
	RuntimeLibraryDirs []string `json:"runtime_library_dirs,omitempty" yaml:"runtime_library_dirs,omitempty" toml:"runtime_library_dirs,omitempty"`
	Libraries          []string `json:"libraries,omitempty" yaml:"libraries,omitempty" toml:"libraries,omitempty"`
}

// Options tune which files count as sources and which belong to the accelerated backend.
// Empty fields fall back to DefaultOptions, except that a non-nil empty
// AcceleratedDirs disables directory matching.
type Options struct {
	Extensions          []string
	AcceleratedSuffixes []string
	// AcceleratedDirs names directories (any depth below root) whose whole
	// content belongs to the accelerated backend.
	AcceleratedDirs    []string
	AcceleratedLinkage Linkage
}

const acceleratedBackend = "cuda"

// DefaultOptions matches the layout of the fastllm tree: C++ sources only, with
// device implementations named *cudadevice.cpp and kept under cuda/ and multicuda/.
func DefaultOptions() Options {
	return Options{
		Extensions:          []string{".cpp"},
		AcceleratedSuffixes: []string{"cudadevice.cpp"},
		AcceleratedDirs:     []string{"cuda", "multicuda"},
		AcceleratedLinkage: Linkage{
			RuntimeLibraryDirs: []string{"/usr/local/cuda/lib64/"},
			Libraries:          []string{"cublas"},
		},
	}
}

// Selection is the outcome of a collection: the kept sources and, for
// reporting, the accelerated files that were filtered out.
type Selection struct {
	Sources  types.SourceSet
	Excluded []string
}

// Selector walks source trees. It holds no state between calls.
type Selector struct {
	opts Options
	log  zerolog.Logger
}

// New returns a Selector using opts, with defaults for any empty field.
func New(opts Options) *Selector {
	def := DefaultOptions()
	if len(opts.Extensions) == 0 {
		opts.Extensions = def.Extensions
	}
	if len(opts.AcceleratedSuffixes) == 0 {
		opts.AcceleratedSuffixes = def.AcceleratedSuffixes
	}
	if opts.AcceleratedDirs == nil {
		opts.AcceleratedDirs = def.AcceleratedDirs
	}
	l := opts.AcceleratedLinkage
	if len(l.LibraryDirs) == 0 && len(l.RuntimeLibraryDirs) == 0 && len(l.Libraries) == 0 {
		opts.AcceleratedLinkage = def.AcceleratedLinkage
	}
	return &Selector{opts: opts, log: zerolog.Nop()}
}

// SetLogger installs a structured logger for debug output.
func (s *Selector) SetLogger(l zerolog.Logger) { s.log = l }

// Options returns the effective options.
func (s *Selector) Options() Options { return s.opts }

// Collect is Select with default options, returning only the kept sources.
func Collect(root string, cfg types.BuildConfig) (types.SourceSet, error) {
	sel, err := New(Options{}).Select(root, cfg)
	if err != nil {
		return nil, err
	}
	return sel.Sources, nil
}

// Select enumerates every source file under root and applies the backend filter.
//
// An accelerated config fails with a configuration error before the tree is
// read. A missing or unreadable root, or any walk failure, is a discovery error.
// Sources are returned in lexical order.
func (s *Selector) Select(root string, cfg types.BuildConfig) (Selection, error) {
	if cfg.Accelerated {
		return Selection{}, ErrConfiguration(acceleratedBackend, s.opts.AcceleratedLinkage)
	}
	fi, err := os.Stat(root)
	if err != nil {
		return Selection{}, ErrDiscovery(root, err)
	}
	if !fi.IsDir() {
		return Selection{}, ErrDiscovery(root, fmt.Errorf("not a directory"))
	}

	all, err := s.walk(root)
	if err != nil {
		return Selection{}, err
	}

	var out Selection
	out.Sources = make(types.SourceSet, 0, len(all))
	for _, p := range all {
		if s.isAccelerated(root, p) {
			out.Excluded = append(out.Excluded, p)
			continue
		}
		out.Sources = append(out.Sources, p)
	}
	s.log.Debug().Str("root", root).Int("kept", len(out.Sources)).Int("excluded", len(out.Excluded)).Msg("sources selected")
	return out, nil
}

func (s *Selector) walk(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return ErrDiscovery(path, err)
		}
		if d.IsDir() || !s.isSource(d.Name()) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func (s *Selector) isSource(name string) bool {
	for _, ext := range s.opts.Extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func (s *Selector) isAccelerated(root, path string) bool {
	name := filepath.Base(path)
	for _, suf := range s.opts.AcceleratedSuffixes {
		if strings.HasSuffix(name, suf) {
			return true
		}
	}
	rel, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil || rel == "." {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		for _, d := range s.opts.AcceleratedDirs {
			if part == d {
				return true
			}
		}
	}
	return false
}
