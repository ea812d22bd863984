package buildctl

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"fastllm-build/internal/common/fsutil"
	"fastllm-build/internal/config"
	"fastllm-build/internal/extension"
	"fastllm-build/internal/metrics"
	"fastllm-build/internal/selector"
)

// manifestNames are looked up in the project root when --config is not given.
var manifestNames = []string{"fastllm-build.yaml", "fastllm-build.yml", "fastllm-build.toml", "fastllm-build.json"}

// Sentinels tagging where a run failed; failureKind maps them to metric labels.
var (
	errManifest  = errors.New("manifest")
	errToolchain = errors.New("toolchain")
	errCompile   = errors.New("compile")
	errLink      = errors.New("link")
)

// session is the state of one invocation: resolved root, manifest, selection and plan.
type session struct {
	root      string
	manifest  config.Manifest
	selection selector.Selection
	plan      extension.Plan
	log       zerolog.Logger
}

// loadManifest resolves the project root and reads the manifest, if any.
func loadManifest(cfg *Config, log zerolog.Logger) (*session, error) {
	root, err := fsutil.Resolve(cfg.Root)
	if err != nil {
		return nil, err
	}
	s := &session{root: root, log: log}

	path := cfg.ConfigPath
	if path == "" {
		path = fsutil.FirstExisting(root, manifestNames...)
	} else if path, err = fsutil.ExpandHome(path); err != nil {
		return nil, err
	}
	if path != "" {
		m, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load %w: %w", errManifest, err)
		}
		s.manifest = m
		log.Debug().Str("path", path).Msg("manifest loaded")
	}
	s.manifest = s.manifest.WithDefaults()
	return s, nil
}

// prepare runs the source selector and assembles the extension plan.
func prepare(cfg *Config, log zerolog.Logger) (*session, error) {
	s, err := loadManifest(cfg, log)
	if err != nil {
		return nil, err
	}
	m := s.manifest
	sel := selector.New(selector.Options{
		Extensions:          m.SourceExtensions,
		AcceleratedSuffixes: m.AcceleratedSuffixes,
		AcceleratedDirs:     m.AcceleratedDirs,
	})
	sel.SetLogger(log)

	srcRoot := s.sourceRoot()
	s.selection, err = sel.Select(srcRoot, cfg.Build)
	if err != nil {
		return nil, err
	}
	metrics.ObserveSelection(len(s.selection.Sources), len(s.selection.Excluded))
	for _, p := range s.selection.Excluded {
		log.Debug().Str("path", p).Msg("excluded accelerated source")
	}
	log.Info().Str("root", srcRoot).Int("kept", len(s.selection.Sources)).Int("excluded", len(s.selection.Excluded)).Msg("sources collected")

	s.plan, err = extension.NewPlan(s.root, m, s.selection.Sources)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errManifest, err)
	}
	return s, nil
}

// sourceRoot is the directory handed to the selector.
func (s *session) sourceRoot() string {
	if filepath.IsAbs(s.manifest.SourceDir) {
		return s.manifest.SourceDir
	}
	return filepath.Join(s.root, s.manifest.SourceDir)
}

// rel shortens p to a path relative to the project root for display.
func (s *session) rel(p string) string {
	if r, err := filepath.Rel(s.root, p); err == nil {
		return filepath.ToSlash(r)
	}
	return p
}

// failureKind labels err for the failures metric.
func failureKind(err error) string {
	switch {
	case selector.IsConfiguration(err):
		return "configuration"
	case selector.IsDiscovery(err):
		return "discovery"
	case errors.Is(err, errManifest):
		return "manifest"
	case errors.Is(err, errToolchain):
		return "toolchain"
	case errors.Is(err, errCompile):
		return "compile"
	case errors.Is(err, errLink):
		return "link"
	default:
		return "build"
	}
}
