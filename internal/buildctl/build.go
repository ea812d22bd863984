package buildctl

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/sync/errgroup"

	"fastllm-build/internal/config"
	"fastllm-build/internal/extension"
	"fastllm-build/internal/metrics"
)

// BuildOptions are the flags of the build command.
type BuildOptions struct {
	OutDir string
	Jobs   int
	DryRun bool
}

// printSources renders the selection as a table. Excluded files are listed only when all is set.
func printSources(w io.Writer, s *session, all bool) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"SOURCE", "BACKEND", "STATUS"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	for _, p := range s.selection.Sources {
		table.Append([]string{s.rel(p), "cpu", "selected"})
	}
	if all {
		for _, p := range s.selection.Excluded {
			table.Append([]string{s.rel(p), "cuda", "excluded"})
		}
	}
	table.Render()
}

func printPlan(w io.Writer, s *session, format string) error {
	return config.Encode(w, format, s.plan)
}

func printEntryPoints(w io.Writer, s *session) error {
	pkg, err := extension.NewPackage(s.manifest)
	if err != nil {
		return fmt.Errorf("%w: %w", errManifest, err)
	}
	for _, ep := range pkg.ConsoleScripts {
		fmt.Fprintln(w, ep.String())
	}
	return nil
}

// compileStep pairs a translation unit with the command compiling it.
type compileStep struct {
	src string
	cmd extension.Command
}

// build compiles every selected source, in parallel up to opts.Jobs, and links the module.
// The first compiler failure cancels the remaining compilations.
func build(ctx context.Context, w io.Writer, s *session, opts BuildOptions) (string, error) {
	tc := s.manifest.Toolchain
	if !opts.DryRun {
		if err := checkCompiler(tc); err != nil {
			return "", err
		}
	}
	if len(s.plan.Extension.Sources) == 0 {
		return "", fmt.Errorf("no sources selected under %s", s.sourceRoot())
	}
	tool := probeToolchain(ctx, tc, s.log)

	outDir := opts.OutDir
	if outDir == "" {
		outDir = filepath.Join(s.root, "build")
	}
	objDir := filepath.Join(outDir, "obj")
	srcRoot := s.sourceRoot()

	ext := s.plan.Extension
	steps := make([]compileStep, 0, len(ext.Sources))
	objs := make([]string, 0, len(ext.Sources))
	for _, src := range ext.Sources {
		obj := extension.ObjectPath(srcRoot, src, objDir)
		steps = append(steps, compileStep{src: src, cmd: extension.CompileCommand(ext, tool, src, obj)})
		objs = append(objs, obj)
	}
	link := extension.LinkCommand(ext, tool, objs, outDir)

	if opts.DryRun {
		for _, st := range steps {
			fmt.Fprintln(w, st.cmd.String())
		}
		fmt.Fprintln(w, link.String())
		return link.Output, nil
	}

	dirs := map[string]bool{objDir: true}
	for _, obj := range objs {
		dirs[filepath.Dir(obj)] = true
	}
	for d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return "", err
		}
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	s.log.Info().Int("units", len(steps)).Int("jobs", jobs).Str("out", outDir).Msg("compiling")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, st := range steps {
		st := st
		g.Go(func() error {
			name := s.rel(st.src)
			start := time.Now()
			err := fnRunCmd(gctx, Cmd{Path: st.cmd.Path, Args: st.cmd.Args, Stream: true, Prefix: name, Log: s.log})
			metrics.ObserveStep("compile", time.Since(start), err)
			if err != nil {
				return fmt.Errorf("%w %s: %w", errCompile, name, err)
			}
			s.log.Debug().Str("src", name).Dur("dur", time.Since(start)).Msg("compiled")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	start := time.Now()
	err := fnRunCmd(ctx, Cmd{Path: link.Path, Args: link.Args, Stream: true, Prefix: ext.Name, Log: s.log})
	metrics.ObserveStep("link", time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("%w %s: %w", errLink, ext.Name, err)
	}
	s.log.Info().Str("artifact", link.Output).Msg("built")
	fmt.Fprintln(w, link.Output)
	return link.Output, nil
}
