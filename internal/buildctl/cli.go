package buildctl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"fastllm-build/internal/metrics"
	"fastllm-build/pkg/types"
)

// Config is the whole process input. It is built once from flags and
// environment at entry and handed down explicitly; nothing reads argv later.
type Config struct {
	Root        string
	ConfigPath  string
	LogLvl      string
	MetricsFile string
	Build       types.BuildConfig
}

// defaultConfig seeds flag defaults from the environment.
func defaultConfig() *Config {
	return &Config{
		Root:        envStr("FASTLLM_ROOT", "."),
		ConfigPath:  envStr("FASTLLM_BUILD_CONFIG", ""),
		LogLvl:      envStr("FASTLLM_BUILD_LOG_LEVEL", "info"),
		MetricsFile: envStr("FASTLLM_BUILD_METRICS_FILE", ""),
		Build:       types.BuildConfig{Accelerated: envBool("FASTLLM_BUILD_CUDA", false)},
	}
}

// errNoCommand is returned by the bare root command; it maps to exit code 2.
var errNoCommand = errors.New("no command given")

// ExecuteContext runs the CLI with args and returns the process exit code:
// 0 on success, 2 when no command is given, 1 on any other error.
func ExecuteContext(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg := defaultConfig()
	root := buildRootCmdWith(cfg, stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if werr := metrics.WriteTextfile(cfg.MetricsFile); werr != nil {
		fmt.Fprintf(stderr, "fastllm-build: write metrics: %v\n", werr)
	}
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errNoCommand):
		return 2
	default:
		fmt.Fprintf(stderr, "fastllm-build: %v\n", err)
		return 1
	}
}

// MainWithArgs is a testable variant of Main that accepts args explicitly.
func MainWithArgs(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return ExecuteContext(ctx, args, os.Stdout, os.Stderr)
}

// Main returns an exit code for use by cmd/fastllm-build.
func Main() int { return MainWithArgs(os.Args[1:]) }
