package buildctl

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"fastllm-build/internal/config"
	"fastllm-build/internal/extension"
)

// checkCompiler makes sure the C++ compiler is on PATH before any work starts.
func checkCompiler(tc config.Toolchain) error {
	if _, err := fnLookPath(tc.CXX); err != nil {
		return fmt.Errorf("%w: compiler %q not found: %w", errToolchain, tc.CXX, err)
	}
	return nil
}

// probeToolchain asks the python installation for pybind11 include flags and
// the extension module suffix. Both are optional: failures are logged and the
// build continues with no extra includes and a plain .so suffix.
func probeToolchain(ctx context.Context, tc config.Toolchain, log zerolog.Logger) extension.Toolchain {
	out := extension.Toolchain{CXX: tc.CXX, ExtSuffix: ".so"}

	inc, err := fnCapture(ctx, tc.Python, "-m", "pybind11", "--includes")
	if err != nil {
		log.Warn().Err(err).Msg("pybind11 include probe failed; continuing without python includes")
	} else {
		out.IncludeFlags = strings.Fields(inc)
	}

	suffix, err := fnCapture(ctx, tc.PythonConfig, "--extension-suffix")
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("extension suffix probe failed; using .so")
	case suffix != "":
		out.ExtSuffix = suffix
	}
	log.Debug().Str("cxx", out.CXX).Strs("includes", out.IncludeFlags).Str("suffix", out.ExtSuffix).Msg("toolchain")
	return out
}
