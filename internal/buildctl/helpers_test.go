package buildctl

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

// withStubs restores the external-action indirections after the test.
func withStubs(t *testing.T) {
	t.Helper()
	oldRun, oldCapture, oldLook := fnRunCmd, fnCapture, fnLookPath
	t.Cleanup(func() {
		fnRunCmd, fnCapture, fnLookPath = oldRun, oldCapture, oldLook
	})
}

// clearEnv unsets every variable that seeds flag defaults.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"FASTLLM_ROOT", "FASTLLM_BUILD_CONFIG", "FASTLLM_BUILD_LOG_LEVEL", "FASTLLM_BUILD_METRICS_FILE", "FASTLLM_BUILD_CUDA", "FASTLLM_BUILD_JOBS"} {
		t.Setenv(k, "")
	}
}

// makeProject lays out a miniature fastllm checkout and returns its root.
func makeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := []string{
		"src/fastllm.cpp",
		"src/model.cpp",
		"src/devices/cpu/cpudevice.cpp",
		"src/devices/cuda/cudadevice.cpp",
		"src/devices/cuda/cudadevicebatch.cpp",
		"src/devices/multicuda/multicudadevice.cpp",
		"src/models/minimax.cpp",
		"include/fastllm.h",
		"include/models/minimax.h",
	}
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("// "+f+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

type result struct {
	code   int
	stdout string
	stderr string
}

func execute(t *testing.T, args ...string) result {
	t.Helper()
	var out, errb bytes.Buffer
	code := ExecuteContext(context.Background(), args, &out, &errb)
	return result{code: code, stdout: out.String(), stderr: errb.String()}
}
