package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveSelection(t *testing.T) {
	ObserveSelection(7, 2)
	if got := testutil.ToFloat64(sourcesSelected); got != 7 {
		t.Fatalf("sources_selected=%v", got)
	}
	if got := testutil.ToFloat64(sourcesExcluded); got != 2 {
		t.Fatalf("sources_excluded=%v", got)
	}
}

func TestObserveStep(t *testing.T) {
	okBefore := testutil.ToFloat64(stepsTotal.WithLabelValues("compile", "ok"))
	errBefore := testutil.ToFloat64(stepsTotal.WithLabelValues("link", "error"))
	ObserveStep("compile", 1500*time.Millisecond, nil)
	ObserveStep("link", time.Second, errors.New("ld failed"))
	if got := testutil.ToFloat64(stepsTotal.WithLabelValues("compile", "ok")); got != okBefore+1 {
		t.Fatalf("compile ok=%v want %v", got, okBefore+1)
	}
	if got := testutil.ToFloat64(stepsTotal.WithLabelValues("link", "error")); got != errBefore+1 {
		t.Fatalf("link error=%v want %v", got, errBefore+1)
	}
}

func TestWriteTextfile(t *testing.T) {
	if err := WriteTextfile(""); err != nil {
		t.Fatalf("empty path: %v", err)
	}
	ObserveFailure("configuration")
	p := filepath.Join(t.TempDir(), "build.prom")
	if err := WriteTextfile(p); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	body := string(b)
	for _, name := range []string{"fastllm_build_sources_selected", `fastllm_build_failures_total{kind="configuration"}`} {
		if !strings.Contains(body, name) {
			t.Fatalf("expected %s in textfile; got:\n%s", name, body)
		}
	}
}
