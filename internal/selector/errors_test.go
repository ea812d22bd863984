package selector

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestErrorPredicates(t *testing.T) {
	ce := ErrConfiguration("cuda", Linkage{Libraries: []string{"cublas"}})
	if !IsConfiguration(ce) || IsDiscovery(ce) {
		t.Fatalf("configuration predicates wrong for %v", ce)
	}
	if !IsConfiguration(fmt.Errorf("collect: %w", ce)) {
		t.Fatalf("wrapped configuration error not recognised")
	}

	de := ErrDiscovery("/src", os.ErrNotExist)
	if !IsDiscovery(de) || IsConfiguration(de) {
		t.Fatalf("discovery predicates wrong for %v", de)
	}
	if !errors.Is(de, os.ErrNotExist) {
		t.Fatalf("discovery error should unwrap to its cause")
	}
	if IsDiscovery(errors.New("plain")) || IsConfiguration(nil) {
		t.Fatalf("plain errors must not match")
	}
}

func TestConfigurationErrorMessage(t *testing.T) {
	cases := []struct {
		linkage Linkage
		want    string
	}{
		{Linkage{}, "configuration: cuda backend is not implemented"},
		{Linkage{Libraries: []string{"cublas"}}, "configuration: cuda backend is not implemented (requires libraries: cublas)"},
		{
			Linkage{Libraries: []string{"cublas", "cudart"}, RuntimeLibraryDirs: []string{"/usr/local/cuda/lib64/"}},
			"configuration: cuda backend is not implemented (requires libraries: cublas, cudart; runtime search paths: /usr/local/cuda/lib64/)",
		},
	}
	for _, c := range cases {
		if got := ErrConfiguration("cuda", c.linkage).Error(); got != c.want {
			t.Fatalf("got %q, want %q", got, c.want)
		}
	}
}
