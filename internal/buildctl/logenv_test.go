package buildctl

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestEnvStr(t *testing.T) {
	key := "FASTLLM_ENV_STR"
	os.Unsetenv(key)
	if got := envStr(key, "def"); got != "def" {
		t.Fatalf("envStr default: got %q", got)
	}
	t.Setenv(key, "val")
	if got := envStr(key, "def"); got != "val" {
		t.Fatalf("envStr set: got %q", got)
	}
}

func TestEnvBool(t *testing.T) {
	key := "FASTLLM_ENV_BOOL"
	os.Unsetenv(key)
	if got := envBool(key, true); !got {
		t.Fatalf("envBool default true -> false")
	}
	for _, v := range []string{"1", "true", "YES"} {
		t.Setenv(key, v)
		if !envBool(key, false) {
			t.Fatalf("envBool %s -> false", v)
		}
	}
	t.Setenv(key, "no")
	if envBool(key, true) {
		t.Fatalf("envBool no -> true")
	}
}

func TestEnvInt(t *testing.T) {
	key := "FASTLLM_ENV_INT"
	os.Unsetenv(key)
	if got := envInt(key, 7); got != 7 {
		t.Fatalf("envInt default -> %d", got)
	}
	t.Setenv(key, "42")
	if got := envInt(key, 0); got != 42 {
		t.Fatalf("envInt 42 -> %d", got)
	}
	t.Setenv(key, "bad")
	if got := envInt(key, 5); got != 5 {
		t.Fatalf("envInt bad -> %d", got)
	}
}

func TestNewLogger_Levels(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"info":    zerolog.InfoLevel,
		"WARN":    zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := newLogger(&bytes.Buffer{}, in).GetLevel(); got != want {
			t.Fatalf("%q: got %v want %v", in, got, want)
		}
	}
}

func TestNewLogger_WritesConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "info")
	log.Debug().Msg("hidden")
	log.Info().Int("kept", 3).Msg("sources collected")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "sources collected") || !strings.Contains(out, "kept=3") {
		t.Fatalf("unexpected log output: %q", out)
	}
}
