package buildctl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Cmd describes one external process invocation.
type Cmd struct {
	Path string
	Args []string
	Env  map[string]string // additional env vars
	Dir  string            // working directory
	// Stream sends stdout/stderr line by line to Log, tagged with Prefix,
	// so output of parallel compilers stays attributable.
	Stream bool
	Prefix string
	Log    zerolog.Logger
}

func (c Cmd) command(ctx context.Context) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	if c.Dir != "" {
		cmd.Dir = c.Dir
	}
	// inherit environment
	cmd.Env = os.Environ()
	for k, v := range c.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}
	return cmd
}

// RunCmd runs c to completion.
func RunCmd(ctx context.Context, c Cmd) error {
	cmd := c.command(ctx)
	if !c.Stream {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		return cmd.Run()
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); stream(c.Log, c.Prefix, zerolog.InfoLevel, stdout) }()
	go func() { defer wg.Done(); stream(c.Log, c.Prefix, zerolog.WarnLevel, stderr) }()
	// pipes must be drained before Wait closes them
	wg.Wait()
	return cmd.Wait()
}

// Capture runs name and returns its trimmed stdout. Stderr is folded into the error.
func Capture(ctx context.Context, name string, args ...string) (string, error) {
	cmd := Cmd{Path: name, Args: args}.command(ctx)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return strings.TrimSpace(string(out)), nil
}

func stream(log zerolog.Logger, prefix string, lvl zerolog.Level, r io.Reader) {
	s := bufio.NewScanner(r)
	for s.Scan() {
		log.WithLevel(lvl).Str("src", prefix).Msg(s.Text())
	}
}
