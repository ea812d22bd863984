package selector

import (
	"errors"
	"strings"
)

// configurationError signals a requested backend that this build cannot produce.
// It is fatal: callers must abort instead of falling back to a CPU-only artifact.
type configurationError struct {
	backend string
	linkage Linkage
}

func (e configurationError) Error() string {
	var b strings.Builder
	b.WriteString("configuration: ")
	b.WriteString(e.backend)
	b.WriteString(" backend is not implemented")
	if len(e.linkage.Libraries) > 0 {
		b.WriteString(" (requires libraries: ")
		b.WriteString(strings.Join(e.linkage.Libraries, ", "))
		if len(e.linkage.RuntimeLibraryDirs) > 0 {
			b.WriteString("; runtime search paths: ")
			b.WriteString(strings.Join(e.linkage.RuntimeLibraryDirs, ", "))
		}
		b.WriteString(")")
	}
	return b.String()
}

// ErrConfiguration constructs a configurationError for the named backend.
func ErrConfiguration(backend string, linkage Linkage) error {
	return configurationError{backend: backend, linkage: linkage}
}

// IsConfiguration reports whether err (or anything it wraps) is a configuration error.
func IsConfiguration(err error) bool {
	var ce configurationError
	return errors.As(err, &ce)
}

// discoveryError signals a missing or unreadable source tree.
type discoveryError struct {
	path string
	err  error
}

func (e discoveryError) Error() string { return "discovery: " + e.path + ": " + e.err.Error() }

func (e discoveryError) Unwrap() error { return e.err }

// ErrDiscovery wraps a filesystem error encountered while reading path.
func ErrDiscovery(path string, err error) error { return discoveryError{path: path, err: err} }

// IsDiscovery reports whether err (or anything it wraps) is a discovery error.
func IsDiscovery(err error) bool {
	var de discoveryError
	return errors.As(err, &de)
}
