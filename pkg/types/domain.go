package types

// BuildConfig selects the backend variant of a build.
// It is constructed once at process entry and passed by value afterwards.
type BuildConfig struct {
	// Accelerated requests the CUDA backend sources and linkage.
	Accelerated bool `json:"accelerated" yaml:"accelerated" toml:"accelerated"`
}

// SourceSet is the filtered, ordered list of translation units handed to a compiler.
type SourceSet []string

// Len reports the number of sources.
func (s SourceSet) Len() int { return len(s) }

// Contains reports whether path is part of the set.
func (s SourceSet) Contains(path string) bool {
	for _, p := range s {
		if p == path {
			return true
		}
	}
	return false
}
