// Package config loads the two switches that govern how a caller uses the
// commit-graph file: whether to write one during garbage collection, and
// whether to consult one when reading (§6).
package config

import (
	"io"
	"os"

	"gopkg.in/yaml.v2"
)

// Config holds the two boolean switches named in §6.
type Config struct {
	// WriteDuringGC, when true, tells a GC orchestrator to regenerate the
	// commit-graph file as part of its run.
	WriteDuringGC bool `yaml:"writeDuringGC"`
	// UseOnRead, when true, tells a revision walker to consult the
	// commit-graph file before falling back to the raw object database.
	UseOnRead bool `yaml:"useOnRead"`
}

// Default matches git's own default: both switches off until a repository
// opts in.
func Default() Config {
	return Config{WriteDuringGC: false, UseOnRead: false}
}

// Load reads a YAML document from path and decodes it into a Config,
// starting from Default so a document that only sets one field leaves the
// other at its default rather than zeroing it.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a YAML document from r into a Config, starting from
// Default.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, err
	}
	return cfg, nil
}
