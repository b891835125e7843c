// Copyright 2024 The Falcon Contributors
// Use of this source code is governed by the GNU General Public License,
// version 3 or later; see the repository root for the full text.

// Package cfconfig loads tuning knobs for the control-flow cleanup pass
// from a YAML file, following the key=value-sparse, struct-tagged
// configuration style the rest of the retrieved pack uses for its own
// analysis configuration (nilaway's config package being the clearest
// example: a small struct, yaml tags, a loader that defaults on a missing
// file rather than erroring).
package cfconfig

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the Driver's tunable behavior. Every field has a safe
// zero-file default so a caller can skip Load entirely for the common
// case of "just run the pass".
type Config struct {
	// Debug sets the Pass's Debug level to 1 (0 when false). The pass
	// itself emits no trace output based on it.
	Debug bool `yaml:"debug"`

	// DumpEachRound takes one DumpCompressed snapshot of the graph once
	// the switch-simplification fixpoint and the single Block Optimizer
	// pass have both run, and only when Func.Logger.Log() reports true;
	// the snapshot's compressed size is logged through Func.Logf and the
	// bytes themselves are discarded. Off by default.
	DumpEachRound bool `yaml:"dump_each_round"`

	// MaxFixpointIterations overrides the Driver's built-in safety cap on
	// the {collect, simplify switches} inner loop. Zero means "use the
	// built-in default".
	MaxFixpointIterations int `yaml:"max_fixpoint_iterations"`
}

// Default returns the configuration OptimizeCF uses when no file is
// supplied.
func Default() *Config {
	return &Config{}
}

// Load reads a Config from the YAML file at path. A missing file is not
// an error: it yields Default(), matching the "absent config is the
// default config" convention the pack's own config loaders follow.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
