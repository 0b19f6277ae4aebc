// Package config loads the generator's tunables (block size, minimum
// extent size, step size, write-chunk size) from an optional YAML
// file, with CLI flags layered on top as explicit overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"imgsplice/internal/core"
)

// File is the on-disk shape of an optional --config YAML file. Zero
// values mean "not set, use the default / flag value."
type File struct {
	BlockSize      int64 `yaml:"block_size"`
	MinExtentSize  int64 `yaml:"min_extent_size"`
	StepSize       int64 `yaml:"step_size"`
	WriteChunkSize int64 `yaml:"write_chunk_size"`
}

// Load reads and parses a YAML config file.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return f, nil
}

// Merge layers a loaded File's non-zero fields over base, returning
// the resulting core.Config. Flags are applied by the caller after
// Merge, by further overwriting fields that were explicitly set on
// the command line.
func Merge(base core.Config, f File) core.Config {
	out := base
	if f.BlockSize != 0 {
		out.BlockSize = f.BlockSize
	}
	if f.MinExtentSize != 0 {
		out.MinExtentSize = f.MinExtentSize
	}
	if f.StepSize != 0 {
		out.StepSize = f.StepSize
	}
	if f.WriteChunkSize != 0 {
		out.WriteChunkSize = f.WriteChunkSize
	}
	return out
}
