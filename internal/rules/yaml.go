package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML rule file into a compiled Set. A file may carry any
// mix of the four rule kinds under target_rules / context_rules /
// section_rules / postprocess_rules.
func LoadFile(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("read rules %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes YAML rule data. name is used in error messages only.
func Parse(data []byte, name string) (Set, error) {
	var s Set
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Set{}, fmt.Errorf("parse rules %s: %w", name, err)
	}
	if err := s.Compile(); err != nil {
		return Set{}, fmt.Errorf("rules %s: %w", name, err)
	}
	return s, nil
}

// LoadFiles loads and merges any number of rule files. Empty paths are
// skipped so callers can pass optional config values directly.
func LoadFiles(paths ...string) (Set, error) {
	var merged Set
	for _, p := range paths {
		if p == "" {
			continue
		}
		s, err := LoadFile(p)
		if err != nil {
			return Set{}, err
		}
		merged.Merge(s)
	}
	return merged, nil
}
