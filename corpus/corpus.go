// Package corpus loads example clusters and test suites from YAML files.
package corpus

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cloudcmds/refit/fix"
)

// File is the on-disk corpus format: mistake clusters of before/after
// example pairs, the unit-test fragments with their expected exit
// statuses, and optional static tests.
type File struct {
	Clusters    []ClusterSpec    `yaml:"clusters"`
	Tests       map[string]int   `yaml:"tests"`
	StaticTests *fix.StaticTests `yaml:"static_tests"`
}

// ClusterSpec is one named cluster of example pairs.
type ClusterSpec struct {
	Name     string        `yaml:"name"`
	Examples []ExampleSpec `yaml:"examples"`
}

// ExampleSpec is one before/after source pair.
type ExampleSpec struct {
	Before string `yaml:"before"`
	After  string `yaml:"after"`
}

// Load reads and decodes a corpus file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: %w", err)
	}
	return Parse(data)
}

// Parse decodes a corpus file from bytes.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("corpus: %w", err)
	}
	return &f, nil
}

// BuildClusters parses every example pair and returns the clusters ready
// for learning.
func (f *File) BuildClusters(ctx context.Context) ([]*fix.Cluster, error) {
	out := make([]*fix.Cluster, 0, len(f.Clusters))
	for _, spec := range f.Clusters {
		pairs := make([][2]string, 0, len(spec.Examples))
		for _, ex := range spec.Examples {
			pairs = append(pairs, [2]string{ex.Before, ex.After})
		}
		cluster, err := fix.NewCluster(ctx, spec.Name, pairs)
		if err != nil {
			return nil, fmt.Errorf("corpus: cluster %q: %w", spec.Name, err)
		}
		out = append(out, cluster)
	}
	return out, nil
}
