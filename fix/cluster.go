package fix

import (
	"context"
	"strings"

	"github.com/gofrs/uuid"

	"github.com/cloudcmds/refit/parser"
	"github.com/cloudcmds/refit/synth"
)

// ClusterExample is one before/after pair within a mistake cluster. The
// raw sources are kept alongside the parsed trees so that leave-one-out
// evaluation can recognize the submission currently being fixed.
type ClusterExample struct {
	BeforeSource string
	AfterSource  string
	Example      synth.Example
}

// Cluster groups example pairs that exhibit the same mistake. Programs
// learned from one cluster are tried against other submissions in ranked
// order.
type Cluster struct {
	ID       uuid.UUID
	Name     string
	Examples []ClusterExample
}

// NewCluster parses the given before/after source pairs into a cluster.
// Pairs must come in (before, after) order.
func NewCluster(ctx context.Context, name string, pairs [][2]string) (*Cluster, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	cluster := &Cluster{ID: id, Name: name}
	for _, pair := range pairs {
		before, err := parser.Parse(ctx, pair[0])
		if err != nil {
			return nil, err
		}
		after, err := parser.Parse(ctx, pair[1])
		if err != nil {
			return nil, err
		}
		cluster.Examples = append(cluster.Examples, ClusterExample{
			BeforeSource: pair[0],
			AfterSource:  pair[1],
			Example:      synth.Example{Before: before, After: after},
		})
	}
	return cluster, nil
}

// examples returns the cluster's learning examples, optionally excluding
// the example whose before-source matches the given submission.
func (c *Cluster) examples(excludeSource string) []synth.Example {
	out := make([]synth.Example, 0, len(c.Examples))
	for _, ex := range c.Examples {
		if excludeSource != "" && SameSource(ex.BeforeSource, excludeSource) {
			continue
		}
		out = append(out, ex.Example)
	}
	return out
}

// contains reports whether the cluster holds an example whose
// before-source matches the given submission.
func (c *Cluster) contains(source string) bool {
	for _, ex := range c.Examples {
		if SameSource(ex.BeforeSource, source) {
			return true
		}
	}
	return false
}

// SameSource compares two sources ignoring trailing blank space on each
// line and blank space at the ends.
func SameSource(a, b string) bool {
	return normalizeSource(a) == normalizeSource(b)
}

func normalizeSource(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
