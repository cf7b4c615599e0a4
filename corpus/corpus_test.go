package corpus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

const sample = `
clusters:
  - name: wrong-init
    examples:
      - before: |
          x = 0
        after: |
          x = 1
      - before: |
          y = 0
        after: |
          y = 1
tests:
  "assert accumulate(1) == 1": 0
  "assert accumulate(3) == 6": 0
static_tests:
  function: accumulate
  forbidden: [recursion, while]
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.Len(t, f.Clusters, 1)
	require.Equal(t, "wrong-init", f.Clusters[0].Name)
	require.Len(t, f.Clusters[0].Examples, 2)
	require.Len(t, f.Tests, 2)
	require.Equal(t, 0, f.Tests["assert accumulate(1) == 1"])
	require.NotNil(t, f.StaticTests)
	require.Equal(t, "accumulate", f.StaticTests.FunctionName)
	require.Equal(t, []string{"recursion", "while"}, f.StaticTests.Forbidden)
}

func TestBuildClusters(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)
	clusters, err := f.BuildClusters(context.Background())
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	require.Equal(t, "wrong-init", clusters[0].Name)
	require.Len(t, clusters[0].Examples, 2)
	require.NotEqual(t, "", clusters[0].ID.String())
	require.NotNil(t, clusters[0].Examples[0].Example.Before)
}

func TestBuildClustersParseError(t *testing.T) {
	f, err := Parse([]byte("clusters:\n  - name: bad\n    examples:\n      - before: 'def f(:'\n        after: 'x = 1'\n"))
	require.NoError(t, err)
	_, err = f.BuildClusters(context.Background())
	require.Error(t, err)
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("clusters: ["))
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("does-not-exist.yaml")
	require.Error(t, err)
}
