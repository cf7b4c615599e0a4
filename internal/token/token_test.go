package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupIdentifier(t *testing.T) {
	require.Equal(t, DEF, LookupIdentifier("def"))
	require.Equal(t, NOT, LookupIdentifier("not"))
	require.Equal(t, TRUE, LookupIdentifier("True"))
	require.Equal(t, IDENT, LookupIdentifier("definitely"))
	require.Equal(t, IDENT, LookupIdentifier("true"))
}

func TestPositionNumbers(t *testing.T) {
	p := Position{Line: 2, Column: 4}
	require.Equal(t, 3, p.LineNumber())
	require.Equal(t, 5, p.ColumnNumber())
}
