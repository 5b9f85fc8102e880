package dbtypes

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCartLinesValueEmptyIsArray(t *testing.T) {
	v, err := CartLines(nil).Value()
	require.NoError(t, err)
	require.Equal(t, "[]", v)
}

func TestCartLinesScanRoundTrip(t *testing.T) {
	lines := CartLines{{
		ID:       "mug-1",
		Name:     "London Signature Mug",
		Price:    decimal.RequireFromString("14.99"),
		Quantity: 2,
		Color:    "White",
		Size:     "Large",
	}}
	v, err := lines.Value()
	require.NoError(t, err)
	require.Contains(t, v, `"price":"14.99"`)

	var scanned CartLines
	require.NoError(t, scanned.Scan([]byte(v.(string))))
	require.Len(t, scanned, 1)
	require.True(t, scanned[0].Price.Equal(lines[0].Price))
	require.Equal(t, "Large", scanned[0].Size)
}

func TestCartLinesScanNilAndGarbage(t *testing.T) {
	var lines CartLines
	require.NoError(t, lines.Scan(nil))
	require.NotNil(t, lines)
	require.Empty(t, lines)

	require.Error(t, lines.Scan("not-json"))
	require.Error(t, lines.Scan(42))
}
