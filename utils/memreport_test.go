package utils

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() MemReport {
	r := Node("tfm_index",
		Leaf("text_len", 9),
		Leaf("L", 872),
		Leaf("dout", 119),
	)
	r.TotalBytes += 12 // header bytes outside any field
	return r
}

func TestNodeSumsChildren(t *testing.T) {
	t.Parallel()
	r := Node("root", Leaf("a", 10), Leaf("b", 30))
	assert.Equal(t, 40, r.TotalBytes)
	require.Len(t, r.Children, 2)
	assert.Equal(t, "a", r.Children[0].Name)
}

func TestStringRendersSharesPerLine(t *testing.T) {
	t.Parallel()
	s := sampleReport().String()
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "tfm_index")
	assert.Contains(t, lines[0], "1012 B")
	assert.Contains(t, lines[0], "100.0%")
	assert.Contains(t, lines[2], "  L")
	assert.Contains(t, lines[2], "872 B")
	assert.Contains(t, lines[2], "86.2%")
}

func TestStringOnEmptyReport(t *testing.T) {
	t.Parallel()
	s := Leaf("empty", 0).String()
	assert.Contains(t, s, "empty")
	assert.Contains(t, s, "0 B")
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()
	s, err := sampleReport().JSON()
	require.NoError(t, err)

	var back MemReport
	require.NoError(t, json.Unmarshal([]byte(s), &back))
	assert.Equal(t, sampleReport(), back)
}
