package bwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func symbols(s string) []uint64 {
	out := make([]uint64, len(s))
	for i := range s {
		out[i] = uint64(s[i])
	}
	return out
}

func TestTransform(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		text string
		want string
	}{
		"banana":          {"banana$", "annb$aa"},
		"mississippi":     {"mississippi$", "ipssm$pissii"},
		"terminator only": {"$", "$"},
		"single run":      {"aaaa$", "aaaa$"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			l, err := Transform(symbols(tc.text))
			require.NoError(t, err)
			require.Equal(t, symbols(tc.want), l)
		})
	}
}

func TestTransformLFWalk(t *testing.T) {
	t.Parallel()
	// the LF walk over (L, C) from row 0 must spell the text backwards
	text := symbols("abracadabra$")
	l, err := Transform(text)
	require.NoError(t, err)
	c := SymbolFrequencies(l)

	rank := func(pos uint64, val uint64) uint64 {
		var n uint64
		for _, v := range l[:pos] {
			if v == val {
				n++
			}
		}
		return n
	}
	var i uint64
	for step := 0; step < len(text); step++ {
		sym := l[i]
		require.Equal(t, text[(len(text)-2-step+len(text))%len(text)], sym, "step %d", step)
		i = c[sym] + rank(i, sym)
	}
	require.Equal(t, uint64(0), i, "the walk must close its cycle")
}

func TestTransformRejectsBadTerminator(t *testing.T) {
	t.Parallel()
	_, err := Transform(symbols("banana"))
	assert.Error(t, err, "no terminator")
	_, err = Transform(symbols("ba$na$"))
	assert.Error(t, err, "terminator not unique")
	_, err = Transform(nil)
	assert.Error(t, err, "empty text")
}

func TestSymbolFrequencies(t *testing.T) {
	t.Parallel()
	l := symbols("annb$aa")
	c := SymbolFrequencies(l)
	require.Len(t, c, int('n')+2)
	assert.Equal(t, uint64(0), c['$'])
	assert.Equal(t, uint64(1), c['a'])
	assert.Equal(t, uint64(4), c['b'])
	assert.Equal(t, uint64(5), c['n'])
	assert.Equal(t, uint64(7), c['n'+1])
}
