package dbg

import (
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tfmindex/bitvec"
	"tfmindex/bwt"
	"tfmindex/wavelet"
)

func symbols(s string) []uint64 {
	out := make([]uint64, len(s))
	for i := range s {
		out[i] = uint64(s[i])
	}
	return out
}

func buildWavelet(t *testing.T, text string) (*wavelet.Wavelet, []uint64, []uint64) {
	t.Helper()
	l, err := bwt.Transform(symbols(text))
	require.NoError(t, err)
	return wavelet.New(l), bwt.SymbolFrequencies(l), l
}

func bits(v *bitvec.Vector) []int {
	out := make([]int, v.Len())
	for i := uint64(0); i < v.Len(); i++ {
		if v.Get(i) {
			out[i] = 1
		}
	}
	return out
}

// naiveBounds marks the first row of every k-mer interval by sorting the
// rotations of the text and comparing adjacent k-prefixes.
func naiveBounds(text string, k int) []int {
	n := len(text)
	rot := make([]string, n)
	for i := 0; i < n; i++ {
		rot[i] = text[i:] + text[:i]
	}
	sort.Strings(rot)
	out := make([]int, n)
	out[0] = 1
	for i := 1; i < n; i++ {
		if rot[i][:k] != rot[i-1][:k] {
			out[i] = 1
		}
	}
	return out
}

func TestFirstOrderBounds(t *testing.T) {
	t.Parallel()
	wt, c, _ := buildWavelet(t, "banana$")
	b := firstOrderBounds(wt, c)
	assert.Equal(t, []int{1, 1, 0, 0, 1, 1, 0}, bits(b))
}

func TestRefineMatchesNaive(t *testing.T) {
	t.Parallel()
	texts := map[string]string{
		"banana":      "banana$",
		"mississippi": "mississippi$",
		"periodic":    "abcabcabcabc$",
		"run":         "aaaaaaaa$",
	}
	for name, text := range texts {
		t.Run(name, func(t *testing.T) {
			wt, c, _ := buildWavelet(t, text)
			b := firstOrderBounds(wt, c)
			for k := 1; k <= 5; k++ {
				if k > 1 {
					b = refine(wt, c, b)
				}
				require.Equal(t, naiveBounds(text, k), bits(b), "order %d", k)
			}
		})
	}
}

func TestMarkPrefixIntervalsAbab(t *testing.T) {
	t.Parallel()
	// BWT of abab$ is bb$aa; the single uniform order-1 interval is the
	// a-rows [3,5), whose LF image is [1,3)
	wt, c, _ := buildWavelet(t, "abab$")
	b := firstOrderBounds(wt, c)

	dout, din := MarkPrefixIntervals(wt, c, b, RulePrefixIntervals)
	assert.Equal(t, []int{1, 1, 0, 1, 1, 1}, bits(dout))
	assert.Equal(t, []int{1, 1, 1, 1, 0, 1}, bits(din))
}

func TestCompactAbab(t *testing.T) {
	t.Parallel()
	wt, c, _ := buildWavelet(t, "abab$")
	b := firstOrderBounds(wt, c)
	dout, din := MarkPrefixIntervals(wt, c, b, RulePrefixIntervals)

	newL, ndout, ndin, err := Compact(wt, dout, din, "")
	require.NoError(t, err)
	assert.Equal(t, symbols("bb$a"), newL)
	assert.Equal(t, []int{1, 1, 0, 1, 1}, bits(ndout))
	assert.Equal(t, []int{1, 1, 1, 0, 1}, bits(ndin))
}

func TestCompactIdentity(t *testing.T) {
	t.Parallel()
	wt, c, l := buildWavelet(t, "banana$")
	dout, din := MarkPrefixIntervals(wt, c, firstOrderBounds(wt, c), RuleNone)

	newL, ndout, ndin, err := Compact(wt, dout, din, "")
	require.NoError(t, err)
	assert.Equal(t, l, newL)
	assert.Equal(t, uint64(len(l)+1), ndout.Len())
	assert.Equal(t, uint64(len(l)+1), ndout.PopCount())
	assert.Equal(t, uint64(len(l)+1), ndin.PopCount())
}

func TestCompactThroughCacheDir(t *testing.T) {
	t.Parallel()
	wt, c, l := buildWavelet(t, "mississippi$")
	dout, din := MarkPrefixIntervals(wt, c, firstOrderBounds(wt, c), RuleNone)

	newL, _, _, err := Compact(wt, dout, din, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, l, newL)
}

func TestFindMinDBGCollapsesRun(t *testing.T) {
	t.Parallel()
	wt, c, _ := buildWavelet(t, "aaaaaaaa$")
	cfg := DefaultConfig()
	cfg.Quiet = true

	res, b, err := FindMinDBG(wt, c, cfg)
	require.NoError(t, err)
	assert.Equal(t, RuleInRuns, res.Rule)
	assert.LessOrEqual(t, res.RemnantLen, uint64(3))
	assert.Equal(t, res.Nodes, b.PopCount())
}

func TestFindMinDBGCollapsesPeriodicText(t *testing.T) {
	t.Parallel()
	wt, c, _ := buildWavelet(t, "abcabcabcabc$")
	cfg := DefaultConfig()
	cfg.Quiet = true

	res, _, err := FindMinDBG(wt, c, cfg)
	require.NoError(t, err)
	assert.Less(t, res.RemnantLen, uint64(13))
}

func TestFindMinDBGCandidatesInvert(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(5))
	texts := []string{
		"mississippi$",
		strings.Repeat("abr", 40) + "$",
		randomText(r, 300, 4) + "$",
		randomText(r, 200, 2) + "$",
	}
	cfg := DefaultConfig()
	cfg.Quiet = true
	for _, text := range texts {
		wt, c, _ := buildWavelet(t, text)
		res, b, err := FindMinDBG(wt, c, cfg)
		require.NoError(t, err)

		dout, din := MarkPrefixIntervals(wt, c, b, res.Rule)
		newL, ndout, ndin, err := Compact(wt, dout, din, "")
		require.NoError(t, err)
		require.Equal(t, res.RemnantLen, uint64(len(newL)))
		require.Equal(t, ndout.PopCount(), ndin.PopCount())

		// the chosen candidate must replay the text
		ref := lfWalk(wt, c, wt.Len())
		tr := newTrial(newL, ndout, ndin)
		var i, o uint64
		for s := 0; s+1 < len(ref); s++ {
			var sym uint64
			var ok bool
			i, o, sym, ok = tr.step(i, o)
			require.True(t, ok, "%q: step %d left the index", text, s)
			require.Equal(t, ref[s], sym, "%q: step %d", text, s)
		}
	}
}

func randomText(r *rand.Rand, n int, sigma int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteByte(byte('a' + r.Intn(sigma)))
	}
	return sb.String()
}

func TestLFWalkSpellsTextBackwards(t *testing.T) {
	t.Parallel()
	text := "banana$"
	wt, c, _ := buildWavelet(t, text)
	walk := lfWalk(wt, c, uint64(len(text)))
	want := symbols("ananab$")
	assert.Equal(t, want, walk)
}
