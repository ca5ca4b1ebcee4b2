// Package dbg reduces a BWT to an edge-minimal de Bruijn graph and derives
// the tunnel structure of the TFM-index from it.
//
// FindMinDBG searches the order k of the graph: for every k in the
// configured range it computes the k-mer interval bounds B_k of the BWT by
// LF-refinement and tries to collapse the collapsible intervals under two
// marking rules (see MarkPrefixIntervals). Every candidate is validated by
// replaying the tunneled backward walk against the plain LF walk of the
// input BWT, so an accepted candidate is correct by construction and the
// untunneled index remains as the fallback when nothing smaller survives.
package dbg

import (
	"log"

	"tfmindex/bitvec"
	"tfmindex/wavelet"
)

// Rule selects how collapsible intervals are marked.
type Rule int

const (
	// RuleNone collapses nothing; dout = din = all ones.
	RuleNone Rule = iota
	// RulePrefixIntervals collapses an interval whose last-column
	// characters are uniform against its LF-image interval.
	RulePrefixIntervals
	// RuleInRuns collapses an interval whose inverse-LF source run is
	// contiguous against that run. This is the rule that collapses
	// single-character runs.
	RuleInRuns
)

func (r Rule) String() string {
	switch r {
	case RulePrefixIntervals:
		return "prefix-intervals"
	case RuleInRuns:
		return "in-runs"
	default:
		return "none"
	}
}

// Config bounds the de-Bruijn-graph order search and points construction at
// a scratch directory for the compaction buffer.
type Config struct {
	KMin int
	KMax int
	// CacheDir receives the temporary buffer for the compacted L.
	// Empty means in-memory compaction.
	CacheDir string
	// Quiet suppresses construction progress logging.
	Quiet bool
}

// DefaultConfig mirrors the defaults of the construction CLI.
func DefaultConfig() Config {
	return Config{KMin: 1, KMax: 8}
}

// Result reports the chosen graph parameters.
type Result struct {
	K          int
	Rule       Rule
	Nodes      uint64 // popcount of the chosen B
	RemnantLen uint64 // length of the tunneled L
}

// FindMinDBG computes a bitvector B of length wt.Len() marking the first
// row of every node interval of the chosen de Bruijn graph, together with
// the marking rule under which the graph collapses best. The all-singleton
// graph (B all ones, RuleNone) is returned when no collapse verifies.
func FindMinDBG(wt *wavelet.Wavelet, c []uint64, cfg Config) (Result, *bitvec.Vector, error) {
	n := wt.Len()
	refRev := lfWalk(wt, c, n)

	best := Result{K: 0, Rule: RuleNone, Nodes: n, RemnantLen: n}
	bestB := bitvec.Ones(n)

	b := firstOrderBounds(wt, c)
	for k := 1; k <= cfg.KMax; k++ {
		if k > 1 {
			b = refine(wt, c, b)
		}
		if k >= cfg.KMin {
			for _, rule := range []Rule{RulePrefixIntervals, RuleInRuns} {
				dout, din := MarkPrefixIntervals(wt, c, b, rule)
				newL, ndout, ndin, err := Compact(wt, dout, din, "")
				if err != nil {
					// a marking that cannot compact is just not a candidate
					continue
				}
				m := uint64(len(newL))
				if m >= best.RemnantLen {
					continue
				}
				if !verifyCandidate(newL, ndout, ndin, refRev) {
					continue
				}
				best = Result{K: k, Rule: rule, Nodes: b.PopCount(), RemnantLen: m}
				bestB = b.Clone()
			}
		}
		if b.PopCount() == n {
			break
		}
	}
	if !cfg.Quiet {
		log.Printf("dbg: min graph at k=%d rule=%s nodes=%d remnant=%d/%d",
			best.K, best.Rule, best.Nodes, best.RemnantLen, n)
	}
	return best, bestB, nil
}

// firstOrderBounds marks the order-1 intervals: row 0 plus every F-column
// character boundary.
func firstOrderBounds(wt *wavelet.Wavelet, c []uint64) *bitvec.Vector {
	n := wt.Len()
	b := bitvec.New(n)
	b.Set(0)
	for sym := 0; sym+1 < len(c); sym++ {
		if c[sym] < c[sym+1] && c[sym] < n {
			b.Set(c[sym])
		}
	}
	return b
}

// refine turns the order-k interval bounds into the order-(k+1) bounds:
// the LF image of every (interval, symbol) pair starts a finer interval,
// and the finer partition keeps every existing bound.
func refine(wt *wavelet.Wavelet, c []uint64, b *bitvec.Vector) *bitvec.Vector {
	n := wt.Len()
	nb := bitvec.New(n)
	forEachInterval(b, n, func(a, e uint64) {
		for _, run := range wt.RangeDistinct(a, e) {
			nb.Set(c[run.Sym] + run.RankAt)
		}
	})
	return nb
}

// forEachInterval calls f(a, b) for every maximal interval [a, b) between
// consecutive set bits of bounds.
func forEachInterval(bounds *bitvec.Vector, n uint64, f func(a, b uint64)) {
	var a uint64
	for i := uint64(1); i < n; i++ {
		if bounds.Get(i) {
			f(a, i)
			a = i
		}
	}
	if n > 0 {
		f(a, n)
	}
}

// lfWalk emits `steps` characters of the plain LF walk starting at row 0,
// i.e. the text in reverse.
func lfWalk(wt *wavelet.Wavelet, c []uint64, steps uint64) []uint64 {
	out := make([]uint64, 0, steps)
	var i uint64
	for s := uint64(0); s < steps; s++ {
		r, sym := wt.InverseSelect(i)
		out = append(out, sym)
		i = c[sym] + r
	}
	return out
}

// verifyCandidate replays len(refRev)-1 backward steps on the compacted
// candidate and accepts it only if every emitted character matches the
// reference walk and no select/rank leaves its range. The final reference
// character (the terminator edge) is intentionally excluded: a fully
// collapsed run drops the terminator row, and the navigator never has to
// emit it.
func verifyCandidate(newL []uint64, ndout, ndin *bitvec.Vector, refRev []uint64) bool {
	if ndout.PopCount() != ndin.PopCount() {
		return false
	}
	t := newTrial(newL, ndout, ndin)
	var i, o uint64
	for s := 0; s+1 < len(refRev); s++ {
		var sym uint64
		var ok bool
		i, o, sym, ok = t.step(i, o)
		if !ok || sym != refRev[s] {
			return false
		}
	}
	return true
}
