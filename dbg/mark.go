package dbg

import (
	"sort"

	"tfmindex/bitvec"
	"tfmindex/wavelet"
)

// MarkPrefixIntervals expands the node bounds B into the tunnel bitvector
// pair (dout, din), both of length wt.Len()+1 with the sentinel bit set.
// For every collapsible interval the interior 1-bits of din are cleared on
// the entry column and the interior 1-bits of dout on the exit column, so
// that afterwards
//
//	dout[i] = 0  iff row i is a non-first outgoing edge of a collapsed node,
//	din[i]  = 0  iff row i is a non-first incoming edge of a collapsed tunnel.
//
// Which intervals count as collapsible depends on the rule:
//
//   - RulePrefixIntervals: the interval carries a single distinct character,
//     so its rows step into a common LF-image interval in lockstep. The
//     interval itself is the entry column, its LF image the exit column.
//     Self-overlapping pairs are skipped; they do not step in lockstep.
//   - RuleInRuns: the rows feeding the interval under LF form one
//     contiguous run of equal characters. The interval is the entry column,
//     the source run the exit column. Overlap is allowed here: it is what
//     folds a single-character run onto itself.
func MarkPrefixIntervals(wt *wavelet.Wavelet, c []uint64, b *bitvec.Vector, rule Rule) (dout, din *bitvec.Vector) {
	n := wt.Len()
	dout = bitvec.Ones(n + 1)
	din = bitvec.Ones(n + 1)
	if rule == RuleNone {
		return dout, din
	}

	forEachInterval(b, n, func(a, e uint64) {
		w := e - a
		if w < 2 {
			return
		}
		switch rule {
		case RulePrefixIntervals:
			runs := wt.RangeDistinct(a, e)
			if len(runs) != 1 {
				return
			}
			s := c[runs[0].Sym] + runs[0].RankAt
			if a < s+w && s < e {
				return
			}
			din.ClearRange(a+1, e)
			dout.ClearRange(s+1, s+w)
		case RuleInRuns:
			sym, ok := symbolRegion(c, a)
			if !ok || e > c[sym+1] {
				return
			}
			p0 := wt.Select(sym, a-c[sym])
			p1 := wt.Select(sym, e-1-c[sym])
			if p0 >= n || p1 >= n || p1-p0 != w-1 {
				return
			}
			din.ClearRange(a+1, e)
			dout.ClearRange(p0+1, p0+w)
		}
	})
	return dout, din
}

// symbolRegion finds the symbol whose F-column region [C[sym], C[sym+1])
// contains row a.
func symbolRegion(c []uint64, a uint64) (uint64, bool) {
	// first index with C value > a; the region owner is one to its left
	idx := sort.Search(len(c), func(i int) bool { return c[i] > a })
	if idx == 0 || idx >= len(c) {
		return 0, false
	}
	return uint64(idx - 1), true
}
