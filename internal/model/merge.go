package model

import "sort"

// Merge returns the union of a and b ordered by open time with no duplicate open times.
// On collision the kline from b wins: it carries newer data for a candle that may still have been open.
// a is reused when b lies strictly after it.
func Merge(a, b []Kline) []Kline {
	if len(b) == 0 {
		return a
	}
	if isStrictlyAscending(b) && (len(a) == 0 || b[0].OpenTime.After(a[len(a)-1].OpenTime)) {
		return append(a, b...)
	}

	all := make([]Kline, 0, len(a)+len(b))
	all = append(all, a...)
	all = append(all, b...)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].OpenTime.Before(all[j].OpenTime)
	})

	// Stable sort keeps b after a for equal open times; keep the last of each run.
	out := all[:0]
	for i := range all {
		if i+1 < len(all) && all[i+1].OpenTime.Equal(all[i].OpenTime) {
			continue
		}
		out = append(out, all[i])
	}
	return out
}

func isStrictlyAscending(ks []Kline) bool {
	for i := 1; i < len(ks); i++ {
		if !ks[i].OpenTime.After(ks[i-1].OpenTime) {
			return false
		}
	}
	return true
}
