package resolve

import "math"

// Share pairs a label with its raw count or reported score. Slice order is
// significant: ties are broken by first position.
type Share struct {
	Label string
	Value float64
}

// Normalize converts raw shares into integer percentages summing to exactly
// 100 whenever the total is positive. Each share is rounded to the nearest
// integer independently and the entire rounding residual is added to the
// label with the largest original float share.
func Normalize(shares []Share) map[string]int {
	total := 0.0
	for _, s := range shares {
		total += s.Value
	}

	out := make(map[string]int, len(shares))
	if total <= 0 {
		for _, s := range shares {
			out[s.Label] = 0
		}
		return out
	}

	rounded := 0
	largest := -1
	largestShare := math.Inf(-1)
	for i, s := range shares {
		pct := s.Value * 100.0 / total
		out[s.Label] = int(math.Round(pct))
		rounded += out[s.Label]
		if pct > largestShare {
			largestShare = pct
			largest = i
		}
	}

	if diff := 100 - rounded; diff != 0 && largest >= 0 {
		out[shares[largest].Label] += diff
	}
	return out
}

// NormalizeThreshold zeroes any share whose reported value falls below the
// threshold and renormalizes the rest to 100. If thresholding zeroes
// everything, the single highest original share collapses to 100.
func NormalizeThreshold(shares []Share, threshold float64) map[string]int {
	kept := make([]Share, len(shares))
	copy(kept, shares)

	remaining := 0.0
	for i := range kept {
		if kept[i].Value < threshold {
			kept[i].Value = 0
		}
		remaining += kept[i].Value
	}

	if remaining == 0 {
		top := 0
		for i, s := range shares {
			if s.Value > shares[top].Value {
				top = i
			}
		}
		out := make(map[string]int, len(shares))
		for i, s := range shares {
			if i == top {
				out[s.Label] = 100
			} else {
				out[s.Label] = 0
			}
		}
		return out
	}

	return Normalize(kept)
}

// TopLabel returns the label with the highest percentage, breaking ties by
// the order slice.
func TopLabel(percentages map[string]int, order []string) string {
	best := ""
	bestVal := math.MinInt32
	for _, label := range order {
		if val, ok := percentages[label]; ok && val > bestVal {
			best = label
			bestVal = val
		}
	}
	return best
}
