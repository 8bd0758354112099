package speller

import "math"

// unitDL is the optimal string alignment distance with unit costs.
func unitDL(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}
	prev2 := make([]int, lb+1)
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			x := prev[j] + 1
			if y := curr[j-1] + 1; y < x {
				x = y
			}
			if z := prev[j-1] + cost; z < x {
				x = z
			}
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				if t := prev2[j-2] + 1; t < x {
					x = t
				}
			}
			curr[j] = x
		}
		copy(prev2, prev)
		copy(prev, curr)
	}
	return prev[lb]
}

// weightedDL is unitDL with keyboard-aware substitution costs and
// configurable insertion, deletion and transposition weights.
func (s *Speller) weightedDL(a, b string) float64 {
	if isOneAdjacentSwap(a, b) {
		return s.opts.TransposeCost
	}
	insDel := s.opts.InsDelCost
	ra := []rune(a)
	rb := []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return float64(lb) * insDel
	}
	if lb == 0 {
		return float64(la) * insDel
	}
	prev2 := make([]float64, lb+1)
	prev := make([]float64, lb+1)
	curr := make([]float64, lb+1)
	for j := 1; j <= lb; j++ {
		prev[j] = float64(j) * insDel
	}
	for i := 1; i <= la; i++ {
		curr[0] = float64(i) * insDel
		for j := 1; j <= lb; j++ {
			var sub float64
			if ra[i-1] != rb[j-1] {
				sub = s.substitutionCost(ra[i-1], rb[j-1])
			}
			best := math.Min(prev[j]+insDel, math.Min(curr[j-1]+insDel, prev[j-1]+sub))
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				best = math.Min(best, prev2[j-2]+s.opts.TransposeCost)
			}
			curr[j] = best
		}
		copy(prev2, prev)
		copy(prev, curr)
	}
	return prev[lb]
}

// isOneAdjacentSwap reports whether b is a with exactly one pair of
// neighbouring runes exchanged.
func isOneAdjacentSwap(a, b string) bool {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) != len(rb) || len(ra) < 2 {
		return false
	}
	diff := -1
	for i := 0; i < len(ra); i++ {
		if ra[i] != rb[i] {
			diff = i
			break
		}
	}
	if diff == -1 || diff+1 >= len(ra) {
		return false
	}
	if ra[diff] == rb[diff+1] && ra[diff+1] == rb[diff] {
		for j := diff + 2; j < len(ra); j++ {
			if ra[j] != rb[j] {
				return false
			}
		}
		return true
	}
	return false
}

// adjacentSwaps returns every string obtained by exchanging two neighbouring
// runes of word.
func adjacentSwaps(word string) []string {
	r := []rune(word)
	var out []string
	for i := 0; i+1 < len(r); i++ {
		if r[i] == r[i+1] {
			continue
		}
		sw := make([]rune, len(r))
		copy(sw, r)
		sw[i], sw[i+1] = sw[i+1], sw[i]
		out = append(out, string(sw))
	}
	return out
}
