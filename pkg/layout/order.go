package layout

// Pair is an unordered pair of organism keys, stored with A <= B.
type Pair struct{ A, B string }

// MakePair normalizes two keys into a Pair.
func MakePair(a, b string) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{a, b}
}

// PairCounts tallies how many double metabolites link each organism pair.
// Pairs keep the order in which they were first counted.
type PairCounts struct {
	counts map[Pair]int
	order  []Pair
	// firstSeen records, per pair, the organism encountered first, so the
	// seed of an ordering follows encounter order rather than key order.
	firstSeen map[Pair]string
}

// NewPairCounts returns an empty tally.
func NewPairCounts() *PairCounts {
	return &PairCounts{counts: make(map[Pair]int), firstSeen: make(map[Pair]string)}
}

// Add counts one double metabolite between a and b. Self pairs are ignored.
func (pc *PairCounts) Add(a, b string) {
	if a == b {
		return
	}
	p := MakePair(a, b)
	if _, ok := pc.counts[p]; !ok {
		pc.order = append(pc.order, p)
		pc.firstSeen[p] = a
	}
	pc.counts[p]++
}

// Count returns the tally of the pair (a, b).
func (pc *PairCounts) Count(a, b string) int { return pc.counts[MakePair(a, b)] }

// Len returns the number of distinct pairs.
func (pc *PairCounts) Len() int { return len(pc.order) }

// Max returns the first-counted pair with the highest tally.
func (pc *PairCounts) Max() (Pair, int, bool) {
	var best Pair
	n := 0
	for _, p := range pc.order {
		if c := pc.counts[p]; c > n {
			best, n = p, c
		}
	}
	return best, n, n > 0
}

// OrderOrganisms arranges organisms on the ring so that organisms sharing
// many double metabolites sit next to each other.
//
// The ordering starts with the most frequent pair. It then repeatedly
// appends the unplaced organism with the highest tally against the last
// placed one; when no tally favors any candidate, the first unplaced
// organism in input order follows. Ties go to the earlier candidate.
func OrderOrganisms(organisms []string, pc *PairCounts) []string {
	if len(organisms) == 0 {
		return nil
	}
	if pc == nil {
		pc = NewPairCounts()
	}
	known := make(map[string]bool, len(organisms))
	for _, o := range organisms {
		known[o] = true
	}

	placed := make(map[string]bool, len(organisms))
	order := make([]string, 0, len(organisms))
	place := func(o string) {
		placed[o] = true
		order = append(order, o)
	}

	if p, _, ok := pc.Max(); ok && known[p.A] && known[p.B] {
		first := pc.firstSeen[p]
		second := p.B
		if first == p.B {
			second = p.A
		}
		place(first)
		place(second)
	} else {
		place(organisms[0])
	}

	for len(order) < len(organisms) {
		last := order[len(order)-1]
		next, best := "", 0
		for _, c := range organisms {
			if placed[c] {
				continue
			}
			if n := pc.Count(last, c); n > best {
				next, best = c, n
			}
		}
		if next == "" {
			for _, c := range organisms {
				if !placed[c] {
					next = c
					break
				}
			}
		}
		place(next)
	}
	return order
}
