package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scynet/scynet/pkg/community"
	"github.com/scynet/scynet/pkg/errors"
)

func TestComputeRings(t *testing.T) {
	tests := []struct {
		name   string
		counts Counts
		want   Rings
	}{
		{
			name:   "empty",
			counts: Counts{},
			want:   Rings{Multi: 64, Double: 160, Organism: 460, Single: 588},
		},
		{
			name:   "crowded organisms",
			counts: Counts{Organisms: 10, Multis: 7},
			// ceil(10/pi)=4, ceil(7/pi)=3
			want: Rings{Multi: 160, Double: 256, Organism: 900, Single: 1028},
		},
		{
			name:   "crowded singles",
			counts: Counts{Singles: 100},
			// ceil(100/pi)=32
			want: Rings{Multi: 64, Double: 160, Organism: 460, Single: 1152},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeRings(tt.counts, Options{}))
		})
	}
}

func TestComputeRingsClearance(t *testing.T) {
	for _, c := range []Counts{
		{},
		{Organisms: 1, Singles: 1, Doubles: 1, Multis: 1},
		{Organisms: 40, Singles: 3, Doubles: 200, Multis: 90},
		{Organisms: 2, Singles: 500, Doubles: 0, Multis: 500},
	} {
		r := ComputeRings(c, Options{})
		assert.Less(t, r.Multi, r.Double, "%+v", c)
		assert.Less(t, r.Double, r.Organism, "%+v", c)
		assert.Less(t, r.Organism, r.Single, "%+v", c)
	}
}

func TestOrderOrganisms(t *testing.T) {
	t.Run("no pairs", func(t *testing.T) {
		got := OrderOrganisms([]string{"a", "b", "c"}, NewPairCounts())
		assert.Equal(t, []string{"a", "b", "c"}, got)
	})

	t.Run("greedy chain", func(t *testing.T) {
		pc := NewPairCounts()
		pc.Add("c", "a")
		pc.Add("c", "a")
		pc.Add("c", "a")
		pc.Add("a", "d")
		pc.Add("a", "d")
		pc.Add("b", "c")
		got := OrderOrganisms([]string{"a", "b", "c", "d"}, pc)
		// Seed (c, a); a's best is d; d has nothing left so b follows.
		assert.Equal(t, []string{"c", "a", "d", "b"}, got)
	})

	t.Run("ties go to first", func(t *testing.T) {
		pc := NewPairCounts()
		pc.Add("a", "b")
		pc.Add("c", "d")
		got := OrderOrganisms([]string{"a", "b", "c", "d"}, pc)
		assert.Equal(t, []string{"a", "b", "c", "d"}, got)
	})

	t.Run("self pairs ignored", func(t *testing.T) {
		pc := NewPairCounts()
		pc.Add("a", "a")
		assert.Zero(t, pc.Len())
	})

	t.Run("nil counts", func(t *testing.T) {
		assert.Equal(t, []string{"x"}, OrderOrganisms([]string{"x"}, nil))
		assert.Nil(t, OrderOrganisms(nil, nil))
	})
}

func TestMidpoint(t *testing.T) {
	theta, ok := midpoint(1, 2, 4)
	require.True(t, ok)
	assert.InDelta(t, 3*math.Pi/4, theta, 1e-12)

	theta, ok = midpoint(3, 0, 4)
	require.True(t, ok)
	assert.InDelta(t, 7*math.Pi/4, theta, 1e-12)

	_, ok = midpoint(0, 2, 4)
	assert.False(t, ok)
}

func TestFanOffset(t *testing.T) {
	var got []float64
	for k := 0; k < 5; k++ {
		got = append(got, fanOffset(k))
	}
	assert.Equal(t, []float64{0, 1, -1, 2, -2}, got)
}

// star builds organisms a, b, c with:
//
//	hub: linked to a, b and c (multi)
//	ab1, ab2: linked to a and b (doubles, adjacent)
//	ac: linked to a and c (double)
//	sa1, sa2: linked to a only (singles)
//	lonely: no edges
func star(t *testing.T) *community.Graph {
	t.Helper()
	g := community.New("t")
	a := g.AddOrganism("a")
	b := g.AddOrganism("b")
	c := g.AddOrganism("c")
	link := func(met string, orgs ...*community.Node) {
		m := g.AddMetabolite(met, "")
		for _, o := range orgs {
			_, _, err := g.EnsureEdge(o.ID, m.ID)
			require.NoError(t, err)
		}
	}
	link("hub", a, b, c)
	link("ab1", a, b)
	link("ab2", b, a)
	link("ac", a, c)
	link("sa1", a)
	link("sa2", a)
	link("lonely")
	g.MarkCollapsed()
	return g
}

func TestConcentric(t *testing.T) {
	g := star(t)
	res, err := Concentric(g, Options{})
	require.NoError(t, err)

	assert.Equal(t, Counts{Organisms: 3, Singles: 2, Doubles: 3, Multis: 1}, res.Counts)
	assert.Equal(t, []string{"a", "b", "c"}, res.Order)
	assert.Equal(t, []string{community.MetaboliteID("lonely")}, res.Hidden)

	lonely, _ := g.Node(community.MetaboliteID("lonely"))
	assert.False(t, lonely.Visible)
	assert.Nil(t, lonely.Position)

	rings := res.Rings
	pos := func(id string) community.Point {
		p, ok := res.Positions[id]
		require.True(t, ok, id)
		return p
	}

	// Organism a sits at angle 0.
	assert.Equal(t, community.Point{X: rings.Organism, Y: 0}, pos(community.OrganismID("a")))
	assert.Equal(t, community.Point{X: rings.Multi, Y: 0}, pos(community.MetaboliteID("hub")))

	// Co-located doubles step outward.
	theta := 2 * math.Pi / 6
	r1 := rings.Double + 4*DefaultMetaboliteSize
	r2 := r1 + 1.5*DefaultMetaboliteSize
	assert.Equal(t, community.Point{X: math.Round(r1 * math.Cos(theta)), Y: math.Round(r1 * math.Sin(theta))}, pos(community.MetaboliteID("ab1")))
	assert.Equal(t, community.Point{X: math.Round(r2 * math.Cos(theta)), Y: math.Round(r2 * math.Sin(theta))}, pos(community.MetaboliteID("ab2")))

	// a and c are adjacent through wraparound.
	wrap := 2 * math.Pi * 5 / 6
	assert.Equal(t, community.Point{X: math.Round(r1 * math.Cos(wrap)), Y: math.Round(r1 * math.Sin(wrap))}, pos(community.MetaboliteID("ac")))

	// Singles fan out around organism a.
	min := 2 * DefaultMetaboliteSize / rings.Single
	assert.Equal(t, community.Point{X: rings.Single, Y: 0}, pos(community.MetaboliteID("sa1")))
	assert.Equal(t, community.Point{X: math.Round(rings.Single * math.Cos(min)), Y: math.Round(rings.Single * math.Sin(min))}, pos(community.MetaboliteID("sa2")))

	for _, n := range g.Nodes() {
		if n.Visible {
			assert.NotNil(t, n.Position, n.ID)
		}
	}
}

func TestConcentricChainedDoubles(t *testing.T) {
	g := community.New("t")
	var orgs []*community.Node
	for _, k := range []string{"a", "b", "c", "d"} {
		orgs = append(orgs, g.AddOrganism(k))
	}
	// (a,b) seeds the ordering; b's strongest remaining link is d.
	link := func(met string, x, y *community.Node) {
		m := g.AddMetabolite(met, "")
		_, _, _ = g.EnsureEdge(x.ID, m.ID)
		_, _, _ = g.EnsureEdge(m.ID, y.ID)
	}
	link("ab", orgs[0], orgs[1])
	link("ab2", orgs[0], orgs[1])
	link("cd", orgs[2], orgs[3])
	link("cd2", orgs[2], orgs[3])
	link("ac", orgs[0], orgs[2])
	link("bd", orgs[1], orgs[3])
	g.MarkCollapsed()

	res, err := Concentric(g, Options{})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "d", "c"}, res.Order)

	// (a,c) wraps around at slots 0 and 3: adjacent. (b,d) sits at slots
	// 1 and 2: adjacent too. Every double lands on a midpoint.
	for _, id := range []string{"ab", "ab2", "cd", "cd2", "ac", "bd"} {
		p := res.Positions[community.MetaboliteID(id)]
		assert.Greater(t, math.Hypot(p.X, p.Y), res.Rings.Double, id)
	}
}

func TestConcentricSpreadsNonAdjacent(t *testing.T) {
	g := community.New("t")
	var orgs []*community.Node
	for _, k := range []string{"a", "b", "c", "d"} {
		orgs = append(orgs, g.AddOrganism(k))
	}
	m := g.AddMetabolite("ac", "")
	_, _, _ = g.EnsureEdge(orgs[0].ID, m.ID)
	_, _, _ = g.EnsureEdge(m.ID, orgs[2].ID)
	g.MarkCollapsed()

	res, err := Concentric(g, Options{})
	require.NoError(t, err)
	// Seed (a, c), then b and d in input order: a and c are adjacent.
	assert.Equal(t, []string{"a", "c", "b", "d"}, res.Order)

	g2 := community.New("t")
	a, b, c := g2.AddOrganism("a"), g2.AddOrganism("b"), g2.AddOrganism("c")
	g2.AddOrganism("d")
	link := func(met string, x, y *community.Node) {
		n := g2.AddMetabolite(met, "")
		_, _, _ = g2.EnsureEdge(x.ID, n.ID)
		_, _, _ = g2.EnsureEdge(n.ID, y.ID)
	}
	link("ab", a, b)
	link("ab2", a, b)
	link("bc", b, c)
	link("ac", a, c)
	g2.MarkCollapsed()

	res, err = Concentric(g2, Options{})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c", "d"}, res.Order)
	// a (slot 0) and c (slot 2) are not adjacent among four organisms.
	assert.Equal(t, community.Point{X: res.Rings.Double, Y: 0}, res.Positions[community.MetaboliteID("ac")])
}

func TestConcentricDeterministic(t *testing.T) {
	a, err := Concentric(star(t), Options{})
	require.NoError(t, err)
	b, err := Concentric(star(t), Options{})
	require.NoError(t, err)
	assert.Equal(t, a.Positions, b.Positions)
}

func TestConcentricRespectsVisibility(t *testing.T) {
	g := star(t)
	c, _ := g.Node(community.OrganismID("c"))
	c.Visible = false

	res, err := Concentric(g, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Counts.Organisms)
	// hub keeps two visible edges, ac keeps one.
	assert.Equal(t, Counts{Organisms: 2, Singles: 3, Doubles: 3, Multis: 0}, res.Counts)
	assert.Nil(t, c.Position)
}

func TestConcentricPrecondition(t *testing.T) {
	g := community.New("t")
	g.AddOrganism("a")

	res, err := Concentric(g, Options{})
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, errors.ErrCodeLayoutPrecondition))

	_, err = Concentric(nil, Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeLayoutPrecondition))
}
