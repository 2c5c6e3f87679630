package physics

import (
	"iter"

	"github.com/san-kum/springsim/internal/dynamo"
)

// Edge is one spring between particles I and J.
type Edge struct {
	I, J     int
	Distance float64
}

// Graph holds the spring adjacency of a particle set. Weight and distance
// tables are capacity x capacity, row-major; a spring i->j is stored at
// [i][j] only.
type Graph struct {
	Closed bool

	capacity int
	weight   []float64
	dist     []float64
	edges    []Edge
}

func NewGraph(capacity int, closed bool) *Graph {
	return &Graph{
		Closed:   closed,
		capacity: capacity,
		weight:   make([]float64, capacity*capacity),
		dist:     make([]float64, capacity*capacity),
		edges:    make([]Edge, 0, capacity),
	}
}

// Rebuild recomputes the graph from scratch, chaining the first n particles
// of p. n is clamped to p.Active().
func (g *Graph) Rebuild(p *dynamo.Particles, n int) {
	n = min(n, p.Active(), g.capacity)

	clear(g.weight)
	clear(g.dist)
	g.edges = g.edges[:0]

	for i := 0; i < n; i++ {
		j := i + 1
		if j == n {
			// A ring needs three particles, otherwise it doubles the 0-1 spring.
			if !g.Closed || n < 3 {
				continue
			}
			j = 0
		}

		d := p.Pos[i].Sub(p.Pos[j]).NormEps(dynamo.DistanceEps)
		k := i*g.capacity + j
		g.weight[k] = 1
		g.dist[k] = d
		g.edges = append(g.edges, Edge{I: i, J: j, Distance: d})
	}
}

func (g *Graph) Weight(i, j int) float64 {
	if !g.in(i, j) {
		return 0
	}
	return g.weight[i*g.capacity+j]
}

func (g *Graph) Distance(i, j int) float64 {
	if !g.in(i, j) {
		return 0
	}
	return g.dist[i*g.capacity+j]
}

func (g *Graph) in(i, j int) bool {
	return i >= 0 && j >= 0 && i < g.capacity && j < g.capacity
}

// Len returns the number of springs.
func (g *Graph) Len() int { return len(g.edges) }

// Edges yields every spring with a positive distance, in index order.
// The sequence can be ranged over any number of times until the next Rebuild.
func (g *Graph) Edges() iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		for _, e := range g.edges {
			if e.Distance <= 0 {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}
