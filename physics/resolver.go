package physics

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/jakecoffman/cp"
)

// Resolver maps coordinate-only anchors onto the level bodies under them.
type Resolver struct {
	world     *World
	tolerance float64
}

func NewResolver(w *World) *Resolver {
	r := &Resolver{world: w}
	if w != nil {
		r.tolerance = w.tolerance
	}
	return r
}

// BodiesAtPoint returns every level body with a shape containing p, ascending
// by z. Ground and boundary shapes are never returned.
func (r *Resolver) BodiesAtPoint(p cp.Vector) []*Body {
	if r == nil || r.world == nil || r.world.space == nil {
		return nil
	}

	seen := make(map[int]struct{})
	var out []*Body
	r.world.space.BBQuery(cp.NewBBForCircle(p, r.tolerance), cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ interface{}) {
		z, ok := shape.Body().UserData.(rank)
		if !ok {
			return
		}
		if _, dup := seen[int(z)]; dup {
			return
		}
		if shape.PointQuery(p).Distance > r.tolerance {
			return
		}
		body, ok := r.world.Body(int(z))
		if !ok {
			return
		}
		seen[int(z)] = struct{}{}
		out = append(out, body)
	}, nil)

	slices.SortFunc(out, func(a, b *Body) int { return cmp.Compare(a.z, b.z) })
	return out
}

// TopBodyAtPoint returns the highest-z body at p.
func (r *Resolver) TopBodyAtPoint(p cp.Vector) (*Body, error) {
	bodies := r.BodiesAtPoint(p)
	if len(bodies) == 0 {
		return nil, fmt.Errorf("physics: anchor %v: %w", p, ErrNoBody)
	}
	return bodies[len(bodies)-1], nil
}

// TopNBodiesAtPoint returns up to n highest-z bodies at p, ascending by z.
func (r *Resolver) TopNBodiesAtPoint(p cp.Vector, n int) []*Body {
	bodies := r.BodiesAtPoint(p)
	if n <= 0 {
		return nil
	}
	if len(bodies) > n {
		bodies = bodies[len(bodies)-n:]
	}
	return bodies
}

// PivotBodiesAtPoint returns the two participants of a pivot at p. With only
// one body at p the world's ground body is the other participant.
func (r *Resolver) PivotBodiesAtPoint(p cp.Vector) (*Body, *Body, error) {
	bodies := r.TopNBodiesAtPoint(p, 2)
	switch len(bodies) {
	case 0:
		return nil, nil, fmt.Errorf("physics: pivot %v: %w", p, ErrNoBody)
	case 1:
		return bodies[0], r.world.Ground(), nil
	default:
		return bodies[0], bodies[1], nil
	}
}

// BodiesAtLineSegment resolves both endpoints of a two-anchor joint. When one
// endpoint has a single candidate it is removed from the other endpoint's
// candidates; each side must then have exactly one body left.
func (r *Resolver) BodiesAtLineSegment(p1, p2 cp.Vector) (*Body, *Body, error) {
	c1 := r.BodiesAtPoint(p1)
	c2 := r.BodiesAtPoint(p2)

	if len(c1) == 1 && len(c2) > 1 {
		c2 = without(c2, c1[0])
	} else if len(c2) == 1 && len(c1) > 1 {
		c1 = without(c1, c2[0])
	}

	b1, err := single(c1, p1)
	if err != nil {
		return nil, nil, err
	}
	b2, err := single(c2, p2)
	if err != nil {
		return nil, nil, err
	}
	return b1, b2, nil
}

func without(bodies []*Body, drop *Body) []*Body {
	out := make([]*Body, 0, len(bodies))
	for _, b := range bodies {
		if b != drop {
			out = append(out, b)
		}
	}
	return out
}

func single(bodies []*Body, p cp.Vector) (*Body, error) {
	switch len(bodies) {
	case 0:
		return nil, fmt.Errorf("physics: anchor %v: %w", p, ErrNoBody)
	case 1:
		return bodies[0], nil
	default:
		return nil, fmt.Errorf("physics: anchor %v matches %d bodies: %w", p, len(bodies), ErrAmbiguousAnchor)
	}
}
