package geom

import "github.com/paulmach/orb"

// Ring is an ordered sequence of coordinates describing a polygon boundary.
type Ring []Coordinate

// IsClosed reports whether the first and last coordinates are equal.
func (r Ring) IsClosed() bool {
	if len(r) < 2 {
		return false
	}
	return r[0] == r[len(r)-1]
}

// IsValid reports whether r is closed and has at least four positions,
// counting the repeated first one.
func (r Ring) IsValid() bool {
	return len(r) >= 4 && r.IsClosed()
}

// Close returns the ring with its first coordinate repeated at the end.
// A ring that is already closed, or too short to form a polygon, is returned as is.
func (r Ring) Close() Ring {
	if len(r) < 3 || r.IsClosed() {
		return r
	}
	closed := make(Ring, len(r)+1)
	copy(closed, r)
	closed[len(r)] = r[0]
	return closed
}

// Reverse returns a new ring with the coordinate order reversed.
func (r Ring) Reverse() Ring {
	out := make(Ring, len(r))
	for i, c := range r {
		out[len(r)-1-i] = c
	}
	return out
}

// Orientation returns the winding direction of the ring (orb.CCW or orb.CW),
// or 0 for a degenerate ring.
func (r Ring) Orientation() orb.Orientation {
	return orb.Ring(r).Orientation()
}

// OrientedAgainst returns r wound opposite to ref, reversing it when both share
// a winding direction. The result is always closed.
func (r Ring) OrientedAgainst(ref Ring) Ring {
	ro, fo := r.Orientation(), ref.Orientation()
	if ro != 0 && ro == fo {
		return r.Reverse().Close()
	}
	if fo == 0 && ro == orb.CCW {
		// Degenerate shells are treated as counter-clockwise.
		return r.Reverse().Close()
	}
	return r.Close()
}

// Bounds returns the bounding box of the ring.
func (r Ring) Bounds() Bounds {
	if len(r) == 0 {
		return Bounds{}
	}
	b := Bounds{MinLon: r[0][0], MaxLon: r[0][0], MinLat: r[0][1], MaxLat: r[0][1]}
	for _, c := range r[1:] {
		b = b.Extend(c)
	}
	return b
}
