package curvemap

import (
	"slices"
)

// TableSize is the number of segments a curve is sampled into.
const TableSize = 256

// Point is a control point of a curve.
type Point struct {
	X, Y float32
}

// Curve is a piecewise linear curve through sorted control points.
type Curve struct {
	Points []Point

	// Sampled lookup over [minX, maxX], built lazily.
	table      []float32
	minX, maxX float32
}

// Identity returns the diagonal curve through (0,0) and (1,1).
func Identity() Curve {
	return Curve{Points: []Point{{0, 0}, {1, 1}}}
}

// IsIdentity reports whether the control points map every input to itself.
func (c *Curve) IsIdentity() bool {
	if len(c.Points) == 0 {
		return true
	}
	for _, p := range c.Points {
		if p.X != p.Y {
			return false
		}
	}
	return len(c.Points) >= 2
}

// sort orders points by X and drops the sampled table.
func (c *Curve) sort() {
	slices.SortStableFunc(c.Points, func(a, b Point) int {
		switch {
		case a.X < b.X:
			return -1
		case a.X > b.X:
			return 1
		}
		return 0
	})
	c.table = nil
}

// evalPoints interpolates the control points directly.
func (c *Curve) evalPoints(x float32, extrapolate bool) float32 {
	pts := c.Points
	switch len(pts) {
	case 0:
		return x
	case 1:
		return pts[0].Y
	}
	first, last := pts[0], pts[len(pts)-1]
	if x <= first.X {
		if !extrapolate {
			return first.Y
		}
		return lerpSegment(pts[0], pts[1], x)
	}
	if x >= last.X {
		if !extrapolate {
			return last.Y
		}
		return lerpSegment(pts[len(pts)-2], last, x)
	}
	i, _ := slices.BinarySearchFunc(pts, x, func(p Point, t float32) int {
		switch {
		case p.X < t:
			return -1
		case p.X > t:
			return 1
		}
		return 0
	})
	if pts[i].X == x {
		return pts[i].Y
	}
	return lerpSegment(pts[i-1], pts[i], x)
}

func lerpSegment(a, b Point, x float32) float32 {
	dx := b.X - a.X
	if dx == 0 {
		return b.Y
	}
	t := (x - a.X) / dx
	return a.Y + (b.Y-a.Y)*t
}

// build samples the curve into its lookup table.
func (c *Curve) build(extrapolate bool) {
	if len(c.Points) == 0 {
		c.minX, c.maxX = 0, 1
	} else {
		c.minX, c.maxX = c.Points[0].X, c.Points[len(c.Points)-1].X
		if c.maxX <= c.minX {
			c.maxX = c.minX + 1
		}
	}
	c.table = make([]float32, TableSize+1)
	step := (c.maxX - c.minX) / TableSize
	for i := range c.table {
		c.table[i] = c.evalPoints(c.minX+float32(i)*step, extrapolate)
	}
}

// eval evaluates the sampled table, extending past its ends either flat or
// along the end segments. NaN passes through unchanged.
func (c *Curve) eval(x float32, extrapolate bool) float32 {
	if x != x {
		return x
	}
	if c.table == nil {
		return c.evalPoints(x, extrapolate)
	}
	span := c.maxX - c.minX
	f := (x - c.minX) / span * TableSize
	if f <= 0 || f >= TableSize {
		if !extrapolate {
			if f <= 0 {
				return c.table[0]
			}
			return c.table[TableSize]
		}
		if f <= 0 {
			slope := (c.table[1] - c.table[0]) / (span / TableSize)
			return c.table[0] + slope*(x-c.minX)
		}
		slope := (c.table[TableSize] - c.table[TableSize-1]) / (span / TableSize)
		return c.table[TableSize] + slope*(x-c.maxX)
	}
	i := int(f)
	t := f - float32(i)
	return c.table[i] + (c.table[i+1]-c.table[i])*t
}

func (c *Curve) clone() Curve {
	return Curve{
		Points: slices.Clone(c.Points),
		table:  slices.Clone(c.table),
		minX:   c.minX,
		maxX:   c.maxX,
	}
}
