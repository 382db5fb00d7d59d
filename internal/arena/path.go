package arena

import (
	"math"

	"github.com/devsilvver/corrida-das-gemas/internal/board"
)

// Point is a continuous board coordinate measured in tiles. Cell centres sit
// on integer coordinates, so the grid spans -0.5 .. dim-0.5 on each axis.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistanceSq returns the squared distance between p and q.
func (p Point) DistanceSq(q Point) float64 {
	dx := q.X - p.X
	dy := q.Y - p.Y
	return dx*dx + dy*dy
}

// Distance returns the euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Sqrt(p.DistanceSq(q))
}

// Path is an ordered list of waypoints; the last one is the portal.
type Path []Point

// Last is the index of the portal waypoint.
func (p Path) Last() int {
	return len(p) - 1
}

// Start is the spawn waypoint.
func (p Path) Start() Point {
	if len(p) == 0 {
		return Point{}
	}
	return p[0]
}

// Portal is the breach waypoint.
func (p Path) Portal() Point {
	if len(p) == 0 {
		return Point{}
	}
	return p[len(p)-1]
}

const pathPadding = 0.4

var (
	borderXStart = -0.5 - pathPadding
	borderYStart = -0.5 - pathPadding
	borderXEnd   = float64(board.Cols) - 0.5 + pathPadding
	borderYEnd   = float64(board.Rows) - 0.5 + pathPadding
)

// PlayerPath runs bottom-left, top-left, top-right, into the bottom-right portal.
func PlayerPath() Path {
	return Path{
		{X: borderXStart, Y: borderYEnd},
		{X: borderXStart, Y: borderYStart},
		{X: borderXEnd, Y: borderYStart},
		{X: borderXEnd, Y: borderYEnd},
	}
}

// OpponentPath runs top-left, bottom-left, bottom-right, into the top-right portal.
func OpponentPath() Path {
	return Path{
		{X: borderXStart, Y: borderYStart},
		{X: borderXStart, Y: borderYEnd},
		{X: borderXEnd, Y: borderYEnd},
		{X: borderXEnd, Y: borderYStart},
	}
}
