package editor

import (
	"math"

	"github.com/philipparndt/boxmod/pkg/geometry"
	"github.com/philipparndt/boxmod/pkg/mesh"
)

// EdgeMarker is a loop cut handle placed at the middle of a logical edge
type EdgeMarker struct {
	Edge     mesh.Edge
	Midpoint geometry.Vector3
	Boundary bool
}

// EdgeMarkers returns one marker per logical edge, in world space
func EdgeMarkers(m *mesh.Mesh) []EdgeMarker {
	edges := mesh.UniqueEdges(m)
	out := make([]EdgeMarker, len(edges))
	for i, info := range edges {
		out[i] = EdgeMarker{
			Edge:     info.Edge,
			Midpoint: m.WorldPosition(info.Edge.A).Lerp(m.WorldPosition(info.Edge.B), 0.5),
			Boundary: info.Boundary(),
		}
	}
	return out
}

// ClosestEdgeMarker returns the marker nearest to p within maxDistance
func ClosestEdgeMarker(m *mesh.Mesh, p geometry.Vector3, maxDistance float64) (EdgeMarker, bool) {
	var best EdgeMarker
	found := false
	bestDist := math.MaxFloat64
	for _, marker := range EdgeMarkers(m) {
		if d := p.Distance(marker.Midpoint); d <= maxDistance && d < bestDist {
			best, bestDist, found = marker, d, true
		}
	}
	return best, found
}
