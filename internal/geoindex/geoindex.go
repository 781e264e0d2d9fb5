// Package geoindex buckets coordinates into H3 cells and measures distances on the sphere.
// Observations of one hazard kind that fall into the same cell count as the same hazard.
package geoindex

import (
	"math"

	"github.com/UnknownOlympus/hazardmap/internal/models"
	"github.com/golang/geo/s2"
	"github.com/uber/h3-go/v4"
)

const (
	// DefaultResolution gives cells with an average edge of about 200 m.
	DefaultResolution = 9
	// MaxRings bounds the size of a disk lookup. Wider circles are covered at a coarser resolution.
	MaxRings = 20

	earthRadiusMeters = 6371008.8
	maxResolution     = 15

	// H3 index layout: resolution in bits 52-55, then 15 three-bit digits ending at bit 0.
	resolutionOffset = 52
	resolutionMask   = uint64(0xf) << resolutionOffset
	digitBits        = 3
	digitMask        = uint64(0x7)
	maxDigit         = uint64(6)
)

// avgEdgeMeters is the average hexagon edge length per H3 resolution.
var avgEdgeMeters = [maxResolution + 1]float64{
	1281256.011, 483056.8391, 182512.9565, 68979.22179,
	26071.75968, 9854.090990, 3724.532667, 1406.475763,
	531.414010, 200.786148, 75.863783, 28.663897,
	10.830188, 4.092010, 1.546100, 0.584169,
}

// Span is an inclusive range of cell ids of one resolution. Ids of equal resolution have equal
// length, so the range holds in plain byte order.
type Span struct {
	First string
	Last  string
}

// Contains reports whether cell falls inside the span.
func (s Span) Contains(cell string) bool {
	return cell >= s.First && cell <= s.Last
}

// ValidResolution reports whether res is a valid H3 resolution.
func ValidResolution(res int) bool {
	return res >= 0 && res <= maxResolution
}

// Cell returns the H3 cell id containing the coordinates.
func Cell(coords models.Coordinates, res int) string {
	return h3.LatLngToCell(h3.NewLatLng(coords.Latitude, coords.Longitude), res).String()
}

// Cover returns spans holding every res cell that may contain a point within radiusMeters of
// center. The circle is walked with a disk of at most MaxRings rings, at res when that is
// enough and at the finest coarser resolution otherwise; each coarse cell then stands for the
// span of its descendants at res. The covering may overshoot; callers filter by Distance.
func Cover(center models.Coordinates, radiusMeters float64, res int) []Span {
	search := res
	for search > 0 && rings(radiusMeters, search) > MaxRings {
		search--
	}

	origin := h3.LatLngToCell(h3.NewLatLng(center.Latitude, center.Longitude), search)
	cells := h3.GridDisk(origin, rings(radiusMeters, search))

	spans := make([]Span, 0, len(cells))
	for _, cell := range cells {
		first, last := descendants(cell, search, res)
		spans = append(spans, Span{First: first.String(), Last: last.String()})
	}

	return spans
}

// rings is the number of hexagon rings around the origin cell that reaches every cell within
// radiusMeters. Each ring advances at least one average edge; three extra rings absorb the offset
// of the center inside its cell and the drift of descendants past their ancestor's outline.
func rings(radiusMeters float64, res int) int {
	if radiusMeters <= 0 {
		return 0
	}

	return int(math.Ceil(radiusMeters/avgEdgeMeters[res])) + 3
}

// descendants returns the lowest and highest possible ids of the res descendants of cell,
// which sits at resolution from.
func descendants(cell h3.Cell, from, res int) (h3.Cell, h3.Cell) {
	base := uint64(cell)&^resolutionMask | uint64(res)<<resolutionOffset
	first, last := base, base
	for digit := from + 1; digit <= res; digit++ {
		shift := uint((maxResolution - digit) * digitBits)
		first &^= digitMask << shift
		last = last&^(digitMask<<shift) | maxDigit<<shift
	}

	return h3.Cell(first), h3.Cell(last)
}

// Distance returns the great-circle distance between two points in meters.
func Distance(a, b models.Coordinates) float64 {
	from := s2.LatLngFromDegrees(a.Latitude, a.Longitude)
	to := s2.LatLngFromDegrees(b.Latitude, b.Longitude)

	return from.Distance(to).Radians() * earthRadiusMeters
}
