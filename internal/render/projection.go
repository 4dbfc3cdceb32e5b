package render

import "math"

// camera is a fixed orthographic view used to flatten 3d figures for raster output.
type camera struct {
	azimuth   float64
	elevation float64
}

var defaultCamera = camera{
	azimuth:   -math.Pi / 4,
	elevation: math.Pi / 6,
}

// project maps a point of the unit cube centred on the origin onto the image plane.
func (c camera) project(x, y, z float64) (u, v float64) {
	sa, ca := math.Sincos(c.azimuth)
	se, ce := math.Sincos(c.elevation)

	xr := x*ca - y*sa
	yr := x*sa + y*ca
	return xr, z*ce + yr*se
}

// bounds tracks the value range of one axis.
type bounds struct {
	lo, hi float64
}

func newBounds() bounds {
	return bounds{lo: math.Inf(1), hi: math.Inf(-1)}
}

func (b *bounds) add(values ...float64) {
	for _, v := range values {
		b.lo = math.Min(b.lo, v)
		b.hi = math.Max(b.hi, v)
	}
}

// normalize maps v into [-0.5, 0.5]; a flat axis collapses to 0.
func (b bounds) normalize(v float64) float64 {
	span := b.hi - b.lo
	if span == 0 || math.IsInf(span, 0) {
		return 0
	}
	return (v-b.lo)/span - 0.5
}

// padded widens the range by 5% on each side, or by 1 when it is empty.
func (b bounds) padded() (lo, hi float64) {
	span := b.hi - b.lo
	if span == 0 {
		return b.lo - 1, b.hi + 1
	}
	return b.lo - span*0.05, b.hi + span*0.05
}

// volume maps data coordinates of a surface figure onto the image plane.
type volume struct {
	cam     camera
	x, y, z bounds
}

func (vol volume) project(x, y, z float64) (u, v float64) {
	return vol.cam.project(vol.x.normalize(x), vol.y.normalize(y), vol.z.normalize(z))
}

// projectUnit projects a point given directly in normalized cube coordinates.
func (vol volume) projectUnit(x, y, z float64) (u, v float64) {
	return vol.cam.project(x, y, z)
}
