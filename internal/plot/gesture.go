package plot

// AxisMask selects which axes a gesture applies to. Modifier-gated wheel
// zoom uses a single axis; the default combined zoom uses both.
type AxisMask uint8

const (
	MaskX AxisMask = 1 << iota
	MaskY
)

const MaskXY = MaskX | MaskY

// Transform is the cumulative affine delta of the current gesture relative
// to the reference scale: a shared zoom factor and per-axis pixel
// translations.
type Transform struct {
	K  float64
	TX float64
	TY float64
}

// Identity returns the transform that leaves the reference scale unchanged.
func Identity() Transform {
	return Transform{K: 1}
}

// IsIdentity reports exact identity. The engine resets transforms to exact
// identity, never an approximation, so equality comparison is intended.
func (t Transform) IsIdentity() bool {
	return t == Identity()
}

// axisTransform is the per-axis zoom/translate pair in pixel space.
type axisTransform struct {
	k float64
	t float64
}

// domain derives the visible domain from the reference scale under the
// transform: the value at pixel px is ref.Value((px - t) / k).
func (a axisTransform) domain(ref Scale) Domain {
	if ref.Degenerate() || a.k == 0 {
		return ref.Dom
	}
	return Domain{
		Min: ref.Value((0 - a.t) / a.k),
		Max: ref.Value((ref.Px - a.t) / a.k),
	}
}

// zoomAbout rescales around a fixed pixel so the value under that pixel
// maps to the same pixel before and after.
func (a axisTransform) zoomAbout(px, factor float64) axisTransform {
	return axisTransform{
		k: a.k * factor,
		t: px - factor*(px-a.t),
	}
}

// Tracker accumulates pointer and wheel deltas of one gesture against the
// reference scale pair captured at gesture start. Composing against the
// reference rather than the latest domains is what prevents cumulative
// drift across deltas.
type Tracker struct {
	active bool
	refX   Scale
	refY   Scale
	x      axisTransform
	y      axisTransform
}

// Begin snapshots the reference scales from the domains in effect before
// the gesture and marks the gesture active.
func (tr *Tracker) Begin(xDom, yDom Domain, width, height float64) {
	tr.refX = Scale{Dom: xDom, Px: width}
	tr.refY = Scale{Dom: yDom, Px: height}
	tr.x = axisTransform{k: 1}
	tr.y = axisTransform{k: 1}
	tr.active = true
}

// Active reports whether a gesture is in progress.
func (tr *Tracker) Active() bool {
	return tr.active
}

// Domains returns the domains implied by the current cumulative transform.
func (tr *Tracker) Domains() (Domain, Domain, bool) {
	if !tr.active {
		return Domain{}, Domain{}, false
	}
	return tr.x.domain(tr.refX), tr.y.domain(tr.refY), true
}

// WheelZoom applies one zoom notch about the pointer position. factor > 1
// zooms in. A degenerate reference scale short-circuits to the unchanged
// domains rather than dividing by zero.
func (tr *Tracker) WheelZoom(px, py, factor float64, axes AxisMask) (Domain, Domain, bool) {
	if !tr.active || factor <= 0 {
		return Domain{}, Domain{}, false
	}
	if axes&MaskX != 0 && !tr.refX.Degenerate() {
		tr.x = tr.x.zoomAbout(px, factor)
	}
	if axes&MaskY != 0 && !tr.refY.Degenerate() {
		tr.y = tr.y.zoomAbout(py, factor)
	}
	return tr.domainsNow()
}

// Drag translates the view by a pixel delta. Zoom level is preserved; only
// translation changes. Positive dx moves the content right, revealing
// smaller x values.
func (tr *Tracker) Drag(dxPx, dyPx float64) (Domain, Domain, bool) {
	if !tr.active {
		return Domain{}, Domain{}, false
	}
	tr.x.t += dxPx
	tr.y.t += dyPx
	return tr.domainsNow()
}

// ZoomPan applies a combined transform in one step, replacing the
// cumulative per-axis state. Used for unified zoom gestures that carry both
// scale and translation.
func (tr *Tracker) ZoomPan(t Transform) (Domain, Domain, bool) {
	if !tr.active || t.K <= 0 {
		return Domain{}, Domain{}, false
	}
	tr.x = axisTransform{k: t.K, t: t.TX}
	tr.y = axisTransform{k: t.K, t: t.TY}
	return tr.domainsNow()
}

func (tr *Tracker) domainsNow() (Domain, Domain, bool) {
	return tr.x.domain(tr.refX), tr.y.domain(tr.refY), true
}

// End clears the active flag. The last computed domains stay authoritative
// with the caller; the reference must be captured again for the next
// gesture.
func (tr *Tracker) End() {
	tr.active = false
	tr.refX = Scale{}
	tr.refY = Scale{}
}

// Reset returns the tracker to exact identity, discarding any in-progress
// gesture.
func (tr *Tracker) Reset() {
	*tr = Tracker{}
}

// Transform returns the cumulative transform of the current gesture, or
// identity when none is active. The shared scale K is the X-axis scale; a
// zoom masked to Y alone shows up in TY but leaves K at 1.
func (tr *Tracker) Transform() Transform {
	if !tr.active {
		return Identity()
	}
	return Transform{K: tr.x.k, TX: tr.x.t, TY: tr.y.t}
}
