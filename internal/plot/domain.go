package plot

import "math"

// Axis identifies one of the chart's two axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// Domain is a half-open-free value interval on one axis. The engine
// guarantees Min < Max on every domain it publishes; degenerate inputs are
// widened by the padding rules below.
type Domain struct {
	Min float64
	Max float64
}

// DefaultDomain is used when no data exists for an axis.
func DefaultDomain() Domain {
	return Domain{Min: 0, Max: 1}
}

func (d Domain) Width() float64 {
	return d.Max - d.Min
}

func (d Domain) Mid() float64 {
	return (d.Min + d.Max) / 2
}

func (d Domain) Contains(v float64) bool {
	return v >= d.Min && v <= d.Max
}

// Valid reports whether the domain is finite and non-degenerate.
func (d Domain) Valid() bool {
	return isFinite(d.Min) && isFinite(d.Max) && d.Min < d.Max
}

// Translate shifts the domain by dv, preserving its width.
func (d Domain) Translate(dv float64) Domain {
	return Domain{Min: d.Min + dv, Max: d.Max + dv}
}

// ClampWidth enforces a minimum and maximum span by symmetric expansion or
// contraction around the domain's center. Zero or negative bounds are
// ignored.
func (d Domain) ClampWidth(minW, maxW float64) Domain {
	w := d.Width()
	if minW > 0 && w < minW {
		mid := d.Mid()
		return Domain{Min: mid - minW/2, Max: mid + minW/2}
	}
	if maxW > 0 && w > maxW {
		mid := d.Mid()
		return Domain{Min: mid - maxW/2, Max: mid + maxW/2}
	}
	return d
}

// widenDegenerate widens a collapsed extent so that Min < Max holds.
//
// X axes widen by a fixed pad; Y axes widen proportionally to the value's
// magnitude, with an absolute fallback at zero.
func widenDegenerate(axis Axis, v float64, cfg AxisConfig) Domain {
	switch axis {
	case AxisX:
		pad := cfg.DegeneratePad
		if pad <= 0 {
			pad = defaultDegenerateXPad
		}
		return Domain{Min: v - pad, Max: v + pad}
	default:
		pad := math.Abs(v) * cfg.PadFraction
		if pad == 0 {
			pad = cfg.DegeneratePad
			if pad <= 0 {
				pad = defaultDegenerateYPad
			}
		}
		return Domain{Min: v - pad, Max: v + pad}
	}
}

// FullDomain computes the natural domain for an axis across all series in
// the store, honoring a fixed range override from configuration.
//
// With no data it returns the default unit domain. A single value (or all
// values equal) widens per widenDegenerate.
func FullDomain(axis Axis, store *Store, cfg AxisConfig) Domain {
	lo, hi, ok := store.Extent(axis)

	var dom Domain
	switch {
	case !ok:
		dom = DefaultDomain()
	case lo == hi:
		dom = widenDegenerate(axis, lo, cfg)
	default:
		dom = Domain{Min: lo, Max: hi}
	}

	// A finite configured bound overrides the computed one unconditionally.
	if cfg.Range.Min != nil && isFinite(*cfg.Range.Min) {
		dom.Min = *cfg.Range.Min
	}
	if cfg.Range.Max != nil && isFinite(*cfg.Range.Max) {
		dom.Max = *cfg.Range.Max
	}
	if !dom.Valid() {
		dom = widenDegenerate(axis, dom.Min, cfg)
	}
	return dom
}

// VisibleYDomain computes the Y domain restricted to points whose x falls
// inside xDom, padded proportionally, falling back to the full-domain rules
// when nothing is visible.
func VisibleYDomain(store *Store, xDom Domain, cfg AxisConfig) Domain {
	lo, hi, ok := store.ExtentYWithin(xDom)
	if !ok {
		return FullDomain(AxisY, store, cfg)
	}

	frac := cfg.VisiblePadFraction
	if frac <= 0 {
		frac = defaultVisiblePadFraction
	}
	pad := (hi - lo) * frac
	if pad == 0 {
		pad = cfg.DegeneratePad
		if pad <= 0 {
			pad = defaultDegenerateYPad
		}
	}
	dom := Domain{Min: lo - pad, Max: hi + pad}

	if cfg.Range.Min != nil && isFinite(*cfg.Range.Min) {
		dom.Min = *cfg.Range.Min
	}
	if cfg.Range.Max != nil && isFinite(*cfg.Range.Max) {
		dom.Max = *cfg.Range.Max
	}
	if !dom.Valid() {
		dom = widenDegenerate(AxisY, dom.Min, cfg)
	}
	return dom
}
