package plot

// Scale is a linear map between a value domain and a pixel extent
// [0, Px]. It is the reference against which gesture deltas are applied,
// captured once at gesture start so repeated deltas compose without drift.
type Scale struct {
	Dom Domain
	Px  float64
}

// Degenerate reports whether the scale cannot be inverted.
func (s Scale) Degenerate() bool {
	return s.Px <= 0 || !s.Dom.Valid()
}

// PerPixel returns the value span covered by one pixel.
func (s Scale) PerPixel() float64 {
	if s.Degenerate() {
		return 0
	}
	return s.Dom.Width() / s.Px
}

// Value returns the domain value at a pixel offset.
func (s Scale) Value(px float64) float64 {
	return s.Dom.Min + px*s.PerPixel()
}

// Pixel returns the pixel offset of a domain value.
func (s Scale) Pixel(v float64) float64 {
	if s.Dom.Width() == 0 {
		return 0
	}
	return (v - s.Dom.Min) / s.Dom.Width() * s.Px
}
