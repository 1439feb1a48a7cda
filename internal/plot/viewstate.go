package plot

// Phase is the view state machine's current mode. Exactly one of the three
// determines the live axis domains at any time.
type Phase int

const (
	// Following auto-tracks incoming data: every ingest recomputes domains.
	Following Phase = iota
	// Frozen holds the last user- or API-established viewport static.
	Frozen
	// GestureActive hands domain ownership to the gesture tracker.
	GestureActive
)

func (p Phase) String() string {
	switch p {
	case Following:
		return "following"
	case Frozen:
		return "frozen"
	case GestureActive:
		return "gesture"
	default:
		return "unknown"
	}
}

// Redraw is the set of chart layers a transition invalidated.
type Redraw uint8

const (
	RedrawAxes Redraw = 1 << iota
	RedrawGrid
	RedrawLines
	RedrawLegend
)

const (
	RedrawNone Redraw = 0
	RedrawAll         = RedrawAxes | RedrawGrid | RedrawLines | RedrawLegend
	// redrawView is what a domain change invalidates: everything positioned
	// in domain space, but not the legend.
	redrawView = RedrawAxes | RedrawGrid | RedrawLines
)

func (r Redraw) Has(layer Redraw) bool {
	return r&layer != 0
}

// View is the view state machine. It owns the live axis domains, the
// follow flag, the frozen-domain snapshot, and the gesture tracker, and is
// the only writer of all four.
//
// Callers drive it with one transition per host event; each transition
// leaves the state internally consistent (domains valid, tracker either
// active or exactly identity) before returning.
type View struct {
	phase   Phase
	x, y    Domain
	frozenX Domain
	frozenY Domain
	frozen  bool
	tracker Tracker
}

// NewView starts in Following with the default unit domains.
func NewView() *View {
	return &View{
		phase: Following,
		x:     DefaultDomain(),
		y:     DefaultDomain(),
	}
}

func (v *View) Phase() Phase         { return v.phase }
func (v *View) Following() bool      { return v.phase == Following }
func (v *View) X() Domain            { return v.x }
func (v *View) Y() Domain            { return v.y }
func (v *View) Tracker() *Tracker    { return &v.tracker }
func (v *View) Transform() Transform { return v.tracker.Transform() }

// FrozenDomains returns the frozen snapshot, if established.
func (v *View) FrozenDomains() (x, y Domain, ok bool) {
	return v.frozenX, v.frozenY, v.frozen
}

// setLive publishes new live domains, refusing invalid ones so a failed
// computation can never leave the view inconsistent.
func (v *View) setLive(x, y Domain) bool {
	if !x.Valid() || !y.Valid() {
		return false
	}
	v.x, v.y = x, y
	return true
}

// DataArrived handles an ingest tick. Only Following recomputes domains;
// Frozen and GestureActive keep theirs and redraw geometry only.
func (v *View) DataArrived(recompute func() (Domain, Domain)) Redraw {
	if v.phase != Following {
		return RedrawLines
	}
	x, y := recompute()
	if !v.setLive(x, y) {
		return RedrawLines
	}
	return redrawView
}

// GestureStart freezes the current live domains and hands ownership to the
// tracker. Starting while already in a gesture is a no-op.
func (v *View) GestureStart(width, height float64) {
	if v.phase == GestureActive {
		return
	}
	// Capture before the gesture's first domain mutation so leaving follow
	// mode has no gap.
	v.frozenX, v.frozenY = v.x, v.y
	v.frozen = true
	v.phase = GestureActive
	v.tracker.Begin(v.x, v.y, width, height)
}

// GestureDelta publishes domains computed by the tracker (and clamped by
// the caller) and keeps the frozen snapshot in lockstep.
func (v *View) GestureDelta(x, y Domain) Redraw {
	if v.phase != GestureActive {
		return RedrawNone
	}
	if !v.setLive(x, y) {
		return RedrawNone
	}
	v.frozenX, v.frozenY = v.x, v.y
	return redrawView
}

// GestureEnd retains the last gesture domains as the frozen view.
func (v *View) GestureEnd() Redraw {
	if v.phase != GestureActive {
		return RedrawNone
	}
	v.tracker.End()
	v.phase = Frozen
	v.frozenX, v.frozenY = v.x, v.y
	v.frozen = true
	return RedrawNone
}

// SetView establishes an explicit viewport. Any active gesture is
// preempted; the gesture transform is reset to exact identity so a later
// replay cannot perturb domains already at rest.
func (v *View) SetView(x, y Domain) Redraw {
	if !x.Valid() || !y.Valid() {
		return RedrawNone
	}
	v.tracker.Reset()
	v.phase = Frozen
	v.x, v.y = x, y
	v.frozenX, v.frozenY = x, y
	v.frozen = true
	return redrawView
}

// ResetView returns to Following with freshly computed domains, clearing
// the frozen snapshot and the gesture transform.
func (v *View) ResetView(recompute func() (Domain, Domain)) Redraw {
	v.tracker.Reset()
	v.phase = Following
	v.frozen = false
	v.frozenX, v.frozenY = Domain{}, Domain{}
	x, y := recompute()
	v.setLive(x, y)
	return redrawView
}

// Resized handles a viewport size change. Following recomputes; otherwise
// domain values are kept and only the pixel mapping (owned by the drawing
// surface) changes. An active gesture re-snapshots its reference so
// subsequent deltas use the new pixel extent.
func (v *View) Resized(width, height float64, recompute func() (Domain, Domain)) Redraw {
	switch v.phase {
	case Following:
		x, y := recompute()
		v.setLive(x, y)
	case GestureActive:
		v.tracker.Begin(v.x, v.y, width, height)
	}
	return RedrawAll
}

// DataCleared handles clearData: Following recomputes from the now-empty
// store; Frozen keeps its viewport (showing no geometry). An active
// gesture is force-exited first.
func (v *View) DataCleared(recompute func() (Domain, Domain)) Redraw {
	if v.phase == GestureActive {
		v.GestureEnd()
	}
	if v.phase == Following {
		x, y := recompute()
		v.setLive(x, y)
		return redrawView
	}
	return RedrawLines
}

// ConfigChanged recomputes domains after an axis range or limit change.
// When a fixed range was newly configured, the caller passes pin=true and
// the transition behaves like SetView; otherwise the current phase is
// kept.
func (v *View) ConfigChanged(pin bool, recompute func() (Domain, Domain)) Redraw {
	x, y := recompute()
	if pin {
		return v.SetView(x, y)
	}
	if v.phase == GestureActive {
		v.GestureEnd()
	}
	if v.phase == Following {
		v.setLive(x, y)
	}
	return RedrawAll
}
