// Package component holds the state of the page's interactive pieces. Each
// component owns its state and exposes explicit update operations; instances
// are never shared between goroutines.
package component

// ScrollLocker is the page-level scroll switch overlays act on.
type ScrollLocker interface {
	LockScroll()
	UnlockScroll()
}

// Document is the page-wide state shared by overlays: whether the page may
// scroll.
type Document struct {
	scrollLocked bool
}

// NewDocument returns a document with the given scroll-lock state.
func NewDocument(scrollLocked bool) *Document {
	return &Document{scrollLocked: scrollLocked}
}

func (d *Document) LockScroll()   { d.scrollLocked = true }
func (d *Document) UnlockScroll() { d.scrollLocked = false }

// ScrollLocked reports whether page scrolling is disabled.
func (d *Document) ScrollLocked() bool { return d.scrollLocked }

// Overlay is the show/hide container behind the detail views. Showing it
// locks page scrolling; every hide and every Close restores scrolling, even
// when the overlay was already hidden.
type Overlay struct {
	locker  ScrollLocker
	visible bool
}

// NewOverlay binds an overlay to locker in the given visibility. Construction
// has no scroll side effect.
func NewOverlay(locker ScrollLocker, visible bool) *Overlay {
	return &Overlay{locker: locker, visible: visible}
}

// SetVisible shows or hides the overlay and applies the scroll lock.
func (o *Overlay) SetVisible(visible bool) {
	o.visible = visible
	if visible {
		o.locker.LockScroll()
		return
	}
	o.locker.UnlockScroll()
}

// Close tears the overlay down.
func (o *Overlay) Close() {
	o.SetVisible(false)
}

// Visible reports whether the overlay is shown.
func (o *Overlay) Visible() bool { return o.visible }
