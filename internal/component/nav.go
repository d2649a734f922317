package component

// Lookahead is added to the scroll position when picking the active
// section, so a section activates shortly before it reaches the top.
const Lookahead = 200

// Section is one navigable part of the page.
type Section struct {
	ID   string
	Name string
}

// Sections lists the page sections in page order. Hero is not shown in the
// nav bar but can be active.
var Sections = []Section{
	{ID: "hero", Name: "Home"},
	{ID: "about", Name: "About"},
	{ID: "experience", Name: "Experience"},
	{ID: "projects", Name: "Projects"},
	{ID: "contact", Name: "Contact"},
}

// Tracker follows which section the visitor is looking at.
type Tracker struct {
	sections []Section
	active   string
}

// NewTracker returns a tracker over sections with active set to the first
// section, or to active when it names one of them.
func NewTracker(sections []Section, active string) *Tracker {
	t := &Tracker{sections: sections}
	if len(sections) > 0 {
		t.active = sections[0].ID
	}
	if t.has(active) {
		t.active = active
	}
	return t
}

func (t *Tracker) has(id string) bool {
	for _, s := range t.sections {
		if s.ID == id {
			return true
		}
	}
	return false
}

// OnScroll updates the active section from the scroll position and the
// sections' vertical offsets. Sections missing from offsets are skipped; when
// nothing qualifies the active section is unchanged.
func (t *Tracker) OnScroll(scrollY float64, offsets map[string]float64) string {
	pos := scrollY + Lookahead
	for i := len(t.sections) - 1; i >= 0; i-- {
		off, ok := offsets[t.sections[i].ID]
		if ok && off <= pos {
			t.active = t.sections[i].ID
			break
		}
	}
	return t.active
}

// Active returns the active section ID.
func (t *Tracker) Active() string { return t.active }

// IsActive reports whether id is the active section.
func (t *Tracker) IsActive(id string) bool { return t.active == id }

// Links returns the sections shown in the nav bar.
func (t *Tracker) Links() []Section {
	if len(t.sections) <= 1 {
		return nil
	}
	return t.sections[1:]
}

// Href is the smooth-scroll target for a section.
func Href(id string) string { return "#" + id }

// TopHref is the scroll-to-top target.
func TopHref() string { return "#top" }
