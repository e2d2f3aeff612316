package nav

import "strings"

// Kind is what a navigation button does when pressed.
type Kind string

const (
	None      Kind = "none"
	Redirect  Kind = "redirect"
	ScrollTop Kind = "scroll-top"
	ScrollTo  Kind = "scroll-to"
)

const (
	AboutButtonID = "aboutNav"
	AboutURL      = "/about"
	HeroLink      = "#hero"
)

// Button is a nav entry as rendered on the page.
type Button struct {
	ID    string
	Label string
	Link  string // data-link, e.g. "#scanner"
}

// Action is the resolved effect of pressing a Button.
type Action struct {
	Kind   Kind
	Target string // URL for Redirect, element id for ScrollTo
}

// Resolver maps buttons to actions for a page with known section ids.
type Resolver struct {
	sections map[string]struct{}
}

// NewResolver returns a resolver for a page containing the given section ids.
func NewResolver(sectionIDs ...string) *Resolver {
	r := &Resolver{sections: make(map[string]struct{}, len(sectionIDs))}
	for _, id := range sectionIDs {
		r.sections[strings.TrimPrefix(id, "#")] = struct{}{}
	}
	return r
}

// Resolve applies the about redirect first, then the hero scroll, then a
// section scroll when the link names a section on the page.
func (r *Resolver) Resolve(b Button) Action {
	if b.ID == AboutButtonID {
		return Action{Kind: Redirect, Target: AboutURL}
	}
	link := strings.TrimSpace(b.Link)
	if link == HeroLink {
		return Action{Kind: ScrollTop}
	}
	if id, ok := strings.CutPrefix(link, "#"); ok && id != "" {
		if _, known := r.sections[id]; known {
			return Action{Kind: ScrollTo, Target: id}
		}
	}
	return Action{Kind: None}
}

// Href is the anchor href a template should render for the action.
func (a Action) Href() string {
	switch a.Kind {
	case Redirect:
		return a.Target
	case ScrollTop:
		return HeroLink
	case ScrollTo:
		return "#" + a.Target
	default:
		return "#"
	}
}

// Item pairs a button with its resolved action for rendering.
type Item struct {
	Button
	Action Action
}

// Menu resolves every button in order.
func (r *Resolver) Menu(buttons ...Button) []Item {
	items := make([]Item, 0, len(buttons))
	for _, b := range buttons {
		items = append(items, Item{Button: b, Action: r.Resolve(b)})
	}
	return items
}

// DefaultButtons is the site navigation.
func DefaultButtons() []Button {
	return []Button{
		{ID: "homeNav", Label: "Home", Link: HeroLink},
		{ID: "scanNav", Label: "Scan", Link: "#scanner"},
		{ID: "rulesNav", Label: "What we flag", Link: "#rules"},
		{ID: AboutButtonID, Label: "About Us", Link: "#about"},
	}
}
