package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	r := NewResolver("hero", "#scanner", "rules")

	tests := []struct {
		name   string
		button Button
		want   Action
	}{
		{"about redirects regardless of link", Button{ID: AboutButtonID, Link: "#scanner"}, Action{Kind: Redirect, Target: AboutURL}},
		{"hero scrolls to top", Button{ID: "homeNav", Link: "#hero"}, Action{Kind: ScrollTop}},
		{"known section", Button{ID: "scanNav", Link: "#scanner"}, Action{Kind: ScrollTo, Target: "scanner"}},
		{"unknown section", Button{ID: "x", Link: "#missing"}, Action{Kind: None}},
		{"empty link", Button{ID: "x"}, Action{Kind: None}},
		{"bare hash", Button{ID: "x", Link: "#"}, Action{Kind: None}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.button))
		})
	}
}

func TestActionHref(t *testing.T) {
	assert.Equal(t, "/about", Action{Kind: Redirect, Target: "/about"}.Href())
	assert.Equal(t, "#hero", Action{Kind: ScrollTop}.Href())
	assert.Equal(t, "#rules", Action{Kind: ScrollTo, Target: "rules"}.Href())
	assert.Equal(t, "#", Action{Kind: None}.Href())
}

func TestMenuKeepsOrder(t *testing.T) {
	r := NewResolver("scanner", "rules")
	items := r.Menu(DefaultButtons()...)

	assert.Len(t, items, 4)
	assert.Equal(t, "homeNav", items[0].ID)
	assert.Equal(t, ScrollTop, items[0].Action.Kind)
	assert.Equal(t, Redirect, items[3].Action.Kind)
}
