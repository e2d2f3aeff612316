package scan

import (
	"github.com/google/uuid"

	"github.com/joseph-ayodele/ingredient-scanner/internal/ingredients"
	"github.com/joseph-ayodele/ingredient-scanner/internal/meter"
)

// CardHeading titles every result card.
const CardHeading = "Ingredients Detected"

// Card is the result panel: recognised text, one chip and a note, or a
// message with no chips when the scan failed.
type Card struct {
	Heading string             `json:"heading"`
	Text    string             `json:"text"`
	IsGood  bool               `json:"is_good"`
	Chips   []ingredients.Chip `json:"chips"`
	Note    string             `json:"note"`
}

func messageCard(msg string) *Card {
	return &Card{Heading: CardHeading, Text: msg, Chips: []ingredients.Chip{}}
}

// UIState is everything a render surface draws.
type UIState struct {
	ScanID uuid.UUID           `json:"scan_id"`
	Loader bool                `json:"loader"`
	Card   *Card               `json:"card,omitempty"`
	Meter  meter.State         `json:"meter"`
	Result *ingredients.Result `json:"result,omitempty"`
}

func (s UIState) clone() UIState {
	out := s
	if s.Card != nil {
		c := *s.Card
		out.Card = &c
	}
	if s.Result != nil {
		r := *s.Result
		out.Result = &r
	}
	return out
}

// Surface draws UI state. Render is called with the controller lock held and
// must not call back into the Controller.
type Surface interface {
	Render(UIState)
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func(UIState)

func (f SurfaceFunc) Render(s UIState) { f(s) }

type nopSurface struct{}

func (nopSurface) Render(UIState) {}
