package scan

import (
	"fmt"
	"io"
	"strings"

	"github.com/joseph-ayodele/ingredient-scanner/internal/meter"
)

const barWidth = 40

// TerminalSurface draws UI state as text: the card once per change and the
// meter as a single line rewritten in place.
type TerminalSurface struct {
	w        io.Writer
	lastCard Card
	hasCard  bool
	loader   bool
	meterOn  bool
}

// NewTerminalSurface writes to w.
func NewTerminalSurface(w io.Writer) *TerminalSurface {
	return &TerminalSurface{w: w}
}

// Render prints whatever changed since the previous state.
func (t *TerminalSurface) Render(s UIState) {
	if s.Loader && !t.loader {
		t.endMeterLine()
		fmt.Fprintln(t.w, "Scanning...")
	}
	t.loader = s.Loader

	if s.Card != nil && (!t.hasCard || !sameCard(t.lastCard, *s.Card)) {
		t.endMeterLine()
		writeCard(t.w, *s.Card)
		t.lastCard, t.hasCard = *s.Card, true
	} else if s.Card == nil {
		t.hasCard = false
	}

	if s.Meter.Visible {
		fmt.Fprintf(t.w, "\r%s", MeterLine(s.Meter))
		t.meterOn = true
		if s.Meter.Current >= s.Meter.Target {
			t.endMeterLine()
		}
	} else {
		t.endMeterLine()
	}
}

func (t *TerminalSurface) endMeterLine() {
	if t.meterOn {
		fmt.Fprintln(t.w)
		t.meterOn = false
	}
}

// MeterLine renders a meter state as "[#####.....]  42% Healthy".
func MeterLine(s meter.State) string {
	filled := s.Current * barWidth / 100
	return fmt.Sprintf("[%s%s] %3d%% %s",
		strings.Repeat("#", filled),
		strings.Repeat(".", barWidth-filled),
		s.Current, s.Label)
}

func writeCard(w io.Writer, c Card) {
	var chips []string
	for _, ch := range c.Chips {
		chips = append(chips, "("+ch.Label+")")
	}
	if len(chips) > 0 {
		fmt.Fprintln(w, strings.Join(chips, " "))
	}
	fmt.Fprintf(w, "== %s ==\n%s\n", c.Heading, c.Text)
	if c.Note != "" {
		fmt.Fprintln(w, c.Note)
	}
}

func sameCard(a, b Card) bool {
	return a.Heading == b.Heading && a.Text == b.Text && a.Note == b.Note && len(a.Chips) == len(b.Chips)
}
