package ingredients

import (
	"strings"

	"github.com/joseph-ayodele/ingredient-scanner/constants"
)

// NoFlagsNote is shown when no rule matched.
const NoFlagsNote = "Great choice! Almost no flagged additives."

// Chip is the single status badge rendered on a card.
type Chip struct {
	Type  constants.HealthFlag `json:"type"`
	Label string               `json:"label"`
}

// Result is the assessment of one scanned label.
type Result struct {
	Percent    int                  `json:"percent"`
	HealthFlag constants.HealthFlag `json:"health_flag"`
	Chips      []Chip               `json:"chips"`
	Note       string               `json:"note"`
	Flags      []Rule               `json:"flags"`
}

// FlagCount is the number of distinct rules that matched.
func (r Result) FlagCount() int { return len(r.Flags) }

// Evaluate scores text against the rule table. Matching is a case-insensitive
// substring test and a rule counts once no matter how often it occurs.
func Evaluate(text string) Result {
	input := strings.ToLower(text)

	found := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if strings.Contains(input, r.Keyword) {
			found = append(found, r)
		}
	}

	flag := constants.Healthy
	if len(found) > 0 {
		flag = constants.Unhealthy
	}

	return Result{
		Percent:    percentFor(len(found)),
		HealthFlag: flag,
		Chips:      []Chip{{Type: flag, Label: flag.Label()}},
		Note:       noteFor(found),
		Flags:      found,
	}
}

// percentFor maps a flag count onto the four fixed tiers.
func percentFor(flagCount int) int {
	switch {
	case flagCount <= 0:
		return 90
	case flagCount == 1:
		return 70
	case flagCount == 2:
		return 55
	default:
		return 35
	}
}

func noteFor(found []Rule) string {
	if len(found) == 0 {
		return NoFlagsNote
	}
	notes := make([]string, len(found))
	for i, r := range found {
		notes[i] = r.Note
	}
	return "Noted: " + strings.Join(notes, ", ")
}
