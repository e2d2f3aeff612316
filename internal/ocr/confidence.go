package ocr

import (
	"regexp"
	"strings"
)

var (
	reIngredientHeader = regexp.MustCompile(`\bingredients?\b`)
	rePercentage       = regexp.MustCompile(`\b\d{1,3}(\.\d+)?\s?%`)
	reAllergen         = regexp.MustCompile(`\b(contains|may contain|allergens?)\b`)
)

// naive heuristic confidence based on decoded text characteristics
func heuristicConfidence(txt string) float32 {
	// boost if we see common ingredient-label artifacts
	txtL := strings.ToLower(txt)
	score := float32(0.2) // base
	if reIngredientHeader.MatchString(txtL) {
		score += 0.25
	}
	if strings.Count(txtL, ",") >= 2 {
		score += 0.15
	} // comma separated list
	if rePercentage.MatchString(txtL) {
		score += 0.1
	}
	if reAllergen.MatchString(txtL) {
		score += 0.1
	}
	if len(txt) > 80 {
		score += 0.1
	} // enough content
	return min(score, 1.0)
}
