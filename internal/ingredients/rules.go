package ingredients

// Rule flags a label when its keyword occurs anywhere in the recognised text.
type Rule struct {
	Keyword string `json:"keyword"`
	Note    string `json:"note"`
}

// rules is evaluated in declaration order; notes are reported in this order.
var rules = [...]Rule{
	{Keyword: "sugar", Note: "High sugar"},
	{Keyword: "palm oil", Note: "Palm oil"},
	{Keyword: "artificial", Note: "Artificial additives"},
	{Keyword: "preservative", Note: "Preservative"},
	{Keyword: "color", Note: "Color additive"},
	{Keyword: "flavor", Note: "Artificial flavoring"},
}

// Rules returns a copy of the flagged-ingredient table.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules[:])
	return out
}
