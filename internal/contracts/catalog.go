package contracts

// CardDefinition is one catalog entry. Owned by the catalog store; the
// engine only reads it through the catalog gate's snapshot cache.
type CardDefinition struct {
	CardID         string `json:"card_id"`
	Title          string `json:"title"`
	Category       string `json:"category"` // market, ticker, options, technical
	RequiresSymbol bool   `json:"requires_symbol"`
	MinimumTier    string `json:"minimum_tier"`
	IsActive       bool   `json:"is_active"`

	// Beginner-facing education, attached to beginner responses
	ShortDescription string `json:"short_description,omitempty"`
	HowToInterpret   string `json:"how_to_interpret,omitempty"`
	EducationalTip   string `json:"educational_tip,omitempty"`
}

// EducationNotes collects the definition's non-empty education texts
func (d *CardDefinition) EducationNotes() []string {
	var notes []string
	for _, s := range []string{d.ShortDescription, d.HowToInterpret, d.EducationalTip} {
		if s != "" {
			notes = append(notes, s)
		}
	}
	return notes
}
