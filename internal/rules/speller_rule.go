package rules

import (
	"srmorph/internal/tokenize"
)

// SpellerRuleID identifies the Serbian spelling rule. It is stable across
// releases.
const SpellerRuleID = "MORFOLOGIK_RULE_SR_RS"

// SpellerRule flags words unknown to its speller.
type SpellerRule struct {
	sp Speller
}

func NewSpellerRule(sp Speller) *SpellerRule {
	return &SpellerRule{sp: sp}
}

func (r *SpellerRule) ID() string { return SpellerRuleID }

func (r *SpellerRule) Description() string { return "Possible spelling mistake" }

func (r *SpellerRule) Examples() []Example {
	return []Example{{
		Wrong: "Изгубила све сам <marker>бткие</marker>, ал' још водим рат.",
		Fixed: "Изгубила све сам <marker>битке</marker>, ал' још водим рат.",
	}}
}

// Match reports every misspelled word token.
func (r *SpellerRule) Match(tokens []tokenize.Token) []RuleMatch {
	var out []RuleMatch
	for _, t := range tokens {
		if t.Kind != tokenize.Word || !r.sp.IsMisspelled(t.Text) {
			continue
		}
		m := RuleMatch{
			RuleID:       SpellerRuleID,
			Message:      "Possible spelling mistake found.",
			Offset:       t.Offset,
			Length:       len(t.Text),
			Token:        t.Text,
			Replacements: []string{},
		}
		for _, s := range r.sp.Suggest(t.Text) {
			m.Replacements = append(m.Replacements, s.Term)
		}
		out = append(out, m)
	}
	return out
}
