package annotate

import (
	"regexp"
	"strings"
)

var tagSplit = regexp.MustCompile(`[,()\s]+`)

type tagRule struct {
	check []string
	out   string
}

// tagRules is evaluated in order; the first rule with any matching tag wins.
var tagRules = []tagRule{
	{[]string{"propernoun", "noun", "pronoun", "singular", "plural", "person", "place", "organization"}, "Noun"},
	{[]string{"verb", "infinitive", "verbphrase", "auxiliary", "pasttense", "presenttense", "futuretense", "gerund", "participle", "modal", "copula"}, "Verb"},
	{[]string{"adjective"}, "Adjective"},
	{[]string{"adverb"}, "Adverb"},
	{[]string{"preposition"}, "Preposition"},
	{[]string{"conjunction", "coordinatingconjunction", "subordinatingconjunction"}, "Conjunction"},
	{[]string{"determiner", "article"}, "Determiner"},
	{[]string{"interjection"}, "Interjection"},
	{[]string{"value", "ordinal", "cardinal", "number"}, "Number"},
	{[]string{"possessive"}, "Possessive"},
}

// SimplifyTags maps a set of raw tagger tags to a single display label.
// Each entry may itself hold several tags separated by commas, parentheses
// or whitespace.
func SimplifyTags(raw ...string) string {
	var tags []string
	for _, r := range raw {
		for _, t := range tagSplit.Split(strings.ToLower(r), -1) {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	for _, rule := range tagRules {
		for _, want := range rule.check {
			for _, t := range tags {
				if t == want {
					return rule.out
				}
			}
		}
	}

	if len(tags) == 0 {
		return "Word"
	}
	return strings.ToUpper(tags[0][:1]) + tags[0][1:]
}
