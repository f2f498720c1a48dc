package annotate

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/neurosnap/sentences"
	sentencesdata "github.com/neurosnap/sentences/data"
)

// Lexicon is a rule-based English tagger: closed-class word lists, suffix
// heuristics and capitalization. Sentence boundaries come from the Punkt
// English model so that sentence-initial capitals are not taken for proper
// nouns.
type Lexicon struct {
	once      sync.Once
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewLexicon returns a Lexicon annotator. The sentence model loads lazily.
func NewLexicon() *Lexicon {
	return &Lexicon{}
}

var tokenPattern = regexp.MustCompile(`[A-Za-z0-9]+(?:['’][A-Za-z]+)*|_+|[^\s\w]`)

// Annotate implements Annotator.
func (l *Lexicon) Annotate(ctx context.Context, text string) ([]Term, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	starts := l.sentenceStarts(text)
	locs := tokenPattern.FindAllStringIndex(text, -1)
	terms := make([]Term, 0, len(locs))

	si := 0
	initial := false
	var prev []string
	for _, loc := range locs {
		word := text[loc[0]:loc[1]]
		for si < len(starts) && starts[si] <= loc[0] {
			si++
			initial = true
		}
		if !isWordToken(word) {
			terms = append(terms, Term{Text: word})
			prev = nil
			continue
		}
		tags := tagWord(word, initial)
		if isPluralNoun(tags) && takesThirdPerson(prev) {
			tags = []string{"PresentTense", "Verb"}
		}
		terms = append(terms, Term{Text: word, Tags: tags})
		prev = tags
		initial = false
	}
	return terms, nil
}

func isWordToken(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// sentenceStarts returns the byte offsets where sentences begin.
func (l *Lexicon) sentenceStarts(text string) []int {
	l.once.Do(func() {
		data, err := sentencesdata.Asset("english.json")
		if err != nil {
			return
		}
		storage, err := sentences.LoadTraining(data)
		if err != nil {
			return
		}
		l.tokenizer = sentences.NewSentenceTokenizer(storage)
	})

	if l.tokenizer == nil {
		return fallbackSentenceStarts(text)
	}

	var starts []int
	cursor := 0
	for _, s := range l.tokenizer.Tokenize(text) {
		sent := strings.TrimSpace(s.Text)
		if sent == "" {
			continue
		}
		idx := strings.Index(text[cursor:], sent)
		if idx < 0 {
			continue
		}
		starts = append(starts, cursor+idx)
		cursor += idx + len(sent)
	}
	if len(starts) == 0 {
		return fallbackSentenceStarts(text)
	}
	return starts
}

var sentenceEnd = regexp.MustCompile(`[.!?]+["')\]]*\s+`)

func fallbackSentenceStarts(text string) []int {
	starts := []int{0}
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		starts = append(starts, loc[1])
	}
	return starts
}

func set(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

var (
	articles     = set("a", "an", "the")
	determiners  = set("this", "that", "these", "those", "each", "every", "some", "any", "no", "all", "both", "either", "neither", "another", "such", "much", "many", "few", "several", "most", "more", "less", "other")
	possessives  = set("my", "your", "his", "her", "its", "our", "their", "whose")
	pronouns     = set("i", "you", "he", "she", "it", "we", "they", "me", "him", "us", "them", "myself", "yourself", "himself", "herself", "itself", "ourselves", "themselves", "who", "whom", "which", "what", "someone", "anyone", "everyone", "nobody", "something", "anything", "everything", "nothing", "one")
	prepositions = set("in", "on", "at", "by", "for", "with", "about", "against", "between", "into", "through", "during", "before", "after", "above", "below", "to", "from", "up", "down", "of", "off", "over", "under", "within", "without", "among", "across", "behind", "beyond", "despite", "toward", "towards", "upon", "per", "via", "throughout", "around", "along", "beside", "near", "onto", "amid", "like")
	coordinators = set("and", "but", "or", "nor", "so", "yet")
	subordinates = set("although", "because", "while", "whereas", "if", "unless", "though", "whether", "since", "once", "until", "than", "when", "where", "whenever")
	modals       = set("can", "could", "may", "might", "must", "shall", "should", "will", "would")
	copulas      = set("be", "is", "are", "was", "were", "am", "been", "being")
	auxiliaries  = set("have", "has", "had", "do", "does", "did")
	adverbs      = set("not", "very", "also", "often", "never", "always", "however", "therefore", "thus", "too", "quite", "rather", "just", "only", "even", "still", "already", "soon", "now", "then", "here", "there", "almost", "perhaps", "indeed", "moreover", "furthermore", "hence", "instead", "sometimes", "usually", "again", "ever", "yesterday", "today", "tomorrow")
	interjects   = set("oh", "wow", "hey", "alas", "ouch", "hello", "oops", "hooray")
	cardinals    = set("zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten", "eleven", "twelve", "twenty", "thirty", "hundred", "thousand", "million", "billion")
	ordinals     = set("first", "second", "third", "fourth", "fifth", "sixth", "seventh", "eighth", "ninth", "tenth", "last")
	notAdverbs   = set("family", "supply", "apply", "reply", "rely", "italy", "july", "fly", "belly", "ally", "early", "only", "holy", "ugly", "silly", "friendly", "likely", "lonely", "lovely", "daily", "weekly", "monthly")
)

type suffixRule struct {
	suffix string
	tags   []string
}

var suffixRules = []suffixRule{
	{"ing", []string{"Gerund", "Verb"}},
	{"ed", []string{"PastTense", "Verb"}},
	{"ize", []string{"Infinitive", "Verb"}},
	{"ise", []string{"Infinitive", "Verb"}},
	{"ify", []string{"Infinitive", "Verb"}},
	{"tion", []string{"Singular", "Noun"}},
	{"sion", []string{"Singular", "Noun"}},
	{"ment", []string{"Singular", "Noun"}},
	{"ness", []string{"Singular", "Noun"}},
	{"ity", []string{"Singular", "Noun"}},
	{"ance", []string{"Singular", "Noun"}},
	{"ence", []string{"Singular", "Noun"}},
	{"ship", []string{"Singular", "Noun"}},
	{"ism", []string{"Singular", "Noun"}},
	{"ist", []string{"Singular", "Noun"}},
	{"ous", []string{"Adjective"}},
	{"ful", []string{"Adjective"}},
	{"less", []string{"Adjective"}},
	{"able", []string{"Adjective"}},
	{"ible", []string{"Adjective"}},
	{"ive", []string{"Adjective"}},
	{"ical", []string{"Adjective"}},
	{"al", []string{"Adjective"}},
	{"ic", []string{"Adjective"}},
	{"ish", []string{"Adjective"}},
	{"ary", []string{"Adjective"}},
}

// A word ending in -s right after a singular subject reads as a present
// tense verb: "the river rises", "it matters". Compound nouns such as
// "river banks" are tagged as verbs too.
func isPluralNoun(tags []string) bool {
	return len(tags) == 2 && tags[0] == "Plural" && tags[1] == "Noun"
}

func takesThirdPerson(prev []string) bool {
	if len(prev) == 0 {
		return false
	}
	switch prev[0] {
	case "Singular", "ProperNoun", "ThirdPerson":
		return true
	}
	return false
}

var (
	thirdPerson = set("he", "she", "it", "who", "which")
	// negatedStems spells out stems that "n't" changes: can't, won't, shan't.
	negatedStems = map[string]string{"ca": "can", "wo": "will", "sha": "shall"}
)

// contraction tags a word with a clitic by its stem: "isn't" and "don't"
// are verbs, "they're" and "it's" keep the pronoun. ok is false for
// possessives and plain words.
func contraction(lower string) (tags []string, ok bool) {
	lower = strings.ReplaceAll(lower, "’", "'")
	if stem, found := strings.CutSuffix(lower, "n't"); found {
		if full, irregular := negatedStems[stem]; irregular {
			stem = full
		}
		switch {
		case modals[stem]:
			return []string{"Modal", "Verb", "Negative"}, true
		case copulas[stem]:
			return []string{"Copula", "Verb", "Negative"}, true
		case auxiliaries[stem]:
			return []string{"Auxiliary", "Verb", "Negative"}, true
		}
		return []string{"Verb", "Negative"}, true
	}
	stem, clitic, found := strings.Cut(lower, "'")
	if !found {
		return nil, false
	}
	switch clitic {
	case "re", "ve", "ll", "d", "m":
		return []string{"Pronoun"}, true
	case "s":
		if pronouns[stem] || determiners[stem] || stem == "there" || stem == "here" {
			return []string{"Pronoun", "Copula"}, true
		}
	}
	return nil, false
}

func tagWord(word string, sentenceInitial bool) []string {
	lower := strings.ToLower(word)

	if tags, ok := contraction(lower); ok {
		return tags
	}
	if strings.HasSuffix(lower, "'s") || strings.HasSuffix(lower, "’s") {
		return []string{"Possessive", "Noun"}
	}
	if isNumeric(lower) {
		return []string{"Value", "Cardinal"}
	}

	switch {
	case articles[lower]:
		return []string{"Determiner", "Article"}
	case possessives[lower]:
		return []string{"Possessive", "Pronoun"}
	case determiners[lower]:
		return []string{"Determiner"}
	case thirdPerson[lower]:
		return []string{"ThirdPerson", "Pronoun"}
	case pronouns[lower]:
		return []string{"Pronoun"}
	case modals[lower]:
		return []string{"Modal", "Verb"}
	case copulas[lower]:
		return []string{"Copula", "Verb"}
	case auxiliaries[lower]:
		return []string{"Auxiliary", "Verb"}
	case coordinators[lower]:
		return []string{"CoordinatingConjunction", "Conjunction"}
	case subordinates[lower]:
		return []string{"SubordinatingConjunction", "Conjunction"}
	case prepositions[lower]:
		return []string{"Preposition"}
	case adverbs[lower]:
		return []string{"Adverb"}
	case interjects[lower]:
		return []string{"Interjection"}
	case ordinals[lower]:
		return []string{"Ordinal", "Value"}
	case cardinals[lower]:
		return []string{"Cardinal", "Value"}
	}

	if !sentenceInitial && unicode.IsUpper([]rune(word)[0]) {
		return []string{"ProperNoun", "Noun"}
	}

	if len(lower) > 4 && strings.HasSuffix(lower, "ly") && !notAdverbs[lower] {
		return []string{"Adverb"}
	}
	if len(lower) > 3 {
		for _, r := range suffixRules {
			if strings.HasSuffix(lower, r.suffix) && len(lower) > len(r.suffix)+1 {
				return r.tags
			}
		}
		if strings.HasSuffix(lower, "s") && !strings.HasSuffix(lower, "ss") {
			return []string{"Plural", "Noun"}
		}
	}
	return []string{"Singular", "Noun"}
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
