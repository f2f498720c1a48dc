package annotate

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/ptenav/internal/exercise"
)

// stubAnnotator splits on spaces and punctuation and tags from a fixed map.
type stubAnnotator struct {
	tags map[string][]string
	err  error
}

var stubTokens = regexp.MustCompile(`\w+|[^\s\w]`)

func (s *stubAnnotator) Annotate(_ context.Context, text string) ([]Term, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []Term
	for _, tok := range stubTokens.FindAllString(text, -1) {
		out = append(out, Term{Text: tok, Tags: s.tags[strings.ToLower(tok)]})
	}
	return out, nil
}

func newStub() *stubAnnotator {
	return &stubAnnotator{tags: map[string][]string{
		"the":   {"Determiner"},
		"cat":   {"Noun", "Singular"},
		"sat":   {"Verb", "PastTense"},
		"on":    {"Preposition"},
		"mat":   {"Noun"},
		"sit":   {"Verb", "Infinitive"},
		"quick": {"Adjective"},
	}}
}

func fibExercise() *exercise.Exercise {
	return &exercise.Exercise{
		ID:         "ex1",
		Type:       exercise.TypeFIBRW,
		RawPassage: "The cat _______ on the\nmat and _______ quick.",
		Blanks: []exercise.Blank{
			{BlankIndex: 7, CorrectAnswer: "was", Options: []string{"was", "were"}},
			{BlankIndex: 3, CorrectAnswer: "sat", Options: []string{"sat", "sit"},
				Hint: &exercise.Hint{POSTag: "Verb, PastTense", HighlightPhrases: []string{"the cat"}}},
		},
	}
}

func dndExercise() *exercise.Exercise {
	return &exercise.Exercise{
		ID:               "ex2",
		Type:             exercise.TypeDND,
		RawPassage:       `He said "_______" & left _______.`,
		DraggableOptions: []string{"hi", "early", "late"},
		Blanks: []exercise.Blank{
			{BlankIndex: 0, CorrectAnswer: `hi`},
			{BlankIndex: 1, CorrectAnswer: `a "late" one`},
		},
	}
}

var wrapperRe = regexp.MustCompile(`<span class="blank-wrapper" data-blank-index="(\d+)">`)

func wrapperIndices(html string) []string {
	var out []string
	for _, m := range wrapperRe.FindAllStringSubmatch(html, -1) {
		out = append(out, m[1])
	}
	return out
}

func TestSimplifyTags(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{[]string{"ProperNoun", "Singular"}, "Noun"},
		{[]string{"Pronoun"}, "Noun"},
		{[]string{"Verb, PastTense"}, "Verb"},
		{[]string{"Modal"}, "Verb"},
		{[]string{"Gerund"}, "Verb"},
		{[]string{"Adjective"}, "Adjective"},
		{[]string{"Adverb"}, "Adverb"},
		{[]string{"Preposition"}, "Preposition"},
		{[]string{"SubordinatingConjunction"}, "Conjunction"},
		{[]string{"Article"}, "Determiner"},
		{[]string{"Interjection"}, "Interjection"},
		{[]string{"Cardinal"}, "Number"},
		{[]string{"Possessive"}, "Possessive"},
		{[]string{"Possessive", "Noun"}, "Noun"},
		{[]string{"(Acronym)"}, "Acronym"},
		{[]string{"Hyphenated Adverb"}, "Adverb"},
		{nil, "Word"},
		{[]string{" , "}, "Word"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SimplifyTags(tt.in...), "SimplifyTags(%q)", tt.in)
	}
}

func TestParse_BindsMarkersInBlankIndexOrder(t *testing.T) {
	ex := fibExercise()
	doc := Parse(ex.RawPassage, ex.Blanks)

	slots := doc.Slots()
	require.Len(t, slots, 2)
	assert.Equal(t, 3, slots[0].Blank.BlankIndex)
	assert.Equal(t, 0, slots[0].Position)
	assert.Equal(t, 7, slots[1].Blank.BlankIndex)
	assert.Equal(t, 1, slots[1].Position)
	assert.False(t, slots[1].Unbound)
}

func TestParse_SurplusBlanksAndMarkers(t *testing.T) {
	doc := Parse("only _______ here", []exercise.Blank{{BlankIndex: 0}, {BlankIndex: 1}})
	slots := doc.Slots()
	require.Len(t, slots, 2)
	assert.True(t, slots[1].Unbound)

	doc = Parse("a _______ b _______", []exercise.Blank{{BlankIndex: 0}})
	require.Len(t, doc.Slots(), 1)
	last := doc.Segments[len(doc.Segments)-1]
	require.NotNil(t, last.Run)
	assert.Equal(t, " b _______", last.Run.Text)
}

func TestRender_OneControlPerBlank(t *testing.T) {
	ctx := context.Background()
	for _, pos := range []bool{false, true} {
		for _, ex := range []*exercise.Exercise{fibExercise(), dndExercise()} {
			html, warnings := Render(ctx, ex, Options{POS: pos, Annotator: newStub()}, RenderOptions{})
			assert.Empty(t, warnings)
			idx := wrapperIndices(html)
			assert.Len(t, idx, len(ex.Blanks), "pos=%v type=%s", pos, ex.Type)
			seen := map[string]bool{}
			for _, i := range idx {
				assert.False(t, seen[i], "duplicate blank index %s", i)
				seen[i] = true
			}
			assert.NotContains(t, html, exercise.Marker)
		}
	}
}

func TestRender_FIBControls(t *testing.T) {
	html, _ := Render(context.Background(), fibExercise(), Options{}, RenderOptions{Answers: map[int]string{3: "sit"}})

	assert.Contains(t, html, `<select class="fib-dropdown" data-blank-index="3" aria-label="Answer for blank 1"><option value="">Select...</option><option value="sat">sat</option><option value="sit" selected>sit</option></select>`)
	assert.Contains(t, html, `data-blank-index="7" aria-label="Answer for blank 2"`)
	assert.Contains(t, html, "on the<br>mat")
	assert.NotContains(t, html, "blank-pos-hint-tooltip")
}

func TestRender_POSOverlay(t *testing.T) {
	html, warnings := Render(context.Background(), fibExercise(), Options{POS: true, Annotator: newStub()}, RenderOptions{})
	require.Empty(t, warnings)

	assert.Contains(t, html, `<span class="word-pos-interactive" tabindex="0" role="button" aria-label="Part of speech for cat is Noun">cat<span class="pos-tooltip">Noun</span></span>`)
	// untagged words fall back to "Term"
	assert.Contains(t, html, `and<span class="pos-tooltip">Term</span>`)
	// punctuation stays unwrapped
	assert.Contains(t, html, `</span>.`)
	assert.Contains(t, html, `<option value="sat">sat (Verb)</option>`)
	assert.Contains(t, html, `<span class="blank-pos-hint-tooltip">Verb</span>`)
	assert.Contains(t, html, `<span class="blank-pos-hint-tooltip">Select</span>`)
}

func TestRender_DNDControls(t *testing.T) {
	doc, _ := Build(context.Background(), dndExercise(), Options{POS: true, Annotator: newStub()})
	html := doc.HTML(RenderOptions{Answers: map[int]string{0: "hi"}, Marks: map[int]string{1: "unanswered"}})

	assert.Contains(t, html, `&quot;<span class="blank-wrapper" data-blank-index="0">`)
	assert.Contains(t, html, `&quot; &amp; <span class="word-pos-interactive" tabindex="0" role="button" aria-label="Part of speech for left is Term">left`)
	assert.Contains(t, html, `<span class="blank dropzone filled" data-blank-index="0" data-correct-answer="hi" aria-label="Drop area for blank 1" role="region" title="Click to remove this word" tabindex="0">hi</span>`)
	assert.Contains(t, html, `<span class="blank dropzone unanswered" data-blank-index="1" data-correct-answer="a &quot;late&quot; one"`)
	assert.Contains(t, html, `<span class="blank-pos-hint-tooltip">Word</span>`)

	pool := doc.PoolHTML(dndExercise().DraggableOptions)
	assert.Contains(t, pool, `data-dnd-word="early"`)
	assert.Contains(t, pool, `<span class="pos-tooltip">Word</span>`)
}

func TestRender_AnnotatorFailureFallsBack(t *testing.T) {
	ex := fibExercise()
	stub := &stubAnnotator{err: errors.New("tagger offline")}
	html, warnings := Render(context.Background(), ex, Options{POS: true, Annotator: stub}, RenderOptions{})

	require.Len(t, warnings, 1)
	assert.ErrorContains(t, warnings[0], "tagger offline")
	assert.NotContains(t, html, "word-pos-interactive")
	assert.NotContains(t, html, "blank-pos-hint-tooltip")
	assert.Len(t, wrapperIndices(html), 2)

	_, warnings = Render(context.Background(), ex, Options{POS: true}, RenderOptions{})
	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0], ErrNoAnnotator)
}

func TestHighlight_LongestFirstAndCaseInsensitive(t *testing.T) {
	doc := Parse("Supply and demand shape demand.", nil)
	doc.Highlight([]string{"demand", "supply and DEMAND", "", "demand"})

	run := doc.Segments[0].Run
	require.Len(t, run.Highlights, 2)
	assert.Equal(t, "Supply and demand", run.Text[run.Highlights[0].Start:run.Highlights[0].End])
	assert.Equal(t, "demand", run.Text[run.Highlights[1].Start:run.Highlights[1].End])
	assert.Equal(t, []string{"supply and DEMAND", "demand"}, doc.CluePhrases)
}

func TestHighlight_Idempotent(t *testing.T) {
	ex := fibExercise()
	doc, _ := Build(context.Background(), ex, Options{POS: true, Annotator: newStub()})
	first := doc.HTML(RenderOptions{})

	added := doc.Highlight(ex.CluePhrases())
	assert.Zero(t, added)
	assert.Equal(t, first, doc.HTML(RenderOptions{}))
	assert.Equal(t, 1, strings.Count(first, "passage-clue-highlight"))
}

func TestHighlight_WrapsWholeTerms(t *testing.T) {
	ex := fibExercise()
	html, _ := Render(context.Background(), ex, Options{POS: true, Annotator: newStub(), CluePhrases: []string{"he ca"}}, RenderOptions{})
	assert.Contains(t, html, `<span class="passage-clue-highlight"><span class="word-pos-interactive" tabindex="0" role="button" aria-label="Part of speech for The is Determiner">The<span class="pos-tooltip">Determiner</span></span> <span class="word-pos-interactive" tabindex="0" role="button" aria-label="Part of speech for cat is Noun">cat<span class="pos-tooltip">Noun</span></span></span>`)
}

func TestHighlight_PartialMatchWithoutTerms(t *testing.T) {
	ex := fibExercise()
	html, _ := Render(context.Background(), ex, Options{CluePhrases: []string{"he ca"}}, RenderOptions{})
	assert.Contains(t, html, `T<span class="passage-clue-highlight">he ca</span>t`)
}

func TestHighlight_NeverMatchesMarkupOrCrossesBlanks(t *testing.T) {
	ex := fibExercise()
	html, _ := Render(context.Background(), ex, Options{POS: true, Annotator: newStub(), CluePhrases: []string{"noun", "span", "on the mat", "cat sat"}}, RenderOptions{})
	assert.NotContains(t, html, "passage-clue-highlight")

	plain := &exercise.Exercise{Type: exercise.TypeDND, RawPassage: `x <b class="q">bold</b> y`}
	html, _ = Render(context.Background(), plain, Options{CluePhrases: []string{"class", "b"}}, RenderOptions{EmphasizeClues: true})
	assert.Equal(t, `x &lt;<span class="passage-clue-highlight extra-emphasis">b</span> <span class="passage-clue-highlight extra-emphasis">class</span>=&quot;q&quot;&gt;<span class="passage-clue-highlight extra-emphasis">b</span>old&lt;/<span class="passage-clue-highlight extra-emphasis">b</span>&gt; y`, html)
}

func TestBuild_UsesExercisePhrasesByDefault(t *testing.T) {
	ex := fibExercise()
	doc, _ := Build(context.Background(), ex, Options{})
	assert.True(t, doc.HasClues())
	assert.Equal(t, []string{"the cat"}, doc.CluePhrases)

	ex.Analysis = &exercise.PassageAnalysis{HighlightPhrases: []string{"mat"}}
	doc, _ = Build(context.Background(), ex, Options{})
	assert.Equal(t, []string{"mat"}, doc.CluePhrases)
}

func TestLinkTerms_LongestMatchWins(t *testing.T) {
	res := &exercise.Resources{KeyTerms: map[string]exercise.KeyTerm{
		"agg":     {ID: "agg", Term: "aggregate"},
		"agg_val": {ID: "agg_val", Term: "aggregate value", Name: "Aggregate Value"},
	}}
	got := LinkTerms("The aggregate value rises", res)
	assert.Equal(t, `The <span class="interactive-hint-term" data-term-id="agg_val" title="Click for definition: Aggregate Value" role="button" tabindex="0">aggregate value</span> rises`, got)

	got = LinkTerms("An aggregate, then aggregated <data>", res)
	assert.Equal(t, `An <span class="interactive-hint-term" data-term-id="agg" title="Click for definition: aggregate" role="button" tabindex="0">aggregate</span>, then aggregated &lt;data&gt;`, got)
}

func TestLinkTerms_NoTerms(t *testing.T) {
	assert.Equal(t, "a &amp; b", LinkTerms("a & b", nil))
	assert.Nil(t, LinkSegments("", nil))
}

func TestLinkSegments(t *testing.T) {
	res := &exercise.Resources{KeyTerms: map[string]exercise.KeyTerm{
		"verb": {ID: "verb", Term: "verb"},
	}}
	segs := LinkSegments("Verb agreement: the verb.", res)
	require.Len(t, segs, 4)
	assert.Equal(t, Linked{Text: "Verb", TermID: "verb"}, segs[0])
	assert.Equal(t, Linked{Text: " agreement: the "}, segs[1])
	assert.Equal(t, Linked{Text: "verb", TermID: "verb"}, segs[2])
	assert.Equal(t, Linked{Text: "."}, segs[3])
}

func TestFallbackAnnotator(t *testing.T) {
	primary := &stubAnnotator{err: errors.New("down")}
	f := &Fallback{Primary: primary, Secondary: newStub()}
	terms, err := f.Annotate(context.Background(), "the cat")
	require.NoError(t, err)
	require.Len(t, terms, 2)

	f = &Fallback{Primary: primary}
	_, err = f.Annotate(context.Background(), "x")
	assert.Error(t, err)
}
