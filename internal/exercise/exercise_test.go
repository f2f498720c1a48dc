package exercise

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bundleJSON = `{
  "linguistic_resources": {
    "key_terms": [
      {"id": "agg", "term": "aggregate", "definition": "a whole"},
      {"term": "Aggregate Value", "definition": "the total"}
    ],
    "common_error_patterns": {
      "tense": {"name": "Tense mismatch", "description": "wrong tense"}
    }
  },
  "exercises": [
    {
      "id": "ex1",
      "title": "Markets",
      "exerciseType": "FIB_RW",
      "difficulty": "hard",
      "rawPassage": "Prices _______ when demand _______.",
      "blanks": [
        {"blank_index": 1, "correct_answer": "falls", "options_fib_rw": ["falls", "fell"]},
        {"blank_index": 0, "correct_answer": "rise", "options_fib_rw": ["rise", "rose"]}
      ]
    }
  ]
}`

func TestParseImport_ObjectForm(t *testing.T) {
	res, err := ParseImport([]byte(bundleJSON), FormatJSON)
	require.NoError(t, err)
	require.Len(t, res.Exercises, 1)
	assert.False(t, res.Legacy)
	assert.Empty(t, res.Warnings)

	require.NotNil(t, res.Resources)
	assert.Contains(t, res.Resources.KeyTerms, "agg")
	assert.Contains(t, res.Resources.KeyTerms, "aggregate_value")
	p, ok := res.Resources.Pattern("tense")
	require.True(t, ok)
	assert.Equal(t, "tense", p.ID)
	assert.Equal(t, "wrong tense", p.Text())
}

func TestParseImport_CamelCaseResources(t *testing.T) {
	doc := `{"linguisticResources": {"key_terms": {"x": {"term": "x", "definition": "d"}}},
	  "exercises": [{"id": "a", "title": "A", "exerciseType": "DND", "rawPassage": "_______", "blanks": [{"blank_index": 0, "correct_answer": "w"}]}]}`
	res, err := ParseImport([]byte(doc), FormatJSON)
	require.NoError(t, err)
	require.NotNil(t, res.Resources)
	assert.Equal(t, "x", res.Resources.KeyTerms["x"].ID)
}

func TestParseImport_LegacyArrayLiftsResources(t *testing.T) {
	doc := `[
	  {"id": "a", "title": "A", "exerciseType": "DND", "rawPassage": "_______",
	   "blanks": [{"blank_index": 0, "correct_answer": "w"}],
	   "linguistic_resources": {"key_terms": [{"id": "k", "term": "k"}]}},
	  {"id": "b", "title": "B", "exerciseType": "DND", "rawPassage": "_______",
	   "blanks": [{"blank_index": 0, "correct_answer": "w"}],
	   "linguistic_resources": {"key_terms": [{"id": "z", "term": "z"}]}}
	]`
	res, err := ParseImport([]byte(doc), FormatJSON)
	require.NoError(t, err)
	assert.True(t, res.Legacy)
	require.NotNil(t, res.Resources)
	assert.Contains(t, res.Resources.KeyTerms, "k")
	for _, ex := range res.Exercises {
		assert.Nil(t, ex.Resources, "exercise %s keeps resources", ex.ID)
	}
}

func TestParseImport_RejectsIncompleteFirstExercise(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing title", `[{"id": "a", "exerciseType": "DND", "rawPassage": "x", "blanks": []}]`},
		{"blanks not array", `{"exercises": [{"id": "a", "title": "t", "exerciseType": "DND", "rawPassage": "x", "blanks": {}}]}`},
		{"no exercises", `{"linguistic_resources": {}}`},
		{"scalar", `42`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseImport([]byte(tt.doc), FormatJSON)
			require.Error(t, err)
			var ie *ImportError
			assert.True(t, errors.As(err, &ie))
		})
	}
}

func TestParseImport_YAML(t *testing.T) {
	doc := `
exercises:
  - id: y1
    title: From YAML
    exerciseType: FIB_RW
    rawPassage: "The cat _______ on the mat."
    blanks:
      - blank_index: 0
        correct_answer: sat
        options_fib_rw: [sat, sit]
`
	res, err := ParseImport([]byte(doc), FormatYAML)
	require.NoError(t, err)
	require.Len(t, res.Exercises, 1)
	assert.Equal(t, TypeFIBRW, res.Exercises[0].Type)
	assert.Equal(t, []string{"sat", "sit"}, res.Exercises[0].Blanks[0].Options)
	assert.Nil(t, res.Resources)
}

func TestParseImport_MarkerMismatchIsWarning(t *testing.T) {
	doc := `[{"id": "a", "title": "A", "exerciseType": "DND", "rawPassage": "no markers", "blanks": [{"blank_index": 0, "correct_answer": "w"}]}]`
	res, err := ParseImport([]byte(doc), FormatJSON)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "0 blank markers")
}

func TestValidate(t *testing.T) {
	ex := &Exercise{ID: "a", Title: "A", Type: "MCQ", Difficulty: "extreme", RawPassage: "_______",
		Blanks: []Blank{{BlankIndex: 0, CorrectAnswer: "x"}, {BlankIndex: 0, CorrectAnswer: "y"}}}
	err := Validate(ex)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "exerciseType")
	assert.Contains(t, msg, "difficulty")
	assert.Contains(t, msg, "duplicate blank_index 0")
	assert.Contains(t, msg, "1 blank markers but 2 blanks")

	ok := &Exercise{ID: "a", Title: "A", Type: TypeDND, Difficulty: "Easy", RawPassage: "_______",
		Blanks: []Blank{{BlankIndex: 3, CorrectAnswer: "x"}}}
	assert.NoError(t, Validate(ok))
}

func TestSortedBlanksAndFind(t *testing.T) {
	res, err := ParseImport([]byte(bundleJSON), FormatJSON)
	require.NoError(t, err)
	ex := res.Exercises[0]

	sorted := ex.SortedBlanks()
	assert.Equal(t, 0, sorted[0].BlankIndex)
	assert.Equal(t, 1, sorted[1].BlankIndex)
	assert.Equal(t, 1, ex.Blanks[0].BlankIndex, "source order must be kept")

	b, ok := ex.FindBlank(1)
	require.True(t, ok)
	assert.Equal(t, "falls", b.CorrectAnswer)
	_, ok = ex.FindBlank(9)
	assert.False(t, ok)

	assert.Equal(t, "Hard", ex.DifficultyLabel())
	assert.Equal(t, "Medium", (&Exercise{}).DifficultyLabel())
}

func TestCluePhrases(t *testing.T) {
	ex := Exercise{Blanks: []Blank{
		{Hint: &Hint{HighlightPhrases: []string{"demand"}}},
		{Hint: &Hint{HighlightPhrases: []string{"supply", "demand"}}},
		{},
	}}
	assert.Equal(t, []string{"demand", "supply", "demand"}, ex.CluePhrases())

	ex.Analysis = &PassageAnalysis{HighlightPhrases: []string{"market"}}
	assert.Equal(t, []string{"market"}, ex.CluePhrases())
}

func TestResources_TermIDsLongestFirst(t *testing.T) {
	r := &Resources{KeyTerms: map[string]KeyTerm{
		"a": {Term: "aggregate"},
		"b": {Term: "x", Name: "aggregate value"},
		"c": {Term: "value"},
	}}
	assert.Equal(t, []string{"b", "a", "c"}, r.TermIDs())
}

func TestResources_EncodeAsMap(t *testing.T) {
	var r Resources
	require.NoError(t, json.Unmarshal([]byte(`{"common_error_patterns": [{"id": "p", "name": "P", "explanation": "e"}]}`), &r))
	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"common_error_patterns": {"p": {"id": "p", "name": "P", "explanation": "e"}}}`, string(out))
}

func TestResolve(t *testing.T) {
	global := &Resources{}
	local := &Resources{}
	assert.Same(t, global, Resolve(&Exercise{}, global))
	assert.Same(t, local, Resolve(&Exercise{Resources: local}, global))
}
