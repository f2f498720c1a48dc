package exercise

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of an import file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath guesses the format from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ImportError is returned when an import document is rejected as a whole.
type ImportError struct {
	Reason string
	Err    error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("import rejected: %s: %v", e.Reason, e.Err)
	}
	return "import rejected: " + e.Reason
}

func (e *ImportError) Unwrap() error { return e.Err }

// ImportResult is a decoded exercise bundle.
type ImportResult struct {
	Exercises []Exercise
	// Resources replaces the global resources; nil clears them.
	Resources *Resources
	// Legacy is set when the document was a bare array.
	Legacy   bool
	Warnings []string
}

// firstExerciseSchema is the minimal shape the first exercise must have.
const firstExerciseSchema = `{
  "type": "object",
  "required": ["id", "title", "exerciseType", "rawPassage", "blanks"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "title": {"type": "string", "minLength": 1},
    "exerciseType": {"type": "string", "minLength": 1},
    "rawPassage": {"type": "string", "minLength": 1},
    "blanks": {"type": "array"}
  }
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func firstExerciseValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var def any
		if err := json.Unmarshal([]byte(firstExerciseSchema), &def); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://exercise-import.json"
		if err := c.AddResource(url, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(url)
	})
	return compiledSchema, compileErr
}

// ToJSON converts a YAML document into equivalent JSON.
func ToJSON(data []byte, format Format) ([]byte, error) {
	if format != FormatYAML {
		return data, nil
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("convert yaml to json: %w", err)
	}
	return out, nil
}

// ParseImport decodes an exercise bundle. It accepts either a bare array of
// exercises (resources may ride on the first exercise) or an object with an
// exercises array and optional linguistic resources.
func ParseImport(data []byte, format Format) (*ImportResult, error) {
	data, err := ToJSON(data, format)
	if err != nil {
		return nil, &ImportError{Reason: "unreadable document", Err: err}
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, &ImportError{Reason: "empty document"}
	}

	var (
		rawExercises []json.RawMessage
		rawResources json.RawMessage
		legacy       bool
	)

	switch data[0] {
	case '[':
		legacy = true
		if err := json.Unmarshal(data, &rawExercises); err != nil {
			return nil, &ImportError{Reason: "invalid exercise array", Err: err}
		}
	case '{':
		var doc struct {
			Exercises           json.RawMessage `json:"exercises"`
			LinguisticResources json.RawMessage `json:"linguistic_resources"`
			ResourcesCamel      json.RawMessage `json:"linguisticResources"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, &ImportError{Reason: "invalid document", Err: err}
		}
		if len(doc.Exercises) == 0 || doc.Exercises[0] != '[' {
			return nil, &ImportError{Reason: "document has no exercises array"}
		}
		if err := json.Unmarshal(doc.Exercises, &rawExercises); err != nil {
			return nil, &ImportError{Reason: "invalid exercises array", Err: err}
		}
		rawResources = doc.LinguisticResources
		if isNull(rawResources) {
			rawResources = doc.ResourcesCamel
		}
	default:
		return nil, &ImportError{Reason: "expected an array of exercises or an object with an exercises array"}
	}

	if len(rawExercises) > 0 {
		if err := checkFirstExercise(rawExercises[0]); err != nil {
			return nil, &ImportError{Reason: "first exercise is missing required fields (id, title, exerciseType, rawPassage, blanks array)", Err: err}
		}
	}

	res := &ImportResult{Legacy: legacy}
	res.Exercises = make([]Exercise, 0, len(rawExercises))
	for i, raw := range rawExercises {
		var ex Exercise
		if err := json.Unmarshal(raw, &ex); err != nil {
			return nil, &ImportError{Reason: fmt.Sprintf("exercise %d is malformed", i+1), Err: err}
		}
		res.Exercises = append(res.Exercises, ex)
	}

	if legacy {
		res.Resources = LiftLegacyResources(res.Exercises)
	} else if !isNull(rawResources) {
		var r Resources
		if err := json.Unmarshal(rawResources, &r); err != nil {
			return nil, &ImportError{Reason: "invalid linguistic resources", Err: err}
		}
		res.Resources = &r
	}

	for i := range res.Exercises {
		if err := Validate(&res.Exercises[i]); err != nil {
			res.Warnings = append(res.Warnings, err.Error())
		}
	}
	return res, nil
}

// LiftLegacyResources moves resources stored on the first exercise to the
// returned global value and strips resources from every exercise. It
// returns nil and leaves exercises untouched when the first exercise has
// none.
func LiftLegacyResources(exercises []Exercise) *Resources {
	if len(exercises) == 0 || exercises[0].Resources == nil {
		return nil
	}
	lifted := exercises[0].Resources
	for i := range exercises {
		exercises[i].Resources = nil
	}
	return lifted
}

func checkFirstExercise(raw json.RawMessage) error {
	schema, err := firstExerciseValidator()
	if err != nil {
		return fmt.Errorf("compile import schema: %w", err)
	}
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return err
	}
	if err := schema.Validate(parsed); err != nil {
		return err
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// IsImportError reports whether err is an *ImportError.
func IsImportError(err error) bool {
	var ie *ImportError
	return errors.As(err, &ie)
}
