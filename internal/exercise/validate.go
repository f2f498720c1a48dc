package exercise

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("exercise_type", validateExerciseType)
	_ = v.RegisterValidation("difficulty", validateDifficulty)

	// Report json field names in errors.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateExerciseType(fl validator.FieldLevel) bool {
	t := Type(fl.Field().String())
	return t == TypeFIBRW || t == TypeDND
}

func validateDifficulty(fl validator.FieldLevel) bool {
	switch strings.ToLower(fl.Field().String()) {
	case "easy", "medium", "hard":
		return true
	}
	return false
}

// Validate checks an exercise's fields and that its passage carries one
// marker per blank.
func Validate(ex *Exercise) error {
	var problems []string

	if err := structValidator.Struct(ex); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				problems = append(problems, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
		} else {
			problems = append(problems, err.Error())
		}
	}

	if n := ex.MarkerCount(); n != len(ex.Blanks) {
		problems = append(problems, fmt.Sprintf("passage has %d blank markers but %d blanks are defined", n, len(ex.Blanks)))
	}

	seen := make(map[int]bool, len(ex.Blanks))
	for _, b := range ex.Blanks {
		if seen[b.BlankIndex] {
			problems = append(problems, fmt.Sprintf("duplicate blank_index %d", b.BlankIndex))
		}
		seen[b.BlankIndex] = true
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("exercise %q: %s", ex.ID, strings.Join(problems, "; "))
}
