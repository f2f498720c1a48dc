// Package settings holds the learner's display and behaviour preferences.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// AppSettings are the learner preferences. Field names follow the stored
// JSON layout.
type AppSettings struct {
	Theme                string `json:"theme" validate:"oneof=system light dark"`
	FontSize             string `json:"fontSize" validate:"oneof=small medium large"`
	AnimationsEnabled    bool   `json:"animationsEnabled"`
	HighContrastEnabled  bool   `json:"highContrastEnabled"`
	DyslexicFontEnabled  bool   `json:"dyslexicFontEnabled"`
	AutoSaveProgress     bool   `json:"autoSaveProgress"`
	ShowExerciseTimer    bool   `json:"showExerciseTimer"`
	ShowDifficultyLevels bool   `json:"showDifficultyLevels"`
}

// Defaults returns the settings of a fresh install.
func Defaults() AppSettings {
	return AppSettings{
		Theme:                "system",
		FontSize:             "medium",
		AnimationsEnabled:    true,
		AutoSaveProgress:     true,
		ShowExerciseTimer:    true,
		ShowDifficultyLevels: true,
	}
}

// ErrUnknownKey is returned by Set and Get for keys that do not exist.
var ErrUnknownKey = errors.New("unknown setting")

var validate = validator.New(validator.WithRequiredStructEnabled())

type field struct {
	key    string
	isBool bool
	str    func(*AppSettings) *string
	flag   func(*AppSettings) *bool
	values []string
}

var fields = []field{
	{key: "theme", str: func(s *AppSettings) *string { return &s.Theme }, values: []string{"system", "light", "dark"}},
	{key: "fontSize", str: func(s *AppSettings) *string { return &s.FontSize }, values: []string{"small", "medium", "large"}},
	{key: "animationsEnabled", isBool: true, flag: func(s *AppSettings) *bool { return &s.AnimationsEnabled }},
	{key: "highContrastEnabled", isBool: true, flag: func(s *AppSettings) *bool { return &s.HighContrastEnabled }},
	{key: "dyslexicFontEnabled", isBool: true, flag: func(s *AppSettings) *bool { return &s.DyslexicFontEnabled }},
	{key: "autoSaveProgress", isBool: true, flag: func(s *AppSettings) *bool { return &s.AutoSaveProgress }},
	{key: "showExerciseTimer", isBool: true, flag: func(s *AppSettings) *bool { return &s.ShowExerciseTimer }},
	{key: "showDifficultyLevels", isBool: true, flag: func(s *AppSettings) *bool { return &s.ShowDifficultyLevels }},
}

func lookup(key string) (field, bool) {
	for _, f := range fields {
		if strings.EqualFold(f.key, key) {
			return f, true
		}
	}
	return field{}, false
}

// Keys returns every setting key in display order.
func Keys() []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.key
	}
	return out
}

// IsBool reports whether key names an on/off setting.
func IsBool(key string) bool {
	f, ok := lookup(key)
	return ok && f.isBool
}

// Choices returns the allowed values of an enumerated setting.
func Choices(key string) []string {
	f, ok := lookup(key)
	if !ok || f.isBool {
		return nil
	}
	return append([]string(nil), f.values...)
}

// Validate checks enumerated fields.
func (s AppSettings) Validate() error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// Get returns the value of key as a string.
func (s AppSettings) Get(key string) (string, error) {
	f, ok := lookup(key)
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownKey, key)
	}
	if f.isBool {
		return strconv.FormatBool(*f.flag(&s)), nil
	}
	return *f.str(&s), nil
}

// Set parses value for key and applies it. Invalid values leave s unchanged.
func (s *AppSettings) Set(key, value string) error {
	f, ok := lookup(key)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownKey, key)
	}
	next := *s
	if f.isBool {
		b, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("setting %s: %w", f.key, err)
		}
		*f.flag(&next) = b
	} else {
		*f.str(&next) = strings.ToLower(strings.TrimSpace(value))
		if err := next.Validate(); err != nil {
			return fmt.Errorf("setting %s: %w", f.key, err)
		}
	}
	*s = next
	return nil
}

// Cycle advances key to its next value: booleans toggle and enumerations
// rotate through their choices.
func (s *AppSettings) Cycle(key string) error {
	f, ok := lookup(key)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownKey, key)
	}
	if f.isBool {
		p := f.flag(s)
		*p = !*p
		return nil
	}
	cur := *f.str(s)
	next := f.values[0]
	for i, v := range f.values {
		if v == cur {
			next = f.values[(i+1)%len(f.values)]
			break
		}
	}
	return s.Set(f.key, next)
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "yes", "y":
		return true, nil
	case "off", "no", "n":
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(v))
}

// Merge decodes a partial settings document over the defaults. Unknown keys
// are ignored and invalid enumerations fall back to their default.
func Merge(data []byte) (AppSettings, error) {
	s := Defaults()
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return Defaults(), fmt.Errorf("decode settings: %w", err)
	}
	d := Defaults()
	if !slices.Contains(fields[0].values, s.Theme) {
		s.Theme = d.Theme
	}
	if !slices.Contains(fields[1].values, s.FontSize) {
		s.FontSize = d.FontSize
	}
	return s, nil
}
