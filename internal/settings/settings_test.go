package settings

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	d := Defaults()
	require.NoError(t, d.Validate())
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"system","fontSize":"medium","animationsEnabled":true,"highContrastEnabled":false,"dyslexicFontEnabled":false,"autoSaveProgress":true,"showExerciseTimer":true,"showDifficultyLevels":true}`, string(data))
}

func TestSet(t *testing.T) {
	tests := []struct {
		key, value string
		wantErr    bool
		check      func(t *testing.T, s AppSettings)
	}{
		{"theme", "Dark", false, func(t *testing.T, s AppSettings) { assert.Equal(t, "dark", s.Theme) }},
		{"fontSize", "large", false, func(t *testing.T, s AppSettings) { assert.Equal(t, "large", s.FontSize) }},
		{"showExerciseTimer", "off", false, func(t *testing.T, s AppSettings) { assert.False(t, s.ShowExerciseTimer) }},
		{"highcontrastenabled", "true", false, func(t *testing.T, s AppSettings) { assert.True(t, s.HighContrastEnabled) }},
		{"theme", "purple", true, nil},
		{"autoSaveProgress", "maybe", true, nil},
		{"volume", "11", true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			s := Defaults()
			err := s.Set(tt.key, tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, Defaults(), s)
				return
			}
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}

func TestSet_UnknownKey(t *testing.T) {
	s := Defaults()
	assert.ErrorIs(t, s.Set("volume", "1"), ErrUnknownKey)
	_, err := s.Get("volume")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestGetAndCycle(t *testing.T) {
	s := Defaults()
	v, err := s.Get("theme")
	require.NoError(t, err)
	assert.Equal(t, "system", v)

	require.NoError(t, s.Cycle("theme"))
	assert.Equal(t, "light", s.Theme)
	require.NoError(t, s.Cycle("theme"))
	require.NoError(t, s.Cycle("theme"))
	assert.Equal(t, "system", s.Theme)

	require.NoError(t, s.Cycle("animationsEnabled"))
	v, err = s.Get("animationsEnabled")
	require.NoError(t, err)
	assert.Equal(t, "false", v)

	assert.True(t, IsBool("autoSaveProgress"))
	assert.False(t, IsBool("fontSize"))
	assert.Equal(t, []string{"small", "medium", "large"}, Choices("fontSize"))
	assert.Nil(t, Choices("autoSaveProgress"))
	assert.Len(t, Keys(), 8)
}

func TestMerge(t *testing.T) {
	s, err := Merge([]byte(`{"theme":"dark","showExerciseTimer":false,"extra":1}`))
	require.NoError(t, err)
	assert.Equal(t, "dark", s.Theme)
	assert.False(t, s.ShowExerciseTimer)
	assert.True(t, s.AutoSaveProgress)
	assert.Equal(t, "medium", s.FontSize)

	s, err = Merge([]byte(`{"fontSize":"huge"}`))
	require.NoError(t, err)
	assert.Equal(t, "medium", s.FontSize)

	s, err = Merge(nil)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)

	s, err = Merge([]byte(`not json`))
	assert.Error(t, err)
	assert.Equal(t, Defaults(), s)
}
