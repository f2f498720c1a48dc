package workspace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"golang.org/x/mod/semver"

	"github.com/abhisek/ptenav/internal/exercise"
	"github.com/abhisek/ptenav/internal/settings"
	"github.com/abhisek/ptenav/internal/stats"
	"github.com/abhisek/ptenav/internal/store"
)

// FormatVersion is the backup format written by Export.
const FormatVersion = "1.1.0"

var (
	// ErrIncompleteBackup is returned when a backup lacks exercises, stats
	// or settings.
	ErrIncompleteBackup = errors.New("backup is missing exercises, studentStats or appSettings")

	// ErrUnsupportedVersion is returned for backups from a newer major
	// format.
	ErrUnsupportedVersion = errors.New("backup format is newer than this version of ptenav supports")
)

// Backup is the full export document.
type Backup struct {
	Version             string               `json:"version"`
	Timestamp           time.Time            `json:"timestamp"`
	Exercises           []exercise.Exercise  `json:"exercises"`
	LinguisticResources *exercise.Resources  `json:"linguisticResources"`
	StudentStats        *stats.StudentStats  `json:"studentStats"`
	AppSettings         settings.AppSettings `json:"appSettings"`
	TotalStudyTime      int                  `json:"totalStudyTime"`
}

// Export snapshots the workspace.
func (w *Workspace) Export() Backup {
	exercises := w.exercises
	if exercises == nil {
		exercises = []exercise.Exercise{}
	}
	return Backup{
		Version:             FormatVersion,
		Timestamp:           w.now().UTC(),
		Exercises:           exercises,
		LinguisticResources: w.resources,
		StudentStats:        w.stats,
		AppSettings:         w.settings,
		TotalStudyTime:      w.clock.Total,
	}
}

// ParseBackup decodes and checks a backup document. Settings are merged
// over the defaults so partial or older documents still restore.
func ParseBackup(data []byte) (*Backup, error) {
	var raw struct {
		Version             string          `json:"version"`
		Timestamp           json.RawMessage `json:"timestamp"`
		Exercises           json.RawMessage `json:"exercises"`
		LinguisticResources json.RawMessage `json:"linguisticResources"`
		StudentStats        json.RawMessage `json:"studentStats"`
		AppSettings         json.RawMessage `json:"appSettings"`
		TotalStudyTime      float64         `json:"totalStudyTime"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}
	if raw.Exercises == nil || raw.StudentStats == nil || raw.AppSettings == nil {
		return nil, ErrIncompleteBackup
	}
	if err := CheckVersion(raw.Version); err != nil {
		return nil, err
	}

	b := &Backup{Version: raw.Version, TotalStudyTime: int(raw.TotalStudyTime)}
	if b.TotalStudyTime < 0 {
		b.TotalStudyTime = 0
	}
	if !isNull(raw.Timestamp) {
		// The timestamp is informational; a bad one is ignored.
		_ = json.Unmarshal(raw.Timestamp, &b.Timestamp)
	}
	if !isNull(raw.Exercises) {
		if err := json.Unmarshal(raw.Exercises, &b.Exercises); err != nil {
			return nil, fmt.Errorf("decode backup exercises: %w", err)
		}
	}
	if !isNull(raw.LinguisticResources) {
		var r exercise.Resources
		if err := json.Unmarshal(raw.LinguisticResources, &r); err != nil {
			return nil, fmt.Errorf("decode backup resources: %w", err)
		}
		b.LinguisticResources = &r
	}
	b.StudentStats = stats.New()
	if !isNull(raw.StudentStats) {
		if err := json.Unmarshal(raw.StudentStats, b.StudentStats); err != nil {
			return nil, fmt.Errorf("decode backup stats: %w", err)
		}
	}
	appSettings, err := settings.Merge(raw.AppSettings)
	if err != nil {
		return nil, fmt.Errorf("decode backup settings: %w", err)
	}
	b.AppSettings = appSettings
	return b, nil
}

var leadingVersion = regexp.MustCompile(`^v?(\d+(?:\.\d+){0,2})`)

// CanonicalVersion coerces a stored version string into semver form.
// Legacy strings such as "1.1-pro-encapsulated" become "v1.1". It returns
// "" when no version can be read.
func CanonicalVersion(v string) string {
	m := leadingVersion.FindStringSubmatch(v)
	if m == nil {
		return ""
	}
	return semver.Canonical("v" + m[1])
}

// CheckVersion rejects backups whose major format version is newer than
// FormatVersion. A missing version is treated as the oldest format.
func CheckVersion(v string) error {
	if v == "" {
		return nil
	}
	got := CanonicalVersion(v)
	if got == "" {
		return fmt.Errorf("unreadable backup version %q", v)
	}
	current := CanonicalVersion(FormatVersion)
	if semver.Compare(semver.Major(got), semver.Major(current)) > 0 {
		return fmt.Errorf("%w: %s (current %s)", ErrUnsupportedVersion, v, FormatVersion)
	}
	return nil
}

// Restore replaces exercises, resources and study time, merges the stats
// over the current ones and takes the backup's settings.
func (w *Workspace) Restore(ctx context.Context, b *Backup) error {
	w.exercises = b.Exercises
	w.resources = b.LinguisticResources
	if w.resources.IsEmpty() {
		w.resources = nil
	}
	w.stats.Merge(b.StudentStats)
	w.settings = b.AppSettings
	w.clock.Total = b.TotalStudyTime

	w.log.Info("backup restored", "version", b.Version, "exercises", len(b.Exercises))

	return errors.Join(
		w.saveExercises(ctx),
		w.save(ctx, store.KeyStats, w.stats),
		w.save(ctx, store.KeySettings, w.settings),
		w.SaveStudyTime(ctx),
	)
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
