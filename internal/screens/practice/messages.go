package practice

import "github.com/abhisek/ptenav/internal/annotate"

// docReadyMsg is sent when a passage document has been built.
type docReadyMsg struct {
	ExerciseID string
	POS        bool
	Doc        *annotate.Document
	Warnings   []annotate.Warning
}
