package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/abhisek/ptenav/internal/annotate"
	"github.com/abhisek/ptenav/internal/config"
	"github.com/abhisek/ptenav/internal/textutil"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render <exercise-id>",
	Short: "Render an exercise passage as annotated HTML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, _ := cmd.Flags().GetBool("pos")
		clues, _ := cmd.Flags().GetBool("clues")
		outPath, _ := cmd.Flags().GetString("out")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ex, ok := e.ws.Exercise(args[0])
		if !ok {
			return fmt.Errorf("exercise %q not found", args[0])
		}

		var annotator annotate.Annotator
		if pos {
			if e.cfg.Annotator == config.AnnotatorOff {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: part-of-speech tagging is turned off in the config")
			}
			annotator = buildAnnotator(cmd, e)
		}

		body, warnings := annotate.Render(ctxOf(cmd), ex,
			annotate.Options{POS: pos && annotator != nil, Annotator: annotator},
			annotate.RenderOptions{EmphasizeClues: clues})
		for _, w := range warnings {
			e.log.Warn("render warning", "exercise", ex.ID, "stage", w.Stage, "error", w.Err)
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", w)
		}

		var out io.Writer = cmd.OutOrStdout()
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create %s: %w", outPath, err)
			}
			defer f.Close()
			out = f
		}
		return writePage(out, ex.Title, body)
	},
}

func writePage(w io.Writer, title, body string) error {
	_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
<h1>%s</h1>
<div class="passage">%s</div>
</body>
</html>
`, textutil.EscapeHTML(title), textutil.EscapeHTML(title), body)
	return err
}

func init() {
	renderCmd.Flags().Bool("pos", false, "Tag the passage with parts of speech")
	renderCmd.Flags().Bool("clues", true, "Emphasize clue phrases")
	renderCmd.Flags().StringP("out", "o", "", "Write the page to this file instead of stdout")
}
