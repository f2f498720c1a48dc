package cmd

import (
	"fmt"

	"github.com/abhisek/ptenav/internal/annotate"
	"github.com/abhisek/ptenav/internal/app"
	"github.com/abhisek/ptenav/internal/config"
	"github.com/abhisek/ptenav/internal/llm"
	"github.com/spf13/cobra"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	notices := make([]string, len(e.notices))
	for i, n := range e.notices {
		notices[i] = n.String()
	}

	return app.Run(ctxOf(cmd), app.Options{
		Workspace:   e.ws,
		Annotator:   buildAnnotator(cmd, e),
		Log:         e.log,
		DefaultType: e.cfg.DefaultType,
		Notices:     notices,
	})
}

// buildAnnotator returns the configured part-of-speech tagger. The LLM
// tagger falls back to the built-in lexicon when a request fails, and the
// lexicon is used outright when no provider is configured.
func buildAnnotator(cmd *cobra.Command, e *env) annotate.Annotator {
	switch e.cfg.Annotator {
	case config.AnnotatorOff:
		return nil
	case config.AnnotatorLLM:
		lexicon := annotate.NewLexicon()
		llmCfg, ok := e.cfg.LLMProvider()
		if !ok {
			fmt.Fprintln(cmd.ErrOrStderr(), "LLM provider not configured; using the built-in tagger.")
			return lexicon
		}
		provider, err := llm.NewProvider(ctxOf(cmd), llmCfg, e.ws.Events(), e.log)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "LLM provider not available:", err)
			fmt.Fprintln(cmd.ErrOrStderr(), "Using the built-in tagger.")
			return lexicon
		}
		return &annotate.Fallback{Primary: annotate.NewLLM(provider), Secondary: lexicon}
	default:
		return annotate.NewLexicon()
	}
}
