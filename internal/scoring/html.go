package scoring

import (
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/ptenav/internal/textutil"
)

// FormatElapsed formats a duration as "Xm Ys", truncating to whole seconds.
func FormatElapsed(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%dm %ds", secs/60, secs%60)
}

func statusClass(o Outcome) string {
	switch o {
	case Correct:
		return "correct-answer-feedback"
	case Incorrect:
		return "incorrect-answer-feedback"
	default:
		return "neutral-feedback"
	}
}

// RenderFeedbackHTML renders a report as a sequence of hint containers,
// preceded by the time taken when the timer is shown.
func RenderFeedbackHTML(r Report) string {
	var b strings.Builder
	if r.ShowTimer {
		fmt.Fprintf(&b, `<div class="time-info feedback-section-header"><p><strong>Time Taken for this attempt:</strong> %s</p></div>`, FormatElapsed(r.Elapsed))
	}
	for _, e := range r.Explanations {
		writeExplanation(&b, e)
	}
	return b.String()
}

func writeExplanation(b *strings.Builder, e Explanation) {
	fmt.Fprintf(b, `<div class="hint-container-approach-b %s">`, statusClass(e.Outcome))
	fmt.Fprintf(b, `<div class="hint-header">Blank %d Insights</div>`, e.Number)
	b.WriteString(`<div class="feedback-content hint-body">`)

	answer := textutil.EscapeHTML(e.Answer)
	if answer == "" {
		answer = "<em>(not answered)</em>"
	}
	b.WriteString(`<div class="answers-comparison">`)
	fmt.Fprintf(b, `<p><strong>Your Answer:</strong> <span class="user-answer">%s</span>`, answer)
	if e.ConfidenceLabel != "" {
		fmt.Fprintf(b, " (You were: %s)", e.ConfidenceLabel)
	}
	b.WriteString("</p>")
	if e.ShowCorrect {
		fmt.Fprintf(b, `<p><strong>Correct Answer:</strong> <span class="correct-answer-text">%s</span></p>`, textutil.EscapeHTML(e.CorrectAnswer))
	}
	b.WriteString("</div>")

	if e.Insight != nil {
		fmt.Fprintf(b, `<p class="confidence-insight %s">%s</p>`, e.Insight.Class, textutil.EscapeHTML(e.Insight.Message))
	}

	if e.NoAnalysis {
		b.WriteString(`<p>Detailed analysis not available for this blank.</p></div></div>`)
		return
	}

	if !e.PrimaryReason.Empty() {
		fmt.Fprintf(b, `<div class="hint-section primary-reason-section"><h5>Key Reason for '%s':</h5><p>%s</p></div>`,
			textutil.EscapeHTML(e.CorrectAnswer), e.PrimaryReason.HTML)
	}

	if d := e.Distractor; d != nil {
		fmt.Fprintf(b, `<div class="hint-section distractor-analysis-section"><h5>Why '%s' is not the best fit:</h5><p>%s</p>`,
			textutil.EscapeHTML(d.Option), d.Reason.HTML)
		if d.Pattern != nil {
			name := textutil.EscapeHTML(d.Pattern.Name)
			fmt.Fprintf(b, `<p class="common-error-ref">This relates to a common pattern: <strong>%s</strong>. <button class="mastery-path-button btn-link-style" data-pattern-id="%s" title="Learn more about %s">Master this Concept</button></p>`,
				name, textutil.EscapeHTML(d.PatternID), name)
		}
		b.WriteString("</div>")
	}

	if e.HasDeeperDive() {
		id := fmt.Sprintf("dd-hint-%d", e.BlankIndex)
		fmt.Fprintf(b, `<div class="hint-section detailed-analysis"><h5 class="collapsible-header" data-target-id="%s" role="button" tabindex="0" aria-expanded="false" aria-controls="%s">Deeper Dive <span class="toggle-indicator" aria-hidden="true">[+]</span></h5><div id="%s" class="collapsible-content" style="display:none;">`, id, id, id)
		if e.POS != "" {
			fmt.Fprintf(b, `<div class="sub-hint-section"><h6>Expected Part of Speech:</h6><p>%s</p></div>`, textutil.EscapeHTML(e.POS))
		}
		if !e.Grammatical.Empty() {
			fmt.Fprintf(b, `<div class="sub-hint-section"><h6>Grammatical Context:</h6><p>%s</p></div>`, e.Grammatical.HTML)
		}
		if len(e.Collocations) > 0 {
			b.WriteString(`<div class="sub-hint-section"><h6>Common Collocations:</h6><ul>`)
			for _, c := range e.Collocations {
				fmt.Fprintf(b, "<li>%s</li>", c.HTML)
			}
			b.WriteString("</ul></div>")
		}
		if !e.Semantic.Empty() {
			fmt.Fprintf(b, `<div class="sub-hint-section"><h6>Semantic Nuance:</h6><p>%s</p></div>`, e.Semantic.HTML)
		}
		b.WriteString("</div></div>")
	}

	if !e.LearningTip.Empty() {
		fmt.Fprintf(b, `<div class="hint-section learning-tip-section"><h5>Pro Tip:</h5><p>%s</p></div>`, e.LearningTip.HTML)
	}

	if len(e.SkillTags) > 0 {
		tags := make([]string, len(e.SkillTags))
		for i, s := range e.SkillTags {
			tags[i] = fmt.Sprintf(`<span class="skill-tag">%s</span>`, textutil.EscapeHTML(s))
		}
		fmt.Fprintf(b, `<div class="hint-section skills-targeted-section"><h5>Skills Practiced:</h5><p>%s</p></div>`, strings.Join(tags, " "))
	}

	b.WriteString("</div></div>")
}

// DefinitionHTML renders a definition view body.
func DefinitionHTML(d Definition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h4>%s</h4><p>%s</p>", textutil.EscapeHTML(d.Title), d.Body.HTML)
	if len(d.Examples) > 0 {
		b.WriteString("<h5>Examples:</h5><ul>")
		for _, ex := range d.Examples {
			fmt.Fprintf(&b, "<li>%s</li>", textutil.EscapeHTML(ex))
		}
		b.WriteString("</ul>")
	}
	return b.String()
}
