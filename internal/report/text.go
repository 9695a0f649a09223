package report

import (
	"fmt"
	"io"
	"strings"

	"shiftdeck/internal/engine"
	"shiftdeck/internal/records"
)

// TextSink renders the analysis as plain text, one section per block.
type TextSink struct {
	Out io.Writer
}

func NewTextSink(out io.Writer) *TextSink {
	return &TextSink{Out: out}
}

func (s *TextSink) Render(sections []Section, triggers []engine.Trigger, lintIssues []string) error {
	var b strings.Builder

	b.WriteString("Analysis Report\n\n")
	for _, section := range sections {
		b.WriteString(section.Title)
		b.WriteByte('\n')
		for _, line := range section.Lines {
			b.WriteString("- ")
			b.WriteString(line)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}

	b.WriteString("Rules Engine Coaching Prompts\n")
	for _, t := range triggers {
		fmt.Fprintf(&b, "[%s] %s: %s (%s): %s\n",
			t.Severity, t.RuleID, t.Description, t.AffectedEntity, t.Recommendation)
		fmt.Fprintf(&b, "    evidence: %s | scope: %s | at: %s\n",
			t.Evidence, t.Scope, records.FormatTime(t.Timestamp))
	}
	b.WriteByte('\n')

	b.WriteString("Rule Lint\n")
	if len(lintIssues) == 0 {
		lintIssues = []string{"No linter issues"}
	}
	for _, issue := range lintIssues {
		b.WriteString(issue)
		b.WriteByte('\n')
	}

	_, err := io.WriteString(s.Out, b.String())
	return err
}
