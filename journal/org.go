package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatRunOrg renders a run and its labels as an Org-mode block suitable
// for pasting into a research journal. Structured facts live in a
// PROPERTIES drawer for easy search; the label table follows.
func FormatRunOrg(r RunRecord, anns []AnnotationRecord) string {
	heading := fmt.Sprintf("** Scan: %s (%s)", r.Instrument, shortID(r.RunID))
	start := r.Start.UTC().Format(time.RFC3339)
	end := r.End.UTC().Format(time.RFC3339)

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":RUN_ID: %s\n", r.RunID))
	b.WriteString(fmt.Sprintf(":ID: %s\n", r.RunID))
	b.WriteString(fmt.Sprintf(":INSTRUMENT: %s\n", r.Instrument))
	b.WriteString(fmt.Sprintf(":TIMEFRAME: %s\n", r.Timeframe))
	b.WriteString(fmt.Sprintf(":START: %s\n", start))
	b.WriteString(fmt.Sprintf(":END: %s\n", end))
	b.WriteString(fmt.Sprintf(":BARS: %d\n", r.Bars))
	b.WriteString(fmt.Sprintf(":COUNTDOWNS_COMPLETED: %d\n", r.Completed))
	b.WriteString(fmt.Sprintf(":COUNTDOWN_OPEN: %t\n", r.Open))
	if r.Open {
		b.WriteString(fmt.Sprintf(":DIRECTION: %+d\n", r.Direction))
	}
	b.WriteString(":END:\n")

	if len(anns) > 0 {
		b.WriteString("\n| idx | time | kind | count |\n")
		b.WriteString("|-----+------+------+-------|\n")
		for _, a := range anns {
			b.WriteString(fmt.Sprintf("| %d | %s | %s | %+d |\n",
				a.Index, a.Time.UTC().Format(time.RFC3339), a.Kind, a.Count))
		}
	}

	b.WriteString("\n*** Review\n- \n")
	return b.String()
}

// FormatRunsOrg renders multiple runs separated by blank lines.
func FormatRunsOrg(runs []RunRecord) string {
	var b strings.Builder
	for i, r := range runs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatRunOrg(r, nil))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
