package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/nvenk/partscout/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printOffersTable(offers []types.Offer) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("SITE\tPRICE\tCURRENCY\tBEST\tURL\n")
	for i := range offers {
		best := ""
		if offers[i].IsBest {
			best = "BEST"
		}
		tw.writef("%s\t%.2f\t%s\t%s\t%s\n",
			offers[i].Site,
			offers[i].Price,
			offers[i].Currency,
			best,
			truncate(offers[i].URL, 60),
		)
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// truncate shortens s to maxLen runes. Counting runes rather than bytes
// keeps multi-byte characters in URLs intact at the cut point.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
