package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// Welcome renders the start-of-run banner. Params are listed only when verbose is set.
func Welcome(w io.Writer, version, dataset string, verbose bool, params map[string]string) {
	fmt.Fprintln(w, BannerStyle.Render(FormatTitle("Welcome to DANA v"+version)))
	fmt.Fprintf(w, "Starting DANA analysis on %s.\n", dataset)
	if !verbose || len(params) == 0 {
		fmt.Fprintln(w)
		return
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString("\nParameters:\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "--%s: %s\n", k, params[k])
	}
	fmt.Fprintln(w, SubtleStyle.Render(b.String()))
}

// Close renders the end-of-run message with the elapsed wall time.
func Close(w io.Writer, elapsed time.Duration) {
	fmt.Fprintf(w, "DANA analysis finished. \nElapsed time %.2fs\n", elapsed.Seconds())
}
