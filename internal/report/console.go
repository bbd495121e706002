// Package report renders analysis results for the terminal and as a spreadsheet.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/KaramelBytes/dana-cli/internal/analysis"
	"github.com/KaramelBytes/dana-cli/internal/cli"
)

// Print writes the per-column frequency tables of rep to w.
func Print(w io.Writer, rep *analysis.Report) {
	fmt.Fprintf(w, "There are %d rows and %d columns.\n", rep.Rows, rep.Cols)
	for _, t := range rep.Tables {
		fmt.Fprintf(w, "\n%s %s\n", cli.ColumnStyle.Render(t.Column), cli.SubtleStyle.Render("("+t.Kind.String()+")"))
		if n := t.Numeric; n != nil {
			fmt.Fprintf(w, "mean %.4g, std %.4g, min %.4g, median %.4g, max %.4g\n", n.Mean, n.StdDev, n.Min, n.Median, n.Max)
		}

		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Value", "Count", "Percent"})
		table.SetAutoFormatHeaders(false)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, e := range t.Entries {
			v := e.Value
			if v == "" {
				v = "(blank)"
			}
			table.Append([]string{v, strconv.Itoa(e.Count), e.Label})
		}
		table.Render()
	}
}
