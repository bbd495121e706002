package analysis

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/dana-cli/internal/dataset"
)

// Report is the per-column statistics of one dataset.
type Report struct {
	Name   string
	Rows   int
	Cols   int
	Kinds  KindMap
	Tables []*FrequencyTable
}

// Run classifies ds and computes its frequency tables.
func Run(ds *dataset.Dataset) (*Report, error) {
	kinds, err := Classify(ds)
	if err != nil {
		return nil, err
	}
	tables, err := AnalyzeOrdered(ds, kinds)
	if err != nil {
		return nil, err
	}
	return &Report{Name: ds.Source, Rows: ds.NumRows(), Cols: ds.NumCols(), Kinds: kinds, Tables: tables}, nil
}

// ColumnsOf returns the names of the columns with the given kind, in dataset order.
func (r *Report) ColumnsOf(kind ColumnKind) []string {
	var out []string
	for _, t := range r.Tables {
		if t.Kind == kind {
			out = append(out, t.Column)
		}
	}
	return out
}

// Text renders the report as plain indented text.
func (r *Report) Text() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("There are %d rows and %d columns.\n", r.Rows, r.Cols))
	for _, t := range r.Tables {
		b.WriteString(fmt.Sprintf("%s:\n", safeName(t.Column)))
		b.WriteString(fmt.Sprintf("\t- Variable type: %s\n", t.Kind))
		if t.Numeric != nil {
			n := t.Numeric
			b.WriteString(fmt.Sprintf("\t- Summary: mean %.4g, std %.4g, min %.4g, median %.4g, max %.4g\n", n.Mean, n.StdDev, n.Min, n.Median, n.Max))
		}
		b.WriteString("\t- Values:\n")
		for _, e := range t.Entries {
			b.WriteString(fmt.Sprintf("\t\t- %s: %s\n", safeVal(e.Value), e.Label))
		}
	}
	return b.String()
}

// Markdown renders the report as a compact schema digest suitable for a notes file.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", r.Cols))

	b.WriteString("[SCHEMA]\n")
	for _, t := range r.Tables {
		b.WriteString(fmt.Sprintf("- %s: %s (distinct %d)", safeName(t.Column), t.Kind, t.Distinct()))
		if n := t.Numeric; n != nil {
			b.WriteString(fmt.Sprintf(" | min %.4g, max %.4g, mean %.4g, std %.4g", n.Min, n.Max, n.Mean, n.StdDev))
		}
		b.WriteString(fmt.Sprintf(" | most %s(%d), least %s(%d)",
			mdVal(t.MostFrequent), t.Count(t.MostFrequent),
			mdVal(t.LeastFrequent), t.Count(t.LeastFrequent)))
		b.WriteString("\n")
	}
	return b.String()
}

func mdVal(s string) string { return strings.ReplaceAll(safeVal(s), "|", "/") }

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string {
	if s == "" {
		return "(blank)"
	}
	return strings.ReplaceAll(s, "\n", " ")
}
