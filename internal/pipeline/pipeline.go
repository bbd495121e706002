// Package pipeline runs the analyze and introduce workflows end to end.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/dana-cli/internal/analysis"
	"github.com/KaramelBytes/dana-cli/internal/charts"
	"github.com/KaramelBytes/dana-cli/internal/cli"
	"github.com/KaramelBytes/dana-cli/internal/common"
	"github.com/KaramelBytes/dana-cli/internal/config"
	"github.com/KaramelBytes/dana-cli/internal/dataset"
	"github.com/KaramelBytes/dana-cli/internal/distance"
	"github.com/KaramelBytes/dana-cli/internal/records"
	"github.com/KaramelBytes/dana-cli/internal/report"
	"github.com/KaramelBytes/dana-cli/internal/utils"
)

// MarkdownFile is the schema digest written by Analyze when requested.
const MarkdownFile = "summary.md"

// Pipeline holds the configuration of one run. It is not safe for concurrent use.
type Pipeline struct {
	cfg *config.Global
	log *slog.Logger
	out io.Writer

	// RunID identifies the run in logs and in the spreadsheet properties.
	RunID string
	// ShowProgress draws a progress bar on out while the distance matrix is computed.
	ShowProgress bool
}

// New validates cfg and prepares a run. A nil logger uses slog.Default.
func New(cfg *config.Global, logger *slog.Logger, out io.Writer) (*Pipeline, error) {
	if cfg == nil {
		cfg = config.Defaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if out == nil {
		out = io.Discard
	}
	id := uuid.NewString()
	return &Pipeline{
		cfg:   cfg,
		log:   logger.With(slog.String("run_id", id)),
		out:   out,
		RunID: id,
	}, nil
}

// AnalyzeRequest selects the input and outputs of Analyze. Empty fields fall back to the
// configuration.
type AnalyzeRequest struct {
	Dataset   string
	Separator string
	Sheet     string
	OutputDir string
	Clusters  bool
	NoCharts  bool
	Markdown  bool
	// Plain prints the report as indented text instead of tables.
	Plain bool
}

// AnalyzeResult is what Analyze produced.
type AnalyzeResult struct {
	Report  *analysis.Report
	Files   []string
	Linkage distance.Linkage
}

func (p *Pipeline) load(path, sep, sheet string) (*dataset.Dataset, error) {
	if strings.TrimSpace(path) == "" {
		return nil, common.E(common.ErrConfig, "pipeline.load", "a dataset file is required")
	}
	if sep == "" {
		sep = p.cfg.Separator
	}
	ds, err := dataset.Load(path, dataset.Options{Separator: sep, Sheet: sheet})
	if err != nil {
		return nil, err
	}
	p.log.Info("dataset loaded", slog.String("path", path), slog.Int("rows", ds.NumRows()), slog.Int("cols", ds.NumCols()))
	return ds, nil
}

// Analyze loads the dataset, prints its frequency tables and writes the spreadsheet
// report and charts into the output directory.
func (p *Pipeline) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error) {
	ds, err := p.load(req.Dataset, req.Separator, req.Sheet)
	if err != nil {
		return nil, err
	}
	rep, err := analysis.Run(ds)
	if err != nil {
		return nil, err
	}
	p.log.Debug("columns classified",
		slog.Int("numerical", len(rep.ColumnsOf(analysis.Numerical))),
		slog.Int("categorical", len(rep.ColumnsOf(analysis.Categorical))))
	if req.Plain {
		fmt.Fprint(p.out, rep.Text())
	} else {
		report.Print(p.out, rep)
	}
	fmt.Fprintln(p.out)

	outDir := req.OutputDir
	if outDir == "" {
		outDir = p.cfg.OutputDir
	}
	if err := utils.EnsureDir(outDir); err != nil {
		return nil, common.Wrap(common.ErrConfig, "pipeline.Analyze", err, "create output directory %s", outDir)
	}
	res := &AnalyzeResult{Report: rep}
	wrote := func(path string) {
		res.Files = append(res.Files, path)
		p.log.Info("output written", slog.String("path", path))
		fmt.Fprintln(p.out, cli.FormatSuccess("Wrote "+path))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	xlsx := filepath.Join(outDir, p.cfg.ReportFile)
	if err := report.WriteExcel(xlsx, rep, report.ExcelOptions{
		CategoricalColor: p.cfg.CategoricalColor,
		NumericalColor:   p.cfg.NumericalColor,
		RunID:            p.RunID,
	}); err != nil {
		return nil, err
	}
	wrote(xlsx)

	if req.Markdown {
		md := filepath.Join(outDir, MarkdownFile)
		if err := utils.SafeWriteFile(md, []byte(rep.Markdown())); err != nil {
			return nil, err
		}
		wrote(md)
	}

	if !req.NoCharts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		opt := charts.DefaultOptions()
		opt.Fields = p.cfg.Fields()
		age := filepath.Join(outDir, charts.AgeFile)
		if err := charts.Age(ds, age, opt); err != nil {
			return nil, err
		}
		wrote(age)
		recovery := filepath.Join(outDir, charts.RecoveryFile)
		if err := charts.Recovery(ds, recovery, opt); err != nil {
			return nil, err
		}
		wrote(recovery)
	}

	if req.Clusters || p.cfg.ClusterHeatmap {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dopt := distance.Options{WarnRows: p.cfg.DistanceWarnRows, Logger: p.log}
		if warn := p.cfg.DistanceWarnRows; warn > 0 && ds.NumRows() > warn {
			fmt.Fprintln(p.out, cli.FormatWarning(fmt.Sprintf(
				"%d rows: the distance matrix holds %d cells and may be slow to compute", ds.NumRows(), ds.NumRows()*ds.NumRows())))
		}
		if p.ShowProgress {
			dopt.Progress = cli.Progress(p.out, "Computing distances")
		}
		m, err := distance.Compute(ds, dopt)
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		link, err := distance.AverageLinkage(m)
		if err != nil {
			return nil, err
		}
		res.Linkage = link
		p.log.Debug("linkage computed", slog.Int("merges", len(link)))
		heat := filepath.Join(outDir, charts.HeatmapFile)
		if err := charts.Heatmap(m, link, heat); err != nil {
			return nil, err
		}
		wrote(heat)
	}
	return res, nil
}

// Output formats of Introduce.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// IntroduceRequest names the dataset and the patient to print.
type IntroduceRequest struct {
	Dataset   string
	Separator string
	Sheet     string
	ID        int
	Format    string
	// Group labels the record set; empty keeps the default.
	Group string
}

// Introduce prints the record with the requested identifier.
func (p *Pipeline) Introduce(ctx context.Context, req IntroduceRequest) (records.Record, error) {
	format := strings.ToLower(req.Format)
	if format == "" {
		format = FormatText
	}
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return records.Record{}, common.E(common.ErrConfig, "pipeline.Introduce", "unknown format %q (text, json, yaml)", req.Format)
	}
	ds, err := p.load(req.Dataset, req.Separator, req.Sheet)
	if err != nil {
		return records.Record{}, err
	}
	if err := ctx.Err(); err != nil {
		return records.Record{}, err
	}
	set, err := records.Build(ds, p.cfg.Fields(), p.cfg.IDOffset)
	if err != nil {
		return records.Record{}, err
	}
	if req.Group != "" {
		set = set.WithGroup(req.Group)
	}
	first, last := set.Range()
	p.log.Debug("records indexed", slog.Int("records", set.Len()), slog.String("group", set.Group()),
		slog.String("ids", strconv.Itoa(first)+".."+strconv.Itoa(last)))

	rec, err := set.Lookup(req.ID)
	if err != nil {
		return records.Record{}, err
	}
	switch format {
	case FormatJSON:
		b, err := utils.PrettyJSON(rec)
		if err != nil {
			return records.Record{}, err
		}
		fmt.Fprintln(p.out, string(b))
	case FormatYAML:
		b, err := yaml.Marshal(rec)
		if err != nil {
			return records.Record{}, fmt.Errorf("marshal yaml: %w", err)
		}
		fmt.Fprint(p.out, string(b))
	default:
		fmt.Fprint(p.out, rec.String())
	}
	return rec, nil
}
