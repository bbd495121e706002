package charts

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/dana-cli/internal/dataset"
)

const barWidth = 22 // points

// Age writes the age distribution and the age-by-sex distribution side by side.
func Age(ds *dataset.Dataset, path string, opt Options) error {
	cols, err := columns(ds, opt.Fields.Age, opt.Fields.Sex)
	if err != nil {
		return err
	}
	ages, sexes := cols[0], cols[1]
	groups := ordered(opt.AgeGroups, ages)
	bySex := tabulate(ages, sexes)

	dist := plot.New()
	dist.Title.Text = "Age distribution"
	dist.X.Label.Text = "Age group"
	dist.Y.Label.Text = "Total number"
	for i, g := range groups {
		vals := make(plotter.Values, len(groups))
		vals[i] = float64(bySex.total(g))
		bars, err := plotter.NewBarChart(vals, vg.Points(barWidth))
		if err != nil {
			return fmt.Errorf("age bars: %w", err)
		}
		bars.Color = pick(ageColors, i)
		bars.LineStyle.Width = 0
		dist.Add(bars)
	}
	dist.NominalX(groups...)

	split := plot.New()
	split.Title.Text = "Age distribution by sex"
	split.X.Label.Text = "Age group"
	split.Y.Label.Text = "Total number"
	split.Legend.Top = true
	w := vg.Points(barWidth * 0.6)
	for k, s := range opt.Sexes {
		vals := make(plotter.Values, len(groups))
		for i, g := range groups {
			vals[i] = float64(bySex[g][s])
		}
		bars, err := plotter.NewBarChart(vals, w)
		if err != nil {
			return fmt.Errorf("age by sex bars: %w", err)
		}
		bars.Color = pick(sexColors, k)
		bars.LineStyle.Width = 0
		bars.Offset = w * vg.Length(float64(k)-float64(len(opt.Sexes)-1)/2)
		split.Add(bars)
		split.Legend.Add(s, bars)
	}
	split.NominalX(groups...)

	return saveRow(path, dist, split)
}

// Recovery writes the outcome share per age group and per sex as stacked percentage bars.
func Recovery(ds *dataset.Dataset, path string, opt Options) error {
	cols, err := columns(ds, opt.Fields.Age, opt.Fields.Sex, opt.Fields.Status)
	if err != nil {
		return err
	}
	ages, sexes, status := cols[0], cols[1], cols[2]

	byAge, err := stackedShares("Outcome by age group", "Age group",
		ordered(opt.AgeGroups, ages), opt.Outcomes, tabulate(ages, status))
	if err != nil {
		return err
	}
	bySex, err := stackedShares("Outcome by sex", "Sex",
		ordered(opt.Sexes, sexes), opt.Outcomes, tabulate(sexes, status))
	if err != nil {
		return err
	}
	return saveRow(path, byAge, bySex)
}

// shares converts the outcome counts of each group to percentages of the listed outcomes.
// A group with none of the outcomes gets zero everywhere.
func shares(groups, outcomes []string, tab crossTab) [][]float64 {
	out := make([][]float64, len(outcomes))
	for k := range out {
		out[k] = make([]float64, len(groups))
	}
	for i, g := range groups {
		total := 0
		for _, o := range outcomes {
			total += tab[g][o]
		}
		if total == 0 {
			continue
		}
		for k, o := range outcomes {
			out[k][i] = float64(tab[g][o]) * 100 / float64(total)
		}
	}
	return out
}

func stackedShares(title, xlabel string, groups, outcomes []string, tab crossTab) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = "Patients"
	p.Y.Min, p.Y.Max = 0, 110
	ticks := make([]plot.Tick, 0, 6)
	for v := 0; v <= 100; v += 20 {
		ticks = append(ticks, plot.Tick{Value: float64(v), Label: fmt.Sprintf("%d%%", v)})
	}
	p.Y.Tick.Marker = plot.ConstantTicks(ticks)
	p.Legend.Top = true

	var below *plotter.BarChart
	for k, vals := range shares(groups, outcomes, tab) {
		bars, err := plotter.NewBarChart(plotter.Values(vals), vg.Points(barWidth))
		if err != nil {
			return nil, fmt.Errorf("outcome bars: %w", err)
		}
		bars.Color = pick(outcomeColors, k)
		bars.LineStyle.Width = 0
		if below != nil {
			bars.StackOn(below)
		}
		p.Add(bars)
		p.Legend.Add(outcomes[k], bars)
		below = bars
	}
	p.NominalX(groups...)
	return p, nil
}
