package report

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var (
	totalColor    = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	granularColor = color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff}
)

// ChartConfig controls the rendered image.
type ChartConfig struct {
	Path   string
	Width  vg.Length
	Height vg.Length
	DPI    int
	Title  string
}

// DefaultChartConfig is an 8x4 inch, 300 dpi PNG.
func DefaultChartConfig(path string) ChartConfig {
	return ChartConfig{
		Path:   path,
		Width:  8 * vg.Inch,
		Height: 4 * vg.Inch,
		DPI:    300,
	}
}

// logBars draws one bar per value from a common floor, which a log scale
// needs since it cannot reach zero.
type logBars struct {
	values []float64
	colors []color.Color
	floor  float64
	width  vg.Length
}

func (b *logBars) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	bottom := trY(b.floor)
	for i, v := range b.values {
		x := trX(float64(i))
		if !c.ContainsX(x) {
			continue
		}
		top := trY(v)
		pts := []vg.Point{
			{X: x - b.width/2, Y: bottom},
			{X: x - b.width/2, Y: top},
			{X: x + b.width/2, Y: top},
			{X: x + b.width/2, Y: bottom},
		}
		c.FillPolygon(b.colors[i], c.ClipPolygonY(pts))
	}
}

func (b *logBars) DataRange() (xmin, xmax, ymin, ymax float64) {
	ymax = b.floor
	for _, v := range b.values {
		ymax = math.Max(ymax, v)
	}
	return -0.5, float64(len(b.values)) - 0.5, b.floor, ymax
}

type meanErrors struct {
	plotter.XYs
	plotter.YErrors
}

// Render draws a log-scale bar chart of the summaries with standard
// deviation error bars and writes it as PNG to cfg.Path.
func Render(t *Table, cfg ChartConfig) error {
	sums := t.Summaries()
	if len(sums) == 0 {
		return errors.New("render: empty table")
	}

	floor := logFloor(sums)
	bars := &logBars{
		values: make([]float64, len(sums)),
		colors: make([]color.Color, len(sums)),
		floor:  floor,
		width:  vg.Points(14),
	}
	errs := meanErrors{
		XYs:     make(plotter.XYs, len(sums)),
		YErrors: make(plotter.YErrors, len(sums)),
	}
	names := make([]string, len(sums))
	for i, s := range sums {
		mean := s.Mean
		if !(mean > floor) {
			mean = floor
		}
		std := s.Std
		if math.IsNaN(std) {
			std = 0
		}
		bars.values[i] = mean
		bars.colors[i] = totalColor
		if s.Phase == Granular {
			bars.colors[i] = granularColor
		}
		errs.XYs[i] = plotter.XY{X: float64(i), Y: mean}
		errs.YErrors[i].Low = math.Min(std, mean-floor)
		errs.YErrors[i].High = std
		names[i] = s.Label
	}

	p := plot.New()
	p.Title.Text = cfg.Title
	p.Y.Label.Text = "Log of time (s)"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	eb, err := plotter.NewYErrorBars(errs)
	if err != nil {
		return fmt.Errorf("render error bars: %w", err)
	}
	eb.CapWidth = vg.Points(6)
	p.Add(bars, eb)
	p.NominalX(names...)
	p.X.Min, p.X.Max = -0.5, float64(len(sums))-0.5

	return savePNG(p, cfg)
}

// logFloor returns a power of ten below every bar and error-bar low end.
func logFloor(sums []Summary) float64 {
	lowest := math.Inf(1)
	for _, s := range sums {
		if !(s.Mean > 0) {
			continue
		}
		lo := s.Mean
		if s.Std > 0 && s.Mean-s.Std > 0 {
			lo = s.Mean - s.Std
		}
		lowest = math.Min(lowest, lo)
	}
	if math.IsInf(lowest, 1) {
		return 1e-9
	}
	return math.Pow(10, math.Floor(math.Log10(lowest))-1)
}

func savePNG(p *plot.Plot, cfg ChartConfig) error {
	c := vgimg.NewWith(vgimg.UseWH(cfg.Width, cfg.Height), vgimg.UseDPI(cfg.DPI))
	p.Draw(draw.New(c))

	f, err := os.Create(cfg.Path)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write chart: %w", err)
	}
	return f.Close()
}
