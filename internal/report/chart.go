package report

import (
	"fmt"
	"os"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"StockCurator/internal/model"
)

// column pulls one plottable line out of a series, skipping missing values
// so the renderer never sees NaN.
func column(s *model.Series, get func(*model.PricePoint) float64) ([]time.Time, []float64) {
	xs := make([]time.Time, 0, s.Len())
	ys := make([]float64, 0, s.Len())
	for i := range s.Points {
		v := get(&s.Points[i])
		if model.IsMissing(v) {
			continue
		}
		xs = append(xs, s.Points[i].Date)
		ys = append(ys, v)
	}
	return xs, ys
}

func renderPNG(path string, graph chart.Chart) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// RenderPriceChart writes a PNG of the close price with SMA and EMA overlays.
func RenderPriceChart(path string, s *model.Series) error {
	closeX, closeY := column(s, func(p *model.PricePoint) float64 { return p.Close })
	smaX, smaY := column(s, func(p *model.PricePoint) float64 { return p.SMA20 })
	emaX, emaY := column(s, func(p *model.PricePoint) float64 { return p.EMA20 })
	if len(closeY) == 0 {
		return fmt.Errorf("no close prices to plot")
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s Close Prices with SMA & EMA", s.Symbol),
		Width:  1200,
		Height: 500,
		XAxis:  chart.XAxis{ValueFormatter: chart.TimeDateValueFormatter},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Close Price",
				XValues: closeX,
				YValues: closeY,
				Style:   chart.Style{StrokeColor: chart.ColorBlue},
			},
			chart.TimeSeries{
				Name:    "SMA 20",
				XValues: smaX,
				YValues: smaY,
				Style:   chart.Style{StrokeColor: chart.ColorGreen},
			},
			chart.TimeSeries{
				Name:    "EMA 20",
				XValues: emaX,
				YValues: emaY,
				Style:   chart.Style{StrokeColor: chart.ColorOrange},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return renderPNG(path, graph)
}

// RenderSpikeChart writes a PNG of the close price with outlier days marked.
func RenderSpikeChart(path string, s *model.Series, outliers []model.PricePoint) error {
	closeX, closeY := column(s, func(p *model.PricePoint) float64 { return p.Close })
	if len(closeY) == 0 {
		return fmt.Errorf("no close prices to plot")
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s Close Prices with Spikes Highlighted", s.Symbol),
		Width:  1200,
		Height: 500,
		XAxis:  chart.XAxis{ValueFormatter: chart.TimeDateValueFormatter},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Close Price",
				XValues: closeX,
				YValues: closeY,
				Style:   chart.Style{StrokeColor: chart.ColorBlue},
			},
		},
	}

	if len(outliers) > 0 {
		spikeX := make([]time.Time, len(outliers))
		spikeY := make([]float64, len(outliers))
		for i, p := range outliers {
			spikeX[i] = p.Date
			spikeY[i] = p.Close
		}
		graph.Series = append(graph.Series, chart.TimeSeries{
			Name:    "Spike",
			XValues: spikeX,
			YValues: spikeY,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    5,
				DotColor:    chart.ColorRed,
			},
		})
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return renderPNG(path, graph)
}
